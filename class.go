package upattern

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

const escape = '%'

var (
	// C's ispunct: printable, not space, not alnum. In Unicode terms that is
	// punctuation plus symbols.
	punctTable = rangetable.Merge(unicode.P, unicode.S)
	alnumTable = rangetable.Merge(unicode.L, unicode.Nd)
	// ASCII hex digits and their fullwidth forms.
	hexTable = rangetable.New(
		'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		'A', 'B', 'C', 'D', 'E', 'F', 'a', 'b', 'c', 'd', 'e', 'f',
		'０', '１', '２', '３', '４', '５', '６', '７', '８', '９',
		'Ａ', 'Ｂ', 'Ｃ', 'Ｄ', 'Ｅ', 'Ｆ', 'ａ', 'ｂ', 'ｃ', 'ｄ', 'ｅ', 'ｆ',
	)
)

func lowerASCII(c rune) rune {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isASCIILower(c rune) bool {
	return 'a' <= c && c <= 'z'
}

// classUnicode reports whether c belongs to the class named by the
// lowercase letter cl. ok is false if cl names no class.
func classUnicode(c, cl rune) (res, ok bool) {
	switch cl {
	case 'a':
		return unicode.IsLetter(c), true
	case 'c':
		return unicode.IsControl(c), true
	case 'd':
		return unicode.IsDigit(c), true
	case 'l':
		return unicode.IsLower(c), true
	case 'p':
		return unicode.Is(punctTable, c), true
	case 's':
		return unicode.IsSpace(c), true
	case 'u':
		return unicode.IsUpper(c), true
	case 'w':
		return unicode.Is(alnumTable, c), true
	case 'x':
		return unicode.Is(hexTable, c), true
	case 'z':
		return c == 0, true
	}
	return false, false
}

// classASCII is classUnicode with the C locale definitions used by Lua's
// own string library.
func classASCII(c, cl rune) (res, ok bool) {
	switch cl {
	case 'a':
		return isASCIILower(lowerASCII(c)), true
	case 'c':
		return 0 <= c && c <= 0x1f || c == 0x7f, true
	case 'd':
		return '0' <= c && c <= '9', true
	case 'l':
		return isASCIILower(c), true
	case 'p':
		return 0x21 <= c && c <= 0x2f || 0x3a <= c && c <= 0x40 ||
			0x5b <= c && c <= 0x60 || 0x7b <= c && c <= 0x7e, true
	case 's':
		return c == ' ' || '\t' <= c && c <= '\r', true
	case 'u':
		return 'A' <= c && c <= 'Z', true
	case 'w':
		return '0' <= c && c <= '9' || isASCIILower(lowerASCII(c)), true
	case 'x':
		return '0' <= c && c <= '9' || 'a' <= lowerASCII(c) && lowerASCII(c) <= 'f', true
	case 'z':
		return c == 0, true
	}
	return false, false
}

// matchClass reports whether c matches the escape %cl. An uppercase class
// letter is the complement of its lowercase form; a character that names no
// class matches itself.
func (ms *matchState) matchClass(c, cl rune) bool {
	lookup := classUnicode
	if ms.flags&FlagASCII != 0 {
		lookup = classASCII
	}
	res, ok := lookup(c, lowerASCII(cl))
	if !ok {
		return cl == c
	}
	if isASCIILower(cl) {
		return res
	}
	return !res
}

// matchEscape matches c against the escape whose first character (after
// the %) is under p: either a class letter or '!' plus a class letter, the
// complement. p is restored before returning.
func (ms *matchState) matchEscape(c rune, p Cursor) bool {
	saved := p.State()
	defer p.SetState(saved)
	cl := p.Current()
	if cl == '!' {
		p.Next()
		return !ms.matchClass(c, p.Current())
	}
	return ms.matchClass(c, cl)
}

// classEnd returns the position just past the pattern item under the
// pattern cursor without moving it.
func (ms *matchState) classEnd() Pos {
	p := ms.patt
	saved := p.State()
	defer p.SetState(saved)
	switch p.Current() {
	case escape:
		p.Next()
		if p.Current() == '!' {
			p.Next()
			if p.Current() == Sentinel {
				raise(ErrMalformedPattern, "ends with '%%!'")
			}
		} else if p.Current() == Sentinel {
			raise(ErrMalformedPattern, "ends with '%%'")
		}
		return p.Next()
	case '[':
		p.Next()
		if p.Current() == '^' {
			p.Next()
		}
		// A ']' in first position is a member, not the terminator.
		if p.Current() == ']' {
			p.Next()
		}
		for {
			switch p.Current() {
			case Sentinel:
				raise(ErrMalformedPattern, "missing ']'")
			case ']':
				return p.Next()
			case escape:
				p.Next()
				if p.Current() == '!' {
					p.Next()
				}
				if p.Current() == Sentinel {
					raise(ErrMalformedPattern, "missing ']'")
				}
			}
			p.Next()
		}
	}
	return p.Next()
}

// singleMatch reports whether c matches the pattern item that starts under
// the pattern cursor and ends at end. Sentinel never matches.
func (ms *matchState) singleMatch(c rune, end Pos) bool {
	if c == Sentinel {
		return false
	}
	p := ms.patt
	switch p.Current() {
	case '.':
		return true
	case escape:
		saved := p.State()
		p.Next()
		m := ms.matchEscape(c, p)
		p.SetState(saved)
		return m
	case '[':
		return ms.matchBracket(c, end)
	}
	return p.Current() == c
}

// matchBracket matches c against the bracket set under the pattern cursor.
// end is the position just past its closing ']'.
func (ms *matchState) matchBracket(c rune, end Pos) bool {
	p := ms.patt
	saved := p.State()
	defer p.SetState(saved)

	p.SetState(end)
	closing := p.Previous()
	p.SetState(saved)

	sig := true
	p.Next()
	if p.Current() == '^' {
		sig = false
		p.Next()
	}
	for p.State() < closing {
		pc := p.Current()
		if pc == escape {
			p.Next()
			if ms.matchEscape(c, p) {
				return sig
			}
			if p.Current() == '!' {
				p.Next()
			}
			p.Next()
			continue
		}
		if pc == c {
			return sig
		}
		p.Next()
		if p.Current() == '-' {
			dash := p.State()
			p.Next()
			if p.State() < closing {
				if pc < c && c <= p.Current() {
					return sig
				}
				p.Next()
				continue
			}
			// A '-' right before ']' is a member of its own.
			p.SetState(dash)
		}
	}
	return !sig
}
