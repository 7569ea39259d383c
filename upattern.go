// Package upattern implements Lua-style patterns over Unicode text.
//
// Patterns are not regular expressions: there is no alternation and no
// grouping beyond captures. They are interpreted directly, one item at a
// time, by a backtracking matcher that works on code points. The same
// matcher runs over UTF-8 strings and UTF-16 code units.
//
// Syntax summary:
//
//	.         any code point
//	%a %c %d  letters, control characters, digits
//	%l %p %s  lowercase, punctuation, space
//	%u %w %x  uppercase, alphanumerics, hexadecimal digits
//	%z        the code point 0
//	%A ...    uppercase class letters are the complement
//	%!a ...   '!' before a class letter is the complement as well
//	%x        (x not alphanumeric) the literal x
//	[set]     union of members, ranges (a-z) and escapes; [^set] negates
//	* + - ?   greedy 0+, greedy 1+, lazy 0+, optional
//	(...) ()  capture, position capture
//	%1-%9     backreference to a closed capture
//	%bxy      balanced text between x and y
//	%f[set]   frontier: previous code point not in set, current in set
//	^ $       anchors at pattern start and end
//
// The matcher has no protection against catastrophic backtracking.
package upattern

import (
	"strconv"
	"unicode/utf16"
)

// Text is the set of supported encodings: UTF-8 strings and UTF-16 code
// units.
type Text interface {
	string | []uint16
}

// Flag is a bitmask of pattern options.
// The zero value gives Unicode classes and full pattern syntax.
type Flag uint8

const (
	// Escape classes (%a, %d, ...) use the C locale ASCII definitions of Lua's
	// string library instead of Unicode properties.
	FlagASCII Flag = 1 << iota

	// The pattern is literal text. Every special character is escaped before
	// matching.
	FlagPlain
)

// Capture is one captured value.
type Capture[S Text] struct {
	// Value is the captured text. It is empty for position captures.
	Value S
	// Position is the 1-based code point index recorded by a position
	// capture "()", or 0 for text captures.
	Position int
}

// IsPosition reports whether c was produced by "()".
func (c Capture[S]) IsPosition() bool {
	return c.Position > 0
}

// Result holds a successful Find.
type Result[S Text] struct {
	// Start and End are the 1-based code point indices of the first and last
	// code point of the match. For an empty match End is Start-1.
	Start int
	End   int
	// Captures are the explicit captures of the pattern, in order.
	Captures []Capture[S]
}

// Pattern is a pattern text together with its flags.
// It is never compiled: every operation reads the pattern text from the
// start. A Pattern is safe for concurrent use.
type Pattern[S Text] struct {
	text  S
	flags Flag
}

// New returns a Pattern for the given text. It never fails; malformed
// patterns are reported by the operation that runs into the problem.
func New[S Text](pattern S, flags Flag) *Pattern[S] {
	if flags&FlagPlain != 0 {
		pattern = QuoteMeta(pattern)
	}
	return &Pattern[S]{text: pattern, flags: flags}
}

// Find looks for the first match in s at or after init and returns its
// bounds and captures, or nil if there is none.
//
// init is a 1-based code point index; negative values count from the end
// and 0 is the same as 1.
func (p *Pattern[S]) Find(s S, init int) (*Result[S], error) {
	return FindIn(newSource(s), newSource(p.text), init, p.flags)
}

// Match is like Find but returns only the captures. With no explicit
// captures the whole match is returned as the single capture.
// It returns nil if there is no match.
func (p *Pattern[S]) Match(s S, init int) ([]Capture[S], error) {
	return MatchIn(newSource(s), newSource(p.text), init, p.flags)
}

// Gsub returns a copy of s in which up to n matches are replaced as repl
// describes, and the number of replacements made. n < 0 replaces every
// match.
func (p *Pattern[S]) Gsub(s S, repl Replacement[S], n int) (S, int, error) {
	return GsubIn(newSource(s), newSource(p.text), repl, n, p.flags)
}

// Gmatch returns an iterator over the successive matches in s.
func (p *Pattern[S]) Gmatch(s S) *Iterator[S] {
	return GmatchIn(newSource(s), newSource(p.text), p.flags)
}

// Find is New(pattern, 0).Find(s, init).
func Find[S Text](s, pattern S, init int) (*Result[S], error) {
	return New(pattern, 0).Find(s, init)
}

// Match is New(pattern, 0).Match(s, init).
func Match[S Text](s, pattern S, init int) ([]Capture[S], error) {
	return New(pattern, 0).Match(s, init)
}

// Gsub is New(pattern, 0).Gsub(s, repl, n).
func Gsub[S Text](s, pattern S, repl Replacement[S], n int) (S, int, error) {
	return New(pattern, 0).Gsub(s, repl, n)
}

// Gmatch is New(pattern, 0).Gmatch(s).
func Gmatch[S Text](s, pattern S) *Iterator[S] {
	return New(pattern, 0).Gmatch(s)
}

func isSpecial(r rune) bool {
	switch r {
	case '^', '$', '(', ')', '%', '.', '[', ']', '*', '+', '-', '?':
		return true
	}
	return false
}

// QuoteMeta returns s with every special pattern character escaped, so that
// the result matches exactly s.
func QuoteMeta[S Text](s S) S {
	src := newSource(s)
	out := src.NewOutput()
	percent := fromString[S]("%")
	for src.Current() != Sentinel {
		start := src.State()
		if isSpecial(src.Current()) {
			out.AddText(percent)
		}
		out.AddRange(start, src.Next())
	}
	return out.Text()
}

func fromString[S Text](s string) S {
	var zero S
	if _, ok := any(zero).(string); ok {
		return any(s).(S)
	}
	return any(utf16.Encode([]rune(s))).(S)
}

func toString[S Text](s S) string {
	switch v := any(s).(type) {
	case string:
		return v
	case []uint16:
		return string(utf16.Decode(v))
	}
	return ""
}

func itoa[S Text](i int) S {
	return fromString[S](strconv.Itoa(i))
}
