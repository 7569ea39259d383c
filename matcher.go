package upattern

// MaxCaptures is the number of captures a single pattern may declare.
const MaxCaptures = 32

type captureKind uint8

const (
	captureOpen captureKind = iota
	captureClosed
	capturePosition
)

type capture struct {
	start Pos
	end   Pos
	kind  captureKind
}

// matchState is the per-run record shared by the matcher and the drivers.
type matchState struct {
	src   Cursor
	patt  Cursor
	flags Flag

	// Number of captures declared so far, open or closed.
	level    int
	captures [MaxCaptures]capture
	// Subject position just past the whole match.
	end Pos
}

func (ms *matchState) reset(subjectStart Pos) {
	ms.level = 0
	ms.captures[0].start = subjectStart
}

func (ms *matchState) captureToClose() int {
	for l := ms.level - 1; l >= 0; l-- {
		if ms.captures[l].kind == captureOpen {
			return l
		}
	}
	raise(ErrMalformedPattern, "invalid pattern capture")
	return 0
}

func (ms *matchState) startCapture(kind captureKind) bool {
	l := ms.level
	if l >= MaxCaptures {
		raise(ErrCaptureOverflow, "more than %d", MaxCaptures)
	}
	pos := ms.src.State()
	ms.captures[l] = capture{start: pos, end: pos, kind: kind}
	ms.level++
	if !ms.match() {
		ms.level--
		return false
	}
	return true
}

func (ms *matchState) endCapture() bool {
	l := ms.captureToClose()
	ms.captures[l].end = ms.src.State()
	ms.captures[l].kind = captureClosed
	if !ms.match() {
		ms.captures[l].kind = captureOpen
		return false
	}
	return true
}

// matchBalance handles %bxy with the pattern cursor just past the 'b'.
// The scan is atomic: it never retries at an inner balance point.
func (ms *matchState) matchBalance() bool {
	p, s := ms.patt, ms.src
	open := p.Current()
	if open == Sentinel {
		raise(ErrMalformedPattern, "missing arguments to '%%b'")
	}
	p.Next()
	closing := p.Current()
	if closing == Sentinel {
		raise(ErrMalformedPattern, "missing arguments to '%%b'")
	}
	p.Next()
	if s.Current() != open {
		return false
	}
	start := s.State()
	depth := 1
	for s.Next(); s.Current() != Sentinel; s.Next() {
		switch s.Current() {
		case closing:
			if depth--; depth == 0 {
				s.Next()
				return true
			}
		case open:
			depth++
		}
	}
	s.SetState(start)
	return false
}

// matchFrontier handles %f[set] with the pattern cursor just past the 'f'.
func (ms *matchState) matchFrontier() bool {
	p, s := ms.patt, ms.src
	if p.Current() != '[' {
		raise(ErrMalformedPattern, "missing '[' after '%%f' in pattern")
	}
	setEnd := ms.classEnd()
	previous := rune(0)
	if s.HasPrevious() {
		at := s.State()
		s.Previous()
		previous = s.Current()
		s.SetState(at)
	}
	if ms.matchBracket(previous, setEnd) || !ms.matchBracket(s.Current(), setEnd) {
		return false
	}
	p.SetState(setEnd)
	return true
}

// checkCapture validates the backreference digit l.
func (ms *matchState) checkCapture(l rune) int {
	i := int(l - '1')
	if i < 0 || i >= ms.level || ms.captures[i].kind != captureClosed {
		raise(ErrInvalidCaptureIndex, "%%%c", l)
	}
	return i
}

// matchCapture compares the subject at the cursor with capture l and, on
// success, leaves the subject just past the repeated text.
func (ms *matchState) matchCapture(l rune) bool {
	c := ms.captures[ms.checkCapture(l)]
	s := ms.src
	at := s.State()
	for captured := c.start; captured < c.end; {
		s.SetState(captured)
		want := s.Current()
		captured = s.Next()
		s.SetState(at)
		if s.Current() != want {
			s.SetState(at)
			return false
		}
		at = s.Next()
	}
	return true
}

// maxExpand matches the item starting under the pattern cursor (ending at
// itemEnd) as often as possible, then gives back one repetition at a time
// until the rest of the pattern matches.
func (ms *matchState) maxExpand(itemEnd Pos) bool {
	p, s := ms.patt, ms.src
	i := 0
	for ms.singleMatch(s.Current(), itemEnd) {
		s.Next()
		i++
	}
	p.SetState(itemEnd)
	rest := p.Next()
	for ; i >= 0; i-- {
		at := s.State()
		if ms.match() {
			return true
		}
		p.SetState(rest)
		s.SetState(at)
		s.Previous()
	}
	return false
}

// minExpand is maxExpand the other way round: try the rest first and take
// one more repetition only when that fails.
func (ms *matchState) minExpand(itemEnd Pos) bool {
	p, s := ms.patt, ms.src
	itemStart := p.State()
	p.SetState(itemEnd)
	rest := p.Next()
	for {
		at := s.State()
		if ms.match() {
			return true
		}
		s.SetState(at)
		p.SetState(itemStart)
		if !ms.singleMatch(s.Current(), itemEnd) {
			return false
		}
		s.Next()
		p.SetState(rest)
	}
}

// match reports whether the pattern from the pattern cursor matches the
// subject from the subject cursor. Both cursors are consumed; on success the
// subject cursor is just past the match.
//
// Every construct that simply continues with the rest of the pattern loops
// back to the top instead of recursing, so the call depth only grows with
// captures and quantifiers.
func (ms *matchState) match() bool {
	p, s := ms.patt, ms.src
	for {
		switch p.Current() {
		case Sentinel:
			return true
		case '(':
			p.Next()
			if p.Current() == ')' {
				p.Next()
				return ms.startCapture(capturePosition)
			}
			return ms.startCapture(captureOpen)
		case ')':
			p.Next()
			return ms.endCapture()
		case '$':
			at := p.State()
			if p.Next(); p.Current() == Sentinel {
				return s.Current() == Sentinel
			}
			p.SetState(at)
		case escape:
			at := p.State()
			p.Next()
			switch next := p.Current(); {
			case next == 'b':
				p.Next()
				if !ms.matchBalance() {
					return false
				}
				continue
			case next == 'f':
				p.Next()
				if !ms.matchFrontier() {
					return false
				}
				continue
			case '0' <= next && next <= '9':
				if !ms.matchCapture(next) {
					return false
				}
				p.Next()
				continue
			}
			p.SetState(at)
		}

		// A single item, maybe followed by a quantifier.
		itemStart := p.State()
		itemEnd := ms.classEnd()
		m := ms.singleMatch(s.Current(), itemEnd)
		p.SetState(itemEnd)
		switch p.Current() {
		case '?':
			rest := p.Next()
			if m {
				at := s.State()
				s.Next()
				if ms.match() {
					return true
				}
				s.SetState(at)
				p.SetState(rest)
			}
			continue
		case '+':
			if !m {
				return false
			}
			s.Next()
			p.SetState(itemStart)
			return ms.maxExpand(itemEnd)
		case '*':
			p.SetState(itemStart)
			return ms.maxExpand(itemEnd)
		case '-':
			p.SetState(itemStart)
			return ms.minExpand(itemEnd)
		}
		if !m {
			return false
		}
		s.Next()
	}
}
