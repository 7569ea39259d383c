package upattern

// Sentinel is returned by [Cursor.Current] when the cursor is past the last
// code point.
const Sentinel rune = -1

// Pos is an opaque cursor position.
// Positions are ordered like the code points they point at and stay valid
// across arbitrary cursor movement, but only against the sequence that
// produced them (any cursor over that same sequence accepts them).
type Pos int

// Origin selects the reference point of [Cursor.Move] and [Cursor.Index].
type Origin uint8

const (
	Start Origin = iota
	Current
	End
)

// Cursor is a bidirectional, repositionable view over a code point sequence.
// The matcher only ever talks to its subject and pattern through this
// interface, so it runs unchanged over every encoding that has an adapter.
type Cursor interface {
	// Current returns the code point at the cursor, or Sentinel at the end.
	Current() rune
	// Next advances one code point and returns the new position.
	// At the end it does not move.
	Next() Pos
	// Previous retreats one code point and returns the new position.
	// At the start it does not move.
	Previous() Pos
	HasNext() bool
	HasPrevious() bool
	State() Pos
	SetState(p Pos)
	// Move positions the cursor n code points away from origin, clamping
	// at both ends, and returns the new position.
	Move(n int, origin Origin) Pos
	// Index returns the number of code points between origin and the
	// cursor.
	Index(origin Origin) int
}

// Source is a Cursor over a concrete encoded text S that can hand out
// pieces of that text.
type Source[S Text] interface {
	Cursor
	// Slice returns the text between two positions of this source.
	Slice(start, end Pos) S
	// NewOutput returns an empty buffer that accepts ranges of this source.
	NewOutput() Output[S]
}

// Output is a growing text buffer used by Gsub.
type Output[S Text] interface {
	// AddRange appends the source text between start and end.
	AddRange(start, end Pos)
	// AddText appends arbitrary text of the same encoding.
	AddText(s S)
	Text() S
}

func newSource[S Text](s S) Source[S] {
	switch v := any(s).(type) {
	case string:
		return any(NewUTF8Cursor(v)).(Source[S])
	default:
		return any(NewUTF16Cursor(any(s).([]uint16))).(Source[S])
	}
}

// indexAt returns the code point index of p from the start of c.
// The cursor position is left untouched.
func indexAt(c Cursor, p Pos) int {
	saved := c.State()
	c.SetState(p)
	i := c.Index(Start)
	c.SetState(saved)
	return i
}

func moveBy(c Cursor, n int) {
	for ; n > 0 && c.HasNext(); n-- {
		c.Next()
	}
	for ; n < 0 && c.HasPrevious(); n++ {
		c.Previous()
	}
}
