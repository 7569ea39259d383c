package upattern

import (
	"unicode/utf16"
)

// UTF16Cursor is a [Cursor] over UTF-16 code units. Positions are code unit
// offsets. Surrogate pairs decode as one code point; a lone surrogate is
// returned as its own value.
type UTF16Cursor struct {
	s   []uint16
	pos int
}

var _ Source[[]uint16] = (*UTF16Cursor)(nil)

// NewUTF16Cursor returns a cursor positioned at the start of s.
// The cursor borrows s; it must not be modified while the cursor is in use.
func NewUTF16Cursor(s []uint16) *UTF16Cursor {
	return &UTF16Cursor{s: s}
}

func isHighSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDBFF
}
func isLowSurrogate(r rune) bool {
	return r >= 0xDC00 && r <= 0xDFFF
}

// decodeAt returns the code point at i and its width in code units.
func (c *UTF16Cursor) decodeAt(i int) (rune, int) {
	r := rune(c.s[i])
	if isHighSurrogate(r) && i+1 < len(c.s) {
		if lo := rune(c.s[i+1]); isLowSurrogate(lo) {
			return utf16.DecodeRune(r, lo), 2
		}
	}
	return r, 1
}

func (c *UTF16Cursor) Current() rune {
	if c.pos >= len(c.s) {
		return Sentinel
	}
	r, _ := c.decodeAt(c.pos)
	return r
}

func (c *UTF16Cursor) Next() Pos {
	if c.pos < len(c.s) {
		_, size := c.decodeAt(c.pos)
		c.pos += size
	}
	return Pos(c.pos)
}

func (c *UTF16Cursor) Previous() Pos {
	if c.pos == 0 {
		return 0
	}
	c.pos--
	if c.pos > 0 && isLowSurrogate(rune(c.s[c.pos])) && isHighSurrogate(rune(c.s[c.pos-1])) {
		c.pos--
	}
	return Pos(c.pos)
}

func (c *UTF16Cursor) HasNext() bool     { return c.pos < len(c.s) }
func (c *UTF16Cursor) HasPrevious() bool { return c.pos > 0 }
func (c *UTF16Cursor) State() Pos        { return Pos(c.pos) }

func (c *UTF16Cursor) SetState(p Pos) {
	c.pos = min(max(int(p), 0), len(c.s))
}

func (c *UTF16Cursor) Move(n int, origin Origin) Pos {
	switch origin {
	case Start:
		c.pos = 0
	case End:
		c.pos = len(c.s)
	}
	moveBy(c, n)
	return Pos(c.pos)
}

func (c *UTF16Cursor) count(from, to int) int {
	n := 0
	for i := from; i < to; {
		_, size := c.decodeAt(i)
		i += size
		n++
	}
	return n
}

func (c *UTF16Cursor) Index(origin Origin) int {
	switch origin {
	case Start:
		return c.count(0, c.pos)
	case End:
		return c.count(c.pos, len(c.s))
	}
	return 0
}

// Slice returns a subslice of the underlying code units.
func (c *UTF16Cursor) Slice(start, end Pos) []uint16 {
	return c.s[start:end:end]
}

func (c *UTF16Cursor) NewOutput() Output[[]uint16] {
	return &utf16Output{src: c.s, b: make([]uint16, 0, len(c.s))}
}

type utf16Output struct {
	src []uint16
	b   []uint16
}

func (o *utf16Output) AddRange(start, end Pos) { o.b = append(o.b, o.src[start:end]...) }
func (o *utf16Output) AddText(s []uint16)      { o.b = append(o.b, s...) }
func (o *utf16Output) Text() []uint16          { return o.b }
