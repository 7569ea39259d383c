package upattern

import (
	"strings"
	"unicode/utf8"
)

// UTF8Cursor is a [Cursor] over UTF-8 text. Positions are byte offsets.
// Invalid bytes decode as utf8.RuneError one byte at a time.
type UTF8Cursor struct {
	s   string
	pos int
}

var _ Source[string] = (*UTF8Cursor)(nil)

// NewUTF8Cursor returns a cursor positioned at the start of s.
func NewUTF8Cursor(s string) *UTF8Cursor {
	return &UTF8Cursor{s: s}
}

func (c *UTF8Cursor) Current() rune {
	if c.pos >= len(c.s) {
		return Sentinel
	}
	r, _ := utf8.DecodeRuneInString(c.s[c.pos:])
	return r
}

func (c *UTF8Cursor) Next() Pos {
	if c.pos < len(c.s) {
		_, size := utf8.DecodeRuneInString(c.s[c.pos:])
		c.pos += size
	}
	return Pos(c.pos)
}

func (c *UTF8Cursor) Previous() Pos {
	if c.pos > 0 {
		_, size := utf8.DecodeLastRuneInString(c.s[:c.pos])
		c.pos -= size
	}
	return Pos(c.pos)
}

func (c *UTF8Cursor) HasNext() bool     { return c.pos < len(c.s) }
func (c *UTF8Cursor) HasPrevious() bool { return c.pos > 0 }
func (c *UTF8Cursor) State() Pos        { return Pos(c.pos) }

func (c *UTF8Cursor) SetState(p Pos) {
	c.pos = min(max(int(p), 0), len(c.s))
}

func (c *UTF8Cursor) Move(n int, origin Origin) Pos {
	switch origin {
	case Start:
		c.pos = 0
	case End:
		c.pos = len(c.s)
	}
	moveBy(c, n)
	return Pos(c.pos)
}

func (c *UTF8Cursor) Index(origin Origin) int {
	switch origin {
	case Start:
		return utf8.RuneCountInString(c.s[:c.pos])
	case End:
		return utf8.RuneCountInString(c.s[c.pos:])
	}
	return 0
}

func (c *UTF8Cursor) Slice(start, end Pos) string {
	return c.s[start:end]
}

func (c *UTF8Cursor) NewOutput() Output[string] {
	return &utf8Output{src: c.s}
}

type utf8Output struct {
	src string
	b   strings.Builder
}

func (o *utf8Output) AddRange(start, end Pos) { o.b.WriteString(o.src[start:end]) }
func (o *utf8Output) AddText(s string)        { o.b.WriteString(s) }
func (o *utf8Output) Text() string            { return o.b.String() }
