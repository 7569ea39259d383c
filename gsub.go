package upattern

import (
	"strconv"
)

type replaceKind uint8

const (
	replaceTemplate replaceKind = iota
	replaceLookup
	replaceCallback
)

// Replacement describes what Gsub substitutes for each match.
// The zero value is the empty template, which deletes every match.
//
// Lookup and Callback functions yield dynamic values: S, string, int or
// float64 become the replacement text, nil or false keep the original
// match, and anything else aborts Gsub with ErrInvalidReplacement.
type Replacement[S Text] struct {
	kind     replaceKind
	template S
	lookup   func(match S) (any, error)
	callback func(captures []Capture[S]) (any, error)
}

// Template returns a Replacement that expands t for every match.
// In t, %0 stands for the whole match, %1 to %9 for the captures (the
// whole match is %1 when the pattern has no captures) and %x for a literal x.
func Template[S Text](t S) Replacement[S] {
	return Replacement[S]{kind: replaceTemplate, template: t}
}

// Lookup returns a Replacement that asks f for the text of each whole match.
func Lookup[S Text](f func(match S) (any, error)) Replacement[S] {
	return Replacement[S]{kind: replaceLookup, lookup: f}
}

// Callback returns a Replacement that passes the captures of each match to
// f; the whole match is the single capture when the pattern has none.
func Callback[S Text](f func(captures []Capture[S]) (any, error)) Replacement[S] {
	return Replacement[S]{kind: replaceCallback, callback: f}
}

// Map is a Lookup in m. Keys are the UTF-8 form of the match; matches
// without a key are kept.
func Map[S Text](m map[string]S) Replacement[S] {
	return Lookup(func(match S) (any, error) {
		if r, ok := m[toString(match)]; ok {
			return r, nil
		}
		return nil, nil
	})
}

// ResolveReplacement builds a Replacement from a value whose shape is only
// known at run time, the way a scripting host passes it: text and numbers
// are templates, maps are lookups, and functions are lookups or callbacks
// depending on their signature.
func ResolveReplacement[S Text](v any) (Replacement[S], error) {
	switch r := v.(type) {
	case Replacement[S]:
		return r, nil
	case S:
		return Template(r), nil
	case string:
		return Template(fromString[S](r)), nil
	case int:
		return Template(itoa[S](r)), nil
	case float64:
		return Template(fromString[S](formatNumber(r))), nil
	case map[string]S:
		return Map(r), nil
	case map[string]any:
		return Lookup(func(match S) (any, error) {
			return r[toString(match)], nil
		}), nil
	case func(S) (any, error):
		return Lookup(r), nil
	case func([]Capture[S]) (any, error):
		return Callback(r), nil
	}
	return Replacement[S]{}, newError(ErrInvalidReplacement, "string/function/table expected, got %T", v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 14, 64)
}

// replacementValue interprets a value yielded by a Lookup or Callback.
// keep reports that the original match stays.
func replacementValue[S Text](v any) (text S, keep bool, err error) {
	switch r := v.(type) {
	case nil:
		return text, true, nil
	case bool:
		if !r {
			return text, true, nil
		}
	case S:
		return r, false, nil
	case string:
		return fromString[S](r), false, nil
	case int:
		return itoa[S](r), false, nil
	case float64:
		return fromString[S](formatNumber(r)), false, nil
	}
	return text, false, newError(ErrInvalidReplacement, "%T", v)
}

// apply writes the replacement for the current match to out.
func (r *Replacement[S]) apply(ms *matchState, src Source[S], out Output[S]) error {
	start, end := ms.captures[0].start, ms.end
	var v any
	var err error
	switch r.kind {
	case replaceTemplate:
		r.expand(ms, src, out)
		return nil
	case replaceLookup:
		v, err = r.lookup(src.Slice(start, end))
	case replaceCallback:
		v, err = r.callback(pushCaptures(ms, src, true))
	}
	if err != nil {
		return err
	}
	text, keep, err := replacementValue[S](v)
	if err != nil {
		return err
	}
	if keep {
		out.AddRange(start, end)
	} else {
		out.AddText(text)
	}
	return nil
}

func (r *Replacement[S]) expand(ms *matchState, src Source[S], out Output[S]) {
	t := newSource(r.template)
	run := t.State()
	for t.Current() != Sentinel {
		if t.Current() != escape {
			t.Next()
			continue
		}
		percent := t.State()
		out.AddText(t.Slice(run, percent))
		t.Next()
		switch d := t.Current(); {
		case d == Sentinel:
			// A trailing '%' is kept as it is.
			run = percent
			continue
		case d == '0':
			out.AddRange(ms.captures[0].start, ms.end)
		case '1' <= d && d <= '9':
			l := int(d - '1')
			if l >= ms.level {
				raise(ErrInvalidCaptureIndex, "%%%c in replacement", d)
			}
			if c := captureAt(ms, src, l); c.IsPosition() {
				out.AddText(itoa[S](c.Position))
			} else {
				out.AddText(c.Value)
			}
		default:
			// %x is x itself: the next literal run starts at x.
			run = t.State()
			t.Next()
			continue
		}
		run = t.Next()
	}
	out.AddText(t.Slice(run, t.State()))
}

// gsubAux replaces up to limit matches (all if limit < 0) and returns the
// output text and the number of replacements.
func gsubAux[S Text](ms *matchState, src Source[S], repl *Replacement[S], limit int) (S, int, error) {
	p, s := ms.patt, ms.src
	out := src.NewOutput()
	anchor := p.Current() == '^'
	if anchor {
		p.Next()
	}
	pattStart := p.State()
	at := s.State()
	n := 0
	for limit < 0 || n < limit {
		ms.reset(s.State())
		if ms.match() {
			ms.end = s.State()
			if ms.level == 0 {
				ms.level = 1
				ms.captures[0].kind = captureClosed
				ms.captures[0].end = ms.end
			}
			if err := repl.apply(ms, src, out); err != nil {
				var zero S
				return zero, 0, err
			}
			n++
			at = ms.end
			if ms.captures[0].start == ms.end {
				// An empty match must still make progress.
				if s.Current() == Sentinel {
					break
				}
				at = s.Next()
				out.AddRange(ms.end, at)
			}
		} else {
			s.SetState(at)
			if s.Current() == Sentinel {
				break
			}
			prev := at
			at = s.Next()
			out.AddRange(prev, at)
		}
		if anchor {
			break
		}
		p.SetState(pattStart)
	}
	s.SetState(at)
	out.AddRange(at, s.Move(0, End))
	return out.Text(), n, nil
}

// GsubIn is [Pattern.Gsub] over caller supplied cursors.
func GsubIn[S Text](src Source[S], patt Cursor, repl Replacement[S], n int, flags Flag) (res S, count int, err error) {
	defer catch(&err)
	ms := matchState{src: src, patt: patt, flags: flags}
	return gsubAux(&ms, src, &repl, n)
}
