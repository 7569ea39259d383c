package upattern

import "iter"

// Iterator walks the successive matches of a pattern in a subject.
// It keeps the subject position between calls, so each Next resumes where
// the previous match ended. An Iterator is not safe for concurrent use.
type Iterator[S Text] struct {
	ms     matchState
	src    Source[S]
	resume Pos
	// An empty match at the very end is reported once.
	emptyAtEnd bool
	done       bool
}

// GmatchIn is [Pattern.Gmatch] over caller supplied cursors. '^' has no
// special meaning at the start of a Gmatch pattern.
func GmatchIn[S Text](src Source[S], patt Cursor, flags Flag) *Iterator[S] {
	return &Iterator[S]{
		ms:     matchState{src: src, patt: patt, flags: flags},
		src:    src,
		resume: src.State(),
	}
}

// Next returns the captures of the next match, with the whole match standing
// in when the pattern has none. It returns nil, nil once the subject is
// exhausted. After an error the iterator stays exhausted.
func (it *Iterator[S]) Next() (captures []Capture[S], err error) {
	if it.done {
		return nil, nil
	}
	defer func() {
		if err != nil {
			it.done = true
		}
	}()
	defer catch(&err)
	captures = it.next()
	if captures == nil {
		it.done = true
	}
	return captures, nil
}

func (it *Iterator[S]) next() []Capture[S] {
	ms := &it.ms
	p, s := ms.patt, ms.src
	s.SetState(it.resume)
	for {
		ms.reset(s.State())
		p.Move(0, Start)
		if ms.match() {
			ms.end = s.State()
			it.resume = ms.end
			if ms.captures[0].start == ms.end {
				if !s.HasNext() {
					if it.emptyAtEnd {
						return nil
					}
					it.emptyAtEnd = true
				}
				it.resume = s.Next()
			}
			return pushCaptures(ms, it.src, true)
		}
		s.SetState(it.resume)
		if s.Current() == Sentinel {
			return nil
		}
		it.resume = s.Next()
	}
}

// All returns a range-over-func view of the remaining matches. Iteration
// stops after the first error, which is yielded with nil captures.
func (it *Iterator[S]) All() iter.Seq2[[]Capture[S], error] {
	return func(yield func([]Capture[S], error) bool) {
		for {
			captures, err := it.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if captures == nil || !yield(captures, nil) {
				return
			}
		}
	}
}
