package upattern

// seek positions c at the 1-based code point index init. Negative values
// count back from the end; 0 leaves the cursor alone.
func seek(c Cursor, init int) {
	switch {
	case init > 0:
		c.Move(init-1, Start)
	case init < 0:
		c.Move(init, End)
	}
}

// matchAux tries the pattern at every subject position from the cursor to
// the end, or only at the cursor if the pattern starts with '^'. On success
// the captures are populated and ms.end marks the end of the match.
func (ms *matchState) matchAux() bool {
	p, s := ms.patt, ms.src
	anchor := p.Current() == '^'
	if anchor {
		p.Next()
	}
	pattStart := p.State()
	for {
		at := s.State()
		ms.reset(at)
		if ms.match() {
			ms.end = s.State()
			return true
		}
		p.SetState(pattStart)
		s.SetState(at)
		if anchor || s.Current() == Sentinel {
			return false
		}
		s.Next()
	}
}

// captureAt materializes capture i.
func captureAt[S Text](ms *matchState, src Source[S], i int) Capture[S] {
	c := ms.captures[i]
	switch c.kind {
	case capturePosition:
		return Capture[S]{Position: indexAt(src, c.start) + 1}
	case captureClosed:
		return Capture[S]{Value: src.Slice(c.start, c.end)}
	}
	raise(ErrUnfinishedCapture, "capture %d", i+1)
	return Capture[S]{}
}

// pushCaptures materializes every capture in declaration order. If the
// pattern declared none and whole is set, the whole match is returned as the
// only capture.
func pushCaptures[S Text](ms *matchState, src Source[S], whole bool) []Capture[S] {
	if ms.level == 0 {
		if !whole {
			return nil
		}
		return []Capture[S]{{Value: src.Slice(ms.captures[0].start, ms.end)}}
	}
	captures := make([]Capture[S], ms.level)
	for i := range captures {
		captures[i] = captureAt(ms, src, i)
	}
	return captures
}

// iterMatch runs one search from init. In find mode the result carries the
// match bounds and the explicit captures; otherwise only the captures, with
// the whole match standing in when there are none.
func iterMatch[S Text](ms *matchState, src Source[S], init int, find bool) *Result[S] {
	seek(src, init)
	if !ms.matchAux() {
		return nil
	}
	if !find {
		return &Result[S]{Captures: pushCaptures(ms, src, true)}
	}
	return &Result[S]{
		Start:    indexAt(src, ms.captures[0].start) + 1,
		End:      indexAt(src, ms.end),
		Captures: pushCaptures(ms, src, false),
	}
}

// FindIn is [Pattern.Find] over caller supplied cursors. FlagPlain has no
// effect here; quote the pattern with [QuoteMeta] instead.
func FindIn[S Text](src Source[S], patt Cursor, init int, flags Flag) (res *Result[S], err error) {
	defer catch(&err)
	ms := matchState{src: src, patt: patt, flags: flags}
	return iterMatch(&ms, src, init, true), nil
}

// MatchIn is [Pattern.Match] over caller supplied cursors.
func MatchIn[S Text](src Source[S], patt Cursor, init int, flags Flag) (captures []Capture[S], err error) {
	defer catch(&err)
	ms := matchState{src: src, patt: patt, flags: flags}
	if res := iterMatch(&ms, src, init, false); res != nil {
		return res.Captures, nil
	}
	return nil, nil
}
