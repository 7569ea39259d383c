package upattern

import (
	"testing"

	"gotest.tools/v3/assert"
)

// collect drains it, failing the test if it does not stop within limit
// calls.
func collect[S Text](t *testing.T, it *Iterator[S], limit int) [][]string {
	t.Helper()
	var res [][]string
	for range limit {
		captures, err := it.Next()
		assert.NilError(t, err)
		if captures == nil {
			return res
		}
		res = append(res, captureStrings(captures))
	}
	t.Fatalf("iterator did not stop after %d matches", limit)
	return nil
}

func TestGmatch(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    [][]string
	}{
		{"%a+", "one two three", [][]string{{"one"}, {"two"}, {"three"}}},
		{"(%w+)=(%w+)", "a=1, b=2", [][]string{{"a", "1"}, {"b", "2"}}},
		{"a*", "baa", [][]string{{""}, {"aa"}, {""}}},
		{"", "ab", [][]string{{""}, {""}, {""}}},
		{"", "", [][]string{{""}}},
		{"%a+", "", nil},
		{"x", "abc", nil},
		{"()", "ab", [][]string{{pos(1)}, {pos(2)}, {pos(3)}}},
		// '^' is not an anchor here.
		{"^a", "a^ab", [][]string{{"^a"}}},
		{".", "a" + cat, [][]string{{"a"}, {cat}}},
		{"%f[%w]%w+", "THE (quick) fox", [][]string{{"THE"}, {"quick"}, {"fox"}}},
	}
	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			got := collect(t, Gmatch(tc.subject, tc.pattern), 100)
			assert.DeepEqual(t, got, tc.want)

			got16 := collect(t, Gmatch(u16e(tc.subject), u16e(tc.pattern)), 100)
			assert.DeepEqual(t, got16, tc.want)
		})
	}
}

func TestGmatchExhausted(t *testing.T) {
	it := Gmatch("ab", "%a")
	assert.Equal(t, len(collect(t, it, 10)), 2)
	for range 3 {
		captures, err := it.Next()
		assert.NilError(t, err)
		assert.Assert(t, captures == nil)
	}
}

func TestGmatchError(t *testing.T) {
	it := Gmatch("abc", "%")
	_, err := it.Next()
	assert.ErrorIs(t, err, ErrMalformedPattern)

	captures, err := it.Next()
	assert.NilError(t, err)
	assert.Assert(t, captures == nil)

	// The error surfaces only once the bad construct is reached.
	it = Gmatch("ab(", "%a()%1")
	_, err = it.Next()
	assert.ErrorIs(t, err, ErrInvalidCaptureIndex)
}

func TestGmatchAll(t *testing.T) {
	var words []string
	for captures, err := range Gmatch("one two three", "%a+").All() {
		assert.NilError(t, err)
		words = append(words, captures[0].Value)
		if len(words) == 2 {
			break
		}
	}
	assert.DeepEqual(t, words, []string{"one", "two"})

	for range New("y", 0).Gmatch("x").All() {
		t.Fatal("unexpected match")
	}

	for captures, err := range Gmatch("x", "[").All() {
		assert.ErrorIs(t, err, ErrMalformedPattern)
		assert.Assert(t, captures == nil)
	}
}

func TestGmatchIndependentIterators(t *testing.T) {
	p := New("%d", 0)
	a, b := p.Gmatch("12"), p.Gmatch("34")
	next := func(it *Iterator[string]) string {
		captures, err := it.Next()
		assert.NilError(t, err)
		return captures[0].Value
	}
	assert.Equal(t, next(a), "1")
	assert.Equal(t, next(b), "3")
	assert.Equal(t, next(a), "2")
	assert.Equal(t, next(b), "4")
}
