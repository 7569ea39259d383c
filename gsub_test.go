package upattern

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestGsubScenario(t *testing.T) {
	out, n, err := Gsub("hello world", "o", Template("0"), -1)
	assert.NilError(t, err)
	assert.Equal(t, out, "hell0 w0rld")
	assert.Equal(t, n, 2)

	out16, n, err := Gsub(u16e("hello world"), u16e("o"), Template(u16e("0")), -1)
	assert.NilError(t, err)
	assert.Equal(t, u16d(out16), "hell0 w0rld")
	assert.Equal(t, n, 2)
}

func TestGsubNoMatchKeepsSubject(t *testing.T) {
	for _, s := range []string{"", "abc", "ünï " + cat} {
		for _, p := range []string{"x", "%d", "^b", "[xyz]+", "%bqq"} {
			out, n, err := Gsub(s, p, Template("!"), -1)
			assert.NilError(t, err)
			assert.Equal(t, out, s)
			assert.Equal(t, n, 0)
		}
	}
}

func TestGsubLookup(t *testing.T) {
	out, n, err := Gsub("cat bat cat", "%a+", Map(map[string]string{"cat": "dog"}), -1)
	assert.NilError(t, err)
	assert.Equal(t, out, "dog bat dog")
	assert.Equal(t, n, 3)

	var keys []string
	lookup := Lookup(func(match string) (any, error) {
		keys = append(keys, match)
		return strings.ToUpper(match), nil
	})
	out, _, err = Gsub("$name=$value", "%$(%w+)", lookup, -1)
	assert.NilError(t, err)
	assert.Equal(t, out, "$NAME=$VALUE")
	// The key is the whole match, captures or not.
	assert.DeepEqual(t, keys, []string{"$name", "$value"})

	out16, _, err := Gsub(u16e("cat bat"), u16e("%a+"), Map(map[string][]uint16{"bat": u16e("🦇")}), -1)
	assert.NilError(t, err)
	assert.Equal(t, u16d(out16), "cat 🦇")
}

func TestGsubCallback(t *testing.T) {
	upper := Callback(func(captures []Capture[string]) (any, error) {
		return strings.ToUpper(captures[0].Value), nil
	})
	out, n, err := Gsub("ab cd", "%a+", upper, -1)
	assert.NilError(t, err)
	assert.Equal(t, out, "AB CD")
	assert.Equal(t, n, 2)

	var got [][]string
	swap := Callback(func(captures []Capture[string]) (any, error) {
		got = append(got, captureStrings(captures))
		return captures[1].Value + "=" + captures[0].Value, nil
	})
	out, _, err = Gsub("a=1, b=2", "(%w+)=(%w+)", swap, -1)
	assert.NilError(t, err)
	assert.Equal(t, out, "1=a, 2=b")
	assert.DeepEqual(t, got, [][]string{{"a", "1"}, {"b", "2"}})

	positions := Callback(func(captures []Capture[string]) (any, error) {
		return captures[0].Position, nil
	})
	out, _, err = Gsub("abc", "()b", positions, -1)
	assert.NilError(t, err)
	assert.Equal(t, out, "a2c")
}

func TestGsubReplacementValues(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"x", "[x]"},
		{u16e("x"), "[x]"},
		{7, "[7]"},
		{2.5, "[2.5]"},
		{1e15, "[1e+15]"},
		{nil, "[ab]"},
		{false, "[ab]"},
	}
	for _, tc := range tests {
		out16, _, err := Gsub(u16e("[ab]"), u16e("%a+"), Lookup(func([]uint16) (any, error) {
			return tc.value, nil
		}), -1)
		assert.NilError(t, err, "%v", tc.value)
		assert.Equal(t, u16d(out16), tc.want, "%v", tc.value)
	}

	for _, v := range []any{true, struct{}{}, []int{1}} {
		_, _, err := Gsub("ab", "a", Lookup(func(string) (any, error) { return v, nil }), -1)
		assert.ErrorIs(t, err, ErrInvalidReplacement)
	}
}

func TestGsubCallbackError(t *testing.T) {
	errStop := errors.New("stop")
	calls := 0
	_, n, err := Gsub("aaa", "a", Callback(func([]Capture[string]) (any, error) {
		calls++
		if calls == 2 {
			return nil, errStop
		}
		return "b", nil
	}), -1)
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, n, 0)
	assert.Equal(t, calls, 2)
}

func TestGsubUnfinishedCaptureInTemplate(t *testing.T) {
	_, _, err := Gsub("ab", "(a", Template("%1"), -1)
	assert.ErrorIs(t, err, ErrUnfinishedCapture)
}

func TestResolveReplacement(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"<%1>", "<a><b>"},
		{3, "33"},
		{0.5, "0.50.5"},
		{map[string]string{"a": "A"}, "Ab"},
		{map[string]any{"b": 2}, "a2"},
		{func(s string) (any, error) { return s + s, nil }, "aabb"},
		{func(c []Capture[string]) (any, error) { return "(" + c[0].Value + ")", nil }, "(a)(b)"},
		{Template("-"), "--"},
	}
	for _, tc := range tests {
		repl, err := ResolveReplacement[string](tc.value)
		assert.NilError(t, err)
		out, n, err := Gsub("ab", "(%a)", repl, -1)
		assert.NilError(t, err)
		assert.Equal(t, out, tc.want, "%#v", tc.value)
		assert.Equal(t, n, 2)
	}

	_, err := ResolveReplacement[string](true)
	assert.ErrorIs(t, err, ErrInvalidReplacement)
	_, err = ResolveReplacement[[]uint16]("ok")
	assert.NilError(t, err)
}

func TestGsubZeroWidthTerminates(t *testing.T) {
	subjects := []string{"", "a", "aaa", "bab", cat + cat}
	patterns := []string{"", "a*", "a-", "x?", "()", "%f[%a]", "^", "$"}
	for _, s := range subjects {
		for _, p := range patterns {
			out, n, err := Gsub(s, p, Template("."), -1)
			assert.NilError(t, err)
			// Only a* ever consumes text; everything else survives in order
			// around the replacements.
			kept := s
			if p == "a*" {
				kept = strings.ReplaceAll(s, "a", "")
			}
			assert.Equal(t, strings.ReplaceAll(out, ".", ""), kept, "gsub(%q, %q)", s, p)
			assert.Assert(t, n <= len([]rune(s))+1, "gsub(%q, %q) made %d replacements", s, p, n)
		}
	}
}
