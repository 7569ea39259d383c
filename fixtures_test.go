package upattern

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

var fixtureErrors = map[string]error{
	"malformed":     ErrMalformedPattern,
	"overflow":      ErrCaptureOverflow,
	"capture-index": ErrInvalidCaptureIndex,
	"unfinished":    ErrUnfinishedCapture,
	"replacement":   ErrInvalidReplacement,
}

var fixtureFlags = map[string]Flag{
	"ascii": FlagASCII,
	"plain": FlagPlain,
}

type matchFixture struct {
	Pattern  string   `yaml:"pattern"`
	Subject  string   `yaml:"subject"`
	Init     *int     `yaml:"init"`
	Flags    []string `yaml:"flags"`
	Captures []string `yaml:"captures"`
	Start    *int     `yaml:"start"`
	End      *int     `yaml:"end"`
	NoMatch  bool     `yaml:"nomatch"`
	Error    string   `yaml:"error"`
}

type gsubFixture struct {
	Pattern string   `yaml:"pattern"`
	Subject string   `yaml:"subject"`
	Repl    string   `yaml:"repl"`
	N       *int     `yaml:"n"`
	Flags   []string `yaml:"flags"`
	Want    string   `yaml:"want"`
	Count   int      `yaml:"count"`
	Error   string   `yaml:"error"`
}

func loadFixtures(t *testing.T, name string, v any) {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	assert.NilError(t, err)
	assert.NilError(t, yaml.UnmarshalStrict(content, v))
}

func parseFixtureFlags(t *testing.T, names []string) Flag {
	var flags Flag
	for _, name := range names {
		f, ok := fixtureFlags[name]
		assert.Assert(t, ok, "unknown flag %q", name)
		flags |= f
	}
	return flags
}

func parseFixtureError(t *testing.T, name string) error {
	if name == "" {
		return nil
	}
	kind, ok := fixtureErrors[name]
	assert.Assert(t, ok, "unknown error kind %q", name)
	return kind
}

func TestMatchFixtures(t *testing.T) {
	var fixtures []matchFixture
	loadFixtures(t, "match.yaml", &fixtures)
	assert.Assert(t, len(fixtures) > 0)

	r := newRunner(t)
	for _, fx := range fixtures {
		c := r.f(parseFixtureFlags(t, fx.Flags))
		if fx.Init != nil {
			c = c.at(*fx.Init)
		}
		switch {
		case fx.Error != "":
			c.e(fx.Pattern, fx.Subject, parseFixtureError(t, fx.Error))
		case fx.NoMatch:
			c.n(fx.Pattern, fx.Subject)
			c.testCase(fx.Pattern, fx.Subject, &testResult{}, runFind)
		default:
			c.m(fx.Pattern, fx.Subject, fx.Captures...)
		}
		if fx.Start != nil && fx.End != nil {
			captures := fx.Captures
			if !hasExplicitCaptures(fx.Pattern) {
				captures = nil
			}
			c.fd(fx.Pattern, fx.Subject, *fx.Start, *fx.End, captures...)
		}
	}
}

// hasExplicitCaptures is good enough for the fixture patterns, which never
// escape '('.
func hasExplicitCaptures(pattern string) bool {
	for _, r := range pattern {
		if r == '(' {
			return true
		}
	}
	return false
}

func gsubResult[S Text](fx gsubFixture, flags Flag) (string, int, error) {
	n := -1
	if fx.N != nil {
		n = *fx.N
	}
	out, count, err := New(fromString[S](fx.Pattern), flags).Gsub(fromString[S](fx.Subject), Template(fromString[S](fx.Repl)), n)
	return toString(out), count, err
}

func TestGsubFixtures(t *testing.T) {
	var fixtures []gsubFixture
	loadFixtures(t, "gsub.yaml", &fixtures)
	assert.Assert(t, len(fixtures) > 0)

	for _, fx := range fixtures {
		t.Run("", func(t *testing.T) {
			t.Parallel()
			flags := parseFixtureFlags(t, fx.Flags)
			kind := parseFixtureError(t, fx.Error)

			out8, count8, err8 := gsubResult[string](fx, flags)
			out16, count16, err16 := gsubResult[[]uint16](fx, flags)
			if kind != nil {
				assert.ErrorIs(t, err8, kind)
				assert.ErrorIs(t, err16, kind)
				return
			}
			assert.NilError(t, err8)
			assert.NilError(t, err16)
			assert.Equal(t, out8, fx.Want, "gsub(%q, %q, %q)", fx.Subject, fx.Pattern, fx.Repl)
			assert.Equal(t, out16, fx.Want, "gsub(%q, %q, %q) over UTF-16", fx.Subject, fx.Pattern, fx.Repl)
			assert.Equal(t, count8, fx.Count)
			assert.Equal(t, count16, fx.Count)
		})
	}
}
