package upattern

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPattern    = errors.New("malformed pattern")
	ErrCaptureOverflow     = errors.New("too many captures")
	ErrInvalidCaptureIndex = errors.New("invalid capture index")
	ErrUnfinishedCapture   = errors.New("unfinished capture")
	ErrInvalidReplacement  = errors.New("invalid replacement value")
)

// Error describes why a pattern operation was aborted.
// Kind is one of the Err* sentinels above; errors.Is matches against it.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "upattern: " + e.Kind.Error()
	}
	return "upattern: " + e.Kind.Error() + " (" + e.Msg + ")"
}

func (e *Error) Unwrap() error {
	return e.Kind
}

var _ error = (*Error)(nil)

func newError(kind error, format string, args ...any) *Error {
	if len(args) == 0 {
		return &Error{Kind: kind, Msg: format}
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// raise aborts the running match. It is recovered by catch at the driver
// boundary.
func raise(kind error, format string, args ...any) {
	panic(newError(kind, format, args...))
}

// catch converts a panic raised by raise into *err. Other panics are
// propagated.
func catch(err *error) {
	if v := recover(); v != nil {
		if perr, ok := v.(*Error); ok {
			*err = perr
			return
		}
		panic(v)
	}
}
