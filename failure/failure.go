// Package failure tags errors with a category and the call stack of the
// place they were raised, so the command loop can log a diagnostic trace.
package failure

import (
	"errors"
	"fmt"
	"runtime"
)

// Kind is the category of a failure
type Kind string

const (
	// KindParse marks malformed command arguments
	KindParse Kind = "ParseError"

	// KindStorage marks a failed database operation
	KindStorage Kind = "StorageError"

	// KindMapperNotFound marks a parameter or result type without a registered mapper
	KindMapperNotFound Kind = "MapperNotFoundError"

	// KindPanic marks a panic recovered while executing a command
	KindPanic Kind = "Panic"
)

const maxFrames = 32

// Error is an error with a category and the stack captured where it was created
type Error struct {
	Kind Kind
	Err  error
	pcs  []uintptr
}

// New wraps err with kind and captures the caller's stack
func New(kind Kind, err error) *Error {
	return newAt(kind, err, 3)
}

// Errorf formats a message and wraps it like New
func Errorf(kind Kind, format string, args ...any) *Error {
	return newAt(kind, fmt.Errorf(format, args...), 3)
}

// Recovered converts a recovered panic value into a Panic failure.
// It must be called from the deferred function that recovered.
func Recovered(v any) *Error {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	// Skip Callers, newAt, Recovered, the deferred func and runtime.gopanic
	return newAt(KindPanic, err, 5)
}

func newAt(kind Kind, err error, skip int) *Error {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip, pcs)
	return &Error{Kind: kind, Err: err, pcs: pcs[:n]}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Frames renders the captured stack, innermost call first
func (e *Error) Frames() []string {
	if len(e.pcs) == 0 {
		return nil
	}
	lines := make([]string, 0, len(e.pcs))
	frames := runtime.CallersFrames(e.pcs)
	for {
		frame, more := frames.Next()
		lines = append(lines, fmt.Sprintf("%s(%s:%d)", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return lines
}

// Category names the kind of err; errors without a Kind report their Go type
func Category(err error) string {
	var f *Error
	if errors.As(err, &f) {
		return string(f.Kind)
	}
	return fmt.Sprintf("%T", err)
}

// Trace returns the frames of the outermost failure in err's chain, if any
func Trace(err error) []string {
	var f *Error
	if errors.As(err, &f) {
		return f.Frames()
	}
	return nil
}

// Is reports whether err carries a failure of the given kind
func Is(err error, kind Kind) bool {
	var f *Error
	return errors.As(err, &f) && f.Kind == kind
}
