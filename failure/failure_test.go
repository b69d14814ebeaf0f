package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/frankban/quicktest"
)

func containsFrame(frames []string, fn string) bool {
	for _, frame := range frames {
		if strings.Contains(frame, fn) {
			return true
		}
	}
	return false
}

func TestNew_CapturesCaller(t *testing.T) {
	c := quicktest.New(t)
	err := New(KindStorage, errors.New("disk full"))

	c.Assert(err.Error(), quicktest.Equals, "disk full")
	frames := err.Frames()
	c.Assert(len(frames) > 0, quicktest.IsTrue)
	c.Assert(frames[0], quicktest.Contains, "TestNew_CapturesCaller")
	c.Assert(frames[0], quicktest.Contains, "failure_test.go:")
}

func TestCategory(t *testing.T) {
	c := quicktest.New(t)
	err := fmt.Errorf("add failed: %w", Errorf(KindParse, "bad id %q", "x"))

	c.Assert(Category(err), quicktest.Equals, "ParseError")
	c.Assert(Is(err, KindParse), quicktest.IsTrue)
	c.Assert(Is(err, KindStorage), quicktest.IsFalse)
	c.Assert(Category(errors.New("plain")), quicktest.Equals, "*errors.errorString")
}

func TestTrace_PlainError(t *testing.T) {
	c := quicktest.New(t)
	c.Assert(Trace(errors.New("plain")), quicktest.HasLen, 0)
}

func TestUnwrap(t *testing.T) {
	c := quicktest.New(t)
	sentinel := errors.New("sentinel")
	err := fmt.Errorf("outer: %w", New(KindStorage, sentinel))
	c.Assert(errors.Is(err, sentinel), quicktest.IsTrue)
}

func panicky() {
	var m map[string]int
	m["boom"]++
}

func TestRecovered(t *testing.T) {
	c := quicktest.New(t)

	var got *Error
	func() {
		defer func() {
			if v := recover(); v != nil {
				got = Recovered(v)
			}
		}()
		panicky()
	}()

	c.Assert(got, quicktest.Not(quicktest.IsNil))
	c.Assert(got.Kind, quicktest.Equals, KindPanic)
	c.Assert(got.Error(), quicktest.Contains, "nil map")
	c.Assert(containsFrame(got.Frames(), "failure.panicky"), quicktest.IsTrue)
}

func TestRecovered_NonError(t *testing.T) {
	c := quicktest.New(t)

	var got *Error
	func() {
		defer func() {
			got = Recovered(recover())
		}()
		panic("plain value")
	}()

	c.Assert(got.Error(), quicktest.Equals, "plain value")
	c.Assert(Category(got), quicktest.Equals, "Panic")
}
