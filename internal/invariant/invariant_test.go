package invariant_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/opal-lang/sexpr/internal/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(1 == 1, "math works")
}

func TestPreconditionFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false precondition")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, "PRECONDITION VIOLATION") {
			t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
		}
		if !strings.Contains(msg, "buffer must not be empty") {
			t.Errorf("expected custom message, got: %s", msg)
		}
	}()

	invariant.Precondition(false, "buffer must not be empty")
}

func TestInvariantFail(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for false invariant")
		}
		if !strings.Contains(fmt.Sprintf("%v", r), "INVARIANT VIOLATION") {
			t.Errorf("expected INVARIANT VIOLATION, got: %v", r)
		}
	}()

	invariant.Invariant(false, "cursor must not regress")
}

func TestNotNilPassesForTypedNonNil(t *testing.T) {
	x := 1
	invariant.NotNil(&x, "x")
}

func TestNotNilPanicsForTypedNilPointer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil pointer")
		}
	}()
	var p *int
	invariant.NotNil(p, "p")
}

func TestInRangeBoundsInclusive(t *testing.T) {
	invariant.InRange(0, 0, 10, "index")
	invariant.InRange(10, 0, 10, "index")
}

func TestInRangePanicsOutsideBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range value")
		}
	}()
	invariant.InRange(11, 0, 10, "index")
}

func TestExpectNoErrorPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-nil error")
		}
	}()
	invariant.ExpectNoError(errors.New("boom"), "allocation")
}
