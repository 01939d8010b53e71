package errors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrInvalidAmount,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrInvalidAmount, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrNotFound,
			b:      Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not a not-nil error": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

type customError struct{}

func (customError) Error() string {
	return "custom error"
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestWrappedIs(t *testing.T) {
	err := Wrap(ErrDuplicate, "cannot save")
	if !ErrDuplicate.Is(err) {
		t.Fatal("expected wrapped error to be a duplicate")
	}

	err = Wrap(err, "another level")
	if !ErrDuplicate.Is(err) {
		t.Fatal("expected double wrapped error to be a duplicate")
	}
}

func TestWrappedIsFails(t *testing.T) {
	err := Wrap(errors.New("stdlib"), "wrapped")
	if ErrDuplicate.Is(err) {
		t.Fatal("stdlib error must not be a duplicate")
	}
}

func TestABCICode(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode uint32
	}{
		"registered error": {
			err:      ErrUnauthorized,
			wantCode: 2,
		},
		"wrapped registered error": {
			err:      Wrap(ErrOverflow, "distribution"),
			wantCode: 16,
		},
		"wrapped stdlib error": {
			err:      Wrap(fmt.Errorf("stdlib"), "wrapped"),
			wantCode: CodeInternalErr,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			type coder interface {
				ABCICode() uint32
			}
			c, ok := tc.err.(coder)
			if !ok {
				t.Fatal("error does not provide an ABCI code")
			}
			if code := c.ABCICode(); code != tc.wantCode {
				t.Fatalf("want %d code, got %d", tc.wantCode, code)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want a panic error, got %+v", err)
	}
}

func TestStackTrace(t *testing.T) {
	err := Wrap(ErrNotFound, "outer")
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	st, ok := err.(stackTracer)
	if !ok {
		t.Fatal("error does not carry a stack trace")
	}
	if len(st.StackTrace()) == 0 {
		t.Fatal("empty stack trace")
	}
}
