package db

import (
	"errors"
	"testing"
)

func TestError_WrapsAndFormats(t *testing.T) {
	inner := errors.New("boom")
	err := error(&Error{Op: OpIncr, Err: inner})

	if err.Error() != "INCR: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach the wrapped error")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpIncr {
		t.Errorf("errors.As failed: %v", dbErr)
	}
}
