package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_MessageAndUnwrap(t *testing.T) {
	err := &Error{Op: OpSearch, Err: context.DeadlineExceeded}

	if err.Error() != "FT.SEARCH: context deadline exceeded" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to see the wrapped error")
	}

	var dbErr *Error
	if !errors.As(error(err), &dbErr) || dbErr.Op != OpSearch {
		t.Errorf("errors.As failed: %+v", dbErr)
	}
}
