package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestExecutionError_Error(t *testing.T) {
	err := &ExecutionError{
		Category: ErrCategoryParse,
		Code:     "malformed_source",
		Message:  "page source is not well-formed XML",
	}

	if err.Error() != "page source is not well-formed XML" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	withCause := err.WithCause(fmt.Errorf("unexpected EOF"))
	if withCause.Error() != "page source is not well-formed XML: unexpected EOF" {
		t.Errorf("Unexpected message with cause: %s", withCause.Error())
	}
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrServerUnreachable.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatal("errors.As should find ExecutionError")
	}
	if execErr.Category != ErrCategoryConnection {
		t.Errorf("Expected connection category, got %s", execErr.Category)
	}
}

func TestExecutionError_WithMessage(t *testing.T) {
	err := ErrInvalidConfig.WithMessage("format must be tsv or report")

	if err.Error() != "format must be tsv or report" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	// The original is unchanged
	if ErrInvalidConfig.Message != "invalid configuration" {
		t.Error("WithMessage must not mutate the predefined error")
	}
	if err.Code != ErrInvalidConfig.Code {
		t.Error("WithMessage must keep the code")
	}
}

func TestExecutionError_WithDetails(t *testing.T) {
	err := ErrWriteFailed.WithDetails(map[string]interface{}{"path": "/tmp/out.txt"})
	err = err.WithDetails(map[string]interface{}{"attempt": 1})

	if err.Details["path"] != "/tmp/out.txt" {
		t.Error("Earlier details should be kept")
	}
	if err.Details["attempt"] != 1 {
		t.Error("New details should be merged")
	}
}

func TestErrorCategory_String(t *testing.T) {
	cases := map[ErrorCategory]string{
		ErrCategoryNone:       "none",
		ErrCategoryConnection: "connection",
		ErrCategoryParse:      "parse",
		ErrCategoryWrite:      "write",
		ErrCategoryConfig:     "config",
		ErrorCategory(99):     "unknown",
	}
	for category, want := range cases {
		if got := category.String(); got != want {
			t.Errorf("Category %d: expected %s, got %s", category, want, got)
		}
	}
}
