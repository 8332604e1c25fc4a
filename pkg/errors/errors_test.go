package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew_FormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidSpec, "cycle count %d exceeds node count %d", 7, 5)

	want := "INVALID_SPEC: cycle count 7 exceeds node count 5"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write artifact")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	want := "INTERNAL_ERROR: write artifact: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := New(ErrCodeInvalidSpec, "bad spec")

	if !Is(err, ErrCodeInvalidSpec) {
		t.Error("Is(err, ErrCodeInvalidSpec) = false, want true")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is(err, ErrCodeInternal) = true, want false")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidSpec) {
		t.Error("Is(plain error, code) = true, want false")
	}
}

func TestIs_UnwrapsChain(t *testing.T) {
	inner := New(ErrCodeFileNotFound, "graph.json")
	outer := fmt.Errorf("load input: %w", inner)

	if !Is(outer, ErrCodeFileNotFound) {
		t.Error("Is() did not find code through wrapped chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidFormat, "gif")); got != ErrCodeInvalidFormat {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInvalidFormat)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "please enter a number")); got != "please enter a number" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
