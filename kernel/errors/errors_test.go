package errors

import (
	"errors"
	"testing"
)

func TestErrorMessageIncludesCategoryAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Store(cause, "append events for run %s", "run-1")
	want := "store: append events for run run-1: disk full"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := Configuration("config directory %q missing", "/tmp/x")
	want := `configuration: config directory "/tmp/x" missing`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Store(cause, "append events")
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}

func TestIsMatchesByCategoryOnly(t *testing.T) {
	a := Invariant("duplicate slot")
	b := Invariant("something else entirely")
	if !errors.Is(a, b) {
		t.Fatalf("expected two invariant errors to match via Is regardless of message")
	}

	c := Command("bad command")
	if errors.Is(a, c) {
		t.Fatalf("expected errors of different categories not to match")
	}
}

func TestSubsystemWrapsPlainError(t *testing.T) {
	cause := errors.New("boom")
	err := Subsystem("macro", cause)
	if err.Category != CategorySubsystem {
		t.Fatalf("expected CategorySubsystem, got %s", err.Category)
	}
	if err.Subsystem != "macro" {
		t.Fatalf("expected subsystem name macro, got %s", err.Subsystem)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected the plain cause to remain reachable via Unwrap")
	}
}

func TestSubsystemDoesNotDoubleWrapASimError(t *testing.T) {
	inner := Invariant("bad state")
	err := Subsystem("aml_screening", inner)
	if err.Message != inner.Message {
		t.Fatalf("expected the inner SimError's message to be carried through, got %q", err.Message)
	}
	if err.Cause != inner {
		t.Fatalf("expected the inner SimError itself to remain the cause")
	}
}

func TestErrTickWhilePausedIsAnInvariantError(t *testing.T) {
	if !errors.Is(ErrTickWhilePaused, Invariant("anything")) {
		t.Fatalf("expected ErrTickWhilePaused to be categorized as an invariant violation")
	}
}
