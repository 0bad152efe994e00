package ids

import "testing"

func TestNewRunIdIsNonEmptyAndUnique(t *testing.T) {
	a := NewRunId()
	b := NewRunId()
	if a == "" || b == "" {
		t.Fatalf("expected non-empty run ids")
	}
	if a == b {
		t.Fatalf("expected two calls to NewRunId to produce distinct values")
	}
}
