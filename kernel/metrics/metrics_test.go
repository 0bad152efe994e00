package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersAllCollectorsOnAPrivateRegistry(t *testing.T) {
	m := New()

	m.EventsAppended.WithLabelValues("macro").Add(3)
	m.SubsystemErrors.WithLabelValues("macro").Inc()
	m.CurrentTick.Set(7)
	m.TickDuration.Observe(0.25)

	if got := testutil.ToFloat64(m.EventsAppended.WithLabelValues("macro")); got != 3 {
		t.Fatalf("expected events appended 3, got %v", got)
	}
	if got := testutil.ToFloat64(m.SubsystemErrors.WithLabelValues("macro")); got != 1 {
		t.Fatalf("expected subsystem errors 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.CurrentTick); got != 7 {
		t.Fatalf("expected current tick 7, got %v", got)
	}
}

func TestNewBindsToADistinctRegistryPerCall(t *testing.T) {
	a := New()
	b := New()
	if a.Registry() == b.Registry() {
		t.Fatalf("expected each Metrics instance to own a private registry")
	}
}
