package engine

import (
	"testing"

	"github.com/fincrime/thedesk/kernel/command"
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/metrics"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

// countingSubsystem records every call it receives, for assertions on
// execution order and event visibility.
type countingSubsystem struct {
	name  string
	slot  subsystem.Slot
	calls *[]string
	errAt uint64
}

func (c *countingSubsystem) Name() string         { return c.name }
func (c *countingSubsystem) Slot() subsystem.Slot { return c.slot }
func (c *countingSubsystem) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	*c.calls = append(*c.calls, c.name)
	if c.errAt != 0 && uint64(t) == c.errAt {
		return nil, errTest
	}
	return []simevent.SimEvent{simevent.New(uint64(t), &simevent.CustomerAcquired{CustomerID: c.name, Segment: "test"})}, nil
}

var errTest = &testError{"forced failure"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func newTestEngine(t *testing.T, subs []subsystem.Subsystem) *Engine {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	e, err := Build(42, st, subs, kernellog.New(), metrics.New(), 10)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return e
}

func TestRunTicksAdvancesClock(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.RunTicks(3); err != nil {
		t.Fatalf("run ticks: %v", err)
	}
	if e.ClockSnapshot().Tick != 3 {
		t.Fatalf("expected tick 3, got %d", e.ClockSnapshot().Tick)
	}
}

func TestFirstTickEmitsRunInitializedAfterTickStarted(t *testing.T) {
	e := newTestEngine(t, nil)
	events, err := e.RunTicks(1)
	if err != nil {
		t.Fatalf("run ticks: %v", err)
	}
	if len(events) < 2 {
		t.Fatalf("expected at least 2 events, got %d", len(events))
	}
	if events[0].Tag != "TickStarted" {
		t.Fatalf("expected TickStarted first, got %s", events[0].Tag)
	}
	if events[1].Tag != "RunInitialized" {
		t.Fatalf("expected RunInitialized second, got %s", events[1].Tag)
	}
}

func TestRunInitializedOnlyOnFirstTick(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.RunTicks(2); err != nil {
		t.Fatalf("run ticks: %v", err)
	}
	second, err := e.store.EventsForTick(e.RunID(), 2)
	if err != nil {
		t.Fatalf("events for tick 2: %v", err)
	}
	for _, ev := range second {
		if ev.Tag == "RunInitialized" {
			t.Fatalf("RunInitialized must not repeat on tick 2")
		}
	}
}

func TestSubsystemsRunInExecutionOrder(t *testing.T) {
	var calls []string
	subs := []subsystem.Subsystem{
		&countingSubsystem{name: "b", slot: subsystem.SlotCustomer, calls: &calls},
		&countingSubsystem{name: "a", slot: subsystem.SlotMacro, calls: &calls},
	}
	e := newTestEngine(t, subs)
	if _, err := e.RunTicks(1); err != nil {
		t.Fatalf("run ticks: %v", err)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("expected macro before customer regardless of registration order, got %v", calls)
	}
}

func TestDuplicateSlotRejectedAtBuild(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	var calls []string
	subs := []subsystem.Subsystem{
		&countingSubsystem{name: "a", slot: subsystem.SlotMacro, calls: &calls},
		&countingSubsystem{name: "b", slot: subsystem.SlotMacro, calls: &calls},
	}
	if _, err := Build(1, st, subs, kernellog.New(), metrics.New(), 10); err == nil {
		t.Fatalf("expected duplicate slot registration to be rejected")
	}
}

func TestSubsystemErrorAbortsTickButKeepsPriorEvents(t *testing.T) {
	var calls []string
	subs := []subsystem.Subsystem{
		&countingSubsystem{name: "macro", slot: subsystem.SlotMacro, calls: &calls},
		&countingSubsystem{name: "customer", slot: subsystem.SlotCustomer, calls: &calls, errAt: 1},
		&countingSubsystem{name: "offer", slot: subsystem.SlotOffer, calls: &calls},
	}
	e := newTestEngine(t, subs)
	if _, err := e.RunTicks(1); err == nil {
		t.Fatalf("expected tick to abort with an error")
	}
	if len(calls) != 2 {
		t.Fatalf("expected offer to be skipped after customer's error, got calls %v", calls)
	}

	stored, err := e.store.EventsForTick(e.RunID(), 1)
	if err != nil {
		t.Fatalf("events for tick: %v", err)
	}
	var sawMacroEvent, sawTickCompleted bool
	for _, ev := range stored {
		if ev.Tag == "CustomerAcquired" {
			sawMacroEvent = true
		}
		if ev.Tag == "TickCompleted" {
			sawTickCompleted = true
		}
	}
	if !sawMacroEvent {
		t.Fatalf("expected macro's event to remain persisted despite the abort")
	}
	if sawTickCompleted {
		t.Fatalf("TickCompleted must never be written for an aborted tick")
	}
}

func TestTickWhilePausedReturnsError(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Tick(); err == nil {
		t.Fatalf("expected error ticking a paused engine directly")
	}
}

func TestRunTicksRestoresPauseStateOnError(t *testing.T) {
	var calls []string
	subs := []subsystem.Subsystem{
		&countingSubsystem{name: "macro", slot: subsystem.SlotMacro, calls: &calls, errAt: 2},
	}
	e := newTestEngine(t, subs)

	e.mu.Lock()
	e.clock.Paused = true
	e.mu.Unlock()

	if _, err := e.RunTicks(3); err == nil {
		t.Fatalf("expected run to abort on tick 2")
	}
	if !e.ClockSnapshot().Paused {
		t.Fatalf("expected paused state to be restored after an aborted RunTicks call")
	}
}

func TestSubmitCommandDrainedNextTick(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SubmitCommand(command.Pause())
	if _, err := e.RunTicks(1); err != nil {
		t.Fatalf("run ticks: %v", err)
	}
	if !e.ClockSnapshot().Paused {
		t.Fatalf("expected Pause command to leave the clock paused")
	}
}

func TestSnapshotSavedAtInterval(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.RunTicks(10); err != nil {
		t.Fatalf("run ticks: %v", err)
	}
	if _, _, ok, err := e.store.LoadSnapshot(e.RunID(), 10); err != nil || !ok {
		t.Fatalf("expected a snapshot at tick 10, ok=%v err=%v", ok, err)
	}
	if _, _, ok, err := e.store.LoadSnapshot(e.RunID(), 5); err != nil || ok {
		t.Fatalf("expected no snapshot between intervals when queried before tick 10, ok=%v err=%v", ok, err)
	}
}

func TestDeterministicReplayWithSameSeed(t *testing.T) {
	subs1 := []subsystem.Subsystem{}
	subs2 := []subsystem.Subsystem{}
	e1 := newTestEngine(t, subs1)
	e2 := newTestEngine(t, subs2)

	ev1, err := e1.RunTicks(5)
	if err != nil {
		t.Fatalf("run ticks e1: %v", err)
	}
	ev2, err := e2.RunTicks(5)
	if err != nil {
		t.Fatalf("run ticks e2: %v", err)
	}
	if len(ev1) != len(ev2) {
		t.Fatalf("expected identical event counts for identical seeds, got %d vs %d", len(ev1), len(ev2))
	}
	for i := range ev1 {
		if ev1[i].Tag != ev2[i].Tag {
			t.Fatalf("event %d tag mismatch: %s vs %s", i, ev1[i].Tag, ev2[i].Tag)
		}
	}
}
