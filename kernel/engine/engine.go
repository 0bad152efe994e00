// Package engine owns the single-threaded tick loop: command draining,
// sequential subsystem execution in canonical slot order, event
// persistence, and periodic snapshotting.
//
// CRITICAL: all state mutation happens inside Tick (RunTicks only toggles
// the paused flag around it). The kernel drives the engine from a single
// goroutine: the IPC loop reads its next request only after the previous
// one has been answered. Tick and SubmitCommand still take the engine's
// mutex, so a command submitted from another goroutine while a tick is in
// flight waits for that tick to finish and is drained by the following one.
package engine

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/fincrime/thedesk/kernel/command"
	"github.com/fincrime/thedesk/kernel/errors"
	"github.com/fincrime/thedesk/kernel/ids"
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/metrics"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

// DefaultSnapshotInterval is the tick cadence at which the clock's state
// is snapshotted when config does not override it.
const DefaultSnapshotInterval = 10

// engineSubsystemName tags event_log rows the engine itself produces
// (TickStarted, TickCompleted, RunInitialized, drained commands) rather
// than any registered subsystem.
const engineSubsystemName = "engine"

// Engine owns one run's clock, RNG bank, pending-command queue and ordered
// subsystem list; each subsystem.Subsystem carries its own Slot(). The
// subsystems are validated at Build time: no duplicate slots, execution
// order fixed by
// subsystem.ExecutionOrder (plus SlotIncident last, in test builds only).
type Engine struct {
	mu sync.Mutex

	runID  ids.RunId
	seed   uint64
	store  *store.Store
	clock  *tick.Clock
	rng    *rngbank.Bank
	log    *kernellog.Logger
	metric *metrics.Metrics

	snapshotInterval uint64

	subsystems []subsystem.Subsystem

	pending   []command.Command
	firstTick bool
}

// Build constructs an engine for a new run over an already-migrated store
// (store.Open applies migrations) and already-constructed subsystems: it
// rejects duplicate slots, sorts the subsystems into canonical execution
// order, inserts the run row, seeds the RNG bank, and initializes a paused
// clock at tick 0. Build never calls Tick itself.
func Build(seed uint64, st *store.Store, subsystems []subsystem.Subsystem, log *kernellog.Logger, m *metrics.Metrics, snapshotInterval uint64) (*Engine, error) {
	if snapshotInterval == 0 {
		snapshotInterval = DefaultSnapshotInterval
	}
	if err := validateSlots(subsystems); err != nil {
		return nil, err
	}
	ordered := orderBySlot(subsystems)

	runID := ids.NewRunId()
	if err := st.InsertRun(runID, seed); err != nil {
		return nil, err
	}

	e := &Engine{
		runID:            runID,
		seed:             seed,
		store:            st,
		clock:            tick.NewClock(),
		rng:              rngbank.New(seed),
		log:              log.WithRun(string(runID)),
		metric:           m,
		snapshotInterval: snapshotInterval,
		subsystems:       ordered,
		firstTick:        true,
	}
	return e, nil
}

func validateSlots(subsystems []subsystem.Subsystem) error {
	seen := map[subsystem.Slot]string{}
	for _, s := range subsystems {
		if existing, ok := seen[s.Slot()]; ok {
			return errors.Invariant("duplicate subsystem slot %d claimed by %q and %q", s.Slot(), existing, s.Name())
		}
		seen[s.Slot()] = s.Name()
	}
	return nil
}

// orderBySlot returns a copy of subsystems sorted into the canonical
// execution order (subsystem.ExecutionOrder), with SlotIncident placed
// last since ExecutionOrder deliberately excludes it. Build must never
// trust the caller's registration order: production only happens to pass
// subsystems pre-sorted because internal/subsystems.BuildAll lists them
// in slot order, and nothing enforced that beyond convention.
func orderBySlot(subsystems []subsystem.Subsystem) []subsystem.Subsystem {
	rank := make(map[subsystem.Slot]int, len(subsystem.ExecutionOrder())+1)
	for i, slot := range subsystem.ExecutionOrder() {
		rank[slot] = i
	}
	rank[subsystem.SlotIncident] = len(rank)

	ordered := make([]subsystem.Subsystem, len(subsystems))
	copy(ordered, subsystems)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Slot()] < rank[ordered[j].Slot()]
	})
	return ordered
}

// RunID returns the run identifier assigned at Build time.
func (e *Engine) RunID() ids.RunId { return e.runID }

// StoreHandle exposes the engine's store connection so read-only
// aggregation (e.g. the IPC loop's state assembly) can query the event
// log directly without the engine needing to know anything about UI
// state shapes.
func (e *Engine) StoreHandle() *store.Store { return e.store }

// MetricsHandle exposes the engine's metrics registry so bridged mode's
// optional get_metrics request can gather a text snapshot without the
// engine needing to know anything about the wire format.
func (e *Engine) MetricsHandle() *metrics.Metrics { return e.metric }

// ClockSnapshot returns a snapshot of the current clock state.
func (e *Engine) ClockSnapshot() tick.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.ToSnapshot()
}

// SubmitCommand buffers cmd for the next tick's drain. Safe to call
// between ticks; the queue is not exposed for direct inspection.
func (e *Engine) SubmitCommand(c command.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, c)
}

// Tick advances the clock by exactly one tick and runs every subsystem in
// order. It returns the full ordered event stream produced this tick.
//
// Subsystem errors abort the tick: events already appended remain
// persisted (the log is append-only) but TickCompleted is never written,
// and the clock is still considered advanced — callers must treat the
// tick as partial, per the kernel's partial-commit contract.
func (e *Engine) Tick() ([]simevent.SimEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.clock.Paused {
		return nil, errors.ErrTickWhilePaused
	}

	start := time.Now()
	defer func() { e.metric.TickDuration.Observe(time.Since(start).Seconds()) }()

	e.clock.CurrentTick++
	t := e.clock.CurrentTick
	log := e.log.AtTick(uint64(t))

	tickEvents := []simevent.SimEvent{simevent.New(uint64(t), &simevent.TickStarted{Tick: uint64(t)})}

	if e.firstTick {
		tickEvents = append(tickEvents, simevent.New(uint64(t), &simevent.RunInitialized{
			RunID: string(e.runID),
			Seed:  e.seed,
		}))
		e.firstTick = false
	}

	drained, err := e.drainCommands(t)
	if err != nil {
		return nil, err
	}
	tickEvents = append(tickEvents, drained...)

	if err := e.store.AppendEvents(e.runID, uint64(t), engineSubsystemName, tickEvents); err != nil {
		return nil, err
	}

	for _, sub := range e.subsystems {
		rng := e.rng.ForSlotTick(int(sub.Slot()), uint64(t))
		produced, err := sub.Update(t, tickEvents, rng)
		if err != nil {
			log.Error("subsystem update failed", errors.Subsystem(sub.Name(), err), map[string]any{"slot": sub.Slot()})
			e.metric.SubsystemErrors.WithLabelValues(sub.Name()).Inc()
			return tickEvents, errors.Subsystem(sub.Name(), err)
		}
		if len(produced) == 0 {
			continue
		}
		if err := e.store.AppendEvents(e.runID, uint64(t), sub.Name(), produced); err != nil {
			return tickEvents, err
		}
		tickEvents = append(tickEvents, produced...)
		e.metric.EventsAppended.WithLabelValues(sub.Name()).Add(float64(len(produced)))
	}

	completed := simevent.New(uint64(t), &simevent.TickCompleted{Tick: uint64(t)})
	if err := e.store.AppendEvents(e.runID, uint64(t), engineSubsystemName, []simevent.SimEvent{completed}); err != nil {
		return tickEvents, err
	}
	tickEvents = append(tickEvents, completed)

	if uint64(t)%e.snapshotInterval == 0 {
		if err := e.saveSnapshot(t); err != nil {
			log.Warn("snapshot save failed", map[string]any{"error": err.Error()})
		}
	}

	e.metric.CurrentTick.Set(float64(t))
	log.Info("tick completed", map[string]any{"events": len(tickEvents)})
	return tickEvents, nil
}

// drainCommands empties the pending queue, translating each command into
// its synthetic event(s) and mutating the clock for Pause/Resume.
func (e *Engine) drainCommands(t tick.Tick) ([]simevent.SimEvent, error) {
	if len(e.pending) == 0 {
		return nil, nil
	}
	batch := e.pending
	e.pending = nil

	out := make([]simevent.SimEvent, 0, len(batch))
	for _, c := range batch {
		switch c.Kind {
		case command.KindPause:
			e.clock.Paused = true
		case command.KindResume:
			e.clock.Paused = false
		case command.KindSetSpeed:
			e.clock.Speed = c.Speed
		}

		ev, err := command.Inject(c, t, e.store.ProductFee, e.store.RiskDial)
		if err != nil {
			return nil, errors.Command("inject queued command: %v", err)
		}
		if c.Kind == command.KindSetProductFee {
			if err := e.store.SetProductFee(e.runID, c.ProductID, c.FeeType, c.NewFee); err != nil {
				return nil, err
			}
		}
		if c.Kind == command.KindSetRiskDial {
			if err := e.store.SetRiskDial(e.runID, c.DialID, c.NewDialVal); err != nil {
				return nil, err
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

func (e *Engine) saveSnapshot(t tick.Tick) error {
	data, err := json.Marshal(e.clock.ToSnapshot())
	if err != nil {
		return errors.Serialization(err, "marshal clock snapshot")
	}
	return e.store.SaveSnapshot(e.runID, uint64(t), data)
}

// RunTicks unpauses transiently, calls Tick count times, and restores the
// clock's paused state on return, matching the batch-mode run_ticks(n)
// convenience documented for bridged mode's "tick" request.
func (e *Engine) RunTicks(count uint64) ([]simevent.SimEvent, error) {
	e.mu.Lock()
	wasPaused := e.clock.Paused
	e.clock.Paused = false
	e.mu.Unlock()

	var all []simevent.SimEvent
	for i := uint64(0); i < count; i++ {
		evs, err := e.Tick()
		all = append(all, evs...)
		if err != nil {
			e.mu.Lock()
			e.clock.Paused = wasPaused
			e.mu.Unlock()
			return all, err
		}
	}

	e.mu.Lock()
	e.clock.Paused = wasPaused
	e.mu.Unlock()
	return all, nil
}
