// Package subsystem defines the narrow contract every domain subsystem
// implements. Subsystems never call one another directly; all
// cross-subsystem communication happens through the SimEvent stream that
// Update receives and returns.
package subsystem

import (
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/tick"
)

// Subsystem is implemented by every domain module the engine runs in
// execution order each tick.
type Subsystem interface {
	// Name identifies the subsystem in logs, metrics labels, and error
	// reports. It is stable across versions.
	Name() string

	// Slot returns the subsystem's fixed execution-order position and
	// RNG-stream identity.
	Slot() Slot

	// Update advances the subsystem by one tick. eventsIn contains every
	// event appended so far this tick, in append order, including events
	// from subsystems that ran earlier in the execution order and any
	// synthetic events produced by command draining. The subsystem
	// returns the events it wants appended next; it must not mutate
	// eventsIn. rng is this subsystem's dedicated stream for this tick,
	// already derived via kernel/rngbank.ForSlotTick and never shared
	// with any other subsystem or tick.
	Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error)
}
