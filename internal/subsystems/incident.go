//go:build kerneltest

package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
	"github.com/fincrime/thedesk/kernel/errors"
)

// incident exists only in kerneltest builds, at the very end of execution
// order, to give engine tests a way to force a subsystem error
// (forceErrorOnTick) and assert the partial-commit contract: events from
// subsystems ahead of it in the order stay persisted, but TickCompleted is
// never written for that tick.
type incident struct {
	base
	counter         int
	open            []string
	forceErrorOnTick uint64
}

func newIncident(st *store.Store, log *kernellog.Logger) *incident {
	return &incident{base: base{name: "incident", slot: subsystem.SlotIncident, st: st, log: log.WithComponent("incident")}}
}

// ForceErrorOnTick arms the subsystem to return an error the next time it
// runs at exactly this tick. Used by engine tests only; zero disarms it.
func (i *incident) ForceErrorOnTick(t uint64) {
	i.forceErrorOnTick = t
}

const incidentDeclareChance = 0.01

func (i *incident) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	if i.forceErrorOnTick != 0 && uint64(t) == i.forceErrorOnTick {
		return nil, errors.Invariant("incident: forced failure at tick %d", t)
	}

	var out []simevent.SimEvent
	if rng.Chance(incidentDeclareChance) {
		i.counter++
		id := nextID("incident", i.counter)
		severities := []string{"sev1", "sev2", "sev3"}
		severity := severities[rng.NextU64Below(uint64(len(severities)))]
		out = append(out, simevent.New(uint64(t), &simevent.IncidentDeclared{IncidentID: id, Severity: severity}))
		i.open = append(i.open, id)
		return out, nil
	}

	if len(i.open) > 0 && rng.Chance(0.5) {
		id := i.open[0]
		i.open = i.open[1:]
		out = append(out, simevent.New(uint64(t), &simevent.IncidentResolved{IncidentID: id}))
	}

	return out, nil
}

// appendIncident adds the test-only incident subsystem to the end of a
// kerneltest build's subsystem list, after SlotRiskAppetite, matching
// SlotIncident's position at the end of the enumeration.
func appendIncident(subs []subsystem.Subsystem, st *store.Store, log *kernellog.Logger) []subsystem.Subsystem {
	return append(subs, newIncident(st, log))
}
