package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

// macro drifts two headline economic indicators, interest rate and
// unemployment, as a slow random walk. No other subsystem in this package
// reads the values it emits.
type macro struct {
	base
	rate         float64
	unemployment float64
}

func newMacro(st *store.Store, log *kernellog.Logger) *macro {
	return &macro{
		base:         base{name: "macro", slot: subsystem.SlotMacro, st: st, log: log.WithComponent("macro")},
		rate:         0.0325,
		unemployment: 0.041,
	}
}

const (
	macroRateDriftStep  = 0.0005
	macroDriftChance    = 0.15
	macroUnemploymentLo = 0.02
	macroUnemploymentHi = 0.15
	macroRateLo         = 0.0
	macroRateHi         = 0.20
)

func (m *macro) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	if rng.Chance(macroDriftChance) {
		old := m.rate
		delta := rng.FloatRange(-macroRateDriftStep, macroRateDriftStep)
		m.rate = clamp(m.rate+delta, macroRateLo, macroRateHi)
		if m.rate != old {
			out = append(out, simevent.New(uint64(t), &simevent.InterestRateChanged{OldRate: old, NewRate: m.rate}))
		}
	}

	if rng.Chance(macroDriftChance) {
		old := m.unemployment
		delta := rng.FloatRange(-macroRateDriftStep, macroRateDriftStep)
		m.unemployment = clamp(m.unemployment+delta, macroUnemploymentLo, macroUnemploymentHi)
		if m.unemployment != old {
			out = append(out, simevent.New(uint64(t), &simevent.UnemploymentRateChanged{OldRate: old, NewRate: m.unemployment}))
		}
	}

	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
