package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
	"github.com/govalues/decimal"
)

// economics accumulates transaction volume tick by tick and, at each
// period boundary, closes the book: a quarterly pre-tax profit figure
// derived from accumulated volume, plus a freshly sampled net interest
// margin and efficiency ratio. The accumulator resets at every boundary,
// so each period's figure reflects only that period's activity.
type economics struct {
	base
	periodTicks uint64
	periodNum   int
	volume      decimal.Decimal
}

func newEconomics(st *store.Store, log *kernellog.Logger) *economics {
	return &economics{
		base:        base{name: "economics", slot: subsystem.SlotEconomics, st: st, log: log.WithComponent("economics")},
		periodTicks: economicsPeriodTicks,
		volume:      decimal.Decimal{},
	}
}

const (
	economicsPeriodTicks = 90
	economicsMarginLo    = 0.08
	economicsMarginHi    = 0.22
	economicsNIMLo       = 0.015
	economicsNIMHi       = 0.045
	economicsEfficiencyLo = 0.45
	economicsEfficiencyHi = 0.75
)

func (e *economics) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, init := range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		sum, err := e.volume.Add(init.Amount)
		if err != nil {
			return out, err
		}
		e.volume = sum
	}

	if uint64(t)%e.periodTicks != 0 {
		return out, nil
	}

	e.periodNum++
	margin, err := decimal.NewFromFloat64(rng.FloatRange(economicsMarginLo, economicsMarginHi))
	if err != nil {
		return out, err
	}
	profit, err := e.volume.Mul(margin)
	if err != nil {
		return out, err
	}
	out = append(out, simevent.New(uint64(t), &simevent.QuarterlyPnLComputed{
		Period:       nextID("q", e.periodNum),
		PreTaxProfit: profit.Round(2),
	}))

	nim, err := decimal.NewFromFloat64(rng.FloatRange(economicsNIMLo, economicsNIMHi))
	if err != nil {
		return out, err
	}
	out = append(out, simevent.New(uint64(t), &simevent.NetInterestMarginComputed{NIM: nim.Round(4)}))

	eff, err := decimal.NewFromFloat64(rng.FloatRange(economicsEfficiencyLo, economicsEfficiencyHi))
	if err != nil {
		return out, err
	}
	out = append(out, simevent.New(uint64(t), &simevent.EfficiencyRatioComputed{EfficiencyRatio: eff.Round(4)}))

	e.volume = decimal.Decimal{}
	return out, nil
}
