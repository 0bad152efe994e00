package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var pricingTiers = []string{"standard", "preferred", "premium"}

// pricing acknowledges every player-driven fee change with a schedule
// update event and, for each such change, occasionally reclassifies that
// product's pricing tier.
type pricing struct {
	base
	tierChangeChance float64
}

func newPricing(st *store.Store, log *kernellog.Logger) *pricing {
	return &pricing{
		base:             base{name: "pricing", slot: subsystem.SlotPricing, st: st, log: log.WithComponent("pricing")},
		tierChangeChance: pricingTierChangeChance,
	}
}

const pricingTierChangeChance = 0.01

func (p *pricing) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, changed := range eventsOfType[*simevent.ProductFeeChanged](eventsIn, "ProductFeeChanged") {
		out = append(out, simevent.New(uint64(t), &simevent.ProductFeeScheduleUpdated{
			ProductID: changed.ProductID,
			FeeType:   changed.FeeType,
			NewValue:  changed.NewValue,
		}))

		if rng.Chance(p.tierChangeChance) {
			tier := pricingTiers[rng.NextU64Below(uint64(len(pricingTiers)))]
			out = append(out, simevent.New(uint64(t), &simevent.PricingTierChanged{ProductID: changed.ProductID, NewTier: tier}))
		}
	}

	return out, nil
}
