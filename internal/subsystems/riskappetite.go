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

var riskAppetiteThresholds = map[string]decimal.Decimal{
	"fraud_loss_ratio":      decimal.MustNew(50, 3),  // 0.050
	"aml_alert_rate":        decimal.MustNew(30, 3),  // 0.030
	"complaint_backlog_cap": decimal.MustNew(200, 0), // 200
}

// riskAppetite tracks every dial the player has set a value for and, each
// tick, independently drifts it a small amount and checks it against a
// fixed threshold. A dial the player has never touched is not yet being
// watched: there is no meaningful current value to compare until a
// SetRiskDial command establishes one.
type riskAppetite struct {
	base
	current map[string]decimal.Decimal
}

func newRiskAppetite(st *store.Store, log *kernellog.Logger) *riskAppetite {
	return &riskAppetite{
		base:    base{name: "risk_appetite", slot: subsystem.SlotRiskAppetite, st: st, log: log.WithComponent("risk_appetite")},
		current: map[string]decimal.Decimal{},
	}
}

const (
	riskAppetiteDriftChance = 0.1
	riskAppetiteDriftBps    = 2 // drift bound, in units of 0.0001 added to the dial value
	riskAppetiteSelfRevise  = 0.05
)

func (ra *riskAppetite) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, changed := range eventsOfType[*simevent.RiskDialChanged](eventsIn, "RiskDialChanged") {
		ra.current[changed.DialID] = changed.NewValue
	}

	for _, dialID := range sortedMapKeys(ra.current) {
		threshold, watched := riskAppetiteThresholds[dialID]
		if !watched {
			continue
		}
		value := ra.current[dialID]

		if rng.Chance(riskAppetiteDriftChance) {
			driftBps, err := decimal.New(int64(rng.IntRange(-riskAppetiteDriftBps, riskAppetiteDriftBps)), 4)
			if err != nil {
				return out, err
			}
			adjusted, err := value.Add(driftBps)
			if err != nil {
				return out, err
			}
			value = adjusted
			ra.current[dialID] = value
		}

		if value.Cmp(threshold) > 0 {
			out = append(out, simevent.New(uint64(t), &simevent.RiskDialBreached{DialID: dialID, Value: value, Threshold: threshold}))
			continue
		}

		if rng.Chance(riskAppetiteSelfRevise) {
			out = append(out, simevent.New(uint64(t), &simevent.RiskAppetiteStatementUpdated{DialID: dialID, NewValue: value}))
		}
	}

	return out, nil
}
