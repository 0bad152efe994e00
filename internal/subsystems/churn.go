package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var churnReasons = []string{"fees", "poor_service", "competitor_offer", "relocation"}

// churn tracks every acquired customer's risk score and decides each tick
// whether an at-risk customer churns outright or is saved by an
// intervention. The roster is in-memory, rebuilt from CustomerAcquired/
// CustomerChurned events as they flow through, never read back from the
// store.
type churn struct {
	base
	roster   map[string]float64
	interven int
}

func newChurn(st *store.Store, log *kernellog.Logger) *churn {
	return &churn{
		base:   base{name: "churn", slot: subsystem.SlotChurn, st: st, log: log.WithComponent("churn")},
		roster: map[string]float64{},
	}
}

const (
	churnHighRiskThreshold  = 0.7
	churnInterventionChance = 0.5
	churnBaseScoreLo        = 0.05
	churnBaseScoreHi        = 0.95
)

func (c *churn) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, acq := range eventsOfType[*simevent.CustomerAcquired](eventsIn, "CustomerAcquired") {
		c.roster[acq.CustomerID] = rng.FloatRange(churnBaseScoreLo, churnBaseScoreHi)
	}

	ids := sortedMapKeys(c.roster)
	for _, id := range ids {
		score := clamp(c.roster[id]+rng.FloatRange(-0.1, 0.1), 0, 1)
		c.roster[id] = score
		out = append(out, simevent.New(uint64(t), &simevent.ChurnRiskScored{CustomerID: id, Score: score}))

		if score < churnHighRiskThreshold {
			continue
		}
		if rng.Chance(churnInterventionChance) {
			c.interven++
			out = append(out, simevent.New(uint64(t), &simevent.ChurnPrevented{
				CustomerID:     id,
				InterventionID: nextID("intervention", c.interven),
			}))
			c.roster[id] = churnHighRiskThreshold - 0.1
			continue
		}
		reason := churnReasons[rng.NextU64Below(uint64(len(churnReasons)))]
		out = append(out, simevent.New(uint64(t), &simevent.CustomerChurned{CustomerID: id, Reason: reason}))
		delete(c.roster, id)
	}

	return out, nil
}

