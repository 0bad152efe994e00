package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

// transactionMonitoring looks for behavioral patterns across the
// transactions initiated this tick, independent of fraud detection's
// per-transaction scoring, and escalates a fraction of detected patterns
// into a standing case.
type transactionMonitoring struct {
	base
	patternCounter int
	caseCounter    int
}

func newTransactionMonitoring(st *store.Store, log *kernellog.Logger) *transactionMonitoring {
	return &transactionMonitoring{base: base{name: "transaction_monitoring", slot: subsystem.SlotTransactionMonitoring, st: st, log: log.WithComponent("transaction_monitoring")}}
}

const (
	monitoringPatternChance  = 0.02
	monitoringEscalateChance = 0.4
)

func (tm *transactionMonitoring) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, init := range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		if !rng.Chance(monitoringPatternChance) {
			continue
		}
		tm.patternCounter++
		patternID := nextID("pattern", tm.patternCounter)
		out = append(out, simevent.New(uint64(t), &simevent.SuspiciousPatternDetected{PatternID: patternID, CustomerID: init.AccountID}))

		if rng.Chance(monitoringEscalateChance) {
			tm.caseCounter++
			out = append(out, simevent.New(uint64(t), &simevent.TransactionMonitoringCaseOpened{
				CaseID:     nextID("tmcase", tm.caseCounter),
				CustomerID: init.AccountID,
			}))
		}
	}

	return out, nil
}
