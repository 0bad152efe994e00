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

// reconciliation occasionally surfaces a ledger break against a
// settled transaction's account and resolves a fraction of the open
// breaks each tick, an ops backlog rather than a same-tick round trip.
type reconciliation struct {
	base
	counter  int
	open     []string
	accounts map[string]string
}

func newReconciliation(st *store.Store, log *kernellog.Logger) *reconciliation {
	return &reconciliation{
		base:     base{name: "reconciliation", slot: subsystem.SlotReconciliation, st: st, log: log.WithComponent("reconciliation")},
		accounts: map[string]string{},
	}
}

const (
	reconciliationBreakChance   = 0.03
	reconciliationResolveChance = 0.25
	reconciliationAmountLo      = 0.50
	reconciliationAmountHi      = 500.00
)

func (r *reconciliation) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, init := range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		r.accounts[init.TransactionID] = init.AccountID
	}

	for _, settled := range eventsOfType[*simevent.TransactionSettled](eventsIn, "TransactionSettled") {
		if !rng.Chance(reconciliationBreakChance) {
			continue
		}
		r.counter++
		breakID := nextID("break", r.counter)
		amountFloat := rng.FloatRange(reconciliationAmountLo, reconciliationAmountHi)
		amount, err := decimal.NewFromFloat64(amountFloat)
		if err != nil {
			return out, err
		}
		accountID := r.accounts[settled.TransactionID]
		delete(r.accounts, settled.TransactionID)
		out = append(out, simevent.New(uint64(t), &simevent.ReconciliationBreakDetected{
			BreakID:   breakID,
			AccountID: accountID,
			Amount:    amount.Round(2),
		}))
		r.open = append(r.open, breakID)
	}

	remaining := r.open[:0]
	for _, id := range r.open {
		if rng.Chance(reconciliationResolveChance) {
			out = append(out, simevent.New(uint64(t), &simevent.ReconciliationBreakResolved{BreakID: id}))
			continue
		}
		remaining = append(remaining, id)
	}
	r.open = remaining

	return out, nil
}
