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

var transactionFailureReasons = []string{"insufficient_funds", "account_frozen", "network_timeout", "card_declined"}

// transaction generates a stream of payments against every account opened
// by an accepted offer, settling most of them and failing a minority.
type transaction struct {
	base
	accounts []string
	counter  int
}

func newTransaction(st *store.Store, log *kernellog.Logger) *transaction {
	return &transaction{base: base{name: "transaction", slot: subsystem.SlotTransaction, st: st, log: log.WithComponent("transaction")}}
}

const (
	transactionFailureChance = 0.08
	transactionMaxPerTick    = 4
	transactionAmountLo      = 5.00
	transactionAmountHi      = 2500.00
)

func (tr *transaction) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, acc := range eventsOfType[*simevent.OfferAccepted](eventsIn, "OfferAccepted") {
		tr.accounts = append(tr.accounts, acc.CustomerID)
	}
	if len(tr.accounts) == 0 {
		return out, nil
	}

	count := int(rng.IntRange(0, transactionMaxPerTick))
	for i := 0; i < count; i++ {
		acctIdx := rng.NextU64Below(uint64(len(tr.accounts)))
		accountID := tr.accounts[acctIdx]
		tr.counter++
		txID := nextID("txn", tr.counter)

		amountFloat := rng.FloatRange(transactionAmountLo, transactionAmountHi)
		amount, err := decimal.NewFromFloat64(amountFloat)
		if err != nil {
			return out, err
		}
		amount = amount.Round(2)

		out = append(out, simevent.New(uint64(t), &simevent.TransactionInitiated{
			TransactionID: txID,
			AccountID:     accountID,
			Amount:        amount,
		}))

		if rng.Chance(transactionFailureChance) {
			reason := transactionFailureReasons[rng.NextU64Below(uint64(len(transactionFailureReasons)))]
			out = append(out, simevent.New(uint64(t), &simevent.TransactionFailed{TransactionID: txID, Reason: reason}))
			continue
		}
		out = append(out, simevent.New(uint64(t), &simevent.TransactionSettled{TransactionID: txID}))
	}

	return out, nil
}
