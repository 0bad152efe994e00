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

var cardDisputeReasons = []string{"unauthorized", "duplicate_charge", "goods_not_received", "billing_error"}
var cardDisputeOutcomes = []string{"merchant_favor", "cardholder_favor", "withdrawn"}

// cardDispute opens a dispute against a minority of settled transactions,
// resolves open disputes over time, and issues a chargeback whenever a
// resolution favors the cardholder.
type cardDispute struct {
	base
	counter  int
	open     map[string]string // disputeID -> transactionID
	amounts  map[string]decimal.Decimal
}

func newCardDispute(st *store.Store, log *kernellog.Logger) *cardDispute {
	return &cardDispute{
		base:    base{name: "card_dispute", slot: subsystem.SlotCardDispute, st: st, log: log.WithComponent("card_dispute")},
		open:    map[string]string{},
		amounts: map[string]decimal.Decimal{},
	}
}

const (
	cardDisputeOpenChance    = 0.02
	cardDisputeResolveChance = 0.3
	cardDisputeAmountLo      = 10.00
	cardDisputeAmountHi      = 1200.00
)

func (cd *cardDispute) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, settled := range eventsOfType[*simevent.TransactionSettled](eventsIn, "TransactionSettled") {
		if !rng.Chance(cardDisputeOpenChance) {
			continue
		}
		cd.counter++
		disputeID := nextID("dispute", cd.counter)
		reason := cardDisputeReasons[rng.NextU64Below(uint64(len(cardDisputeReasons)))]
		out = append(out, simevent.New(uint64(t), &simevent.CardDisputeOpened{
			DisputeID:     disputeID,
			TransactionID: settled.TransactionID,
			Reason:        reason,
		}))
		cd.open[disputeID] = settled.TransactionID

		amountFloat := rng.FloatRange(cardDisputeAmountLo, cardDisputeAmountHi)
		amount, err := decimal.NewFromFloat64(amountFloat)
		if err != nil {
			return out, err
		}
		cd.amounts[disputeID] = amount.Round(2)
	}

	for _, id := range sortedMapKeys(cd.open) {
		if !rng.Chance(cardDisputeResolveChance) {
			continue
		}
		outcome := cardDisputeOutcomes[rng.NextU64Below(uint64(len(cardDisputeOutcomes)))]
		out = append(out, simevent.New(uint64(t), &simevent.CardDisputeResolved{DisputeID: id, Outcome: outcome}))
		if outcome == "cardholder_favor" {
			out = append(out, simevent.New(uint64(t), &simevent.ChargebackIssued{DisputeID: id, Amount: cd.amounts[id]}))
		}
		delete(cd.open, id)
		delete(cd.amounts, id)
	}

	return out, nil
}

