package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var offerProducts = []string{"checking", "savings", "credit_card", "personal_loan"}

// offer generates a product offer for each newly acquired customer this
// tick, then independently rolls acceptance for every offer still open.
type offer struct {
	base
	counter int
	open    []openOffer
}

type openOffer struct {
	offerID    string
	customerID string
}

func newOffer(st *store.Store, log *kernellog.Logger) *offer {
	return &offer{base: base{name: "offer", slot: subsystem.SlotOffer, st: st, log: log.WithComponent("offer")}}
}

const offerAcceptanceChance = 0.35

func (o *offer) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, acq := range eventsOfType[*simevent.CustomerAcquired](eventsIn, "CustomerAcquired") {
		o.counter++
		offerID := nextID("offer", o.counter)
		product := offerProducts[rng.NextU64Below(uint64(len(offerProducts)))]
		out = append(out, simevent.New(uint64(t), &simevent.OfferGenerated{
			OfferID:    offerID,
			CustomerID: acq.CustomerID,
			ProductID:  product,
		}))
		o.open = append(o.open, openOffer{offerID: offerID, customerID: acq.CustomerID})
	}

	remaining := o.open[:0]
	for _, of := range o.open {
		if rng.Chance(offerAcceptanceChance) {
			out = append(out, simevent.New(uint64(t), &simevent.OfferAccepted{OfferID: of.offerID, CustomerID: of.customerID}))
			continue
		}
		remaining = append(remaining, of)
	}
	o.open = remaining

	return out, nil
}
