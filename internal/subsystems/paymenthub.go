package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var paymentRails = []string{"ach", "wire", "rtp", "card_network"}
var paymentReturnCodes = []string{"r01_insufficient_funds", "r02_account_closed", "r03_no_account"}

// paymentHub routes every transaction initiated this tick over a rail and
// occasionally bounces one back as returned.
type paymentHub struct {
	base
	counter int
}

func newPaymentHub(st *store.Store, log *kernellog.Logger) *paymentHub {
	return &paymentHub{base: base{name: "payment_hub", slot: subsystem.SlotPaymentHub, st: st, log: log.WithComponent("payment_hub")}}
}

const paymentReturnChance = 0.04

func (p *paymentHub) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		p.counter++
		paymentID := nextID("pay", p.counter)
		rail := paymentRails[rng.NextU64Below(uint64(len(paymentRails)))]
		out = append(out, simevent.New(uint64(t), &simevent.PaymentRouted{PaymentID: paymentID, Rail: rail}))

		if rng.Chance(paymentReturnChance) {
			code := paymentReturnCodes[rng.NextU64Below(uint64(len(paymentReturnCodes)))]
			out = append(out, simevent.New(uint64(t), &simevent.PaymentReturned{PaymentID: paymentID, ReturnCode: code}))
		}
	}

	return out, nil
}
