package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

// fraudDetection scores every transaction initiated this tick, raises an
// alert above threshold, freezes the account on the rare high-confidence
// hit, and independently clears a fraction of open alerts.
type fraudDetection struct {
	base
	counter int
	open    []string
}

func newFraudDetection(st *store.Store, log *kernellog.Logger) *fraudDetection {
	return &fraudDetection{base: base{name: "fraud_detection", slot: subsystem.SlotFraudDetection, st: st, log: log.WithComponent("fraud_detection")}}
}

const (
	fraudAlertThreshold = 0.85
	fraudFreezeThreshold = 0.97
	fraudClearChance    = 0.2
)

func (fd *fraudDetection) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, init := range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		score := rng.FloatRange(0, 1)
		if score < fraudAlertThreshold {
			continue
		}
		fd.counter++
		alertID := nextID("alert", fd.counter)
		out = append(out, simevent.New(uint64(t), &simevent.FraudAlertRaised{
			AlertID:    alertID,
			CustomerID: init.AccountID,
			Score:      score,
		}))
		fd.open = append(fd.open, alertID)

		if score >= fraudFreezeThreshold {
			out = append(out, simevent.New(uint64(t), &simevent.AccountFrozen{AccountID: init.AccountID, Reason: "high_confidence_fraud_alert"}))
		}
	}

	remaining := fd.open[:0]
	for _, id := range fd.open {
		if rng.Chance(fraudClearChance) {
			out = append(out, simevent.New(uint64(t), &simevent.FraudAlertCleared{AlertID: id}))
			continue
		}
		remaining = append(remaining, id)
	}
	fd.open = remaining

	return out, nil
}
