package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var customerSegments = []string{"mass_market", "affluent", "small_business", "student"}

// customer acquires new customers each tick and completes each one's KYC
// review customerKYCDelayTicks ticks after acquisition. The open-KYC queue is
// kept in memory; it is rebuilt from nothing at construction, which is
// safe because a run never restarts mid-flight.
type customer struct {
	base
	counter int
	openKYC []pendingKYC
}

type pendingKYC struct {
	customerID string
	dueTick    uint64
}

func newCustomer(st *store.Store, log *kernellog.Logger) *customer {
	return &customer{base: base{name: "customer", slot: subsystem.SlotCustomer, st: st, log: log.WithComponent("customer")}}
}

const (
	customerAcquisitionChance = 0.6
	customerMaxPerTick        = 3
	customerKYCDelayTicks     = 2
)

func (c *customer) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	acquired := int(rng.IntRange(0, customerMaxPerTick))
	for i := 0; i < acquired; i++ {
		if !rng.Chance(customerAcquisitionChance) {
			continue
		}
		c.counter++
		id := nextID("cust", c.counter)
		segment := customerSegments[rng.NextU64Below(uint64(len(customerSegments)))]
		out = append(out, simevent.New(uint64(t), &simevent.CustomerAcquired{CustomerID: id, Segment: segment}))
		c.openKYC = append(c.openKYC, pendingKYC{customerID: id, dueTick: uint64(t) + customerKYCDelayTicks})
	}

	remaining := c.openKYC[:0]
	ratings := []string{"low", "medium", "high"}
	for _, p := range c.openKYC {
		if uint64(t) < p.dueTick {
			remaining = append(remaining, p)
			continue
		}
		rating := ratings[rng.NextU64Below(uint64(len(ratings)))]
		out = append(out, simevent.New(uint64(t), &simevent.CustomerKYCCompleted{CustomerID: p.customerID, RiskRating: rating}))
	}
	c.openKYC = remaining

	return out, nil
}
