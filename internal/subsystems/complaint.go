package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var complaintCategories = []string{"billing", "fraud_handling", "account_access", "fees", "customer_service"}
var complaintResolutionCodes = []string{"goodwill_credit", "fee_waived", "explained_no_error", "escalated_fixed"}

// complaint files new complaints from churned customers and from the
// account holders of failed transactions, ages every open complaint toward
// its SLA deadline, breaches it if still open, and resolves a fraction of
// the backlog each tick. ComplaintClosed (player command) and
// ComplaintResolved (this subsystem) are both terminal: a complaint named
// by a ComplaintClosed event is dropped from the open set here, before the
// SLA and resolution pass, so it is never breached or resolved afterwards.
type complaint struct {
	base
	counter int
	open    map[string]uint64 // complaintID -> SLA deadline tick
	breached map[string]bool
}

func newComplaint(st *store.Store, log *kernellog.Logger) *complaint {
	return &complaint{
		base:     base{name: "complaint", slot: subsystem.SlotComplaint, st: st, log: log.WithComponent("complaint")},
		open:     map[string]uint64{},
		breached: map[string]bool{},
	}
}

const (
	complaintFileChance   = 0.05
	complaintSLATicks     = 5
	complaintResolveChance = 0.3
)

func (c *complaint) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, churned := range eventsOfType[*simevent.CustomerChurned](eventsIn, "CustomerChurned") {
		if !rng.Chance(complaintFileChance) {
			continue
		}
		c.file(churned.CustomerID, rng, uint64(t), &out)
	}
	accounts := map[string]string{}
	for _, initiated := range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		accounts[initiated.TransactionID] = initiated.AccountID
	}
	for _, failed := range eventsOfType[*simevent.TransactionFailed](eventsIn, "TransactionFailed") {
		if !rng.Chance(complaintFileChance) {
			continue
		}
		c.file(accounts[failed.TransactionID], rng, uint64(t), &out)
	}

	for _, closed := range eventsOfType[*simevent.ComplaintClosed](eventsIn, "ComplaintClosed") {
		delete(c.open, closed.ComplaintID)
		delete(c.breached, closed.ComplaintID)
	}

	for _, id := range sortedMapKeys(c.open) {
		deadline := c.open[id]
		if uint64(t) >= deadline && !c.breached[id] {
			c.breached[id] = true
			out = append(out, simevent.New(uint64(t), &simevent.ComplaintSLABreached{ComplaintID: id}))
		}
		if rng.Chance(complaintResolveChance) {
			code := complaintResolutionCodes[rng.NextU64Below(uint64(len(complaintResolutionCodes)))]
			out = append(out, simevent.New(uint64(t), &simevent.ComplaintResolved{ComplaintID: id, ResolutionCode: code}))
			delete(c.open, id)
			delete(c.breached, id)
		}
	}

	return out, nil
}

func (c *complaint) file(customerID string, rng *rngbank.SubsystemRng, t uint64, out *[]simevent.SimEvent) {
	c.counter++
	id := nextID("complaint", c.counter)
	category := complaintCategories[rng.NextU64Below(uint64(len(complaintCategories)))]
	*out = append(*out, simevent.New(t, &simevent.ComplaintFiled{ComplaintID: id, CustomerID: customerID, Category: category}))
	c.open[id] = t + complaintSLATicks
}
