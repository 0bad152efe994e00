package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var complaintRootCauses = []string{"pricing_change", "system_outage", "staffing_shortfall", "policy_change"}

// complaintAnalytics keeps a rolling per-category complaint count across
// the whole run and flags a category whenever this tick's filings bring
// its total to a multiple of the trend threshold, occasionally attributing
// the trend to a root cause.
type complaintAnalytics struct {
	base
	totals map[string]int
}

func newComplaintAnalytics(st *store.Store, log *kernellog.Logger) *complaintAnalytics {
	return &complaintAnalytics{
		base:   base{name: "complaint_analytics", slot: subsystem.SlotComplaintAnalytics, st: st, log: log.WithComponent("complaint_analytics")},
		totals: map[string]int{},
	}
}

const (
	complaintAnalyticsTrendThreshold = 8
	complaintAnalyticsRootCauseChance = 0.5
)

func (ca *complaintAnalytics) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	flagged := map[string]bool{}
	for _, filed := range eventsOfType[*simevent.ComplaintFiled](eventsIn, "ComplaintFiled") {
		ca.totals[filed.Category]++
		if ca.totals[filed.Category] >= complaintAnalyticsTrendThreshold && ca.totals[filed.Category]%complaintAnalyticsTrendThreshold == 0 {
			flagged[filed.Category] = true
		}
	}

	for _, category := range sortedMapKeys(flagged) {
		count := ca.totals[category]
		out = append(out, simevent.New(uint64(t), &simevent.ComplaintTrendFlagged{Category: category, Count: count}))

		if rng.Chance(complaintAnalyticsRootCauseChance) {
			cause := complaintRootCauses[rng.NextU64Below(uint64(len(complaintRootCauses)))]
			out = append(out, simevent.New(uint64(t), &simevent.ComplaintRootCauseIdentified{Category: category, RootCause: cause}))
		}
	}

	return out, nil
}
