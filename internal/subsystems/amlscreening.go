package subsystems

import (
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/rngbank"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
	"github.com/fincrime/thedesk/kernel/tick"
)

var sanctionsLists = []string{"ofac_sdn", "un_consolidated", "eu_consolidated"}

// amlScreening screens every newly acquired customer against sanctions
// lists at onboarding, and independently re-screens a fraction of active
// transactions for a later hit. Hits carry no severity: each tick every
// open hit is escalated to a filed SAR with probability amlSARChance,
// otherwise cleared with probability amlClearChance, otherwise kept open.
type amlScreening struct {
	base
	caseCounter int
	hits        map[string]string // customerID -> listName
}

func newAMLScreening(st *store.Store, log *kernellog.Logger) *amlScreening {
	return &amlScreening{
		base: base{name: "aml_screening", slot: subsystem.SlotAMLScreening, st: st, log: log.WithComponent("aml_screening")},
		hits: map[string]string{},
	}
}

const (
	amlOnboardingHitChance = 0.01
	amlTransactionHitChance = 0.005
	amlSARChance           = 0.3
	amlClearChance         = 0.4
)

func (a *amlScreening) Update(t tick.Tick, eventsIn []simevent.SimEvent, rng *rngbank.SubsystemRng) ([]simevent.SimEvent, error) {
	var out []simevent.SimEvent

	for _, acq := range eventsOfType[*simevent.CustomerAcquired](eventsIn, "CustomerAcquired") {
		if !rng.Chance(amlOnboardingHitChance) {
			continue
		}
		list := sanctionsLists[rng.NextU64Below(uint64(len(sanctionsLists)))]
		out = append(out, simevent.New(uint64(t), &simevent.SanctionsScreeningHit{CustomerID: acq.CustomerID, ListName: list}))
		a.hits[acq.CustomerID] = list
	}

	for _, init := range eventsOfType[*simevent.TransactionInitiated](eventsIn, "TransactionInitiated") {
		if _, already := a.hits[init.AccountID]; already {
			continue
		}
		if !rng.Chance(amlTransactionHitChance) {
			continue
		}
		list := sanctionsLists[rng.NextU64Below(uint64(len(sanctionsLists)))]
		out = append(out, simevent.New(uint64(t), &simevent.SanctionsScreeningHit{CustomerID: init.AccountID, ListName: list}))
		a.hits[init.AccountID] = list
	}

	for _, id := range sortedMapKeys(a.hits) {
		if rng.Chance(amlSARChance) {
			a.caseCounter++
			out = append(out, simevent.New(uint64(t), &simevent.SARFiled{CaseID: nextID("sar", a.caseCounter), CustomerID: id}))
			delete(a.hits, id)
			continue
		}
		if rng.Chance(amlClearChance) {
			out = append(out, simevent.New(uint64(t), &simevent.SanctionsScreeningCleared{CustomerID: id}))
			delete(a.hits, id)
		}
	}

	return out, nil
}

