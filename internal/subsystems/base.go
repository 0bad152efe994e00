// Package subsystems holds the sixteen domain modules registered with
// the engine in canonical execution order, plus the test-only incident
// subsystem. Each subsystem is a thin, pure-function-of-its-inputs
// wrapper: it keeps its own in-run working set in memory (customer
// rosters, open case IDs, running counters), built up tick by tick from
// nothing since construction, and never reads any ambient clock or
// unseeded randomness — only rng, eventsIn, and its own prior state.
package subsystems

import (
	"fmt"

	"github.com/fincrime/thedesk/kernel/config"
	"github.com/fincrime/thedesk/kernel/kernellog"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store"
	"github.com/fincrime/thedesk/kernel/subsystem"
)

// base supplies the Name/Slot half of the subsystem.Subsystem contract so
// each concrete subsystem only implements Update.
type base struct {
	name string
	slot subsystem.Slot
	st   *store.Store
	log  *kernellog.Logger
}

func (b *base) Name() string          { return b.name }
func (b *base) Slot() subsystem.Slot  { return b.slot }

// nextID formats a deterministic, per-run-unique identifier from the
// subsystem's own monotonically increasing counter. Never derived from
// rng, so two subsystems can mint IDs without perturbing each other's
// streams, and never derived from wall-clock time.
func nextID(prefix string, counter int) string {
	return fmt.Sprintf("%s-%06d", prefix, counter)
}

// sortedMapKeys returns a map's keys in ascending lexical order, the
// pattern every subsystem uses to make map-backed roster iteration
// deterministic across runs (Go's map iteration order is randomized per
// process, which would break replay equality if relied on directly).
func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// eventsOfType filters eventsIn down to payloads of one concrete type,
// the pattern every downstream subsystem uses to react to what producers
// earlier in the execution order emitted this tick.
func eventsOfType[T simevent.Variant](eventsIn []simevent.SimEvent, tag string) []T {
	var out []T
	for _, e := range eventsIn {
		if e.Tag != tag {
			continue
		}
		if v, ok := e.Payload.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// BuildAll constructs every production subsystem in canonical execution
// order, wiring each to the shared store and a component-tagged logger.
// cfg is accepted but not read: no subsystem receives a configuration
// document, and each one runs on its built-in constants.
func BuildAll(cfg *config.Config, st *store.Store, log *kernellog.Logger) ([]subsystem.Subsystem, error) {
	subs := []subsystem.Subsystem{
		newMacro(st, log),
		newCustomer(st, log),
		newOffer(st, log),
		newChurn(st, log),
		newTransaction(st, log),
		newPaymentHub(st, log),
		newReconciliation(st, log),
		newCardDispute(st, log),
		newFraudDetection(st, log),
		newAMLScreening(st, log),
		newTransactionMonitoring(st, log),
		newComplaint(st, log),
		newPricing(st, log),
		newEconomics(st, log),
		newComplaintAnalytics(st, log),
		newRiskAppetite(st, log),
	}
	return appendIncident(subs, st, log), nil
}
