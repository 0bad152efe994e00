package subsystem

// Slot identifies a subsystem's fixed position in the tick execution order
// and its dedicated RNG stream identity (see kernel/rngbank.ForSlotTick).
// This enumeration is append-only: reordering or removing an existing
// constant would change every derived RNG stream for every tick ever
// recorded, breaking replay of existing runs. New subsystems are always
// given the next unused value.
type Slot int

const (
	SlotMacro Slot = iota + 1
	SlotCustomer
	SlotOffer
	SlotChurn
	SlotTransaction
	SlotPaymentHub
	SlotReconciliation
	SlotCardDispute
	SlotFraudDetection
	SlotAMLScreening
	SlotTransactionMonitoring
	SlotComplaint
	SlotPricing
	SlotEconomics
	SlotComplaintAnalytics
	SlotRiskAppetite

	// SlotIncident is reserved for the test-only incident subsystem
	// (build tag kerneltest) used to exercise engine error-handling paths.
	// It is intentionally last so that its presence or absence never
	// perturbs the RNG streams of the sixteen production subsystems above.
	SlotIncident
)

// executionOrder is the fixed sequence in which registered subsystems run
// within a single tick. It is derived from, not identical to, the Slot
// iota values: a Slot is identity, this slice is order. The two coincide
// today but are kept separate so a future re-ordering of execution would
// not silently renumber RNG streams.
var executionOrder = []Slot{
	SlotMacro,
	SlotCustomer,
	SlotOffer,
	SlotChurn,
	SlotTransaction,
	SlotPaymentHub,
	SlotReconciliation,
	SlotCardDispute,
	SlotFraudDetection,
	SlotAMLScreening,
	SlotTransactionMonitoring,
	SlotComplaint,
	SlotPricing,
	SlotEconomics,
	SlotComplaintAnalytics,
	SlotRiskAppetite,
}

// ExecutionOrder returns the fixed slot sequence the engine runs every
// tick, not including SlotIncident (which a test build appends itself).
func ExecutionOrder() []Slot {
	out := make([]Slot, len(executionOrder))
	copy(out, executionOrder)
	return out
}
