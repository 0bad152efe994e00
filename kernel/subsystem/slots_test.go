package subsystem

import "testing"

func TestExecutionOrderLength(t *testing.T) {
	order := ExecutionOrder()
	if len(order) != 16 {
		t.Fatalf("expected 16 production slots, got %d", len(order))
	}
}

func TestExecutionOrderExcludesIncident(t *testing.T) {
	for _, s := range ExecutionOrder() {
		if s == SlotIncident {
			t.Fatalf("ExecutionOrder must not include SlotIncident")
		}
	}
}

func TestExecutionOrderIsDefensiveCopy(t *testing.T) {
	order := ExecutionOrder()
	order[0] = SlotIncident
	again := ExecutionOrder()
	if again[0] == SlotIncident {
		t.Fatalf("mutating a returned slice must not affect future calls")
	}
}

func TestExecutionOrderMatchesSlotConstants(t *testing.T) {
	want := []Slot{
		SlotMacro, SlotCustomer, SlotOffer, SlotChurn, SlotTransaction,
		SlotPaymentHub, SlotReconciliation, SlotCardDispute, SlotFraudDetection,
		SlotAMLScreening, SlotTransactionMonitoring, SlotComplaint, SlotPricing,
		SlotEconomics, SlotComplaintAnalytics, SlotRiskAppetite,
	}
	got := ExecutionOrder()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: want %d, got %d", i, want[i], got[i])
		}
	}
}
