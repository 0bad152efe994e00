package simevent

import "github.com/govalues/decimal"

func init() {
	RegisterVariant("ReconciliationBreakDetected", func() Variant { return &ReconciliationBreakDetected{} })
	RegisterVariant("ReconciliationBreakResolved", func() Variant { return &ReconciliationBreakResolved{} })
}

// ReconciliationBreakDetected is emitted by the reconciliation subsystem
// when a ledger and a rail disagree on a transaction's amount.
type ReconciliationBreakDetected struct {
	BreakID   string          `json:"break_id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func (ReconciliationBreakDetected) EventVariant() string { return "ReconciliationBreakDetected" }

// ReconciliationBreakResolved is emitted once a previously detected break
// is cleared.
type ReconciliationBreakResolved struct {
	BreakID string `json:"break_id"`
}

func (ReconciliationBreakResolved) EventVariant() string { return "ReconciliationBreakResolved" }
