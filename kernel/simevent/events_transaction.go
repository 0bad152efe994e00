package simevent

import "github.com/govalues/decimal"

func init() {
	RegisterVariant("TransactionInitiated", func() Variant { return &TransactionInitiated{} })
	RegisterVariant("TransactionSettled", func() Variant { return &TransactionSettled{} })
	RegisterVariant("TransactionFailed", func() Variant { return &TransactionFailed{} })
}

// TransactionInitiated is emitted by the transaction subsystem when a new
// payment transaction is created.
type TransactionInitiated struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (TransactionInitiated) EventVariant() string { return "TransactionInitiated" }

// TransactionSettled is emitted once a transaction clears.
type TransactionSettled struct {
	TransactionID string `json:"transaction_id"`
}

func (TransactionSettled) EventVariant() string { return "TransactionSettled" }

// TransactionFailed is emitted when a transaction cannot be settled.
type TransactionFailed struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

func (TransactionFailed) EventVariant() string { return "TransactionFailed" }
