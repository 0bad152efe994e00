package simevent

import "github.com/govalues/decimal"

func init() {
	RegisterVariant("CardDisputeOpened", func() Variant { return &CardDisputeOpened{} })
	RegisterVariant("CardDisputeResolved", func() Variant { return &CardDisputeResolved{} })
	RegisterVariant("ChargebackIssued", func() Variant { return &ChargebackIssued{} })
}

// CardDisputeOpened is emitted by the card-dispute subsystem when a
// cardholder disputes a transaction.
type CardDisputeOpened struct {
	DisputeID     string `json:"dispute_id"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

func (CardDisputeOpened) EventVariant() string { return "CardDisputeOpened" }

// CardDisputeResolved is emitted when a dispute reaches a final outcome.
type CardDisputeResolved struct {
	DisputeID string `json:"dispute_id"`
	Outcome   string `json:"outcome"`
}

func (CardDisputeResolved) EventVariant() string { return "CardDisputeResolved" }

// ChargebackIssued is emitted when a resolved dispute results in a
// chargeback against the merchant.
type ChargebackIssued struct {
	DisputeID string          `json:"dispute_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func (ChargebackIssued) EventVariant() string { return "ChargebackIssued" }
