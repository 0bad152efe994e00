package simevent

import "github.com/govalues/decimal"

func init() {
	RegisterVariant("RiskDialBreached", func() Variant { return &RiskDialBreached{} })
	RegisterVariant("RiskAppetiteStatementUpdated", func() Variant { return &RiskAppetiteStatementUpdated{} })
}

// RiskDialBreached is emitted by the risk-appetite subsystem when a
// monitored dial crosses its configured threshold.
type RiskDialBreached struct {
	DialID    string          `json:"dial_id"`
	Value     decimal.Decimal `json:"value"`
	Threshold decimal.Decimal `json:"threshold"`
}

func (RiskDialBreached) EventVariant() string { return "RiskDialBreached" }

// RiskAppetiteStatementUpdated is emitted when the risk-appetite subsystem
// revises a dial's target value on its own initiative.
type RiskAppetiteStatementUpdated struct {
	DialID   string          `json:"dial_id"`
	NewValue decimal.Decimal `json:"new_value"`
}

func (RiskAppetiteStatementUpdated) EventVariant() string { return "RiskAppetiteStatementUpdated" }
