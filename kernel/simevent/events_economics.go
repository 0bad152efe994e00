package simevent

import "github.com/govalues/decimal"

func init() {
	RegisterVariant("QuarterlyPnLComputed", func() Variant { return &QuarterlyPnLComputed{} })
	RegisterVariant("NetInterestMarginComputed", func() Variant { return &NetInterestMarginComputed{} })
	RegisterVariant("EfficiencyRatioComputed", func() Variant { return &EfficiencyRatioComputed{} })
}

// QuarterlyPnLComputed is emitted by the economics subsystem at each
// quarter boundary, carrying that period's pre-tax profit.
type QuarterlyPnLComputed struct {
	Period        string          `json:"period"`
	PreTaxProfit  decimal.Decimal `json:"pre_tax_profit"`
}

func (QuarterlyPnLComputed) EventVariant() string { return "QuarterlyPnLComputed" }

// NetInterestMarginComputed is emitted by the economics subsystem each time
// it recomputes the desk's net interest margin.
type NetInterestMarginComputed struct {
	NIM decimal.Decimal `json:"nim"`
}

func (NetInterestMarginComputed) EventVariant() string { return "NetInterestMarginComputed" }

// EfficiencyRatioComputed is emitted by the economics subsystem each time
// it recomputes the desk's efficiency ratio.
type EfficiencyRatioComputed struct {
	EfficiencyRatio decimal.Decimal `json:"efficiency_ratio"`
}

func (EfficiencyRatioComputed) EventVariant() string { return "EfficiencyRatioComputed" }
