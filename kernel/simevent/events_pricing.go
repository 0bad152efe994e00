package simevent

import "github.com/govalues/decimal"

func init() {
	RegisterVariant("ProductFeeScheduleUpdated", func() Variant { return &ProductFeeScheduleUpdated{} })
	RegisterVariant("PricingTierChanged", func() Variant { return &PricingTierChanged{} })
}

// ProductFeeScheduleUpdated is emitted by the pricing subsystem to
// acknowledge each ProductFeeChanged command-injected event (a player
// edit), echoing its product, fee type and new value.
type ProductFeeScheduleUpdated struct {
	ProductID string          `json:"product_id"`
	FeeType   string          `json:"fee_type"`
	NewValue  decimal.Decimal `json:"new_value"`
}

func (ProductFeeScheduleUpdated) EventVariant() string { return "ProductFeeScheduleUpdated" }

// PricingTierChanged is emitted when a product moves between pricing
// tiers.
type PricingTierChanged struct {
	ProductID string `json:"product_id"`
	NewTier   string `json:"new_tier"`
}

func (PricingTierChanged) EventVariant() string { return "PricingTierChanged" }
