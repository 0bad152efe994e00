package simevent

import "github.com/govalues/decimal"

// Variants synthesized when draining the PlayerCommand queue at the start
// of a tick (see kernel/command). Paused and Resumed are produced even
// though Pause/Resume also mutate the clock directly — the event gives
// subsystems and the replay log a record of when the player acted.

func init() {
	RegisterVariant("Paused", func() Variant { return &Paused{} })
	RegisterVariant("Resumed", func() Variant { return &Resumed{} })
	RegisterVariant("SpeedChanged", func() Variant { return &SpeedChanged{} })
	RegisterVariant("ProductFeeChanged", func() Variant { return &ProductFeeChanged{} })
	RegisterVariant("RiskDialChanged", func() Variant { return &RiskDialChanged{} })
	RegisterVariant("ComplaintClosed", func() Variant { return &ComplaintClosed{} })
}

// Paused records that the player paused the simulation.
type Paused struct{}

func (Paused) EventVariant() string { return "Paused" }

// Resumed records that the player resumed the simulation.
type Resumed struct{}

func (Resumed) EventVariant() string { return "Resumed" }

// SpeedChanged records a SetSpeed command.
type SpeedChanged struct {
	NewSpeed string `json:"new_speed"`
}

func (SpeedChanged) EventVariant() string { return "SpeedChanged" }

// ProductFeeChanged records a SetProductFee command.
type ProductFeeChanged struct {
	ProductID string          `json:"product_id"`
	FeeType   string          `json:"fee_type"`
	OldValue  decimal.Decimal `json:"old_value"`
	NewValue  decimal.Decimal `json:"new_value"`
}

func (ProductFeeChanged) EventVariant() string { return "ProductFeeChanged" }

// RiskDialChanged records a SetRiskDial command.
type RiskDialChanged struct {
	DialID   string          `json:"dial_id"`
	OldValue decimal.Decimal `json:"old_value"`
	NewValue decimal.Decimal `json:"new_value"`
}

func (RiskDialChanged) EventVariant() string { return "RiskDialChanged" }

// ComplaintClosed records a CloseComplaint command.
type ComplaintClosed struct {
	ComplaintID    string `json:"complaint_id"`
	ResolutionCode string `json:"resolution_code"`
}

func (ComplaintClosed) EventVariant() string { return "ComplaintClosed" }
