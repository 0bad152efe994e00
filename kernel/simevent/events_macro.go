package simevent

func init() {
	RegisterVariant("InterestRateChanged", func() Variant { return &InterestRateChanged{} })
	RegisterVariant("UnemploymentRateChanged", func() Variant { return &UnemploymentRateChanged{} })
}

// InterestRateChanged is emitted by the macro subsystem when the simulated
// base rate moves.
type InterestRateChanged struct {
	OldRate float64 `json:"old_rate"`
	NewRate float64 `json:"new_rate"`
}

func (InterestRateChanged) EventVariant() string { return "InterestRateChanged" }

// UnemploymentRateChanged is emitted by the macro subsystem when the
// simulated unemployment rate moves.
type UnemploymentRateChanged struct {
	OldRate float64 `json:"old_rate"`
	NewRate float64 `json:"new_rate"`
}

func (UnemploymentRateChanged) EventVariant() string { return "UnemploymentRateChanged" }
