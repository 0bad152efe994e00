package simevent

func init() {
	RegisterVariant("ChurnRiskScored", func() Variant { return &ChurnRiskScored{} })
	RegisterVariant("ChurnPrevented", func() Variant { return &ChurnPrevented{} })
}

// ChurnRiskScored is emitted by the churn subsystem for a customer whose
// churn risk was re-evaluated this tick.
type ChurnRiskScored struct {
	CustomerID string  `json:"customer_id"`
	Score      float64 `json:"score"`
}

func (ChurnRiskScored) EventVariant() string { return "ChurnRiskScored" }

// ChurnPrevented is emitted by the churn subsystem when a retention
// intervention succeeds.
type ChurnPrevented struct {
	CustomerID     string `json:"customer_id"`
	InterventionID string `json:"intervention_id"`
}

func (ChurnPrevented) EventVariant() string { return "ChurnPrevented" }
