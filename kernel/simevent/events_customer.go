package simevent

func init() {
	RegisterVariant("CustomerAcquired", func() Variant { return &CustomerAcquired{} })
	RegisterVariant("CustomerChurned", func() Variant { return &CustomerChurned{} })
	RegisterVariant("CustomerKYCCompleted", func() Variant { return &CustomerKYCCompleted{} })
}

// CustomerAcquired is emitted by the customer subsystem when a new
// customer joins the bank.
type CustomerAcquired struct {
	CustomerID string `json:"customer_id"`
	Segment    string `json:"segment"`
}

func (CustomerAcquired) EventVariant() string { return "CustomerAcquired" }

// CustomerChurned is emitted by the churn subsystem when a customer closes
// their last account.
type CustomerChurned struct {
	CustomerID string `json:"customer_id"`
	Reason     string `json:"reason"`
}

func (CustomerChurned) EventVariant() string { return "CustomerChurned" }

// CustomerKYCCompleted is emitted by the customer subsystem once onboarding
// KYC assigns an initial risk rating.
type CustomerKYCCompleted struct {
	CustomerID string `json:"customer_id"`
	RiskRating string `json:"risk_rating"`
}

func (CustomerKYCCompleted) EventVariant() string { return "CustomerKYCCompleted" }
