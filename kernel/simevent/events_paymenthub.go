package simevent

func init() {
	RegisterVariant("PaymentRouted", func() Variant { return &PaymentRouted{} })
	RegisterVariant("PaymentReturned", func() Variant { return &PaymentReturned{} })
}

// PaymentRouted is emitted by the payment-hub subsystem when a payment is
// routed onto a settlement rail.
type PaymentRouted struct {
	PaymentID string `json:"payment_id"`
	Rail      string `json:"rail"`
}

func (PaymentRouted) EventVariant() string { return "PaymentRouted" }

// PaymentReturned is emitted when a routed payment is rejected by the rail.
type PaymentReturned struct {
	PaymentID  string `json:"payment_id"`
	ReturnCode string `json:"return_code"`
}

func (PaymentReturned) EventVariant() string { return "PaymentReturned" }
