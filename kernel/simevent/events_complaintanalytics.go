package simevent

func init() {
	RegisterVariant("ComplaintTrendFlagged", func() Variant { return &ComplaintTrendFlagged{} })
	RegisterVariant("ComplaintRootCauseIdentified", func() Variant { return &ComplaintRootCauseIdentified{} })
}

// ComplaintTrendFlagged is emitted by the complaint-analytics subsystem
// when a complaint category's run-wide count reaches a multiple of the
// trend threshold during the tick.
type ComplaintTrendFlagged struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (ComplaintTrendFlagged) EventVariant() string { return "ComplaintTrendFlagged" }

// ComplaintRootCauseIdentified is emitted when the complaint-analytics
// subsystem attributes a trend to an upstream root cause.
type ComplaintRootCauseIdentified struct {
	Category  string `json:"category"`
	RootCause string `json:"root_cause"`
}

func (ComplaintRootCauseIdentified) EventVariant() string { return "ComplaintRootCauseIdentified" }
