package simevent

func init() {
	RegisterVariant("ComplaintFiled", func() Variant { return &ComplaintFiled{} })
	RegisterVariant("ComplaintSLABreached", func() Variant { return &ComplaintSLABreached{} })
	RegisterVariant("ComplaintResolved", func() Variant { return &ComplaintResolved{} })
}

// ComplaintFiled is emitted by the complaint subsystem when a customer
// files a new complaint.
type ComplaintFiled struct {
	ComplaintID string `json:"complaint_id"`
	CustomerID  string `json:"customer_id"`
	Category    string `json:"category"`
}

func (ComplaintFiled) EventVariant() string { return "ComplaintFiled" }

// ComplaintSLABreached is emitted when an open complaint crosses its
// service-level deadline unresolved.
type ComplaintSLABreached struct {
	ComplaintID string `json:"complaint_id"`
}

func (ComplaintSLABreached) EventVariant() string { return "ComplaintSLABreached" }

// ComplaintResolved is emitted when the complaint subsystem resolves an
// open complaint. A CloseComplaint command produces ComplaintClosed instead.
type ComplaintResolved struct {
	ComplaintID    string `json:"complaint_id"`
	ResolutionCode string `json:"resolution_code"`
}

func (ComplaintResolved) EventVariant() string { return "ComplaintResolved" }
