//go:build kerneltest

package simevent

// Incident variants exist only in test builds (build tag kerneltest),
// grounding the optional incident subsystem at SlotIncident described in
// SPEC_FULL.md §4.5/§8.

func init() {
	RegisterVariant("IncidentDeclared", func() Variant { return &IncidentDeclared{} })
	RegisterVariant("IncidentResolved", func() Variant { return &IncidentResolved{} })
}

// IncidentDeclared is emitted by the test-only incident subsystem.
type IncidentDeclared struct {
	IncidentID string `json:"incident_id"`
	Severity   string `json:"severity"`
}

func (IncidentDeclared) EventVariant() string { return "IncidentDeclared" }

// IncidentResolved is emitted when a declared incident is closed out.
type IncidentResolved struct {
	IncidentID string `json:"incident_id"`
}

func (IncidentResolved) EventVariant() string { return "IncidentResolved" }
