// Package ids defines the opaque identifier types shared across the kernel.
package ids

import "github.com/google/uuid"

// RunId identifies one isolated simulation run. Pinned at bootstrap,
// never mutated, never reused by the kernel itself.
type RunId string

// NewRunId generates a fresh, random RunId.
func NewRunId() RunId {
	return RunId(uuid.NewString())
}

// EntityId identifies a domain entity (customer, complaint, product, ...).
// The kernel treats it as an opaque string; subsystems define their own
// formats.
type EntityId string
