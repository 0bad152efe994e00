package simevent

// Engine-owned variants. Every tick is anchored by TickStarted at the
// start and TickCompleted at the end; RunInitialized appears exactly once,
// as the first event of tick 1 (see the RunInitialized ordering decision in
// SPEC_FULL.md §4.5).

func init() {
	RegisterVariant("TickStarted", func() Variant { return &TickStarted{} })
	RegisterVariant("TickCompleted", func() Variant { return &TickCompleted{} })
	RegisterVariant("RunInitialized", func() Variant { return &RunInitialized{} })
}

// TickStarted anchors the beginning of a tick. Always the first event of
// its tick.
type TickStarted struct {
	Tick uint64 `json:"tick"`
}

func (TickStarted) EventVariant() string { return "TickStarted" }

// TickCompleted anchors the end of a tick. Always the last event of its
// tick, and never written if the tick aborted partway through.
type TickCompleted struct {
	Tick uint64 `json:"tick"`
}

func (TickCompleted) EventVariant() string { return "TickCompleted" }

// RunInitialized marks the creation of a run. Carries the seed the whole
// run is pinned to.
type RunInitialized struct {
	RunID string `json:"run_id"`
	Seed  uint64 `json:"seed"`
}

func (RunInitialized) EventVariant() string { return "RunInitialized" }
