// Package tick defines the simulated-time primitives: the monotonic tick
// counter, simulation speed, and the per-run clock.
package tick

// Tick is a strictly monotonic counter of simulated days, starting at 0.
// The kernel advances it by exactly one per tick() call; ticks are never
// skipped.
type Tick uint64

// SimSpeed selects how fast bridged mode should advance ticks for the UI.
// The kernel itself has no notion of wall-clock pacing; SimSpeed is state
// the player sets and the external client interprets.
type SimSpeed int

const (
	SpeedPaused SimSpeed = iota
	SpeedNormal
	SpeedFast
	SpeedFastest
)

func (s SimSpeed) String() string {
	switch s {
	case SpeedPaused:
		return "paused"
	case SpeedNormal:
		return "normal"
	case SpeedFast:
		return "fast"
	case SpeedFastest:
		return "fastest"
	default:
		return "unknown"
	}
}

// ParseSimSpeed parses the wire representation of a SimSpeed, as sent by a
// SetSpeed command over IPC.
func ParseSimSpeed(s string) (SimSpeed, bool) {
	switch s {
	case "paused":
		return SpeedPaused, true
	case "normal":
		return SpeedNormal, true
	case "fast":
		return SpeedFast, true
	case "fastest":
		return SpeedFastest, true
	default:
		return SpeedPaused, false
	}
}

// Clock is the engine's per-run mutable state. Only the engine mutates it;
// every other component observes it read-only.
type Clock struct {
	CurrentTick Tick
	Speed       SimSpeed
	Paused      bool
}

// NewClock returns a clock in its initial state: tick 0, paused, normal
// speed.
func NewClock() *Clock {
	return &Clock{
		CurrentTick: 0,
		Speed:       SpeedNormal,
		Paused:      true,
	}
}

// Snapshot is the serialized image of a Clock, persisted every
// SNAPSHOT_INTERVAL ticks and keyed by (run_id, tick).
type Snapshot struct {
	Tick   Tick     `json:"tick"`
	Speed  SimSpeed `json:"speed"`
	Paused bool     `json:"paused"`
}

// ToSnapshot captures the clock's current state.
func (c *Clock) ToSnapshot() Snapshot {
	return Snapshot{Tick: c.CurrentTick, Speed: c.Speed, Paused: c.Paused}
}
