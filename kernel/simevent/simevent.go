// Package simevent defines SimEvent, the closed, append-only catalogue of
// tagged event variants produced during a tick. Variants are grouped by
// originating subsystem into sibling files (events_engine.go,
// events_customer.go, ...) under this one envelope type, per the
// split-by-domain guidance for large tagged catalogues: the serialized wire
// form never changes shape because of this split.
//
// Variants are added but never renamed or removed. A retired variant is
// left in place marked deprecated in its doc comment.
package simevent

import (
	"encoding/json"
	"fmt"
)

// SimEvent is the envelope persisted to the event log: a tag identifying
// the variant, the tick it was produced on, and the variant's own payload.
// The Tag must exactly match the payload type's EventVariant() return value.
type SimEvent struct {
	Tag     string
	Tick    uint64
	Payload Variant
}

// Variant is satisfied by every concrete event payload type.
type Variant interface {
	// EventVariant returns the stable wire tag for this payload type. It
	// never changes once a variant ships.
	EventVariant() string
}

// wireEnvelope is the JSON shape written to the event log's payload column:
// {"type": "<tag>", "tick": <n>, "data": {...}}.
type wireEnvelope struct {
	Type string          `json:"type"`
	Tick uint64          `json:"tick"`
	Data json.RawMessage `json:"data"`
}

// Serialize encodes a SimEvent to its self-describing textual wire form.
func Serialize(e SimEvent) ([]byte, error) {
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload for %s: %w", e.Tag, err)
	}
	return json.Marshal(wireEnvelope{Type: e.Tag, Tick: e.Tick, Data: data})
}

// Deserialize decodes a SimEvent from its wire form. The tag must be
// registered via RegisterVariant at package init time.
func Deserialize(raw []byte) (SimEvent, error) {
	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return SimEvent{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	factory, ok := registry[env.Type]
	if !ok {
		return SimEvent{}, fmt.Errorf("unknown event variant %q", env.Type)
	}
	payload := factory()
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return SimEvent{}, fmt.Errorf("unmarshal payload for %s: %w", env.Type, err)
	}
	return SimEvent{Tag: env.Type, Tick: env.Tick, Payload: payload}, nil
}

// registry maps a variant tag to a constructor returning a fresh,
// zero-valued payload pointer ready to be unmarshaled into.
var registry = map[string]func() Variant{}

// RegisterVariant registers a variant's tag and zero-value factory. Called
// from each events_*.go file's init().
func RegisterVariant(tag string, factory func() Variant) {
	if _, exists := registry[tag]; exists {
		panic(fmt.Sprintf("simevent: duplicate variant registration for %q", tag))
	}
	registry[tag] = factory
}

// New wraps a payload into a SimEvent stamped with the given tick.
func New(tick uint64, payload Variant) SimEvent {
	return SimEvent{Tag: payload.EventVariant(), Tick: tick, Payload: payload}
}
