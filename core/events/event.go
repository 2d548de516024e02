package events

import "mcashchain/core/types"

// Event represents a structured state change emitted by the chain.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. receipts, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Recorder buffers emitted events until they are drained. Events of an
// operation that is later reverted are dropped with Truncate.
type Recorder struct {
	events []Event
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(e Event) {
	if e != nil {
		r.events = append(r.events, e)
	}
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int { return len(r.events) }

// Truncate drops every event after the first n.
func (r *Recorder) Truncate(n int) {
	if n < len(r.events) {
		r.events = r.events[:n]
	}
}

// Drain returns the buffered events rendered for receipts and resets the
// buffer.
func (r *Recorder) Drain() []*types.Event {
	out := make([]*types.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event())
	}
	r.events = nil
	return out
}

// Events returns the buffered events without draining.
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}
