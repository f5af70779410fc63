package usecase

import "school-app-backend/internal/pkg/chat/application/fanout"

// EventSink receives fan-out events after state changes are durable.
// Satisfied by *fanout.Dispatcher; tests plug an in-memory recorder.
type EventSink interface {
	Deliver(ev fanout.Event)
}

// noopSink lets use cases be constructed without a dispatcher (worker-side
// wiring that never fans out).
type noopSink struct{}

func (noopSink) Deliver(fanout.Event) {}

// NopEventSink returns a sink that drops every event.
func NopEventSink() EventSink { return noopSink{} }
