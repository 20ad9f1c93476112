package events

import "time"

// DomainEvent is raised by aggregates and command handlers and relayed
// through the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events until the owning unit of work commits.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends an event to the pending list.
func (r *EventRecorder) Record(e DomainEvent) {
	r.pending = append(r.pending, e)
}

// PendingEvents returns recorded events in order.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return r.pending
}

// ClearEvents drops all recorded events.
func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
