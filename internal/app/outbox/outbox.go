package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"innkeep/internal/domain/shared/events"
)

var ErrOutboxUnavailable = errors.New("outbox: store unavailable")

// EventRecord is the serialized form of a domain event queued for publishing.
type EventRecord struct {
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Outbox buffers event records inside the current unit of work; Flush hands
// them to the durable store once the command succeeds.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

// Sink is the durable side of the outbox: Persist writes a batch of records
// so the worker can claim them.
type Sink interface {
	Persist(ctx context.Context, records []EventRecord) error
}

// Buffer is a per-command Outbox. Each dispatch gets its own buffer, so one
// request's Flush can never persist another request's uncommitted events and
// a failed command simply drops its buffer.
type Buffer struct {
	sink    Sink
	records []EventRecord
}

func NewBuffer(sink Sink) *Buffer {
	return &Buffer{sink: sink}
}

func (b *Buffer) Add(ctx context.Context, record EventRecord) error {
	b.records = append(b.records, record)
	return nil
}

func (b *Buffer) Flush(ctx context.Context) error {
	if len(b.records) == 0 {
		return nil
	}
	if b.sink == nil {
		return ErrOutboxUnavailable
	}
	records := b.records
	b.records = nil
	return b.sink.Persist(ctx, records)
}

type ctxKey struct{}

// ContextWithOutbox attaches the command's event buffer to the context.
func ContextWithOutbox(ctx context.Context, box Outbox) context.Context {
	return context.WithValue(ctx, ctxKey{}, box)
}

// FromContext returns the buffer attached by the outbox middleware.
func FromContext(ctx context.Context) (Outbox, bool) {
	box, ok := ctx.Value(ctxKey{}).(Outbox)
	return box, ok
}

// EventEncoder turns a domain event into an outbox record.
type EventEncoder interface {
	Encode(event events.DomainEvent) (EventRecord, error)
}

// JSONEventEncoder marshals the event struct as the record payload.
type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(event events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		Name:       event.EventName(),
		Aggregate:  event.AggregateID(),
		Payload:    payload,
		OccurredAt: event.OccurredAt(),
	}, nil
}

// RecordDomainEvents encodes every pending event into the context's buffer.
// Without a buffer (no outbox middleware on the path) it records nothing.
func RecordDomainEvents(ctx context.Context, encoder EventEncoder, pending []events.DomainEvent) error {
	box, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, event := range pending {
		record, err := encoder.Encode(event)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
