package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "innkeep/internal/app/outbox"
	infraoutbox "innkeep/internal/infra/outbox"

	"github.com/google/uuid"
)

// OutboxStore is the in-memory durable queue behind the outbox worker.
// Persist accepts a command's flushed buffer onto the pending queue where
// Claim can see it.
type OutboxStore struct {
	mu      sync.Mutex
	pending []*infraoutbox.EventDocument
	claimed map[string]*infraoutbox.EventDocument
	retryAt map[string]time.Time
	sent    []*infraoutbox.EventDocument
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{
		claimed: make(map[string]*infraoutbox.EventDocument),
		retryAt: make(map[string]time.Time),
	}
}

func (s *OutboxStore) Persist(ctx context.Context, records []appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.pending = append(s.pending, &infraoutbox.EventDocument{
			ID:         uuid.NewString(),
			Name:       record.Name,
			Aggregate:  record.Aggregate,
			Payload:    record.Payload,
			Headers:    record.Headers,
			OccurredAt: record.OccurredAt,
		})
	}
	return nil
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i, doc := range s.pending {
		if retry, ok := s.retryAt[doc.ID]; ok && now.Before(retry) {
			continue
		}
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		s.claimed[doc.ID] = doc
		out := *doc
		return &out, nil
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.claimed[id]; ok {
		delete(s.claimed, id)
		s.sent = append(s.sent, doc)
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.claimed[id]
	if !ok {
		return nil
	}
	delete(s.claimed, id)
	doc.Attempts++
	s.retryAt[id] = retryAt
	s.pending = append(s.pending, doc)
	return nil
}

// Sent returns published documents; tests use it.
func (s *OutboxStore) Sent() []*infraoutbox.EventDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*infraoutbox.EventDocument, len(s.sent))
	copy(out, s.sent)
	return out
}

var (
	_ appoutbox.Sink    = (*OutboxStore)(nil)
	_ infraoutbox.Store = (*OutboxStore)(nil)
)
