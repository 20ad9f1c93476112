package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	appoutbox "innkeep/internal/app/outbox"
	infraoutbox "innkeep/internal/infra/outbox"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSending = "sending"
	outboxStatusSent    = "sent"
)

// OutboxStore persists queued events. Persist writes a command's flushed
// buffer, inside the session transaction when the context carries one, and
// the worker claims the documents with an atomic pending→sending transition.
type OutboxStore struct {
	col *mongo.Collection
}

func NewOutboxStore(db *mongo.Database) *OutboxStore {
	return &OutboxStore{col: db.Collection("outbox_events")}
}

func (s *OutboxStore) Persist(ctx context.Context, records []appoutbox.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for _, record := range records {
		docs = append(docs, outboxDocument{
			ID:         uuid.NewString(),
			Name:       record.Name,
			Aggregate:  record.Aggregate,
			Payload:    record.Payload,
			Headers:    record.Headers,
			Status:     outboxStatusPending,
			OccurredAt: record.OccurredAt.UnixMilli(),
			RetryAt:    0,
		})
	}
	_, err := s.col.InsertMany(ctx, docs)
	return err
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	now := time.Now()
	filter := bson.M{
		"status":   bson.M{"$in": bson.A{outboxStatusPending}},
		"retry_at": bson.M{"$lte": now.UnixMilli()},
	}
	update := bson.M{"$set": bson.M{
		"status":     outboxStatusSending,
		"claimed_by": workerID,
		"claimed_at": now.UnixMilli(),
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.M{"occurred_at": 1}).
		SetReturnDocument(options.After)

	var doc outboxDocument
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &infraoutbox.EventDocument{
		ID:         doc.ID,
		Name:       doc.Name,
		Aggregate:  doc.Aggregate,
		Payload:    doc.Payload,
		Headers:    doc.Headers,
		Attempts:   doc.Attempts,
		OccurredAt: timestampToTime(doc.OccurredAt),
	}, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":  outboxStatusSent,
		"sent_at": time.Now().UnixMilli(),
	}})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":     outboxStatusPending,
			"retry_at":   retryAt.UnixMilli(),
			"last_error": reason,
		},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

type outboxDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Aggregate  string            `bson:"aggregate"`
	Payload    []byte            `bson:"payload"`
	Headers    map[string]string `bson:"headers"`
	Status     string            `bson:"status"`
	Attempts   int               `bson:"attempts"`
	OccurredAt int64             `bson:"occurred_at"`
	RetryAt    int64             `bson:"retry_at"`
	ClaimedBy  string            `bson:"claimed_by"`
	ClaimedAt  int64             `bson:"claimed_at"`
	SentAt     int64             `bson:"sent_at"`
	LastError  string            `bson:"last_error"`
}

var (
	_ appoutbox.Sink    = (*OutboxStore)(nil)
	_ infraoutbox.Store = (*OutboxStore)(nil)
)
