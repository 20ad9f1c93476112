package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	appcache "innkeep/internal/app/cache"
)

// CacheInvalidator drops cached search results when inventory events arrive,
// so replicas that did not serve the write converge quickly.
type CacheInvalidator struct {
	Cache  appcache.Cache
	Logger *slog.Logger
}

type cloudEvent struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

func (h *CacheInvalidator) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("dropping malformed event", "topic", msg.Topic, "error", err)
		}
		// Malformed payloads are not retryable.
		return nil
	}

	tags := []string{appcache.ConfigTag}
	if evt.Subject != "" {
		tags = append(tags, appcache.RoomTypeTag(evt.Subject))
	}
	if err := h.Cache.InvalidateTags(ctx, tags...); err != nil {
		if h.Logger != nil {
			h.Logger.Error("cache invalidation failed", "event", evt.Type, "error", err)
		}
		return err
	}
	if h.Logger != nil {
		h.Logger.Debug("cache invalidated", "event", evt.Type, "subject", evt.Subject)
	}
	return nil
}

var _ MessageHandler = (*CacheInvalidator)(nil)
