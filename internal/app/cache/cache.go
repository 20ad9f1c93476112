package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a TTL key/value store with tag-based invalidation. Read paths
// tolerate slight staleness; writers invalidate the tags they touch.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	InvalidateTags(ctx context.Context, tags ...string) error
}

// Key joins parts into a namespaced cache key.
func Key(parts ...string) string {
	return "innkeep:" + strings.Join(parts, ":")
}

// RoomTypeTag is the invalidation tag covering a room type's ledger state.
func RoomTypeTag(roomTypeID string) string {
	return "inventory:" + roomTypeID
}

// ConfigTag covers administrator-managed pricing configuration.
const ConfigTag = "config"
