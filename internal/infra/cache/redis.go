package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	appcache "innkeep/internal/app/cache"
)

// Redis backs the cache port with a shared Redis instance. Tags are tracked
// as sets of member keys so invalidation works across replicas.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	for _, tag := range tags {
		tagKey := tagSetKey(tag)
		pipe.SAdd(ctx, tagKey, key)
		// Tag sets outlive their members a little so stale keys age out.
		pipe.Expire(ctx, tagKey, ttl+time.Minute)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := tagSetKey(tag)
		keys, err := r.client.SMembers(ctx, tagKey).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if err := r.client.Del(ctx, tagKey).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func tagSetKey(tag string) string {
	return appcache.Key("tag", tag)
}

var _ appcache.Cache = (*Redis)(nil)
