package cache

import (
    "context"
    "errors"
    "log"

    "github.com/redis/go-redis/v9"
)

// Redis is the durable Store used in production. Entries carry their
// own timestamp in the payload envelope, so they are written without a
// Redis-side expiry; natural staleness supersedes deletion.
type Redis struct {
    client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
    return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
    b, err := r.client.Get(ctx, key).Bytes()
    if err != nil {
        if !errors.Is(err, redis.Nil) {
            log.Printf("cache: redis get %s: %v", key, err)
        }
        return nil, false
    }
    return b, true
}

func (r *Redis) Set(ctx context.Context, key string, data []byte) {
    if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
        log.Printf("cache: redis set %s: %v", key, err)
    }
}
