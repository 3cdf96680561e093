// internal/session/redisstore.go
//
// Redis-backed session store.  Records are JSON under "session:<id>".  No
// TTL is set by this package: expiry is a business rule enforced by the
// guard, not by Redis.  Save only updates an existing key, like the SQL
// store's UPDATE, so a refresh racing a logout cannot bring a session back.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

func (r *RedisStore) FindByID(ctx context.Context, id string) (*Record, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session find %s: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &rec, nil
}

func (r *RedisStore) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		return errors.New("session: missing id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	err = r.client.SetArgs(ctx, r.key(rec.ID), data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, redis.Nil) {
		// Deleted elsewhere; nothing to refresh.
		return nil
	}
	return err
}

func (r *RedisStore) Delete(ctx context.Context, rec *Record) error {
	return r.client.Del(ctx, r.key(rec.ID)).Err()
}
