package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "mgraph:snapshot:"
	redisIndexKey  = "mgraph:snapshots"
)

// RedisStore keeps snapshots as JSON strings in Redis, with a set of ids
// as the index.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and verifies the connection, retrying a
// failed ping a few times.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	err := retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStoreFromClient(client, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id uuid.UUID) string { return redisKeyPrefix + id.String() }

// Save stores s and adds it to the index.
func (s *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisKey(snap.ID), data, s.ttl)
		p.SAdd(ctx, redisIndexKey, snap.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", snap.ID, err)
	}
	return nil
}

// Load fetches the snapshot with the given id.
func (s *RedisStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &snap, nil
}

// List returns summaries of indexed snapshots. Index entries whose key has
// expired are pruned.
func (s *RedisStore) List(ctx context.Context) ([]*Snapshot, error) {
	members, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = redisKeyPrefix + m
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	var out []*Snapshot
	var stale []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, members[i])
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(str), &snap); err != nil {
			return nil, fmt.Errorf("decode %s: %w", members[i], err)
		}
		out = append(out, snap.Summary())
	}
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, redisIndexKey, stale...).Err()
	}
	sortSummaries(out)
	return out, nil
}

// Delete removes the snapshot and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, redisKey(id))
		p.SRem(ctx, redisIndexKey, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
