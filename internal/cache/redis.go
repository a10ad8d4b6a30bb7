package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPrefix namespaces every key this package writes.
const redisPrefix = "spot-cli:"

// redisTimeout bounds each cache round trip so a slow Redis never stalls a command.
const redisTimeout = 2 * time.Second

// RedisStore is a Cache backed by Redis. Expiry is enforced by both the Redis
// key TTL and the entry timestamp.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ Cache = (*RedisStore)(nil)

// NewRedisClient connects to the Redis server at url (redis://...).
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvRedisURL, err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisStore creates a RedisStore for one resource.
func NewRedisStore(client redis.UniversalClient, key, baseURL, scope string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    redisPrefix + entryName(key, baseURL, scope),
		ttl:    ttl,
	}
}

// Key returns the Redis key the store uses.
func (s *RedisStore) Key() string {
	return s.key
}

// Get loads cached items into dst. Returns false on miss, error or when disabled.
func (s *RedisStore) Get(dst any) bool {
	if disabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return false
	}
	return decodeEntry(data, s.ttl, dst)
}

// Put stores items with the store's TTL. Errors are ignored.
func (s *RedisStore) Put(items any) {
	if disabled() {
		return
	}
	data, err := encodeEntry(items, time.Now())
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	_ = s.client.Set(ctx, s.key, data, s.ttl).Err()
}

// Clear deletes the key.
func (s *RedisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	_ = s.client.Del(ctx, s.key).Err()
}

// ClearRedis deletes every key this package wrote and returns how many.
func ClearRedis(ctx context.Context, client redis.UniversalClient) (int, error) {
	var keys []string
	iter := client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := client.Del(ctx, keys...).Result()
	return int(n), err
}
