package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_PutAndGet(t *testing.T) {
	mr, client := newMiniRedis(t)
	s := NewRedisStore(client, "albums", "https://spot.example.com/api/", "tok", DefaultTTL)

	s.Put([]map[string]string{{"guid": "1", "title": "Trip"}})
	assert.True(t, mr.Exists(s.Key()))
	assert.Equal(t, DefaultTTL, mr.TTL(s.Key()))

	var got []map[string]string
	require.True(t, s.Get(&got))
	assert.Equal(t, "Trip", got[0]["title"])
}

func TestRedisStore_Expires(t *testing.T) {
	mr, client := newMiniRedis(t)
	s := NewRedisStore(client, "albums", "https://spot.example.com/api/", "tok", time.Minute)

	s.Put([]string{"a"})
	mr.FastForward(2 * time.Minute)

	var got []string
	assert.False(t, s.Get(&got))
}

func TestRedisStore_Clear(t *testing.T) {
	mr, client := newMiniRedis(t)
	s := NewRedisStore(client, "albums", "https://spot.example.com/api/", "tok", DefaultTTL)

	s.Put([]string{"a"})
	s.Clear()
	assert.False(t, mr.Exists(s.Key()))

	var got []string
	assert.False(t, s.Get(&got))
}

func TestRedisStore_Disabled(t *testing.T) {
	mr, client := newMiniRedis(t)
	t.Setenv(EnvNoCache, "1")
	s := NewRedisStore(client, "albums", "https://spot.example.com/api/", "tok", DefaultTTL)

	s.Put([]string{"a"})
	assert.False(t, mr.Exists(s.Key()))
}

func TestClearRedis(t *testing.T) {
	mr, client := newMiniRedis(t)
	NewRedisStore(client, "albums", "https://spot.example.com/api/", "tok", DefaultTTL).Put([]string{"a"})
	NewRedisStore(client, "profile", "https://spot.example.com/api/", "tok", DefaultTTL).Put(map[string]string{"name": "x"})
	require.NoError(t, mr.Set("other:key", "keep"))

	n, err := ClearRedis(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other:key"))

	n, err = ClearRedis(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNewRedisClient(t *testing.T) {
	mr, _ := newMiniRedis(t)
	client, err := NewRedisClient("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()
	require.NoError(t, client.Ping(context.Background()).Err())

	_, err = NewRedisClient("http://nope")
	assert.Error(t, err)
}
