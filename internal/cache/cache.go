// Package cache caches Spot API results such as the album list and profile.
//
// Entries are JSON, scoped per resource, endpoint and signed-in user. They
// live in files under the user cache directory, or in Redis when
// SPOT_CACHE_REDIS_URL is set. Default TTL is 5 minutes. Disable with
// SPOT_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

const (
	EnvNoCache  = "SPOT_NO_CACHE"
	EnvRedisURL = "SPOT_CACHE_REDIS_URL"
)

// Cache reads and writes a single cache key.
type Cache interface {
	// Get loads cached items into dst. Returns false on miss.
	Get(dst any) bool
	// Put stores items. Errors are ignored.
	Put(items any)
	// Clear removes the entry.
	Clear()
}

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

func encodeEntry(items any, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entry{CachedAt: now, Items: raw})
}

func decodeEntry(data []byte, ttl time.Duration, dst any) bool {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Store is a file-backed Cache.
type Store struct {
	path string
	ttl  time.Duration
}

var _ Cache = (*Store)(nil)

// NewStore creates a Store with the default 5-minute TTL.
// dir is the cache directory (typically from DefaultDir).
// key is the resource type (e.g. "albums").
// baseURL is the Spot endpoint.
// scope identifies the user, typically the access token.
func NewStore(dir, key, baseURL, scope string) *Store {
	return NewStoreWithTTL(dir, key, baseURL, scope, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, key, baseURL, scope string, ttl time.Duration) *Store {
	return &Store{
		path: filepath.Join(dir, entryName(key, baseURL, scope)+".json"),
		ttl:  ttl,
	}
}

// Get loads cached items into dst. Returns false on miss (no file, expired, disabled).
func (s *Store) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	return decodeEntry(data, s.ttl, dst)
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(items any) {
	if disabled() {
		return
	}
	data, err := encodeEntry(items, time.Now())
	if err != nil {
		return
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes all cache files from the directory.
// For safety, it only removes files matching this project's cache filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// DefaultDir returns the platform-appropriate cache directory.
// Returns "$XDG_CACHE_HOME/spot-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "spot-cli"), nil
}

// Open returns the Redis cache when SPOT_CACHE_REDIS_URL is set and the file
// cache otherwise.
func Open(key, baseURL, scope string) (Cache, error) {
	if url := strings.TrimSpace(os.Getenv(EnvRedisURL)); url != "" {
		client, err := NewRedisClient(url)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, key, baseURL, scope, DefaultTTL), nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	return NewStore(dir, key, baseURL, scope), nil
}

func disabled() bool {
	return os.Getenv(EnvNoCache) != ""
}

// entryName is "<key>_<12hex endpoint>_<12hex scope>".
func entryName(key, baseURL, scope string) string {
	return fmt.Sprintf("%s_%s_%s", sanitizeKey(key), shortHash(baseURL), shortHash(scope))
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:6])
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "\\", "-")
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		return false
	}
	if parts[0] == "" {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 12 || !isHex(p) {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
