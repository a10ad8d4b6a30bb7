package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thinkglobalschool/spot-cli/internal/cache"
)

type album struct {
	GUID  string `json:"guid"`
	Title string `json:"title"`
}

func TestStore_PutAndGet(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok")

	items := []album{{GUID: "1", Title: "Trip"}, {GUID: "2", Title: "School"}}
	s.Put(items)

	var got []album
	ok := s.Get(&got)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Title != "Trip" || got[1].Title != "School" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestStore_ExpiredTTL(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStoreWithTTL(dir, "albums", "https://spot.example.com/api/", "tok", 1*time.Millisecond)

	s.Put([]string{"a"})
	time.Sleep(5 * time.Millisecond)

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestStore_MissOnEmpty(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok")

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss on empty store")
	}
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok")

	s.Put([]string{"a"})
	s.Clear()

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss after clear")
	}
}

func TestStore_DifferentUsers(t *testing.T) {
	dir := t.TempDir()
	s1 := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok-1")
	s2 := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok-2")

	s1.Put([]string{"user1"})
	s2.Put([]string{"user2"})

	var got1, got2 []string
	s1.Get(&got1)
	s2.Get(&got2)

	if got1[0] != "user1" || got2[0] != "user2" {
		t.Fatal("users should have separate caches")
	}
}

func TestClearAll(t *testing.T) {
	dir := t.TempDir()
	s1 := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok")
	s2 := cache.NewStore(dir, "profile", "https://spot.example.com/api/", "tok")

	s1.Put([]string{"a"})
	s2.Put([]string{"b"})

	cache.ClearAll(dir)

	files, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(files) != 0 {
		t.Fatalf("expected no cache files after ClearAll, got %d", len(files))
	}
}

func TestStore_DisabledByEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(cache.EnvNoCache, "1")

	s := cache.NewStore(dir, "albums", "https://spot.example.com/api/", "tok")
	s.Put([]string{"a"})

	var got []string
	ok := s.Get(&got)
	if ok {
		t.Fatal("expected cache miss when disabled via env")
	}

	// Verify no file was written
	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Fatal("expected no files written when cache disabled")
	}
}
