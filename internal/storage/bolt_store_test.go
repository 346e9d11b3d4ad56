package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresPhotos(t *testing.T) {
	opts := Options{
		PhotoTTL:        time.Minute,
		CleanupInterval: time.Hour,
	}

	store, err := openBolt(filepath.Join(t.TempDir(), "nested", "seen.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	key := PhotoKey("Curiosity", 4477)
	seen, err := store.SeenPhoto(key)
	if err != nil || seen {
		t.Fatalf("expected unseen photo, seen=%v err=%v", seen, err)
	}

	if err := store.MarkPhoto(key); err != nil {
		t.Fatalf("MarkPhoto: %v", err)
	}

	seen, err = store.SeenPhoto(key)
	if err != nil || !seen {
		t.Fatalf("expected photo marked as seen, got seen=%v err=%v", seen, err)
	}

	// Jump past both the TTL and the cleanup cadence.
	now = now.Add(2 * time.Hour)

	seen, err = store.SeenPhoto(key)
	if err != nil {
		t.Fatalf("SeenPhoto after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkPhoto("x"); err != nil {
		t.Fatalf("noop store MarkPhoto: %v", err)
	}
	if seen, _ := store.SeenPhoto("x"); seen {
		t.Fatalf("noop store should never report seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected missing path error")
	}
}

func TestPhotoKey(t *testing.T) {
	if got := PhotoKey(" Curiosity ", 4477); got != "curiosity:4477" {
		t.Fatalf("PhotoKey = %q", got)
	}
}
