package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/rover-photos/internal/config"
	"github.com/samvad-hq/rover-photos/internal/storage"
)

const roverBody = `{"photo_manifest":{"name":"Curiosity","status":"active","max_sol":1,"total_photos":2,
"photos":[{"sol":1,"earth_date":"2012-08-07","total_photos":2,"cameras":["MAHLI"]}]}}`

const photosBody = `{"photos":[
{"id":1,"sol":1,"camera":{"id":20,"name":"MAHLI","rover_id":5,"full_name":"Mars Hand Lens Imager"},"img_src":"http://img/1.jpg","earth_date":"2012-08-07"},
{"id":2,"sol":1,"camera":{"id":20,"name":"MAHLI","rover_id":5,"full_name":"Mars Hand Lens Imager"},"img_src":"http://img/2.jpg","earth_date":"2012-08-07"}]}`

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rovers/curiosity", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(roverBody))
	})
	mux.HandleFunc("/rovers/curiosity/photos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sol") != "1" || r.URL.Query().Get("api_key") != "test-key" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(photosBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, apiURL, hookURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppName:                config.AppName,
		APIBaseURL:             apiURL,
		APIKey:                 "test-key",
		HTTPTimeout:            5 * time.Second,
		TargetsFile:            writeFile(t, dir, "targets.yaml", "targets:\n  - rover: Curiosity\n    sols: [1]\n"),
		PublishersFile:         writeFile(t, dir, "publishers.yaml", "publishers:\n  - id: hook\n    type: http\n    http:\n      url: "+hookURL+"\n"),
		SyncInterval:           time.Hour,
		SyncConcurrency:        1,
		StorageType:            storage.TypeBBolt,
		StoragePath:            filepath.Join(dir, "seen.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestSyncerRunOncePublishesNewPhotosOnly(t *testing.T) {
	api := newAPIServer(t)
	var hits atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hook.Close()

	s, err := NewSyncer(context.Background(), testConfig(t, api.URL, hook.URL), nil)
	if err != nil {
		t.Fatalf("NewSyncer: %v", err)
	}
	defer s.Close()

	results, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(results) != 1 || results[0].Photos != 2 || results[0].Published != 2 {
		t.Fatalf("unexpected first pass results: %+v", results)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", hits.Load())
	}

	results, err = s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	if results[0].Fresh != 0 || results[0].Published != 0 {
		t.Fatalf("seen photos were published again: %+v", results)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected no new deliveries, got %d", hits.Load())
	}
}

func TestSyncerRunStopsOnCancel(t *testing.T) {
	api := newAPIServer(t)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	s, err := NewSyncer(context.Background(), testConfig(t, api.URL, hook.URL), nil)
	if err != nil {
		t.Fatalf("NewSyncer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestNewSyncerRequiresConfig(t *testing.T) {
	if _, err := NewSyncer(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewRoverClientRejectsBadBaseURL(t *testing.T) {
	if _, err := NewRoverClient(&config.Config{APIBaseURL: "ftp://example.com"}); err == nil {
		t.Fatal("expected error for non-http base url")
	}
}
