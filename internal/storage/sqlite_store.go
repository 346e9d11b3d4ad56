package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seen_photos (
	key        TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_seen_photos_expires_at ON seen_photos(expires_at);
`

// sqliteStore implements Store on a single SQLite file.
type sqliteStore struct {
	db              *sql.DB
	photoTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	mu          sync.Mutex
	lastCleanup time.Time
}

func openSQLite(path string, opts Options) (*sqliteStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{
		db:              db,
		photoTTL:        opts.PhotoTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
		lastCleanup:     time.Now(),
	}, nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) SeenPhoto(key string) (bool, error) {
	now := s.now()
	if err := s.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var expiresAt int64
	err := s.db.QueryRow(`SELECT expires_at FROM seen_photos WHERE key = ?`, key).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen photo: %w", err)
	}
	if expiresAt <= now.Unix() {
		if _, err := s.db.Exec(`DELETE FROM seen_photos WHERE key = ?`, key); err != nil {
			return false, fmt.Errorf("delete expired photo: %w", err)
		}
		return false, nil
	}
	return true, nil
}

func (s *sqliteStore) MarkPhoto(key string) error {
	now := s.now()
	if err := s.maybeCleanupExpired(now); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO seen_photos (key, expires_at) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at`,
		key, now.Add(s.photoTTL).Unix(),
	)
	if err != nil {
		return fmt.Errorf("mark photo: %w", err)
	}
	return nil
}

func (s *sqliteStore) maybeCleanupExpired(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM seen_photos WHERE expires_at <= ?`, now.Unix()); err != nil {
		return fmt.Errorf("cleanup expired photos: %w", err)
	}
	s.lastCleanup = now
	return nil
}
