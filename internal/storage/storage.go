package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Package storage remembers which photos have already been published.

// Store tracks published photo keys.
type Store interface {
	Close() error
	SeenPhoto(key string) (bool, error)
	MarkPhoto(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	PhotoTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone   = "none"
	TypeBBolt  = "bbolt"
	TypeSQLite = "sqlite"

	defaultPhotoTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// PhotoKey builds the store key for a rover's photo id.
func PhotoKey(rover string, photoID int) string {
	return strings.ToLower(strings.TrimSpace(rover)) + ":" + strconv.Itoa(photoID)
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	case TypeSQLite:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite storage requires a path")
		}
		store, err := openSQLite(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.PhotoTTL <= 0 {
		opts.PhotoTTL = defaultPhotoTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                   { return nil }
func (noopStore) SeenPhoto(string) (bool, error) { return false, nil }
func (noopStore) MarkPhoto(string) error         { return nil }
