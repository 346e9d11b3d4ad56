package collector

import (
	"context"

	"github.com/samvad-hq/rover-photos/internal/domain"
	"github.com/samvad-hq/rover-photos/pkg/publishers"
)

// RoverFetcher is the slice of the rover client the collector needs.
type RoverFetcher interface {
	RoverInfo(ctx context.Context, name string) (domain.RoverInfo, error)
	PhotoReferences(ctx context.Context, rover domain.RoverInfo, sol int) ([]domain.PhotoReference, error)
}

// EventPublisher publishes new photos downstream and reports how many
// sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers photos that were already published.
type Deduper interface {
	SeenPhoto(key string) (bool, error)
	MarkPhoto(key string) error
}
