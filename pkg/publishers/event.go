package publishers

import (
	"strconv"
	"time"

	"github.com/samvad-hq/rover-photos/internal/domain"
)

// Event represents the payload published downstream for one new photo.
type Event struct {
	TargetID    string                `json:"target_id"`
	Rover       string                `json:"rover"`
	Sol         int                   `json:"sol"`
	Photo       domain.PhotoReference `json:"photo"`
	CollectedAt time.Time             `json:"collected_at"`
}

// NewEvent constructs an Event for a photo found while syncing a target.
func NewEvent(targetID, rover string, photo domain.PhotoReference) Event {
	return Event{
		TargetID:    targetID,
		Rover:       rover,
		Sol:         photo.Sol,
		Photo:       photo,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by queue/topic publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"rover":    e.Rover,
		"sol":      strconv.Itoa(e.Sol),
		"photo_id": strconv.Itoa(e.Photo.ID),
	}
}
