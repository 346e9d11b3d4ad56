package rover

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/rover-photos/internal/domain"
)

// manifestEnvelope accepts both the manifest endpoint shape and the rover
// endpoint shape.
type manifestEnvelope struct {
	Manifest *domain.RoverInfo `json:"photo_manifest"`
	Rover    *domain.RoverInfo `json:"rover"`
}

type photosEnvelope struct {
	Photos *[]domain.PhotoReference `json:"photos"`
}

// DecodeRoverInfo decodes a metadata response body.
func DecodeRoverInfo(data []byte) (domain.RoverInfo, error) {
	var env manifestEnvelope
	if err := unmarshal(data, &env); err != nil {
		return domain.RoverInfo{}, decodeErr("rover info", err)
	}

	info := env.Manifest
	if info == nil {
		info = env.Rover
	}
	if info == nil {
		return domain.RoverInfo{}, decodeErr("rover info", errors.New(`missing "photo_manifest" or "rover" object`))
	}
	if err := validateRoverInfo(*info); err != nil {
		return domain.RoverInfo{}, decodeErr("rover info", err)
	}
	return *info, nil
}

// DecodePhotoReferences decodes a photo-list response body, keeping the
// upstream order.
func DecodePhotoReferences(data []byte) ([]domain.PhotoReference, error) {
	var env photosEnvelope
	if err := unmarshal(data, &env); err != nil {
		return nil, decodeErr("photo references", err)
	}
	if env.Photos == nil {
		return nil, decodeErr("photo references", errors.New(`missing "photos" array`))
	}

	photos := *env.Photos
	seen := make(map[int]struct{}, len(photos))
	for i, p := range photos {
		if _, dup := seen[p.ID]; dup {
			return nil, decodeErr("photo references", fmt.Errorf("photos[%d]: duplicate id %d", i, p.ID))
		}
		seen[p.ID] = struct{}{}
	}
	if photos == nil {
		photos = []domain.PhotoReference{}
	}
	return photos, nil
}

func unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(data, v)
}

func validateRoverInfo(info domain.RoverInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return errors.New("name is required")
	}
	if !info.Status.Valid() {
		return fmt.Errorf("unknown status %q", info.Status)
	}
	if info.MaxSol < 0 {
		return fmt.Errorf("max_sol must be non-negative, got %d", info.MaxSol)
	}
	if info.NumberOfPhotos < 0 {
		return fmt.Errorf("total_photos must be non-negative, got %d", info.NumberOfPhotos)
	}
	for i, sd := range info.SolDescriptions {
		if sd.TotalPhotos < 0 {
			return fmt.Errorf("photos[%d]: total_photos must be non-negative", i)
		}
	}
	return nil
}
