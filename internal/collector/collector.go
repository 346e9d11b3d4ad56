package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samvad-hq/rover-photos/internal/domain"
	"github.com/samvad-hq/rover-photos/internal/logger"
	"github.com/samvad-hq/rover-photos/internal/storage"
	"github.com/samvad-hq/rover-photos/pkg/publishers"
	"github.com/samvad-hq/rover-photos/pkg/targets"
)

const defaultConcurrency = 2

// Service runs sync passes: for every target it fetches the rover, the
// photos of each resolved sol, and publishes photos it has not seen yet.
type Service struct {
	rovers      RoverFetcher
	publisher   EventPublisher
	deduper     Deduper
	log         logger.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency bounds how many targets are synced at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService wires a collector. A nil deduper publishes every photo; a nil
// publisher only counts photos.
func NewService(rovers RoverFetcher, publisher EventPublisher, log logger.Logger, deduper Deduper, opts ...Option) *Service {
	s := &Service{
		rovers:      rovers,
		publisher:   publisher,
		deduper:     deduper,
		log:         logger.Ensure(log),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TargetResult summarizes one target's pass.
type TargetResult struct {
	TargetID  string `json:"target_id"`
	Rover     string `json:"rover"`
	Sols      []int  `json:"sols"`
	Photos    int    `json:"photos"`
	Fresh     int    `json:"fresh"`
	Published int    `json:"published"`
}

// Run executes a sync pass for all targets. Failures of individual targets
// do not stop the others; they are logged and joined into the returned error.
func (s *Service) Run(ctx context.Context, tgts []targets.Target) ([]TargetResult, error) {
	if s == nil || s.rovers == nil {
		return nil, fmt.Errorf("collector service is not initialized")
	}
	if len(tgts) == 0 {
		return nil, fmt.Errorf("no targets configured for sync")
	}

	var (
		mu      sync.Mutex
		errs    []error
		results = make([]TargetResult, len(tgts))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, tgt := range tgts {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := s.runTarget(gctx, tgt)
			results[i] = res
			if err != nil {
				s.log.ErrorObj("target sync failed", "target_error", map[string]any{
					"target_id": tgt.ID,
					"error":     err.Error(),
				})
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (s *Service) runTarget(ctx context.Context, tgt targets.Target) (TargetResult, error) {
	res := TargetResult{TargetID: tgt.ID, Rover: tgt.Rover}

	info, err := s.rovers.RoverInfo(ctx, tgt.Rover)
	if err != nil {
		return res, fmt.Errorf("fetch rover %s for target %s: %w", tgt.Rover, tgt.ID, err)
	}
	res.Sols = tgt.ResolveSols(info.MaxSol)

	var errs []error
	delay := tgt.RequestDelay()
	for i, sol := range res.Sols {
		if i > 0 && delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return res, err
			}
		}

		photos, err := s.rovers.PhotoReferences(ctx, info, sol)
		if err != nil {
			errs = append(errs, fmt.Errorf("fetch photos %s sol %d: %w", tgt.Rover, sol, err))
			continue
		}
		res.Photos += len(photos)

		fresh := s.filterNewPhotos(tgt, photos)
		res.Fresh += len(fresh)
		published, err := s.publishPhotos(ctx, tgt, fresh)
		res.Published += published
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.log.InfoObj("target sync completed", "target_result", res)
	return res, errors.Join(errs...)
}

// filterNewPhotos drops photos the deduper has seen. Lookup failures keep
// the photo so a broken store never hides new data.
func (s *Service) filterNewPhotos(tgt targets.Target, photos []domain.PhotoReference) []domain.PhotoReference {
	if s.deduper == nil {
		return photos
	}
	out := make([]domain.PhotoReference, 0, len(photos))
	for _, p := range photos {
		seen, err := s.deduper.SeenPhoto(storage.PhotoKey(tgt.Rover, p.ID))
		if err != nil {
			s.log.WarnObj("seen lookup failed", "dedupe_error", map[string]any{
				"target_id": tgt.ID,
				"photo_id":  p.ID,
				"error":     err.Error(),
			})
			out = append(out, p)
			continue
		}
		if !seen {
			out = append(out, p)
		}
	}
	return out
}

// publishPhotos publishes each photo and marks it seen once at least one
// sink accepted it.
func (s *Service) publishPhotos(ctx context.Context, tgt targets.Target, photos []domain.PhotoReference) (int, error) {
	if s.publisher == nil {
		return 0, nil
	}
	var errs []error
	published := 0
	for _, p := range photos {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(tgt.ID, tgt.Rover, p))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish photo %d: %w", p.ID, err))
		}
		if delivered == 0 {
			continue
		}
		published++
		if s.deduper != nil {
			if err := s.deduper.MarkPhoto(storage.PhotoKey(tgt.Rover, p.ID)); err != nil {
				errs = append(errs, fmt.Errorf("mark photo %d: %w", p.ID, err))
			}
		}
	}
	return published, errors.Join(errs...)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
