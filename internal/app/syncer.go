package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/rover-photos/internal/collector"
	"github.com/samvad-hq/rover-photos/internal/config"
	"github.com/samvad-hq/rover-photos/internal/logger"
	"github.com/samvad-hq/rover-photos/internal/storage"
	"github.com/samvad-hq/rover-photos/pkg/publishers"
	"github.com/samvad-hq/rover-photos/pkg/targets"
)

// Syncer is the sync runtime. It owns the targets, the publisher fan-out
// and the seen-photo store, and drives the collector on an interval.
type Syncer struct {
	cfg       *config.Config
	targets   *targets.Registry
	fanout    *publishers.Fanout
	collector *collector.Service
	interval  time.Duration
	log       logger.Logger
	store     storage.Store
}

// NewSyncer builds a sync runtime from config files.
func NewSyncer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewRoverClient(cfg)
	if err != nil {
		return nil, err
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	targetIDs := make([]string, 0, len(targetReg.All()))
	for _, t := range targetReg.All() {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		PhotoTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.StoragePath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.StoragePath,
		"photo_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	svc := collector.NewService(client, fanout, log, store, collector.WithConcurrency(cfg.SyncConcurrency))

	return &Syncer{
		cfg:       cfg,
		targets:   targetReg,
		fanout:    fanout,
		collector: svc,
		interval:  cfg.SyncInterval,
		log:       log,
		store:     store,
	}, nil
}

// Run syncs immediately and then on every interval until ctx is cancelled.
// Resources are released on return.
func (s *Syncer) Run(ctx context.Context) error {
	if s == nil || s.collector == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.Close()

	s.log.InfoObj("sync loop starting", "sync_state", map[string]any{
		"targets_count":    len(s.targets.All()),
		"publishers_count": s.fanout.Size(),
		"sync_interval":    s.interval.String(),
	})

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("sync loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.ErrorObj("scheduled sync failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single sync pass across all targets.
func (s *Syncer) RunOnce(ctx context.Context) ([]collector.TargetResult, error) {
	if s == nil || s.collector == nil {
		return nil, fmt.Errorf("syncer is not initialized")
	}
	tgts := s.targets.All()
	start := time.Now()
	s.log.InfoObj("sync started", "sync_meta", map[string]any{
		"targets_count": len(tgts),
		"started_at":    start.UTC(),
	})
	results, err := s.collector.Run(ctx, tgts)
	published := 0
	for _, r := range results {
		published += r.Published
	}
	s.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"targets_count": len(tgts),
		"published":     published,
		"elapsed_ms":    time.Since(start).Milliseconds(),
		"failed":        err != nil,
	})
	return results, err
}

// Close releases the store and publishers. It is safe to call more than once.
func (s *Syncer) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err)
			errs = append(errs, err)
		}
		s.store = nil
	}
	if s.fanout != nil {
		if err := s.fanout.Close(); err != nil {
			s.log.ErrorObj("publishers close failed", "error", err)
			errs = append(errs, err)
		}
		s.fanout = nil
	}
	return errors.Join(errs...)
}
