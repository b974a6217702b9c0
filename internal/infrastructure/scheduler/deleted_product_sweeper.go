// Package scheduler runs background sync maintenance jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	appintegration "github.com/mwc/backend/internal/application/integration"
	"github.com/mwc/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MappedProductLister pages through local products that have a remote mapping
type MappedProductLister interface {
	ListMappedLocalIDs(ctx context.Context, afterID int64, limit int) ([]int64, error)
}

// DeletedProductChecker checks one local product against the remote catalog
type DeletedProductChecker interface {
	CheckByLocalID(ctx context.Context, localID int64) (appintegration.CheckOutcome, error)
}

// SweeperConfig holds configuration for the deleted product sweeper
type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:  time.Hour,
		BatchSize: 100,
	}
}

// SweepResult counts the outcomes of one sweep
type SweepResult struct {
	Checked int
	Deleted int
	Failed  int
}

// DeletedProductSweeper periodically checks every mapped product and purges
// the sync state of products deleted on the commerce platform
type DeletedProductSweeper struct {
	config  SweeperConfig
	lister  MappedProductLister
	checker DeletedProductChecker
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewDeletedProductSweeper creates a new sweeper
func NewDeletedProductSweeper(
	config SweeperConfig,
	lister MappedProductLister,
	checker DeletedProductChecker,
	logger *zap.Logger,
) *DeletedProductSweeper {
	defaults := DefaultSweeperConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeletedProductSweeper{
		config:  config,
		lister:  lister,
		checker: checker,
		logger:  logger,
	}
}

// Start runs a sweep every Interval until Stop is called or ctx is cancelled
func (s *DeletedProductSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Deleted product sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)
	return nil
}

// Stop cancels the loop and waits for the current sweep to finish
func (s *DeletedProductSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Deleted product sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *DeletedProductSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *DeletedProductSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Deleted product sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce checks every mapped product once. Individual check failures are
// counted and do not stop the sweep; listing failures do.
func (s *DeletedProductSweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sweeper", "deleted_products")
	defer span.End()

	start := time.Now()
	var result SweepResult
	var afterID int64

	for {
		ids, err := s.lister.ListMappedLocalIDs(ctx, afterID, s.config.BatchSize)
		if err != nil {
			telemetry.RecordError(span, err)
			return result, err
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			outcome, err := s.checker.CheckByLocalID(ctx, id)
			result.Checked++
			switch {
			case err != nil:
				result.Failed++
			case outcome == appintegration.CheckOutcomeDeleted:
				result.Deleted++
			}
		}

		if len(ids) < s.config.BatchSize {
			break
		}
		afterID = ids[len(ids)-1]
	}

	telemetry.SetAttributes(span,
		"sweep.checked", result.Checked,
		"sweep.deleted", result.Deleted,
		"sweep.failed", result.Failed,
	)
	s.logger.Info("Deleted product sweep completed",
		zap.Int("checked", result.Checked),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}
