package integration

import (
	"context"
	"errors"

	"github.com/mwc/backend/internal/domain/integration"
	applog "github.com/mwc/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CheckOutcome is the result of checking a local product against the remote catalog
type CheckOutcome string

const (
	CheckOutcomeExists    CheckOutcome = "exists"
	CheckOutcomeDeleted   CheckOutcome = "deleted"
	CheckOutcomeNotSynced CheckOutcome = "not_synced"
	CheckOutcomeFailed    CheckOutcome = "failed"
)

// ProductLookup reads the remote counterpart of a local product
type ProductLookup interface {
	LookupProduct(ctx context.Context, localID int64) integration.ReadResult
}

// RemoteProductNotFoundHandler cleans up after a remote product was deleted upstream
type RemoteProductNotFoundHandler interface {
	Handle(ctx context.Context, localID int64) error
}

// ErrorReporter reports unexpected failures
type ErrorReporter interface {
	Report(ctx context.Context, message string, err error)
}

// DeletedProductChecker detects local products whose remote counterpart is gone
type DeletedProductChecker struct {
	products ProductLookup
	notFound RemoteProductNotFoundHandler
	reporter ErrorReporter
}

// NewDeletedProductChecker creates a new DeletedProductChecker
func NewDeletedProductChecker(products ProductLookup, notFound RemoteProductNotFoundHandler, reporter ErrorReporter) *DeletedProductChecker {
	return &DeletedProductChecker{
		products: products,
		notFound: notFound,
		reporter: reporter,
	}
}

// CheckByLocalID reads the product remotely. A 404 purges the local state and
// yields CheckOutcomeDeleted. Products that were never synced are not reported.
func (c *DeletedProductChecker) CheckByLocalID(ctx context.Context, localID int64) (CheckOutcome, error) {
	result := c.products.LookupProduct(ctx, localID)

	switch result.Kind {
	case integration.ReadFound:
		return CheckOutcomeExists, nil
	case integration.ReadNotFound:
		if err := c.notFound.Handle(ctx, localID); err != nil {
			c.reporter.Report(ctx, "failed to clean up deleted remote product", err)
			return CheckOutcomeFailed, err
		}
		return CheckOutcomeDeleted, nil
	}

	// A missing mapping means the product was never synced, so unlike other
	// read failures it is not reported.
	if errors.Is(result.Err, integration.ErrMissingRemoteID) || errors.Is(result.Err, integration.ErrProductMappingNotFound) {
		return CheckOutcomeNotSynced, nil
	}

	c.reporter.Report(ctx, "failed to fetch product by local ID", result.Err)
	return CheckOutcomeFailed, result.Err
}

// ---------------------------------------------------------------------------
// Default collaborators
// ---------------------------------------------------------------------------

// StaleMappingHandler deletes the identity mapping and cached copy of a
// remote product that no longer exists.
type StaleMappingHandler struct {
	mapping *ProductsMappingService
	cache   integration.ProductsCache
	logger  *zap.Logger
}

// NewStaleMappingHandler creates a new StaleMappingHandler
func NewStaleMappingHandler(mapping *ProductsMappingService, cache integration.ProductsCache, logger *zap.Logger) *StaleMappingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaleMappingHandler{mapping: mapping, cache: cache, logger: logger}
}

// Handle purges the mapping of localID
func (h *StaleMappingHandler) Handle(ctx context.Context, localID int64) error {
	remoteID, ok, err := h.mapping.GetRemoteID(ctx, localID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := h.mapping.DeleteRemoteID(ctx, localID); err != nil {
		return err
	}
	if err := h.cache.Remove(ctx, remoteID); err != nil {
		h.logger.Warn("failed to evict deleted remote product from cache",
			zap.String("remote_id", remoteID),
			zap.Error(err),
		)
	}

	h.logger.Info("remote product deleted upstream, mapping removed",
		zap.Int64("local_id", localID),
		zap.String("remote_id", remoteID),
	)
	return nil
}

// LogErrorReporter reports errors to the application log
type LogErrorReporter struct {
	base *zap.Logger
}

// NewLogErrorReporter creates a new LogErrorReporter
func NewLogErrorReporter(logger *zap.Logger) *LogErrorReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogErrorReporter{base: logger}
}

// Report logs err at error level with request and trace identifiers
func (r *LogErrorReporter) Report(ctx context.Context, message string, err error) {
	applog.WithLogger(ctx, r.base).Error(message, zap.Error(err))
}

var (
	_ ProductLookup                = (*ProductsService)(nil)
	_ RemoteProductNotFoundHandler = (*StaleMappingHandler)(nil)
	_ ErrorReporter                = (*LogErrorReporter)(nil)
)
