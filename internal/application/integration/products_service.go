package integration

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mwc/backend/internal/domain/integration"
	applog "github.com/mwc/backend/internal/infrastructure/logger"
	"github.com/mwc/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Sync outcomes reported to SyncMetrics
const (
	SyncOutcomeCreated    = "created"
	SyncOutcomeUpdated    = "updated"
	SyncOutcomeReconciled = "reconciled"
	SyncOutcomeNotUnique  = "not_unique"
	SyncOutcomeFailed     = "failed"
)

// ProductIDMapper reads and writes identity mappings
type ProductIDMapper interface {
	RemoteIDResolver
	LocalIDResolver
	SaveRemoteID(ctx context.Context, localID int64, remoteID string) error
}

// SyncMetrics records synchronization outcomes
type SyncMetrics interface {
	RecordSync(ctx context.Context, operation, outcome string)
}

// ProductsService synchronizes local products with the remote catalog
type ProductsService struct {
	commerce     integration.CommerceContext
	provider     integration.CatalogProvider
	mapping      ProductIDMapper
	cache        integration.ProductsCache
	converter    ProductConverter
	associations integration.ProductAssociationService
	locker       integration.ProductLocker
	metrics      SyncMetrics
	logger       *zap.Logger
}

// ProductsServiceOption configures a ProductsService
type ProductsServiceOption func(*ProductsService)

// WithProductLocker serializes CreateOrUpdateProduct per local product
func WithProductLocker(l integration.ProductLocker) ProductsServiceOption {
	return func(s *ProductsService) {
		s.locker = l
	}
}

// WithSyncMetrics sets the outcome recorder
func WithSyncMetrics(m SyncMetrics) ProductsServiceOption {
	return func(s *ProductsService) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ProductsServiceOption {
	return func(s *ProductsService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewProductsService creates a new ProductsService
func NewProductsService(
	commerce integration.CommerceContext,
	provider integration.CatalogProvider,
	mapping ProductIDMapper,
	cache integration.ProductsCache,
	converter ProductConverter,
	associations integration.ProductAssociationService,
	opts ...ProductsServiceOption,
) *ProductsService {
	s := &ProductsService{
		commerce:     commerce,
		provider:     provider,
		mapping:      mapping,
		cache:        cache,
		converter:    converter,
		associations: associations,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Read
// ---------------------------------------------------------------------------

// ReadProduct reads the remote counterpart of a local product through the cache.
// It fails with ErrProductMappingNotFound, without calling the gateway, when the
// product was never synced.
func (s *ProductsService) ReadProduct(ctx context.Context, op ReadProductOperation) (*ReadProductResponse, error) {
	ctx = applog.WithLocalID(ctx, op.LocalID)
	ctx, span := telemetry.StartServiceSpan(ctx, "products", "read")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocalProductID, op.LocalID)

	remoteID, ok, err := s.mapping.GetRemoteID(ctx, op.LocalID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !ok {
		err := fmt.Errorf("%w: local product %d", integration.ErrProductMappingNotFound, op.LocalID)
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrRemoteProductID, remoteID)

	product, err := s.cache.Remember(ctx, remoteID, func(ctx context.Context) (*integration.RemoteProduct, error) {
		return s.provider.ReadProduct(ctx, integration.ReadProductInput{
			StoreID:   s.commerce.StoreID,
			ProductID: remoteID,
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &ReadProductResponse{Product: product}, nil
}

// LookupProduct reads the remote counterpart of a local product and classifies
// the outcome as found, deleted upstream, or failed.
func (s *ProductsService) LookupProduct(ctx context.Context, localID int64) integration.ReadResult {
	resp, err := s.ReadProduct(ctx, ReadProductOperation{LocalID: localID})
	if err != nil {
		return integration.ReadResultFrom(nil, err)
	}
	return integration.Found(resp.Product)
}

// ReadProductBySku reads the first remote product with the given SKU.
// It lists directly against the gateway so no mapping or cache is involved.
func (s *ProductsService) ReadProductBySku(ctx context.Context, op ReadProductBySkuOperation) (*ReadProductResponse, error) {
	page, err := s.provider.ListProducts(ctx, integration.ListProductsInput{
		StoreID:  s.commerce.StoreID,
		SKU:      op.SKU,
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	if page == nil || len(page.Products) == 0 || page.Products[0] == nil {
		return nil, integration.NewGatewayError(http.StatusNotFound, "", fmt.Sprintf("no product found with SKU %s", op.SKU))
	}
	return &ReadProductResponse{Product: page.Products[0]}, nil
}

// ListProducts lists remote products and attaches their local IDs when mapped
func (s *ProductsService) ListProducts(ctx context.Context, op ListProductsOperation) (*ListProductsResponse, error) {
	page, err := s.provider.ListProducts(ctx, integration.ListProductsInput{
		StoreID:    s.commerce.StoreID,
		SKU:        op.SKU,
		ProductIDs: op.ProductIDs,
		PageSize:   op.PageSize,
		PageToken:  op.PageToken,
	})
	if err != nil {
		return nil, err
	}

	if page == nil {
		page = &integration.ProductPage{}
	}

	listed := make([]ListedProduct, 0, len(page.Products))
	for _, p := range page.Products {
		item := ListedProduct{Product: p}
		localID, ok, err := s.mapping.GetLocalID(ctx, p.RemoteID())
		if err != nil {
			return nil, err
		}
		if ok {
			item.LocalID = &localID
		}
		listed = append(listed, item)
	}
	return &ListProductsResponse{Products: listed, NextPageToken: page.NextPageToken}, nil
}

// ---------------------------------------------------------------------------
// Write
// ---------------------------------------------------------------------------

// CreateOrUpdateProduct updates the remote product when the local product is
// already mapped, and creates it in the default sales channel otherwise.
func (s *ProductsService) CreateOrUpdateProduct(ctx context.Context, op *CreateOrUpdateProductOperation) (*CreateOrUpdateProductResponse, error) {
	localID := op.LocalID()
	if localID <= 0 {
		return nil, integration.ErrMissingLocalID
	}

	ctx = applog.WithLocalID(ctx, localID)
	ctx, span := telemetry.StartServiceSpan(ctx, "products", "create_or_update")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocalProductID, localID)

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, localID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("lock product %d: %w", localID, err)
		}
		defer unlock()
	}

	remoteID, ok, err := s.mapping.GetRemoteID(ctx, localID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var resp *CreateOrUpdateProductResponse
	if ok {
		resp, err = s.UpdateProduct(ctx, op, remoteID)
	} else {
		createOp := *op
		if channels := s.commerce.DefaultChannelIDs(); channels != nil {
			createOp.ChannelIDs = channels
		}
		resp, err = s.CreateProduct(ctx, &createOp)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

// UpdateProduct pushes the local product to remoteID and invalidates its cache entry
func (s *ProductsService) UpdateProduct(ctx context.Context, op *CreateOrUpdateProductOperation, remoteID string) (*CreateOrUpdateProductResponse, error) {
	ctx = applog.WithLocalID(ctx, op.LocalID())
	payload, err := s.buildPayload(ctx, op)
	if err != nil {
		return nil, err
	}

	product, err := s.update(ctx, op, payload, remoteID)
	if err != nil {
		s.record(ctx, "update", SyncOutcomeFailed)
		return nil, err
	}

	s.record(ctx, "update", SyncOutcomeUpdated)
	return &CreateOrUpdateProductResponse{RemoteID: product.RemoteID()}, nil
}

// CreateProduct creates the remote product and maps it to the local product.
// A SKU conflict is resolved by updating the conflicting remote product only
// when it is already associated with the same local product.
func (s *ProductsService) CreateProduct(ctx context.Context, op *CreateOrUpdateProductOperation) (*CreateOrUpdateProductResponse, error) {
	localID := op.LocalID()
	if localID <= 0 {
		return nil, integration.ErrMissingLocalID
	}
	ctx = applog.WithLocalID(ctx, localID)

	product, outcome, err := s.createOrUpdateExisting(ctx, op)
	if err != nil {
		if integration.IsNotUnique(err) {
			s.record(ctx, "create", SyncOutcomeNotUnique)
		} else {
			s.record(ctx, "create", SyncOutcomeFailed)
		}
		return nil, err
	}

	remoteID := product.RemoteID()
	if remoteID == "" {
		s.record(ctx, "create", SyncOutcomeFailed)
		return nil, fmt.Errorf("%w: create response for local product %d", integration.ErrMissingRemoteID, localID)
	}

	if err := s.mapping.SaveRemoteID(ctx, localID, remoteID); err != nil {
		s.record(ctx, "create", SyncOutcomeFailed)
		return nil, fmt.Errorf("save mapping %d -> %s: %w", localID, remoteID, err)
	}

	applog.WithLogger(ctx, s.logger).Info("product synced to remote catalog",
		zap.String("remote_id", remoteID),
		zap.String("outcome", outcome),
	)
	s.record(ctx, "create", outcome)
	return &CreateOrUpdateProductResponse{RemoteID: remoteID}, nil
}

func (s *ProductsService) createOrUpdateExisting(ctx context.Context, op *CreateOrUpdateProductOperation) (*integration.RemoteProduct, string, error) {
	payload, err := s.buildPayload(ctx, op)
	if err != nil {
		return nil, "", err
	}

	created, err := s.provider.CreateProduct(ctx, integration.CreateProductInput{
		StoreID:    s.commerce.StoreID,
		Product:    payload,
		ChannelIDs: op.ChannelIDs,
	})
	if err == nil {
		return created, SyncOutcomeCreated, nil
	}
	if !integration.IsNotUnique(err) {
		return nil, "", err
	}

	match, matchErr := s.findMatchingRemoteProduct(ctx, op)
	if matchErr != nil {
		return nil, "", matchErr
	}
	if match == nil || match.RemoteID() == "" {
		applog.WithLogger(ctx, s.logger).Warn("remote product with same SKU is not associated with local product",
			zap.String("sku", op.Product.SKU),
		)
		return nil, "", err
	}

	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "not_unique_reconciled",
		telemetry.SpanAttrRemoteProductID, match.RemoteID(),
	)
	updated, err := s.update(ctx, op, payload, match.RemoteID())
	if err != nil {
		return nil, "", err
	}
	return updated, SyncOutcomeReconciled, nil
}

// findMatchingRemoteProduct returns the remote product sharing the local SKU
// when the point-of-sale association confirms it is the same product.
func (s *ProductsService) findMatchingRemoteProduct(ctx context.Context, op *CreateOrUpdateProductOperation) (*integration.RemoteProduct, error) {
	if op.Product.SKU == "" {
		return nil, nil
	}

	resp, err := s.ReadProductBySku(ctx, ReadProductBySkuOperation{SKU: op.Product.SKU})
	if err != nil {
		if integration.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	localID, found, err := s.associations.FindLocalProductID(ctx, resp.Product)
	if err != nil {
		return nil, err
	}
	if found && localID == op.LocalID() {
		return resp.Product, nil
	}
	return nil, nil
}

// update sends payload as remoteID. The cache entry is only invalidated once
// the remote system has echoed a product ID.
func (s *ProductsService) update(
	ctx context.Context,
	op *CreateOrUpdateProductOperation,
	payload *integration.RemoteProduct,
	remoteID string,
) (*integration.RemoteProduct, error) {
	input := *payload
	input.SetRemoteID(remoteID)

	product, err := s.provider.UpdateProduct(ctx, integration.UpdateProductInput{
		StoreID:    s.commerce.StoreID,
		Product:    &input,
		ChannelIDs: op.ChannelIDs,
	})
	if err != nil {
		return nil, err
	}
	if product.RemoteID() == "" {
		return nil, fmt.Errorf("%w: update response for %s", integration.ErrMissingRemoteID, remoteID)
	}

	if err := s.cache.Remove(ctx, remoteID); err != nil {
		applog.WithLogger(ctx, s.logger).Warn("failed to invalidate cached remote product",
			zap.String("remote_id", remoteID),
			zap.Error(err),
		)
	}
	return product, nil
}

func (s *ProductsService) buildPayload(ctx context.Context, op *CreateOrUpdateProductOperation) (*integration.RemoteProduct, error) {
	if op == nil {
		return nil, integration.ErrMissingLocalID
	}
	return s.converter.ToRemote(ctx, op.Product)
}

func (s *ProductsService) record(ctx context.Context, operation, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSync(ctx, operation, outcome)
	}
}
