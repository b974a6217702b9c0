package integration

import (
	"context"
	"sync"

	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/stretchr/testify/mock"
)

// MockCatalogProvider is a mock implementation of integration.CatalogProvider
type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) CreateProduct(ctx context.Context, input integration.CreateProductInput) (*integration.RemoteProduct, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteProduct), args.Error(1)
}

func (m *MockCatalogProvider) ReadProduct(ctx context.Context, input integration.ReadProductInput) (*integration.RemoteProduct, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteProduct), args.Error(1)
}

func (m *MockCatalogProvider) UpdateProduct(ctx context.Context, input integration.UpdateProductInput) (*integration.RemoteProduct, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteProduct), args.Error(1)
}

func (m *MockCatalogProvider) ListProducts(ctx context.Context, input integration.ListProductsInput) (*integration.ProductPage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductPage), args.Error(1)
}

// MockProductMapRepository is a mock implementation of integration.ProductMapRepository
type MockProductMapRepository struct {
	mock.Mock
}

func (m *MockProductMapRepository) FindByLocalID(ctx context.Context, entityType integration.EntityType, localID int64) (*integration.ProductMap, error) {
	args := m.Called(ctx, entityType, localID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductMap), args.Error(1)
}

func (m *MockProductMapRepository) FindByRemoteID(ctx context.Context, entityType integration.EntityType, remoteID string) (*integration.ProductMap, error) {
	args := m.Called(ctx, entityType, remoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductMap), args.Error(1)
}

func (m *MockProductMapRepository) Save(ctx context.Context, pm *integration.ProductMap) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *MockProductMapRepository) DeleteByLocalID(ctx context.Context, entityType integration.EntityType, localID int64) error {
	args := m.Called(ctx, entityType, localID)
	return args.Error(0)
}

// MockProductIDMapper is a mock implementation of ProductIDMapper
type MockProductIDMapper struct {
	mock.Mock
}

func (m *MockProductIDMapper) GetRemoteID(ctx context.Context, localID int64) (string, bool, error) {
	args := m.Called(ctx, localID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockProductIDMapper) GetLocalID(ctx context.Context, remoteID string) (int64, bool, error) {
	args := m.Called(ctx, remoteID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockProductIDMapper) SaveRemoteID(ctx context.Context, localID int64, remoteID string) error {
	args := m.Called(ctx, localID, remoteID)
	return args.Error(0)
}

// MockProductConverter is a mock implementation of ProductConverter
type MockProductConverter struct {
	mock.Mock
}

func (m *MockProductConverter) ToRemote(ctx context.Context, product *catalog.Product) (*integration.RemoteProduct, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteProduct), args.Error(1)
}

func (m *MockProductConverter) ToLocal(ctx context.Context, remote *integration.RemoteProduct) (*catalog.Product, error) {
	args := m.Called(ctx, remote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

// MockAssociationService is a mock implementation of integration.ProductAssociationService
type MockAssociationService struct {
	mock.Mock
}

func (m *MockAssociationService) FindLocalProductID(ctx context.Context, remote *integration.RemoteProduct) (int64, bool, error) {
	args := m.Called(ctx, remote)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// MockAssociationRepository is a mock implementation of integration.ProductAssociationRepository
type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) FindByRemoteID(ctx context.Context, source, remoteID string) (*integration.ProductAssociation, error) {
	args := m.Called(ctx, source, remoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductAssociation), args.Error(1)
}

func (m *MockAssociationRepository) Save(ctx context.Context, a *integration.ProductAssociation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// MockProductReader is a mock implementation of catalog.ProductReader
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

// MockSyncMetrics is a mock implementation of SyncMetrics
type MockSyncMetrics struct {
	mock.Mock
}

func (m *MockSyncMetrics) RecordSync(ctx context.Context, operation, outcome string) {
	m.Called(ctx, operation, outcome)
}

// fakeProductsCache is a map-backed integration.ProductsCache that records removals
type fakeProductsCache struct {
	mu      sync.Mutex
	items   map[string]*integration.RemoteProduct
	removed []string
	loads   int
}

func newFakeProductsCache() *fakeProductsCache {
	return &fakeProductsCache{items: make(map[string]*integration.RemoteProduct)}
}

func (c *fakeProductsCache) Remember(ctx context.Context, remoteID string, load integration.ProductLoader) (*integration.RemoteProduct, error) {
	c.mu.Lock()
	if p, ok := c.items[remoteID]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.loads++
	c.mu.Unlock()

	p, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[remoteID] = p
	c.mu.Unlock()
	return p, nil
}

func (c *fakeProductsCache) Remove(_ context.Context, remoteID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, remoteID)
	c.removed = append(c.removed, remoteID)
	return nil
}

// Ensure mocks implement interfaces
var (
	_ integration.CatalogProvider              = (*MockCatalogProvider)(nil)
	_ integration.ProductMapRepository         = (*MockProductMapRepository)(nil)
	_ integration.ProductAssociationService    = (*MockAssociationService)(nil)
	_ integration.ProductAssociationRepository = (*MockAssociationRepository)(nil)
	_ integration.ProductsCache                = (*fakeProductsCache)(nil)
	_ catalog.ProductReader                    = (*MockProductReader)(nil)
	_ ProductIDMapper                          = (*MockProductIDMapper)(nil)
	_ ProductConverter                         = (*MockProductConverter)(nil)
	_ SyncMetrics                              = (*MockSyncMetrics)(nil)
)

func strPtr(s string) *string { return &s }

func pageOf(products ...*integration.RemoteProduct) *integration.ProductPage {
	return &integration.ProductPage{Products: products}
}

func int64Ptr(i int64) *int64 { return &i }
