package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/infrastructure/commerce"
	applog "github.com/mwc/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testStoreID   = "store-123"
	testChannelID = "channel-456"
	testRemoteID  = "1f6f1c0e-5d1a-4a3e-9a43-2a8f3c1b0001"
)

type serviceFixture struct {
	service      *ProductsService
	provider     *MockCatalogProvider
	mapper       *MockProductIDMapper
	converter    *MockProductConverter
	associations *MockAssociationService
	cache        *fakeProductsCache
}

func newServiceFixture(opts ...ProductsServiceOption) *serviceFixture {
	f := &serviceFixture{
		provider:     new(MockCatalogProvider),
		mapper:       new(MockProductIDMapper),
		converter:    new(MockProductConverter),
		associations: new(MockAssociationService),
		cache:        newFakeProductsCache(),
	}
	f.service = NewProductsService(
		integration.CommerceContext{StoreID: testStoreID, ChannelID: testChannelID},
		f.provider,
		f.mapper,
		f.cache,
		f.converter,
		f.associations,
		opts...,
	)
	return f
}

func createTestOperation() *CreateOrUpdateProductOperation {
	return &CreateOrUpdateProductOperation{
		Product: &catalog.Product{ID: 42, Name: "Coffee Mug", SKU: "MUG-001", Status: catalog.ProductStatusPublish},
	}
}

func createTestPayload() *integration.RemoteProduct {
	return &integration.RemoteProduct{Name: "Coffee Mug", SKU: strPtr("MUG-001"), Active: true, Purchasable: true}
}

func remoteWithID(id string) *integration.RemoteProduct {
	p := createTestPayload()
	p.SetRemoteID(id)
	return p
}

func notUniqueErr() error {
	return integration.NewGatewayError(http.StatusConflict, "NOT_UNIQUE", "sku already exists")
}

// ---------------------------------------------------------------------------
// ReadProduct Tests
// ---------------------------------------------------------------------------

func TestReadProduct_Success(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	// Setup expectations
	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return(testRemoteID, true, nil)
	f.provider.On("ReadProduct", mock.Anything, integration.ReadProductInput{StoreID: testStoreID, ProductID: testRemoteID}).
		Return(remoteWithID(testRemoteID), nil).Once()

	// Execute twice, second read is served from cache
	resp, err := f.service.ReadProduct(ctx, ReadProductOperation{LocalID: 42})
	require.NoError(t, err)
	resp2, err := f.service.ReadProduct(ctx, ReadProductOperation{LocalID: 42})
	require.NoError(t, err)

	// Verify
	assert.Equal(t, testRemoteID, resp.Product.RemoteID())
	assert.Same(t, resp.Product, resp2.Product)
	assert.Equal(t, 1, f.cache.loads)
	f.provider.AssertExpectations(t)
}

func TestReadProduct_MappingNotFound(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return("", false, nil)

	resp, err := f.service.ReadProduct(ctx, ReadProductOperation{LocalID: 42})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, integration.ErrProductMappingNotFound)
	f.provider.AssertNotCalled(t, "ReadProduct", mock.Anything, mock.Anything)
}

func TestReadProduct_GatewayNotFoundIsNotCached(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return(testRemoteID, true, nil)
	f.provider.On("ReadProduct", mock.Anything, mock.Anything).
		Return(nil, integration.NewGatewayError(http.StatusNotFound, "", "gone"))

	_, err := f.service.ReadProduct(ctx, ReadProductOperation{LocalID: 42})
	assert.True(t, integration.IsNotFound(err))

	_, err = f.service.ReadProduct(ctx, ReadProductOperation{LocalID: 42})
	assert.True(t, integration.IsNotFound(err))
	f.provider.AssertNumberOfCalls(t, "ReadProduct", 2)
}

func TestLookupProduct_Classifies(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newServiceFixture()
		f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return(testRemoteID, true, nil)
		f.provider.On("ReadProduct", mock.Anything, mock.Anything).Return(remoteWithID(testRemoteID), nil)

		result := f.service.LookupProduct(ctx, 42)
		assert.Equal(t, integration.ReadFound, result.Kind)
		assert.Equal(t, testRemoteID, result.Product.RemoteID())
	})

	t.Run("not found", func(t *testing.T) {
		f := newServiceFixture()
		f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return(testRemoteID, true, nil)
		f.provider.On("ReadProduct", mock.Anything, mock.Anything).
			Return(nil, integration.NewGatewayError(http.StatusNotFound, "", "gone"))

		assert.Equal(t, integration.ReadNotFound, f.service.LookupProduct(ctx, 42).Kind)
	})

	t.Run("unmapped", func(t *testing.T) {
		f := newServiceFixture()
		f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return("", false, nil)

		result := f.service.LookupProduct(ctx, 42)
		assert.Equal(t, integration.ReadFailed, result.Kind)
		assert.ErrorIs(t, result.Err, integration.ErrProductMappingNotFound)
	})
}

// ---------------------------------------------------------------------------
// ReadProductBySku / ListProducts Tests
// ---------------------------------------------------------------------------

func TestReadProductBySku(t *testing.T) {
	ctx := context.Background()
	input := integration.ListProductsInput{StoreID: testStoreID, SKU: "MUG-001", PageSize: 1}

	t.Run("returns first match", func(t *testing.T) {
		f := newServiceFixture()
		f.provider.On("ListProducts", ctx, input).Return(pageOf(remoteWithID(testRemoteID)), nil)

		resp, err := f.service.ReadProductBySku(ctx, ReadProductBySkuOperation{SKU: "MUG-001"})

		require.NoError(t, err)
		assert.Equal(t, testRemoteID, resp.Product.RemoteID())
	})

	t.Run("empty list is not found", func(t *testing.T) {
		f := newServiceFixture()
		f.provider.On("ListProducts", ctx, input).Return(pageOf(), nil)

		_, err := f.service.ReadProductBySku(ctx, ReadProductBySkuOperation{SKU: "MUG-001"})

		assert.True(t, integration.IsNotFound(err))
	})
}

func TestListProducts_AttachesLocalIDs(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.provider.On("ListProducts", ctx, integration.ListProductsInput{StoreID: testStoreID, PageSize: 20}).
		Return(pageOf(remoteWithID("r-1"), remoteWithID("r-2")), nil)
	f.mapper.On("GetLocalID", ctx, "r-1").Return(int64(10), true, nil)
	f.mapper.On("GetLocalID", ctx, "r-2").Return(int64(0), false, nil)

	resp, err := f.service.ListProducts(ctx, ListProductsOperation{PageSize: 20})

	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, int64(10), *resp.Products[0].LocalID)
	assert.Nil(t, resp.Products[1].LocalID)
	assert.Empty(t, resp.NextPageToken)
}

func TestListProducts_PassesPageTokens(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.provider.On("ListProducts", ctx, integration.ListProductsInput{StoreID: testStoreID, PageSize: 1, PageToken: "tok-1"}).
		Return(&integration.ProductPage{Products: []*integration.RemoteProduct{remoteWithID("r-2")}, NextPageToken: "tok-2"}, nil)
	f.mapper.On("GetLocalID", ctx, "r-2").Return(int64(0), false, nil)

	resp, err := f.service.ListProducts(ctx, ListProductsOperation{PageSize: 1, PageToken: "tok-1"})

	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "tok-2", resp.NextPageToken)
}

// ---------------------------------------------------------------------------
// CreateOrUpdateProduct Tests
// ---------------------------------------------------------------------------

func TestCreateOrUpdateProduct_MissingLocalID(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.CreateOrUpdateProduct(context.Background(), &CreateOrUpdateProductOperation{Product: &catalog.Product{Name: "Mug"}})
	assert.ErrorIs(t, err, integration.ErrMissingLocalID)

	_, err = f.service.CreateOrUpdateProduct(context.Background(), &CreateOrUpdateProductOperation{})
	assert.ErrorIs(t, err, integration.ErrMissingLocalID)
}

func TestCreateOrUpdateProduct_UpdatesWhenMapped(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	op := createTestOperation()

	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return(testRemoteID, true, nil)
	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(in integration.UpdateProductInput) bool {
		return in.StoreID == testStoreID && in.Product.RemoteID() == testRemoteID && in.ChannelIDs == nil
	})).Return(remoteWithID(testRemoteID), nil)

	resp, err := f.service.CreateOrUpdateProduct(ctx, op)

	require.NoError(t, err)
	assert.Equal(t, testRemoteID, resp.RemoteID)
	assert.Equal(t, []string{testRemoteID}, f.cache.removed)
	f.provider.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	f.mapper.AssertNotCalled(t, "SaveRemoteID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrUpdateProduct_TagsContextWithLocalID(t *testing.T) {
	f := newServiceFixture()
	ctx := applog.WithScope(context.Background(), applog.Scope{RequestID: "req-1"})
	op := createTestOperation()

	syncing := mock.MatchedBy(func(ctx context.Context) bool {
		s := applog.ScopeFrom(ctx)
		return s.LocalID == 42 && s.RequestID == "req-1"
	})
	f.mapper.On("GetRemoteID", syncing, int64(42)).Return(testRemoteID, true, nil)
	f.converter.On("ToRemote", syncing, op.Product).Return(createTestPayload(), nil)
	f.provider.On("UpdateProduct", syncing, mock.Anything).Return(remoteWithID(testRemoteID), nil)

	_, err := f.service.CreateOrUpdateProduct(ctx, op)

	require.NoError(t, err)
	f.mapper.AssertExpectations(t)
	f.provider.AssertExpectations(t)
	assert.Zero(t, applog.ScopeFrom(ctx).LocalID)
}

func TestCreateOrUpdateProduct_CreatesInDefaultChannel(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	op := createTestOperation()

	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return("", false, nil)
	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in integration.CreateProductInput) bool {
		return in.StoreID == testStoreID &&
			in.ChannelIDs != nil &&
			assert.ObjectsAreEqual([]string{testChannelID}, in.ChannelIDs.Add)
	})).Return(remoteWithID(testRemoteID), nil)
	f.mapper.On("SaveRemoteID", mock.Anything, int64(42), testRemoteID).Return(nil)

	resp, err := f.service.CreateOrUpdateProduct(ctx, op)

	require.NoError(t, err)
	assert.Equal(t, testRemoteID, resp.RemoteID)
	assert.Nil(t, op.ChannelIDs, "caller operation is not mutated")
	f.mapper.AssertExpectations(t)
	f.provider.AssertExpectations(t)
}

func TestCreateOrUpdateProduct_ConverterFailure(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()

	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return("", false, nil)
	f.converter.On("ToRemote", mock.Anything, op.Product).Return(nil, integration.ErrMissingRemoteParentID)

	_, err := f.service.CreateOrUpdateProduct(context.Background(), op)

	assert.ErrorIs(t, err, integration.ErrMissingRemoteParentID)
	f.provider.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// UpdateProduct Tests
// ---------------------------------------------------------------------------

func TestUpdateProduct_MissingRemoteIDKeepsCache(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	op := createTestOperation()

	f.cache.items[testRemoteID] = remoteWithID(testRemoteID)
	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("UpdateProduct", mock.Anything, mock.Anything).Return(createTestPayload(), nil)

	resp, err := f.service.UpdateProduct(ctx, op, testRemoteID)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, integration.ErrMissingRemoteID)
	assert.Empty(t, f.cache.removed)
	assert.Contains(t, f.cache.items, testRemoteID)
}

func TestUpdateProduct_DoesNotMutatePayload(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()
	payload := createTestPayload()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(payload, nil)
	f.provider.On("UpdateProduct", mock.Anything, mock.Anything).Return(remoteWithID(testRemoteID), nil)

	_, err := f.service.UpdateProduct(context.Background(), op, testRemoteID)

	require.NoError(t, err)
	assert.Nil(t, payload.ProductID)
}

// ---------------------------------------------------------------------------
// CreateProduct Tests
// ---------------------------------------------------------------------------

func TestCreateProduct_MissingRemoteID(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(createTestPayload(), nil)

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.ErrorIs(t, err, integration.ErrMissingRemoteID)
	f.mapper.AssertNotCalled(t, "SaveRemoteID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_CatalogClientResponseWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"Coffee Mug"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := commerce.NewCatalogClient(commerce.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	mapper := new(MockProductIDMapper)
	converter := new(MockProductConverter)
	op := createTestOperation()
	converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)

	service := NewProductsService(
		integration.CommerceContext{StoreID: testStoreID},
		client, mapper, newFakeProductsCache(), converter, new(MockAssociationService),
	)

	_, err = service.CreateProduct(context.Background(), op)

	assert.ErrorIs(t, err, integration.ErrMissingRemoteID)
	mapper.AssertNotCalled(t, "SaveRemoteID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_GatewayError(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).
		Return(nil, integration.NewGatewayError(http.StatusBadGateway, "", "upstream down"))

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.ErrorIs(t, err, integration.ErrGatewayRequest)
	f.provider.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
}

func TestCreateProduct_NotUniqueReconciledWithSameLocalProduct(t *testing.T) {
	metrics := new(MockSyncMetrics)
	f := newServiceFixture(WithSyncMetrics(metrics))
	ctx := context.Background()
	op := createTestOperation()
	existing := remoteWithID(testRemoteID)

	// Setup expectations
	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil).Once()
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, notUniqueErr()).Once()
	f.provider.On("ListProducts", mock.Anything, integration.ListProductsInput{StoreID: testStoreID, SKU: "MUG-001", PageSize: 1}).
		Return(pageOf(existing), nil)
	f.associations.On("FindLocalProductID", mock.Anything, existing).Return(int64(42), true, nil)
	f.provider.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(in integration.UpdateProductInput) bool {
		return in.Product.RemoteID() == testRemoteID
	})).Return(remoteWithID(testRemoteID), nil).Once()
	f.mapper.On("SaveRemoteID", mock.Anything, int64(42), testRemoteID).Return(nil)
	metrics.On("RecordSync", mock.Anything, "create", SyncOutcomeReconciled).Return()

	// Execute
	resp, err := f.service.CreateProduct(ctx, op)

	// Verify
	require.NoError(t, err)
	assert.Equal(t, testRemoteID, resp.RemoteID)
	f.provider.AssertNumberOfCalls(t, "CreateProduct", 1)
	f.provider.AssertNumberOfCalls(t, "UpdateProduct", 1)
	f.mapper.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestCreateProduct_NotUniqueWithDifferentLocalProduct(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()
	existing := remoteWithID(testRemoteID)

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, notUniqueErr())
	f.provider.On("ListProducts", mock.Anything, mock.Anything).Return(pageOf(existing), nil)
	f.associations.On("FindLocalProductID", mock.Anything, existing).Return(int64(99), true, nil)

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.True(t, integration.IsNotUnique(err))
	f.provider.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	f.mapper.AssertNotCalled(t, "SaveRemoteID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_NotUniqueWithoutAssociation(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()
	existing := remoteWithID(testRemoteID)

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, notUniqueErr())
	f.provider.On("ListProducts", mock.Anything, mock.Anything).Return(pageOf(existing), nil)
	f.associations.On("FindLocalProductID", mock.Anything, existing).Return(int64(0), false, nil)

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.True(t, integration.IsNotUnique(err))
	f.provider.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_NotUniqueMatchWithoutRemoteID(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()
	existing := createTestPayload()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, notUniqueErr())
	f.provider.On("ListProducts", mock.Anything, mock.Anything).Return(pageOf(existing), nil)
	f.associations.On("FindLocalProductID", mock.Anything, existing).Return(int64(42), true, nil)

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.True(t, integration.IsNotUnique(err))
	f.provider.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_NotUniqueButSkuLookupEmpty(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, notUniqueErr())
	f.provider.On("ListProducts", mock.Anything, mock.Anything).Return(pageOf(), nil)

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.True(t, integration.IsNotUnique(err))
	f.associations.AssertNotCalled(t, "FindLocalProductID", mock.Anything, mock.Anything)
}

func TestCreateProduct_NotUniqueSkuLookupFails(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, notUniqueErr())
	f.provider.On("ListProducts", mock.Anything, mock.Anything).
		Return(nil, integration.NewGatewayError(http.StatusInternalServerError, "", "boom"))

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.ErrorIs(t, err, integration.ErrGatewayRequest)
}

func TestCreateProduct_SaveMappingFails(t *testing.T) {
	f := newServiceFixture()
	op := createTestOperation()

	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("CreateProduct", mock.Anything, mock.Anything).Return(remoteWithID(testRemoteID), nil)
	f.mapper.On("SaveRemoteID", mock.Anything, int64(42), testRemoteID).Return(errors.New("db down"))

	_, err := f.service.CreateProduct(context.Background(), op)

	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Locking Tests
// ---------------------------------------------------------------------------

type recordingLocker struct {
	mu     sync.Mutex
	locked []int64
	freed  int
	err    error
}

func (l *recordingLocker) Lock(_ context.Context, localID int64) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.locked = append(l.locked, localID)
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.freed++
		l.mu.Unlock()
	}, nil
}

func TestCreateOrUpdateProduct_HoldsLockPerProduct(t *testing.T) {
	locker := &recordingLocker{}
	f := newServiceFixture(WithProductLocker(locker))
	op := createTestOperation()

	f.mapper.On("GetRemoteID", mock.Anything, int64(42)).Return(testRemoteID, true, nil)
	f.converter.On("ToRemote", mock.Anything, op.Product).Return(createTestPayload(), nil)
	f.provider.On("UpdateProduct", mock.Anything, mock.Anything).Return(remoteWithID(testRemoteID), nil)

	_, err := f.service.CreateOrUpdateProduct(context.Background(), op)

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, locker.locked)
	assert.Equal(t, 1, locker.freed)
}

func TestCreateOrUpdateProduct_LockFailure(t *testing.T) {
	locker := &recordingLocker{err: context.DeadlineExceeded}
	f := newServiceFixture(WithProductLocker(locker))

	_, err := f.service.CreateOrUpdateProduct(context.Background(), createTestOperation())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	f.mapper.AssertNotCalled(t, "GetRemoteID", mock.Anything, mock.Anything)
}
