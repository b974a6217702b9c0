package handler

import (
	"context"

	appintegration "github.com/mwc/backend/internal/application/integration"
	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/stretchr/testify/mock"
)

type MockProductSyncer struct {
	mock.Mock
}

func (m *MockProductSyncer) ReadProduct(ctx context.Context, op appintegration.ReadProductOperation) (*appintegration.ReadProductResponse, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.ReadProductResponse), args.Error(1)
}

func (m *MockProductSyncer) ReadProductBySku(ctx context.Context, op appintegration.ReadProductBySkuOperation) (*appintegration.ReadProductResponse, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.ReadProductResponse), args.Error(1)
}

func (m *MockProductSyncer) ListProducts(ctx context.Context, op appintegration.ListProductsOperation) (*appintegration.ListProductsResponse, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.ListProductsResponse), args.Error(1)
}

func (m *MockProductSyncer) CreateOrUpdateProduct(ctx context.Context, op *appintegration.CreateOrUpdateProductOperation) (*appintegration.CreateOrUpdateProductResponse, error) {
	args := m.Called(ctx, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.CreateOrUpdateProductResponse), args.Error(1)
}

type MockDeletedProductChecker struct {
	mock.Mock
}

func (m *MockDeletedProductChecker) CheckByLocalID(ctx context.Context, localID int64) (appintegration.CheckOutcome, error) {
	args := m.Called(ctx, localID)
	return args.Get(0).(appintegration.CheckOutcome), args.Error(1)
}

type MockAssociationRecorder struct {
	mock.Mock
}

func (m *MockAssociationRecorder) RecordAssociation(ctx context.Context, remoteID string, localID int64) error {
	return m.Called(ctx, remoteID, localID).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}
