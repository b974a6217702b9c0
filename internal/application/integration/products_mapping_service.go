package integration

import (
	"context"
	"errors"

	"github.com/mwc/backend/internal/domain/integration"
)

// ProductsMappingService stores and resolves local <-> remote product IDs
type ProductsMappingService struct {
	repo       integration.ProductMapRepository
	entityType integration.EntityType
}

// NewProductsMappingService creates a new ProductsMappingService
func NewProductsMappingService(repo integration.ProductMapRepository) *ProductsMappingService {
	return &ProductsMappingService{
		repo:       repo,
		entityType: integration.EntityTypeProduct,
	}
}

// GetRemoteID returns the remote ID mapped to localID.
// A missing mapping is reported as ok=false, not as an error.
func (s *ProductsMappingService) GetRemoteID(ctx context.Context, localID int64) (string, bool, error) {
	if localID <= 0 {
		return "", false, nil
	}

	m, err := s.repo.FindByLocalID(ctx, s.entityType, localID)
	if err != nil {
		if errors.Is(err, integration.ErrProductMappingNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.RemoteID, true, nil
}

// SaveRemoteID maps localID to remoteID, replacing any previous mapping
func (s *ProductsMappingService) SaveRemoteID(ctx context.Context, localID int64, remoteID string) error {
	m, err := integration.NewProductMap(localID, remoteID)
	if err != nil {
		return err
	}
	m.EntityType = s.entityType
	return s.repo.Save(ctx, m)
}

// GetLocalID returns the local ID mapped to remoteID
func (s *ProductsMappingService) GetLocalID(ctx context.Context, remoteID string) (int64, bool, error) {
	if remoteID == "" {
		return 0, false, nil
	}

	m, err := s.repo.FindByRemoteID(ctx, s.entityType, remoteID)
	if err != nil {
		if errors.Is(err, integration.ErrProductMappingNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return m.LocalID, true, nil
}

// DeleteRemoteID removes the mapping of localID
func (s *ProductsMappingService) DeleteRemoteID(ctx context.Context, localID int64) error {
	return s.repo.DeleteByLocalID(ctx, s.entityType, localID)
}

var (
	_ RemoteIDResolver = (*ProductsMappingService)(nil)
	_ LocalIDResolver  = (*ProductsMappingService)(nil)
)
