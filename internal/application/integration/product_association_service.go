package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwc/backend/internal/domain/integration"
)

// PoyntProductAssociationService resolves remote products that were previously
// synced with the Poynt point-of-sale catalog.
type PoyntProductAssociationService struct {
	repo integration.ProductAssociationRepository
}

// NewPoyntProductAssociationService creates a new PoyntProductAssociationService
func NewPoyntProductAssociationService(repo integration.ProductAssociationRepository) *PoyntProductAssociationService {
	return &PoyntProductAssociationService{repo: repo}
}

// FindLocalProductID returns the local product associated with remote, if any
func (s *PoyntProductAssociationService) FindLocalProductID(ctx context.Context, remote *integration.RemoteProduct) (int64, bool, error) {
	remoteID := remote.RemoteID()
	if remoteID == "" {
		return 0, false, nil
	}

	a, err := s.repo.FindByRemoteID(ctx, integration.AssociationSourcePoynt, remoteID)
	if err != nil {
		if errors.Is(err, integration.ErrAssociationNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return a.LocalID, true, nil
}

// RecordAssociation stores that remoteID was synced with localID by the point-of-sale channel
func (s *PoyntProductAssociationService) RecordAssociation(ctx context.Context, remoteID string, localID int64) error {
	if remoteID == "" {
		return fmt.Errorf("%w: empty remote ID", integration.ErrMappingInvalidRemoteID)
	}
	if localID <= 0 {
		return fmt.Errorf("%w: %d", integration.ErrMappingInvalidLocalID, localID)
	}

	return s.repo.Save(ctx, &integration.ProductAssociation{
		RemoteID:  remoteID,
		LocalID:   localID,
		Source:    integration.AssociationSourcePoynt,
		CreatedAt: time.Now().UTC(),
	})
}

var _ integration.ProductAssociationService = (*PoyntProductAssociationService)(nil)
