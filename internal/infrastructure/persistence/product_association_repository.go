package persistence

import (
	"context"
	"errors"

	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductAssociationRepository implements integration.ProductAssociationRepository using GORM
type GormProductAssociationRepository struct {
	db *gorm.DB
}

// NewGormProductAssociationRepository creates a new GormProductAssociationRepository
func NewGormProductAssociationRepository(db *gorm.DB) *GormProductAssociationRepository {
	return &GormProductAssociationRepository{db: db}
}

// FindByRemoteID finds the association recorded by source for a remote product
func (r *GormProductAssociationRepository) FindByRemoteID(ctx context.Context, source, remoteID string) (*integration.ProductAssociation, error) {
	var model models.ProductAssociationModel
	if err := r.db.WithContext(ctx).
		Where("source = ? AND remote_id = ?", source, remoteID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrAssociationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save records an association, replacing the local ID of an existing one
func (r *GormProductAssociationRepository) Save(ctx context.Context, a *integration.ProductAssociation) error {
	model := models.ProductAssociationModelFromDomain(a)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}, {Name: "remote_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"local_id"}),
		}).
		Create(model).Error
}

var _ integration.ProductAssociationRepository = (*GormProductAssociationRepository)(nil)
