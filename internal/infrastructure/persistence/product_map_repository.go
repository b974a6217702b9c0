package persistence

import (
	"context"
	"errors"

	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductMapRepository implements integration.ProductMapRepository using GORM
type GormProductMapRepository struct {
	db *gorm.DB
}

// NewGormProductMapRepository creates a new GormProductMapRepository
func NewGormProductMapRepository(db *gorm.DB) *GormProductMapRepository {
	return &GormProductMapRepository{db: db}
}

// ---------------------------------------------------------------------------
// ProductMapReader implementation
// ---------------------------------------------------------------------------

// FindByLocalID finds the mapping of a local product
func (r *GormProductMapRepository) FindByLocalID(ctx context.Context, entityType integration.EntityType, localID int64) (*integration.ProductMap, error) {
	var model models.ProductMapModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND local_id = ?", string(entityType), localID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds the mapping of a remote product.
// When several local IDs point at the same remote ID the oldest mapping wins.
func (r *GormProductMapRepository) FindByRemoteID(ctx context.Context, entityType integration.EntityType, remoteID string) (*integration.ProductMap, error) {
	var model models.ProductMapModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND remote_id = ?", string(entityType), remoteID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListMappedLocalIDs returns up to limit mapped local product IDs greater than
// afterID, in ascending order, for keyset pagination
func (r *GormProductMapRepository) ListMappedLocalIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductMapModel{}).
		Where("entity_type = ? AND local_id > ?", string(integration.EntityTypeProduct), afterID).
		Order("local_id ASC").
		Limit(limit).
		Pluck("local_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// ProductMapWriter implementation
// ---------------------------------------------------------------------------

// Save inserts the mapping or replaces the remote ID of an existing one
func (r *GormProductMapRepository) Save(ctx context.Context, m *integration.ProductMap) error {
	model := models.ProductMapModelFromDomain(m)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_type"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"remote_id", "created_at"}),
		}).
		Create(model).Error
}

// DeleteByLocalID removes the mapping of a local product
func (r *GormProductMapRepository) DeleteByLocalID(ctx context.Context, entityType integration.EntityType, localID int64) error {
	return r.db.WithContext(ctx).
		Where("entity_type = ? AND local_id = ?", string(entityType), localID).
		Delete(&models.ProductMapModel{}).Error
}

// Ensure GormProductMapRepository implements the interface
var _ integration.ProductMapRepository = (*GormProductMapRepository)(nil)
