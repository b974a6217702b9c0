package persistence

import (
	"context"
	"errors"

	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a local product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save upserts a local product keyed by its ID; created_at is kept on update
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	model := models.ProductModelFromDomain(p)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "sku", "status", "password", "type",
				"virtual", "downloadable", "parent_id", "regular_price", "sale_price",
				"currency", "attributes", "variant_attribute_mapping",
				"marketplaces_brand", "marketplaces_condition", "tax_category", "updated_at",
			}),
		}).
		Create(model).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
