package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntityType scopes identity mappings per kind of synchronized entity
type EntityType string

const (
	// EntityTypeProduct scopes mappings for catalog products
	EntityTypeProduct EntityType = "product"
)

// ---------------------------------------------------------------------------
// ProductMap Entity
// ---------------------------------------------------------------------------

// ProductMap associates one local product with one remote product UUID.
// Mappings are never mutated; a stale mapping is deleted and a new one saved.
type ProductMap struct {
	// ID is the unique identifier of this mapping
	ID uuid.UUID
	// EntityType scopes the mapping
	EntityType EntityType
	// LocalID is the numeric ID in the local catalog
	LocalID int64
	// RemoteID is the product UUID on the commerce platform
	RemoteID string
	// CreatedAt is when this mapping was created
	CreatedAt time.Time
}

// NewProductMap creates a new product mapping
func NewProductMap(localID int64, remoteID string) (*ProductMap, error) {
	if localID <= 0 {
		return nil, ErrMappingInvalidLocalID
	}
	if remoteID == "" {
		return nil, ErrMappingInvalidRemoteID
	}
	return &ProductMap{
		ID:         uuid.New(),
		EntityType: EntityTypeProduct,
		LocalID:    localID,
		RemoteID:   remoteID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ---------------------------------------------------------------------------
// ProductMap Repository
// ---------------------------------------------------------------------------

// ProductMapReader provides read access to identity mappings.
// Both finders return ErrProductMappingNotFound when no mapping exists.
type ProductMapReader interface {
	FindByLocalID(ctx context.Context, entityType EntityType, localID int64) (*ProductMap, error)
	FindByRemoteID(ctx context.Context, entityType EntityType, remoteID string) (*ProductMap, error)
}

// ProductMapWriter provides write access to identity mappings
type ProductMapWriter interface {
	// Save upserts the mapping keyed by (entity type, local ID)
	Save(ctx context.Context, m *ProductMap) error
	// DeleteByLocalID removes the mapping of a local ID; missing mappings are not an error
	DeleteByLocalID(ctx context.Context, entityType EntityType, localID int64) error
}

// ProductMapRepository combines read and write access
type ProductMapRepository interface {
	ProductMapReader
	ProductMapWriter
}
