package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mwc/backend/internal/domain/integration"
)

// ProductMapModel is the persistence model for a local/remote identity mapping.
type ProductMapModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityType string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_maps_entity_local,priority:1"`
	LocalID    int64     `gorm:"not null;uniqueIndex:idx_product_maps_entity_local,priority:2"`
	RemoteID   string    `gorm:"type:varchar(64);not null;index:idx_product_maps_remote"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductMapModel) TableName() string {
	return "product_maps"
}

// ToDomain converts the persistence model to a domain ProductMap
func (m *ProductMapModel) ToDomain() *integration.ProductMap {
	return &integration.ProductMap{
		ID:         m.ID,
		EntityType: integration.EntityType(m.EntityType),
		LocalID:    m.LocalID,
		RemoteID:   m.RemoteID,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductMap
func (m *ProductMapModel) FromDomain(pm *integration.ProductMap) {
	m.ID = pm.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.EntityType = string(pm.EntityType)
	if m.EntityType == "" {
		m.EntityType = string(integration.EntityTypeProduct)
	}
	m.LocalID = pm.LocalID
	m.RemoteID = pm.RemoteID
	m.CreatedAt = pm.CreatedAt
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
}

// ProductMapModelFromDomain creates a new persistence model from a domain ProductMap
func ProductMapModelFromDomain(pm *integration.ProductMap) *ProductMapModel {
	m := &ProductMapModel{}
	m.FromDomain(pm)
	return m
}

// ProductAssociationModel is the persistence model for a historical
// remote/local association recorded by an independent channel.
type ProductAssociationModel struct {
	Source    string    `gorm:"type:varchar(50);primaryKey"`
	RemoteID  string    `gorm:"type:varchar(64);primaryKey"`
	LocalID   int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductAssociationModel) TableName() string {
	return "product_associations"
}

// ToDomain converts the persistence model to a domain ProductAssociation
func (m *ProductAssociationModel) ToDomain() *integration.ProductAssociation {
	return &integration.ProductAssociation{
		RemoteID:  m.RemoteID,
		LocalID:   m.LocalID,
		Source:    m.Source,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductAssociation
func (m *ProductAssociationModel) FromDomain(a *integration.ProductAssociation) {
	m.Source = a.Source
	if m.Source == "" {
		m.Source = integration.AssociationSourcePoynt
	}
	m.RemoteID = a.RemoteID
	m.LocalID = a.LocalID
	m.CreatedAt = a.CreatedAt
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
}

// ProductAssociationModelFromDomain creates a new persistence model from a domain ProductAssociation
func ProductAssociationModelFromDomain(a *integration.ProductAssociation) *ProductAssociationModel {
	m := &ProductAssociationModel{}
	m.FromDomain(a)
	return m
}
