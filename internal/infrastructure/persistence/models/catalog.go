package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for a local catalog product.
type ProductModel struct {
	ID                    int64                 `gorm:"primaryKey;autoIncrement:false"`
	Name                  string                `gorm:"type:varchar(255);not null"`
	Description           string                `gorm:"type:text"`
	SKU                   string                `gorm:"type:varchar(100);index"`
	Status                catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'publish'"`
	Password              string                `gorm:"type:varchar(255)"`
	Type                  catalog.ProductType   `gorm:"type:varchar(20);not null;default:'simple'"`
	Virtual               bool                  `gorm:"not null;default:false"`
	Downloadable          bool                  `gorm:"not null;default:false"`
	ParentID              *int64                `gorm:"index"`
	RegularPrice          decimal.NullDecimal   `gorm:"type:decimal(18,4)"`
	SalePrice             decimal.NullDecimal   `gorm:"type:decimal(18,4)"`
	Currency              string                `gorm:"type:varchar(3);not null;default:'USD'"`
	AttributesJSON        string                `gorm:"type:jsonb;column:attributes"`
	VariantMappingJSON    string                `gorm:"type:jsonb;column:variant_attribute_mapping"`
	MarketplacesBrand     string                `gorm:"type:varchar(255)"`
	MarketplacesCondition string                `gorm:"type:varchar(50)"`
	TaxCategory           string                `gorm:"type:varchar(50)"`
	CreatedAt             time.Time             `gorm:"not null"`
	UpdatedAt             time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "catalog_products"
}

// ToDomain converts the persistence model to a domain Product.
// Malformed attribute columns are an error rather than an empty attribute set.
func (m *ProductModel) ToDomain() (*catalog.Product, error) {
	currency := valueobject.ParseCurrency(m.Currency)
	createdAt := m.CreatedAt
	updatedAt := m.UpdatedAt

	p := &catalog.Product{
		ID:                    m.ID,
		Name:                  m.Name,
		Description:           m.Description,
		SKU:                   m.SKU,
		Status:                m.Status,
		Password:              m.Password,
		Type:                  m.Type,
		Virtual:               m.Virtual,
		Downloadable:          m.Downloadable,
		ParentID:              m.ParentID,
		RegularPrice:          moneyFromNull(m.RegularPrice, currency),
		SalePrice:             moneyFromNull(m.SalePrice, currency),
		MarketplacesBrand:     m.MarketplacesBrand,
		MarketplacesCondition: m.MarketplacesCondition,
		TaxCategory:           m.TaxCategory,
		CreatedAt:             &createdAt,
		UpdatedAt:             &updatedAt,
	}

	if m.AttributesJSON != "" {
		if err := json.Unmarshal([]byte(m.AttributesJSON), &p.Attributes); err != nil {
			return nil, fmt.Errorf("product %d: invalid attributes: %w", m.ID, err)
		}
	}
	if m.VariantMappingJSON != "" {
		if err := json.Unmarshal([]byte(m.VariantMappingJSON), &p.VariantAttributeMapping); err != nil {
			return nil, fmt.Errorf("product %d: invalid variant attribute mapping: %w", m.ID, err)
		}
	}

	return p, nil
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.Description = p.Description
	m.SKU = p.SKU
	m.Status = p.Status
	m.Password = p.Password
	m.Type = p.Type
	m.Virtual = p.Virtual
	m.Downloadable = p.Downloadable
	m.ParentID = p.ParentID
	m.RegularPrice = nullFromMoney(p.RegularPrice)
	m.SalePrice = nullFromMoney(p.SalePrice)
	m.MarketplacesBrand = p.MarketplacesBrand
	m.MarketplacesCondition = p.MarketplacesCondition
	m.TaxCategory = p.TaxCategory

	m.Currency = string(valueobject.DefaultCurrency)
	switch {
	case p.RegularPrice != nil:
		m.Currency = string(p.RegularPrice.Currency())
	case p.SalePrice != nil:
		m.Currency = string(p.SalePrice.Currency())
	}

	now := time.Now().UTC()
	m.CreatedAt = now
	if p.CreatedAt != nil {
		m.CreatedAt = p.CreatedAt.UTC()
	}
	m.UpdatedAt = now
	if p.UpdatedAt != nil {
		m.UpdatedAt = p.UpdatedAt.UTC()
	}

	m.AttributesJSON = "[]"
	if len(p.Attributes) > 0 {
		if b, err := json.Marshal(p.Attributes); err == nil {
			m.AttributesJSON = string(b)
		}
	}
	m.VariantMappingJSON = "[]"
	if len(p.VariantAttributeMapping) > 0 {
		if b, err := json.Marshal(p.VariantAttributeMapping); err == nil {
			m.VariantMappingJSON = string(b)
		}
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

func moneyFromNull(d decimal.NullDecimal, currency valueobject.Currency) *valueobject.Money {
	if !d.Valid {
		return nil
	}
	m, err := valueobject.NewMoney(d.Decimal, currency)
	if err != nil {
		return nil
	}
	return &m
}

func nullFromMoney(m *valueobject.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: m.Amount(), Valid: true}
}
