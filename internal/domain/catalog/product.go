package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/mwc/backend/internal/domain/shared/valueobject"
)

var (
	ErrProductNotFound    = errors.New("catalog: product not found")
	ErrProductInvalidName = errors.New("catalog: product name cannot be empty")
)

// ProductStatus represents the publication status of a local product
type ProductStatus string

const (
	ProductStatusPublish ProductStatus = "publish"
	ProductStatusPrivate ProductStatus = "private"
	ProductStatusDraft   ProductStatus = "draft"
	ProductStatusPending ProductStatus = "pending"
)

// ProductType represents the structural type of a local product
type ProductType string

const (
	ProductTypeSimple    ProductType = "simple"
	ProductTypeVariable  ProductType = "variable"
	ProductTypeVariation ProductType = "variation"
)

// IsValid returns true if the product type is known
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeSimple, ProductTypeVariable, ProductTypeVariation:
		return true
	}
	return false
}

// AttributeValue is one selectable value of an attribute
type AttributeValue struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Attribute is a named product attribute, optionally used to build variations
type Attribute struct {
	Name      string           `json:"name"`
	Label     string           `json:"label"`
	Values    []AttributeValue `json:"values"`
	IsVariant bool             `json:"isVariant"`
}

// VariantAttributeValue binds a variation to one value of a parent attribute.
// An empty ValueName is the wildcard "Any".
type VariantAttributeValue struct {
	AttributeName string `json:"attributeName"`
	ValueName     string `json:"valueName"`
	ValueLabel    string `json:"valueLabel"`
}

// IsAny reports whether the value is the "Any" wildcard
func (v VariantAttributeValue) IsAny() bool {
	return v.ValueName == ""
}

// Product is a product as stored in the local catalog
type Product struct {
	ID                      int64                   `json:"id"`
	Name                    string                  `json:"name"`
	Description             string                  `json:"description"`
	SKU                     string                  `json:"sku"`
	Status                  ProductStatus           `json:"status"`
	Password                string                  `json:"password"`
	Type                    ProductType             `json:"type"`
	Virtual                 bool                    `json:"virtual"`
	Downloadable            bool                    `json:"downloadable"`
	ParentID                *int64                  `json:"parentId"`
	RegularPrice            *valueobject.Money      `json:"regularPrice"`
	SalePrice               *valueobject.Money      `json:"salePrice"`
	Attributes              []Attribute             `json:"attributes"`
	VariantAttributeMapping []VariantAttributeValue `json:"variantAttributeMapping"`
	MarketplacesBrand       string                  `json:"marketplacesBrand"`
	MarketplacesCondition   string                  `json:"marketplacesCondition"`
	TaxCategory             string                  `json:"taxCategory"`
	CreatedAt               *time.Time              `json:"createdAt"`
	UpdatedAt               *time.Time              `json:"updatedAt"`
}

// NewProduct creates a simple, published product
func NewProduct(id int64, name string) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProductInvalidName
	}
	return &Product{
		ID:     id,
		Name:   name,
		Status: ProductStatusPublish,
		Type:   ProductTypeSimple,
	}, nil
}

// IsPublished returns true if the product status is publish
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublish
}

// IsPasswordProtected returns true if the product requires a password to view
func (p *Product) IsPasswordProtected() bool {
	return p.Password != ""
}

// HasParent returns true if the product is a variant child
func (p *Product) HasParent() bool {
	return p.ParentID != nil && *p.ParentID > 0
}

// IsVariable returns true if the product is a variable (parent) product
func (p *Product) IsVariable() bool {
	return p.Type == ProductTypeVariable
}

// IsVariation returns true if the product is a variation of a variable product
func (p *Product) IsVariation() bool {
	return p.Type == ProductTypeVariation
}
