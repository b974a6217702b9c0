package dto

import (
	"time"

	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductIDRequest binds the :id path parameter of catalog routes
type ProductIDRequest struct {
	ID int64 `uri:"id" binding:"required,gt=0"`
}

// AttributeValueRequest is one selectable value of an attribute
type AttributeValueRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Label string `json:"label" binding:"max=255"`
}

// AttributeRequest is a product attribute
type AttributeRequest struct {
	Name      string                  `json:"name" binding:"required,max=100"`
	Label     string                  `json:"label" binding:"max=255"`
	Values    []AttributeValueRequest `json:"values" binding:"dive"`
	IsVariant bool                    `json:"is_variant"`
}

// VariantAttributeValueRequest binds a variation to a parent attribute value.
// An empty value_name means "any".
type VariantAttributeValueRequest struct {
	AttributeName string `json:"attribute_name" binding:"required,max=100"`
	ValueName     string `json:"value_name" binding:"max=100"`
	ValueLabel    string `json:"value_label" binding:"max=255"`
}

// ProductRequest is the local product body accepted by the sync endpoint
type ProductRequest struct {
	Name                    string                         `json:"name" binding:"required,max=255"`
	Description             string                         `json:"description"`
	SKU                     string                         `json:"sku" binding:"max=100"`
	Status                  string                         `json:"status" binding:"omitempty,oneof=publish private draft pending"`
	Password                string                         `json:"password" binding:"max=255"`
	Type                    string                         `json:"type" binding:"omitempty,oneof=simple variable variation"`
	Virtual                 bool                           `json:"virtual"`
	Downloadable            bool                           `json:"downloadable"`
	ParentID                *int64                         `json:"parent_id" binding:"omitempty,gt=0"`
	RegularPrice            *decimal.Decimal               `json:"regular_price"`
	SalePrice               *decimal.Decimal               `json:"sale_price"`
	Currency                string                         `json:"currency" binding:"omitempty,len=3,alpha"`
	Attributes              []AttributeRequest             `json:"attributes" binding:"dive"`
	VariantAttributeMapping []VariantAttributeValueRequest `json:"variant_attribute_mapping" binding:"dive"`
	MarketplacesBrand       string                         `json:"marketplaces_brand" binding:"max=255"`
	MarketplacesCondition   string                         `json:"marketplaces_condition" binding:"max=50"`
	TaxCategory             string                         `json:"tax_category" binding:"max=50"`
}

// ToDomain converts the request into a local product with the given ID
func (r *ProductRequest) ToDomain(id int64) (*catalog.Product, error) {
	p, err := catalog.NewProduct(id, r.Name)
	if err != nil {
		return nil, err
	}

	p.Description = r.Description
	p.SKU = r.SKU
	if r.Status != "" {
		p.Status = catalog.ProductStatus(r.Status)
	}
	p.Password = r.Password
	if r.Type != "" {
		p.Type = catalog.ProductType(r.Type)
	}
	p.Virtual = r.Virtual
	p.Downloadable = r.Downloadable
	p.ParentID = r.ParentID
	p.MarketplacesBrand = r.MarketplacesBrand
	p.MarketplacesCondition = r.MarketplacesCondition
	p.TaxCategory = r.TaxCategory

	currency := valueobject.ParseCurrency(r.Currency)
	if p.RegularPrice, err = moneyPtr(r.RegularPrice, currency); err != nil {
		return nil, err
	}
	if p.SalePrice, err = moneyPtr(r.SalePrice, currency); err != nil {
		return nil, err
	}

	for _, a := range r.Attributes {
		attr := catalog.Attribute{Name: a.Name, Label: a.Label, IsVariant: a.IsVariant}
		for _, v := range a.Values {
			attr.Values = append(attr.Values, catalog.AttributeValue{Name: v.Name, Label: v.Label})
		}
		p.Attributes = append(p.Attributes, attr)
	}
	for _, v := range r.VariantAttributeMapping {
		p.VariantAttributeMapping = append(p.VariantAttributeMapping, catalog.VariantAttributeValue{
			AttributeName: v.AttributeName,
			ValueName:     v.ValueName,
			ValueLabel:    v.ValueLabel,
		})
	}

	now := time.Now().UTC()
	p.UpdatedAt = &now
	return p, nil
}

func moneyPtr(amount *decimal.Decimal, currency valueobject.Currency) (*valueobject.Money, error) {
	if amount == nil {
		return nil, nil
	}
	m, err := valueobject.NewMoney(*amount, currency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AssociationRequest records a remote product previously synced by the
// point-of-sale channel
type AssociationRequest struct {
	RemoteID string `json:"remote_id" binding:"required,max=64"`
	LocalID  int64  `json:"local_id" binding:"required,gt=0"`
}

// ListRemoteProductsRequest filters the remote catalog listing
type ListRemoteProductsRequest struct {
	SKU       string   `form:"sku" binding:"max=100"`
	IDs       []string `form:"ids" binding:"max=100,dive,max=64"`
	PageSize  int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	PageToken string   `form:"page_token" binding:"max=512"`
}

// SyncProductResponse is returned by the sync endpoint
type SyncProductResponse struct {
	LocalID  int64  `json:"local_id"`
	RemoteID string `json:"remote_id"`
}

// CheckDeletedResponse is returned by the deleted-product check
type CheckDeletedResponse struct {
	LocalID int64  `json:"local_id"`
	Outcome string `json:"outcome"`
}
