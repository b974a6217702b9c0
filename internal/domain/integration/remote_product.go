package integration

import (
	"strings"
	"time"
)

// RemoteDateFormat is the UTC layout used for dates on the wire
const RemoteDateFormat = "2006-01-02T15:04:05Z"

// TaxCategoryStandard is the tax category applied when a product has none
const TaxCategoryStandard = "standard"

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// ProductCondition is the marketplace condition of a remote product
type ProductCondition string

const (
	ConditionNew           ProductCondition = "NEW"
	ConditionReconditioned ProductCondition = "RECONDITIONED"
	ConditionRefurbished   ProductCondition = "REFURBISHED"
	ConditionUsed          ProductCondition = "USED"
)

// ParseProductCondition normalizes a free-form condition string.
// Unknown values return false.
func ParseProductCondition(s string) (ProductCondition, bool) {
	c := ProductCondition(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case ConditionNew, ConditionReconditioned, ConditionRefurbished, ConditionUsed:
		return c, true
	}
	return "", false
}

// RemoteProductType is the fulfillment type of a remote product
type RemoteProductType string

const (
	RemoteProductTypePhysical RemoteProductType = "PHYSICAL"
	RemoteProductTypeService  RemoteProductType = "SERVICE"
	RemoteProductTypeDigital  RemoteProductType = "DIGITAL"
)

// OptionType distinguishes informational options from those that define variants
type OptionType string

const (
	OptionTypeList        OptionType = "LIST"
	OptionTypeVariantList OptionType = "VARIANT_LIST"
)

// ---------------------------------------------------------------------------
// Value objects
// ---------------------------------------------------------------------------

// SimpleMoney is an amount in minor units with its currency
type SimpleMoney struct {
	Value        int64  `json:"value"`
	CurrencyCode string `json:"currencyCode"`
}

// OptionValue is one value of an option
type OptionValue struct {
	Name         string `json:"name"`
	Presentation string `json:"presentation"`
}

// Option is an attribute definition on a remote product
type Option struct {
	Type         OptionType    `json:"type"`
	Name         string        `json:"name"`
	Presentation string        `json:"presentation"`
	Values       []OptionValue `json:"values"`
}

// IsVariantList reports whether the option defines variants
func (o Option) IsVariantList() bool {
	return o.Type == OptionTypeVariantList
}

// VariantOptionMapping is the concrete option value of a variant child
type VariantOptionMapping struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ChannelIDs lists sales channels to associate or dissociate
type ChannelIDs struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// ---------------------------------------------------------------------------
// RemoteProduct
// ---------------------------------------------------------------------------

// RemoteProduct is the product representation exchanged with the commerce platform.
// It is never persisted locally.
type RemoteProduct struct {
	ProductID            *string                `json:"productId"`
	Active               bool                   `json:"active"`
	AllowCustomPrice     bool                   `json:"allowCustomPrice"`
	Brand                *string                `json:"brand"`
	CategoryIDs          []string               `json:"categoryIds"`
	ChannelIDs           []string               `json:"channelIds"`
	Condition            *ProductCondition      `json:"condition"`
	CreatedAt            *string                `json:"createdAt"`
	Description          *string                `json:"description"`
	Name                 string                 `json:"name"`
	Options              []Option               `json:"options"`
	ParentID             *string                `json:"parentId"`
	Price                *SimpleMoney           `json:"price"`
	Purchasable          bool                   `json:"purchasable"`
	SalePrice            *SimpleMoney           `json:"salePrice"`
	SKU                  *string                `json:"sku"`
	TaxCategory          string                 `json:"taxCategory"`
	Type                 RemoteProductType      `json:"type"`
	UpdatedAt            *string                `json:"updatedAt"`
	VariantOptionMapping []VariantOptionMapping `json:"variantOptionMapping"`
}

// RemoteID returns the remote product ID, or "" when the platform has not assigned one
func (p *RemoteProduct) RemoteID() string {
	if p == nil || p.ProductID == nil {
		return ""
	}
	return *p.ProductID
}

// SetRemoteID assigns the remote product ID
func (p *RemoteProduct) SetRemoteID(id string) {
	p.ProductID = &id
}

// HasVariantListOption reports whether any option defines variants
func (p *RemoteProduct) HasVariantListOption() bool {
	for _, o := range p.Options {
		if o.IsVariantList() {
			return true
		}
	}
	return false
}

// FormatRemoteDate renders t in UTC using RemoteDateFormat; nil stays nil
func FormatRemoteDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(RemoteDateFormat)
	return &s
}

// ParseRemoteDate parses a wire date; nil or empty input yields nil
func ParseRemoteDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(RemoteDateFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
