package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/domain/shared/valueobject"
)

// RemoteIDResolver resolves the remote ID mapped to a local product
type RemoteIDResolver interface {
	GetRemoteID(ctx context.Context, localID int64) (string, bool, error)
}

// LocalIDResolver resolves the local ID mapped to a remote product
type LocalIDResolver interface {
	GetLocalID(ctx context.Context, remoteID string) (int64, bool, error)
}

// ProductConverter converts between local products and remote products
type ProductConverter interface {
	ToRemote(ctx context.Context, product *catalog.Product) (*integration.RemoteProduct, error)
	ToLocal(ctx context.Context, remote *integration.RemoteProduct) (*catalog.Product, error)
}

// ProductBaseAdapter converts between catalog.Product and integration.RemoteProduct
type ProductBaseAdapter struct {
	products        catalog.ProductReader
	remoteIDs       RemoteIDResolver
	localIDs        LocalIDResolver
	options         OptionConverter
	defaultCurrency valueobject.Currency
}

// ProductBaseAdapterOption configures a ProductBaseAdapter
type ProductBaseAdapterOption func(*ProductBaseAdapter)

// WithOptionConverter replaces the attribute to option converter
func WithOptionConverter(c OptionConverter) ProductBaseAdapterOption {
	return func(a *ProductBaseAdapter) {
		a.options = c
	}
}

// WithDefaultCurrency sets the currency used for zero prices
func WithDefaultCurrency(c valueobject.Currency) ProductBaseAdapterOption {
	return func(a *ProductBaseAdapter) {
		if c != "" {
			a.defaultCurrency = c
		}
	}
}

// NewProductBaseAdapter creates a new ProductBaseAdapter
func NewProductBaseAdapter(
	products catalog.ProductReader,
	remoteIDs RemoteIDResolver,
	localIDs LocalIDResolver,
	opts ...ProductBaseAdapterOption,
) *ProductBaseAdapter {
	a := &ProductBaseAdapter{
		products:        products,
		remoteIDs:       remoteIDs,
		localIDs:        localIDs,
		options:         NewOptionAdapter(),
		defaultCurrency: valueobject.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ---------------------------------------------------------------------------
// Local -> Remote
// ---------------------------------------------------------------------------

// ToRemote builds the remote representation of a local product
func (a *ProductBaseAdapter) ToRemote(ctx context.Context, product *catalog.Product) (*integration.RemoteProduct, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: cannot convert a nil product", integration.ErrAdapterInvalidProduct)
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: product %d has no name", integration.ErrAdapterInvalidProduct, product.ID)
	}

	active, err := a.activeStatusToRemote(ctx, product)
	if err != nil {
		return nil, err
	}

	parentID, err := a.parentIDToRemote(ctx, product)
	if err != nil {
		return nil, err
	}

	taxCategory := product.TaxCategory
	if taxCategory == "" {
		taxCategory = integration.TaxCategoryStandard
	}

	return &integration.RemoteProduct{
		Active:               active,
		AllowCustomPrice:     false,
		Brand:                optionalString(product.MarketplacesBrand),
		CategoryIDs:          categoriesToRemote(product),
		ChannelIDs:           []string{},
		Condition:            conditionToRemote(product),
		CreatedAt:            integration.FormatRemoteDate(product.CreatedAt),
		Description:          optionalString(product.Description),
		Name:                 product.Name,
		Options:              a.optionsToRemote(product),
		ParentID:             parentID,
		Price:                a.priceToRemote(product.RegularPrice, product.HasParent()),
		Purchasable:          !product.IsVariable(),
		SalePrice:            a.priceToRemote(product.SalePrice, true),
		SKU:                  optionalString(product.SKU),
		TaxCategory:          taxCategory,
		Type:                 productTypeToRemote(product),
		UpdatedAt:            integration.FormatRemoteDate(product.UpdatedAt),
		VariantOptionMapping: variantOptionMappingToRemote(product),
	}, nil
}

// activeStatusToRemote is true for published, non password protected products.
// Variations inherit the password protection of their parent.
func (a *ProductBaseAdapter) activeStatusToRemote(ctx context.Context, product *catalog.Product) (bool, error) {
	active := product.IsPublished() && !product.IsPasswordProtected()
	if !active || !product.HasParent() {
		return active, nil
	}

	parent, err := a.products.FindByID(ctx, *product.ParentID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return active, nil
		}
		return false, fmt.Errorf("load parent product %d: %w", *product.ParentID, err)
	}

	return !parent.IsPasswordProtected(), nil
}

func (a *ProductBaseAdapter) parentIDToRemote(ctx context.Context, product *catalog.Product) (*string, error) {
	if !product.HasParent() {
		return nil, nil
	}

	remoteID, ok, err := a.remoteIDs.GetRemoteID(ctx, *product.ParentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: parent product %d", integration.ErrMissingRemoteParentID, *product.ParentID)
	}
	return &remoteID, nil
}

// priceToRemote passes a missing price through as nil when nullable and
// coerces it to zero otherwise.
func (a *ProductBaseAdapter) priceToRemote(price *valueobject.Money, nullable bool) *integration.SimpleMoney {
	if price == nil {
		if nullable {
			return nil
		}
		return &integration.SimpleMoney{Value: 0, CurrencyCode: string(a.defaultCurrency)}
	}
	return &integration.SimpleMoney{
		Value:        price.MinorUnits(),
		CurrencyCode: string(price.Currency()),
	}
}

func (a *ProductBaseAdapter) optionsToRemote(product *catalog.Product) []integration.Option {
	if len(product.Attributes) == 0 {
		return nil
	}

	options := make([]integration.Option, 0, len(product.Attributes))
	for _, attr := range product.Attributes {
		if option, ok := a.options.ToRemoteOption(attr); ok {
			options = append(options, option)
		}
	}
	return options
}

func variantOptionMappingToRemote(product *catalog.Product) []integration.VariantOptionMapping {
	var mappings []integration.VariantOptionMapping
	for _, v := range product.VariantAttributeMapping {
		if v.IsAny() {
			continue
		}
		mappings = append(mappings, integration.VariantOptionMapping{
			Name:  v.AttributeName,
			Value: v.ValueName,
		})
	}
	return mappings
}

func productTypeToRemote(product *catalog.Product) integration.RemoteProductType {
	switch {
	case product.Downloadable:
		return integration.RemoteProductTypeDigital
	case product.Virtual:
		return integration.RemoteProductTypeService
	default:
		return integration.RemoteProductTypePhysical
	}
}

func conditionToRemote(product *catalog.Product) *integration.ProductCondition {
	condition, ok := integration.ParseProductCondition(product.MarketplacesCondition)
	if !ok {
		return nil
	}
	return &condition
}

// categoriesToRemote is a no-op until categories are synchronized
func categoriesToRemote(_ *catalog.Product) []string {
	return []string{}
}

// ---------------------------------------------------------------------------
// Remote -> Local
// ---------------------------------------------------------------------------

// ToLocal builds a local product from its remote representation.
// A remote parent must already be mapped locally; parents are never created here.
func (a *ProductBaseAdapter) ToLocal(ctx context.Context, remote *integration.RemoteProduct) (*catalog.Product, error) {
	if remote == nil {
		return nil, fmt.Errorf("%w: a remote product must be supplied", integration.ErrAdapterInvalidProduct)
	}

	status := catalog.ProductStatusPrivate
	if remote.Active {
		status = catalog.ProductStatusPublish
	}

	product := &catalog.Product{
		Name:              remote.Name,
		Description:       derefString(remote.Description),
		SKU:               derefString(remote.SKU),
		Status:            status,
		Type:              productTypeToLocal(remote),
		Virtual:           remote.Type == integration.RemoteProductTypeService,
		Downloadable:      remote.Type == integration.RemoteProductTypeDigital,
		MarketplacesBrand: derefString(remote.Brand),
		TaxCategory:       remote.TaxCategory,
	}
	if remote.Condition != nil {
		product.MarketplacesCondition = string(*remote.Condition)
	}

	var err error
	if product.RegularPrice, err = priceToLocal(remote.Price); err != nil {
		return nil, err
	}
	if product.SalePrice, err = priceToLocal(remote.SalePrice); err != nil {
		return nil, err
	}
	if product.CreatedAt, err = integration.ParseRemoteDate(remote.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: createdAt: %v", integration.ErrAdapterInvalidProduct, err)
	}
	if product.UpdatedAt, err = integration.ParseRemoteDate(remote.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: updatedAt: %v", integration.ErrAdapterInvalidProduct, err)
	}

	if remote.ParentID != nil && *remote.ParentID != "" {
		localParentID, err := a.parentIDToLocal(ctx, *remote.ParentID)
		if err != nil {
			return nil, err
		}
		product.ParentID = &localParentID
	}

	return product, nil
}

func (a *ProductBaseAdapter) parentIDToLocal(ctx context.Context, remoteParentID string) (int64, error) {
	localID, ok, err := a.localIDs.GetLocalID(ctx, remoteParentID)
	if err != nil {
		return 0, err
	}
	if !ok || localID <= 0 {
		return 0, fmt.Errorf("%w: remote parent %s", integration.ErrMissingLocalParentID, remoteParentID)
	}
	return localID, nil
}

// productTypeToLocal: a parent makes a variation; a variant list option makes a
// variable product; anything else is simple.
func productTypeToLocal(remote *integration.RemoteProduct) catalog.ProductType {
	switch {
	case remote.ParentID != nil && *remote.ParentID != "":
		return catalog.ProductTypeVariation
	case remote.HasVariantListOption():
		return catalog.ProductTypeVariable
	default:
		return catalog.ProductTypeSimple
	}
}

func priceToLocal(price *integration.SimpleMoney) (*valueobject.Money, error) {
	if price == nil {
		return nil, nil
	}
	m, err := valueobject.NewMoneyFromMinorUnits(price.Value, valueobject.ParseCurrency(price.CurrencyCode))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrAdapterInvalidProduct, err)
	}
	return &m, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ ProductConverter = (*ProductBaseAdapter)(nil)
