package integration

import "context"

// ---------------------------------------------------------------------------
// Gateway inputs
// ---------------------------------------------------------------------------

// CreateProductInput is the input of CatalogProvider.CreateProduct
type CreateProductInput struct {
	StoreID    string
	Product    *RemoteProduct
	ChannelIDs *ChannelIDs
}

// ReadProductInput is the input of CatalogProvider.ReadProduct
type ReadProductInput struct {
	StoreID   string
	ProductID string
}

// UpdateProductInput is the input of CatalogProvider.UpdateProduct.
// Product.ProductID carries the remote ID being updated.
type UpdateProductInput struct {
	StoreID    string
	Product    *RemoteProduct
	ChannelIDs *ChannelIDs
}

// ListProductsInput is the input of CatalogProvider.ListProducts
type ListProductsInput struct {
	StoreID    string
	SKU        string
	ProductIDs []string
	PageSize   int
	PageToken  string
}

// ProductPage is one page of a product listing. An empty NextPageToken
// means there are no further pages.
type ProductPage struct {
	Products      []*RemoteProduct
	NextPageToken string
}

// ---------------------------------------------------------------------------
// CatalogProvider Port
// ---------------------------------------------------------------------------

// CatalogProvider performs product calls against the remote catalog API.
//
// Errors are *GatewayError values that unwrap to ErrRemoteProductNotFound (404),
// ErrProductNotUnique (SKU conflict) or ErrGatewayRequest.
type CatalogProvider interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*RemoteProduct, error)
	ReadProduct(ctx context.Context, input ReadProductInput) (*RemoteProduct, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*RemoteProduct, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
}
