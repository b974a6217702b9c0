package integration

import (
	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// ReadProductOperation reads the remote counterpart of a local product
type ReadProductOperation struct {
	LocalID int64
}

// ReadProductBySkuOperation reads a remote product by SKU
type ReadProductBySkuOperation struct {
	SKU string
}

// CreateOrUpdateProductOperation pushes a local product to the remote catalog
type CreateOrUpdateProductOperation struct {
	Product    *catalog.Product
	ChannelIDs *integration.ChannelIDs
}

// LocalID returns the local ID of the product being synced, or 0
func (o *CreateOrUpdateProductOperation) LocalID() int64 {
	if o == nil || o.Product == nil {
		return 0
	}
	return o.Product.ID
}

// ListProductsOperation lists remote products
type ListProductsOperation struct {
	SKU        string
	ProductIDs []string
	PageSize   int
	PageToken  string
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// ReadProductResponse wraps a remote product
type ReadProductResponse struct {
	Product *integration.RemoteProduct `json:"product"`
}

// CreateOrUpdateProductResponse carries the confirmed remote ID
type CreateOrUpdateProductResponse struct {
	RemoteID string `json:"remoteId"`
}

// ListedProduct is a remote product with its local association, if any
type ListedProduct struct {
	Product *integration.RemoteProduct `json:"product"`
	LocalID *int64                     `json:"localId"`
}

// ListProductsResponse is the result of ListProducts
type ListProductsResponse struct {
	Products      []ListedProduct `json:"products"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}
