package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mwc/backend/internal/application/integration"
	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/interfaces/http/dto"
)

// ProductSyncer pushes local products to the remote catalog and reads them back
type ProductSyncer interface {
	ReadProduct(ctx context.Context, op integration.ReadProductOperation) (*integration.ReadProductResponse, error)
	ReadProductBySku(ctx context.Context, op integration.ReadProductBySkuOperation) (*integration.ReadProductResponse, error)
	ListProducts(ctx context.Context, op integration.ListProductsOperation) (*integration.ListProductsResponse, error)
	CreateOrUpdateProduct(ctx context.Context, op *integration.CreateOrUpdateProductOperation) (*integration.CreateOrUpdateProductResponse, error)
}

// DeletedProductChecker detects local products deleted upstream
type DeletedProductChecker interface {
	CheckByLocalID(ctx context.Context, localID int64) (integration.CheckOutcome, error)
}

// AssociationRecorder records point-of-sale product associations
type AssociationRecorder interface {
	RecordAssociation(ctx context.Context, remoteID string, localID int64) error
}

// CatalogHandler exposes product sync over HTTP
type CatalogHandler struct {
	BaseHandler
	syncer       ProductSyncer
	checker      DeletedProductChecker
	associations AssociationRecorder
	products     catalog.ProductRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	syncer ProductSyncer,
	checker DeletedProductChecker,
	associations AssociationRecorder,
	products catalog.ProductRepository,
) *CatalogHandler {
	return &CatalogHandler{
		syncer:       syncer,
		checker:      checker,
		associations: associations,
		products:     products,
	}
}

// RegisterRoutes registers the catalog routes on the versioned API group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/catalog/products/:id")
	products.POST("/sync", h.SyncProduct)
	products.GET("/remote", h.GetRemoteProduct)
	products.POST("/check-deleted", h.CheckDeleted)

	remote := rg.Group("/catalog/remote-products")
	remote.GET("", h.ListRemoteProducts)
	remote.GET("/by-sku/:sku", h.GetRemoteProductBySku)

	rg.POST("/catalog/associations", h.RecordAssociation)
}

// SyncProduct creates or updates the remote counterpart of a local product.
// A request body replaces the stored local product before the sync; without
// one the stored product is pushed as is.
//
// POST /catalog/products/:id/sync
func (h *CatalogHandler) SyncProduct(c *gin.Context) {
	var uri dto.ProductIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindError(c, err)
		return
	}
	ctx := c.Request.Context()

	product, ok := h.productFromBody(c, uri.ID)
	if !ok {
		return
	}
	if product == nil {
		var err error
		if product, err = h.products.FindByID(ctx, uri.ID); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	resp, err := h.syncer.CreateOrUpdateProduct(ctx, &integration.CreateOrUpdateProductOperation{Product: product})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.SyncProductResponse{LocalID: uri.ID, RemoteID: resp.RemoteID})
}

// productFromBody binds and stores the optional product body. It returns
// (nil, true) when there is no body and false once a response was written.
func (h *CatalogHandler) productFromBody(c *gin.Context, id int64) (*catalog.Product, bool) {
	if c.Request.ContentLength == 0 {
		return nil, true
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true
		}
		h.HandleBindError(c, err)
		return nil, false
	}

	product, err := req.ToDomain(id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if err := h.products.Save(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return product, true
}

// GetRemoteProduct returns the remote counterpart of a synced local product
//
// GET /catalog/products/:id/remote
func (h *CatalogHandler) GetRemoteProduct(c *gin.Context) {
	var uri dto.ProductIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.syncer.ReadProduct(c.Request.Context(), integration.ReadProductOperation{LocalID: uri.ID})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp.Product)
}

// CheckDeleted purges the local sync state of a product deleted upstream
//
// POST /catalog/products/:id/check-deleted
func (h *CatalogHandler) CheckDeleted(c *gin.Context) {
	var uri dto.ProductIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindError(c, err)
		return
	}

	outcome, err := h.checker.CheckByLocalID(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CheckDeletedResponse{LocalID: uri.ID, Outcome: string(outcome)})
}

// ListRemoteProducts lists remote products with their local IDs
//
// GET /catalog/remote-products?sku=&ids=&page_size=&page_token=
func (h *CatalogHandler) ListRemoteProducts(c *gin.Context) {
	var req dto.ListRemoteProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	resp, err := h.syncer.ListProducts(c.Request.Context(), integration.ListProductsOperation{
		SKU:        req.SKU,
		ProductIDs: splitIDs(req.IDs),
		PageSize:   req.PageSize,
		PageToken:  req.PageToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetRemoteProductBySku returns the first remote product with the SKU
//
// GET /catalog/remote-products/by-sku/:sku
func (h *CatalogHandler) GetRemoteProductBySku(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		h.BadRequest(c, "sku is required")
		return
	}

	resp, err := h.syncer.ReadProductBySku(c.Request.Context(), integration.ReadProductBySkuOperation{SKU: sku})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp.Product)
}

// RecordAssociation records a remote product synced by the point-of-sale channel
//
// POST /catalog/associations
func (h *CatalogHandler) RecordAssociation(c *gin.Context) {
	var req dto.AssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	if err := h.associations.RecordAssociation(c.Request.Context(), req.RemoteID, req.LocalID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, req)
}

// splitIDs accepts both repeated and comma separated ids parameters
func splitIDs(raw []string) []string {
	var ids []string
	for _, v := range raw {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
