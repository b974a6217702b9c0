package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	appintegration "github.com/mwc/backend/internal/application/integration"
	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/interfaces/http/dto"
	"github.com/mwc/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type catalogFixture struct {
	syncer       *MockProductSyncer
	checker      *MockDeletedProductChecker
	associations *MockAssociationRecorder
	products     *MockProductRepository
	engine       *gin.Engine
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		syncer:       new(MockProductSyncer),
		checker:      new(MockDeletedProductChecker),
		associations: new(MockAssociationRecorder),
		products:     new(MockProductRepository),
	}
	t.Cleanup(func() {
		f.syncer.AssertExpectations(t)
		f.checker.AssertExpectations(t)
		f.associations.AssertExpectations(t)
		f.products.AssertExpectations(t)
	})

	f.engine = gin.New()
	f.engine.Use(middleware.RequestID())
	h := NewCatalogHandler(f.syncer, f.checker, f.associations, f.products)
	h.RegisterRoutes(f.engine.Group("/api/v1"))
	return f
}

func (f *catalogFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func remote(id string) *integration.RemoteProduct {
	p := &integration.RemoteProduct{Name: "Remote " + id}
	p.SetRemoteID(id)
	return p
}

func TestCatalogHandler_SyncProduct_StoredProduct(t *testing.T) {
	f := newCatalogFixture(t)
	product, err := catalog.NewProduct(42, "Mug")
	require.NoError(t, err)

	f.products.On("FindByID", mock.Anything, int64(42)).Return(product, nil)
	f.syncer.On("CreateOrUpdateProduct", mock.Anything, mock.MatchedBy(func(op *appintegration.CreateOrUpdateProductOperation) bool {
		return op.Product == product
	})).Return(&appintegration.CreateOrUpdateProductResponse{RemoteID: "r-42"}, nil)

	w := f.do(http.MethodPost, "/api/v1/catalog/products/42/sync", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]any{"local_id": float64(42), "remote_id": "r-42"}, resp.Data)
}

func TestCatalogHandler_SyncProduct_WithBody(t *testing.T) {
	f := newCatalogFixture(t)

	f.products.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.ID == 7 && p.Name == "Shirt" && p.SKU == "SH-1" &&
			p.RegularPrice != nil && p.RegularPrice.Amount().String() == "19.99" &&
			string(p.RegularPrice.Currency()) == "EUR"
	})).Return(nil)
	f.syncer.On("CreateOrUpdateProduct", mock.Anything, mock.MatchedBy(func(op *appintegration.CreateOrUpdateProductOperation) bool {
		return op.LocalID() == 7
	})).Return(&appintegration.CreateOrUpdateProductResponse{RemoteID: "r-7"}, nil)

	body := `{"name":"Shirt","sku":"SH-1","regular_price":"19.99","currency":"eur","status":"publish"}`
	w := f.do(http.MethodPost, "/api/v1/catalog/products/7/sync", body)

	assert.Equal(t, http.StatusOK, w.Code)
	f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCatalogHandler_SyncProduct_ValidationError(t *testing.T) {
	f := newCatalogFixture(t)

	w := f.do(http.MethodPost, "/api/v1/catalog/products/7/sync", `{"status":"archived"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "status"}, fields)
}

func TestCatalogHandler_SyncProduct_MalformedJSON(t *testing.T) {
	f := newCatalogFixture(t)

	w := f.do(http.MethodPost, "/api/v1/catalog/products/7/sync", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
}

func TestCatalogHandler_SyncProduct_InvalidID(t *testing.T) {
	f := newCatalogFixture(t)

	for _, id := range []string{"0", "-3", "abc"} {
		w := f.do(http.MethodPost, "/api/v1/catalog/products/"+id+"/sync", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestCatalogHandler_SyncProduct_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not unique", integration.NewGatewayError(http.StatusConflict, "NOT_UNIQUE", "sku taken"), http.StatusConflict, dto.ErrCodeNotUnique},
		{"remote missing", integration.NewGatewayError(http.StatusNotFound, "", "gone"), http.StatusNotFound, dto.ErrCodeRemoteNotFound},
		{"gateway failure", integration.NewGatewayError(http.StatusInternalServerError, "", "boom"), http.StatusBadGateway, dto.ErrCodeGateway},
		{"invalid response", fmt.Errorf("decode: %w", integration.ErrGatewayInvalidResponse), http.StatusBadGateway, dto.ErrCodeGatewayResponse},
		{"missing remote id", fmt.Errorf("update: %w", integration.ErrMissingRemoteID), http.StatusBadGateway, dto.ErrCodeGatewayResponse},
		{"lock", fmt.Errorf("lock product 1: %w", integration.ErrLockNotAcquired), http.StatusConflict, dto.ErrCodeLockTimeout},
		{"conversion", fmt.Errorf("%w: variation without parent", integration.ErrMissingRemoteParentID), http.StatusUnprocessableEntity, dto.ErrCodeConversion},
		{"unknown", assert.AnError, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)
			product, _ := catalog.NewProduct(1, "Mug")
			f.products.On("FindByID", mock.Anything, int64(1)).Return(product, nil)
			f.syncer.On("CreateOrUpdateProduct", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := f.do(http.MethodPost, "/api/v1/catalog/products/1/sync", "")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestCatalogHandler_SyncProduct_LocalProductMissing(t *testing.T) {
	f := newCatalogFixture(t)
	f.products.On("FindByID", mock.Anything, int64(9)).Return(nil, catalog.ErrProductNotFound)

	w := f.do(http.MethodPost, "/api/v1/catalog/products/9/sync", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestCatalogHandler_GetRemoteProduct(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.syncer.On("ReadProduct", mock.Anything, appintegration.ReadProductOperation{LocalID: 5}).
			Return(&appintegration.ReadProductResponse{Product: remote("r-5")}, nil)

		w := f.do(http.MethodGet, "/api/v1/catalog/products/5/remote", "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "r-5", data["productId"])
	})

	t.Run("not synced", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.syncer.On("ReadProduct", mock.Anything, appintegration.ReadProductOperation{LocalID: 5}).
			Return(nil, fmt.Errorf("%w: local product 5", integration.ErrProductMappingNotFound))

		w := f.do(http.MethodGet, "/api/v1/catalog/products/5/remote", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotSynced, decodeResponse(t, w).Error.Code)
	})
}

func TestCatalogHandler_CheckDeleted(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.checker.On("CheckByLocalID", mock.Anything, int64(3)).Return(appintegration.CheckOutcomeDeleted, nil)

		w := f.do(http.MethodPost, "/api/v1/catalog/products/3/check-deleted", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"local_id": float64(3), "outcome": "deleted"}, decodeResponse(t, w).Data)
	})

	t.Run("failed", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.checker.On("CheckByLocalID", mock.Anything, int64(3)).
			Return(appintegration.CheckOutcomeFailed, integration.NewGatewayError(http.StatusServiceUnavailable, "", "down"))

		w := f.do(http.MethodPost, "/api/v1/catalog/products/3/check-deleted", "")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestCatalogHandler_ListRemoteProducts(t *testing.T) {
	f := newCatalogFixture(t)
	localID := int64(11)
	f.syncer.On("ListProducts", mock.Anything, appintegration.ListProductsOperation{
		SKU:        "SKU-1",
		ProductIDs: []string{"a", "b", "c"},
		PageSize:   20,
		PageToken:  "next",
	}).Return(&appintegration.ListProductsResponse{
		Products:      []appintegration.ListedProduct{{Product: remote("a"), LocalID: &localID}},
		NextPageToken: "after-a",
	}, nil)

	w := f.do(http.MethodGet, "/api/v1/catalog/remote-products?sku=SKU-1&ids=a,b&ids=c&page_size=20&page_token=next", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	products := data["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, float64(11), products[0].(map[string]any)["localId"])
	assert.Equal(t, "after-a", data["nextPageToken"])
}

func TestCatalogHandler_ListRemoteProducts_InvalidPageSize(t *testing.T) {
	f := newCatalogFixture(t)

	w := f.do(http.MethodGet, "/api/v1/catalog/remote-products?page_size=500", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
}

func TestCatalogHandler_GetRemoteProductBySku(t *testing.T) {
	f := newCatalogFixture(t)
	f.syncer.On("ReadProductBySku", mock.Anything, appintegration.ReadProductBySkuOperation{SKU: "MUG-1"}).
		Return(nil, integration.NewGatewayError(http.StatusNotFound, "", "no product found with SKU MUG-1"))

	w := f.do(http.MethodGet, "/api/v1/catalog/remote-products/by-sku/MUG-1", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeRemoteNotFound, resp.Error.Code)
	assert.Equal(t, "no product found with SKU MUG-1", resp.Error.Message)
}

func TestCatalogHandler_RecordAssociation(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.associations.On("RecordAssociation", mock.Anything, "r-1", int64(12)).Return(nil)

		w := f.do(http.MethodPost, "/api/v1/catalog/associations", `{"remote_id":"r-1","local_id":12}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newCatalogFixture(t)

		w := f.do(http.MethodPost, "/api/v1/catalog/associations", `{"local_id":0}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, decodeResponse(t, w).Error.Details, 2)
	})
}
