package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/infrastructure/logger"
	"github.com/mwc/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RequestMetrics records outbound catalog API calls
type RequestMetrics interface {
	RecordRequest(ctx context.Context, method string, statusCode int, d time.Duration)
}

// CatalogClient implements integration.CatalogProvider over the commerce REST API
type CatalogClient struct {
	config     ClientConfig
	httpClient *http.Client
	metrics    RequestMetrics
	logger     *zap.Logger
}

// ClientOption configures a CatalogClient
type ClientOption func(*CatalogClient)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cc *CatalogClient) {
		cc.httpClient = c
	}
}

// WithRequestMetrics records every call on m
func WithRequestMetrics(m RequestMetrics) ClientOption {
	return func(cc *CatalogClient) {
		cc.metrics = m
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) ClientOption {
	return func(cc *CatalogClient) {
		cc.logger = l
	}
}

// NewCatalogClient creates a catalog client with the given configuration
func NewCatalogClient(cfg ClientConfig, opts ...ClientOption) (*CatalogClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &CatalogClient{
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// CatalogProvider implementation
// ---------------------------------------------------------------------------

// CreateProduct creates a product in the remote catalog. Like UpdateProduct,
// the decoded body is returned even when it carries no ID.
func (c *CatalogClient) CreateProduct(ctx context.Context, input integration.CreateProductInput) (*integration.RemoteProduct, error) {
	if input.Product == nil {
		return nil, fmt.Errorf("%w: product is required", integration.ErrGatewayRequest)
	}

	body := productWriteRequest{RemoteProduct: input.Product, ChannelIDs: input.ChannelIDs}
	var created integration.RemoteProduct
	if err := c.do(ctx, http.MethodPost, c.productsPath(input.StoreID), nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ReadProduct reads one product by its remote ID
func (c *CatalogClient) ReadProduct(ctx context.Context, input integration.ReadProductInput) (*integration.RemoteProduct, error) {
	if input.ProductID == "" {
		return nil, integration.ErrMissingRemoteID
	}

	var product integration.RemoteProduct
	if err := c.do(ctx, http.MethodGet, c.productPath(input.StoreID, input.ProductID), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct patches the remote product identified by input.Product.ProductID.
// The response is returned as decoded; a missing ID is left for the caller to reject.
func (c *CatalogClient) UpdateProduct(ctx context.Context, input integration.UpdateProductInput) (*integration.RemoteProduct, error) {
	remoteID := input.Product.RemoteID()
	if remoteID == "" {
		return nil, integration.ErrMissingRemoteID
	}

	body := productWriteRequest{RemoteProduct: input.Product, ChannelIDs: input.ChannelIDs}
	var updated integration.RemoteProduct
	if err := c.do(ctx, http.MethodPatch, c.productPath(input.StoreID, remoteID), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListProducts lists products filtered by SKU and/or product IDs
func (c *CatalogClient) ListProducts(ctx context.Context, input integration.ListProductsInput) (*integration.ProductPage, error) {
	query := url.Values{}
	if input.SKU != "" {
		query.Set("sku", input.SKU)
	}
	if len(input.ProductIDs) > 0 {
		query.Set("ids", strings.Join(input.ProductIDs, ","))
	}
	if input.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(input.PageSize))
	}
	if input.PageToken != "" {
		query.Set("pageToken", input.PageToken)
	}

	var resp productListResponse
	if err := c.do(ctx, http.MethodGet, c.productsPath(input.StoreID), query, nil, &resp); err != nil {
		return nil, err
	}
	return &integration.ProductPage{
		Products:      resp.Products,
		NextPageToken: resp.NextPageToken,
	}, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *CatalogClient) productsPath(storeID string) string {
	return "/stores/" + url.PathEscape(storeID) + "/products"
}

func (c *CatalogClient) productPath(storeID, productID string) string {
	return c.productsPath(storeID) + "/" + url.PathEscape(productID)
}

// do performs one API call. A non-nil out is decoded from a 2xx JSON body.
func (c *CatalogClient) do(ctx context.Context, method, path string, query url.Values, in, out any) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "commerce.catalog "+method,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.method", method),
		telemetry.WithAttribute("http.route", path),
	)
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		}
		span.End()
	}()

	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("commerce: failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("commerce: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	log := logger.L(ctx, c.logger)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(ctx, method, 0, elapsed)
		log.Warn("Catalog API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &integration.GatewayError{
			Message: err.Error(),
			Err:     integration.ErrGatewayRequest,
		}
	}
	defer resp.Body.Close()

	c.record(ctx, method, resp.StatusCode, elapsed)
	telemetry.SetAttribute(span, telemetry.SpanAttrStatusCode, resp.StatusCode)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", integration.ErrGatewayInvalidResponse, err)
	}

	log.Debug("Catalog API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return newGatewayError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", integration.ErrGatewayInvalidResponse, err)
	}
	return nil
}

func (c *CatalogClient) record(ctx context.Context, method string, statusCode int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordRequest(ctx, method, statusCode, d)
	}
}

// newGatewayError builds a GatewayError from an error response body.
// Bodies that are not JSON are used verbatim as the message.
func newGatewayError(statusCode int, body []byte) *integration.GatewayError {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || (er.Code == "" && er.Message == "") {
		er.Message = strings.TrimSpace(string(body))
	}
	if er.Message == "" {
		er.Message = http.StatusText(statusCode)
	}
	return integration.NewGatewayError(statusCode, er.Code, er.Message)
}

// Ensure CatalogClient implements the interface
var _ integration.CatalogProvider = (*CatalogClient)(nil)
