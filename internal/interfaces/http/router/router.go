// Package router assembles the gin engine and mounts the API handlers.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mwc/backend/internal/infrastructure/logger"
	"github.com/mwc/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// EngineConfig configures the middleware chain of the gin engine
type EngineConfig struct {
	Mode           string // gin.DebugMode, gin.ReleaseMode or gin.TestMode
	TrustedProxies []string
	MaxBodySize    int64
	ChannelID      string // logged next to Tracing.StoreID
	Tracing        middleware.TracingConfig
	// Meter records HTTP server metrics; nil disables them
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewEngine creates a gin engine with recovery, request IDs, tracing,
// request logging, metrics and body limits installed in that order
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(logger.GinMiddleware(log, logger.WithCommerceFields(cfg.Tracing.StoreID, cfg.ChannelID)))
	engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	middleware.SetupValidator()
	return engine, nil
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	root       []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar mounted under /api/<version>
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// RegisterRoot adds a RouteRegistrar mounted at the root, outside the versioned API
func (r *Router) RegisterRoot(registrar RouteRegistrar) *Router {
	r.root = append(r.root, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	for _, registrar := range r.root {
		registrar.RegisterRoutes(&r.engine.RouterGroup)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
