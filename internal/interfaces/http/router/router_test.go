package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func pingRegistrar(path string) RouteRegistrar {
	return registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET(path, func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	})
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Same(t, engine, r.Engine())
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	NewRouter(engine, WithAPIVersion("v2")).
		Register(pingRegistrar("/catalog/ping")).
		RegisterRoot(pingRegistrar("/health")).
		Setup()

	tests := []struct {
		path string
		want int
	}{
		{"/api/v2/catalog/ping", http.StatusOK},
		{"/health", http.StatusOK},
		{"/catalog/ping", http.StatusNotFound},
		{"/api/v2/health", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		Mode:        gin.TestMode,
		MaxBodySize: 16,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	engine.POST("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	t.Run("sets request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hi")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("limits body size", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("recovers from panics", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestNewEngine_InvalidTrustedProxy(t *testing.T) {
	_, err := NewEngine(EngineConfig{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}
