package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler(t *testing.T) {
	healthy := HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	broken := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name   string
		checks []HealthCheck
		path   string
		want   int
	}{
		{"health", nil, "/health", http.StatusOK},
		{"ready", []HealthCheck{healthy}, "/ready", http.StatusOK},
		{"not ready", []HealthCheck{healthy, broken}, "/ready", http.StatusServiceUnavailable},
		{"info", nil, "/system/info", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			NewSystemHandler("mwc-sync", "1.2.3", tt.checks...).RegisterRoutes(&engine.RouterGroup)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSystemHandler_ReadyReportsFailingCheck(t *testing.T) {
	engine := gin.New()
	NewSystemHandler("mwc-sync", "1.2.3", HealthCheck{
		Name:  "database",
		Check: func(context.Context) error { return errors.New("down") },
	}).RegisterRoutes(&engine.RouterGroup)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "not_ready", data["status"])
	assert.Equal(t, map[string]any{"database": "down"}, data["checks"])
}
