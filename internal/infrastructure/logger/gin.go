package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ginLoggerKey = "logger"
	// ginRequestIDKey is where the request ID middleware leaves the ID
	ginRequestIDKey = "request_id"
)

// GinOption configures GinMiddleware
type GinOption func(*Scope)

// WithCommerceFields tags every request with the commerce store and channel
// the service syncs to.
func WithCommerceFields(storeID, channelID string) GinOption {
	return func(s *Scope) {
		s.StoreID = storeID
		s.ChannelID = channelID
	}
}

// GinMiddleware opens a log scope for each request and writes one access
// entry when the handler chain returns. It expects the request ID middleware
// to run first.
func GinMiddleware(logger *zap.Logger, opts ...GinOption) gin.HandlerFunc {
	var base Scope
	for _, opt := range opts {
		opt(&base)
	}

	return func(c *gin.Context) {
		start := time.Now()

		scope := base
		scope.RequestID = c.GetString(ginRequestIDKey)
		ctx := WithContext(WithScope(c.Request.Context(), scope), logger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, logger.With(scope.Fields()...))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		// Handlers may have narrowed the scope, e.g. with the local product ID.
		L(c.Request.Context(), logger).log(accessLevel(status), "HTTP Request", fields...)
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a panic into a 500 and logs it with the stack
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				L(c.Request.Context(), logger).Error("Panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// GetGinLogger returns the request-scoped logger, or a no-op logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
