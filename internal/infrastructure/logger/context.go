package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	loggerKey struct{}
	scopeKey  struct{}
)

// Scope holds the correlation IDs that follow a sync call from the HTTP edge
// down to the SQL statements and catalog API requests it issues.
// Zero values are omitted from log entries.
type Scope struct {
	RequestID string
	StoreID   string
	ChannelID string
	LocalID   int64
}

// Merge returns s with every non-zero field of other applied on top
func (s Scope) Merge(other Scope) Scope {
	if other.RequestID != "" {
		s.RequestID = other.RequestID
	}
	if other.StoreID != "" {
		s.StoreID = other.StoreID
	}
	if other.ChannelID != "" {
		s.ChannelID = other.ChannelID
	}
	if other.LocalID != 0 {
		s.LocalID = other.LocalID
	}
	return s
}

// Fields renders the scope as zap fields
func (s Scope) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if s.RequestID != "" {
		fields = append(fields, zap.String("request_id", s.RequestID))
	}
	if s.StoreID != "" {
		fields = append(fields, zap.String("store_id", s.StoreID))
	}
	if s.ChannelID != "" {
		fields = append(fields, zap.String("channel_id", s.ChannelID))
	}
	if s.LocalID != 0 {
		fields = append(fields, zap.Int64("local_id", s.LocalID))
	}
	return fields
}

// WithScope merges s into the scope already carried by ctx
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, ScopeFrom(ctx).Merge(s))
}

// WithLocalID tags ctx with the local product being synced
func WithLocalID(ctx context.Context, localID int64) context.Context {
	return WithScope(ctx, Scope{LocalID: localID})
}

// ScopeFrom returns the scope carried by ctx
func ScopeFrom(ctx context.Context) Scope {
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

// WithContext stores logger in ctx. The logger should not carry scope
// fields itself; they are attached when entries are written.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContextOr returns the logger stored in ctx, or fallback
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// ContextLogger writes entries tagged with the trace and scope of ctx
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger around the logger stored in ctx, or fallback
func L(ctx context.Context, fallback *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContextOr(ctx, fallback)}
}

// WithLogger returns a ContextLogger around logger, ignoring the one in ctx
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextLogger{ctx: ctx, logger: logger}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.logger.Debug(msg, append(contextFields(cl.ctx), fields...)...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.logger.Info(msg, append(contextFields(cl.ctx), fields...)...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.logger.Warn(msg, append(contextFields(cl.ctx), fields...)...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.logger.Error(msg, append(contextFields(cl.ctx), fields...)...)
}

func (cl *ContextLogger) log(lvl zapcore.Level, msg string, fields ...zap.Field) {
	if ce := cl.logger.Check(lvl, msg); ce != nil {
		ce.Write(append(contextFields(cl.ctx), fields...)...)
	}
}

// contextFields collects trace_id, span_id and the scope fields of ctx
func contextFields(ctx context.Context) []zap.Field {
	fields := ScopeFrom(ctx).Fields()
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}
