package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const mappingLookupSQL = `SELECT * FROM "product_maps" WHERE local_id = 42 AND entity_type = 'product' LIMIT 1`

func mappingLookup(rows int64) func() (string, int64) {
	return func() (string, int64) { return mappingLookupSQL, rows }
}

func syncContext() context.Context {
	ctx := WithScope(context.Background(), Scope{RequestID: "req-1", StoreID: "store-1", ChannelID: "web"})
	return WithLocalID(ctx, 42)
}

func TestGormLogger_TraceCarriesSyncScope(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	gl.Trace(syncContext(), time.Now(), mappingLookup(1), nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "SQL Query", entry.Message)
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "gorm", entry.LoggerName)

	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "store-1", fields["store_id"])
	assert.Equal(t, "web", fields["channel_id"])
	assert.Equal(t, int64(42), fields["local_id"])
	assert.Equal(t, "select", fields["statement"])
	assert.Equal(t, int64(1), fields["rows"])
	assert.Equal(t, mappingLookupSQL, fields["sql"])
}

func TestGormLogger_TraceFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(syncContext(), time.Now(), mappingLookup(0), errors.New("relation \"product_maps\" does not exist"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "SQL Error", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, int64(42), entry.ContextMap()["local_id"])
	assert.Contains(t, entry.ContextMap()["error"], "product_maps")
}

func TestGormLogger_MappingMissIsNotAFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	NewGormLogger(zap.New(core), gormlogger.Warn).
		Trace(syncContext(), time.Now(), mappingLookup(0), gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	NewGormLogger(zap.New(core), gormlogger.Warn, WithRecordNotFoundLogged()).
		Trace(syncContext(), time.Now(), mappingLookup(0), gorm.ErrRecordNotFound)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "SQL Error", logs.All()[0].Message)
}

func TestGormLogger_SlowStatement(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))

	gl.Trace(syncContext(), time.Now().Add(-50*time.Millisecond), mappingLookup(1), nil)
	gl.Trace(syncContext(), time.Now(), mappingLookup(1), nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "SLOW SQL >= 10ms", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, int64(42), entry.ContextMap()["local_id"])
}

func TestGormLogger_SlowThresholdDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(0))

	gl.Trace(syncContext(), time.Now().Add(-time.Hour), mappingLookup(1), nil)

	assert.Zero(t, logs.Len())
}

func TestGormLogger_SilentSkipsStatement(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent)

	called := false
	gl.Trace(syncContext(), time.Now(), func() (string, int64) {
		called = true
		return mappingLookupSQL, 0
	}, errors.New("boom"))

	assert.False(t, called)
	assert.Zero(t, logs.Len())
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	verbose := gl.LogMode(gormlogger.Info)
	verbose.Trace(syncContext(), time.Now(), mappingLookup(1), nil)
	gl.Trace(syncContext(), time.Now(), mappingLookup(1), nil)

	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_MessagesCarryScope(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(syncContext(), "opened %d connections", 4)
	gl.Warn(syncContext(), "pool exhausted after %s", "5s")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "pool exhausted after 5s", entry.Message)
	assert.Equal(t, int64(42), entry.ContextMap()["local_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"DEBUG":   gormlogger.Info,
		"unknown": gormlogger.Warn,
	}
	for level, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(level), level)
	}
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "insert", statementKind("  INSERT INTO product_maps (local_id) VALUES (1)"))
	assert.Equal(t, "delete", statementKind("DELETE\nFROM product_maps"))
	assert.Equal(t, "", statementKind(""))
}
