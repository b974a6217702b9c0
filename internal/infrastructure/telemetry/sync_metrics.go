package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics recorder is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// SyncMetrics records catalog sync outcomes and catalog API latency.
type SyncMetrics struct {
	logger          *zap.Logger
	syncTotal       *Counter
	requestDuration *Histogram
	requestTotal    *Counter
}

// NewSyncMetrics registers the catalog sync instruments on meter.
func NewSyncMetrics(meter metric.Meter, logger *zap.Logger) (*SyncMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SyncMetrics{logger: logger}

	var err error
	sm.syncTotal, err = NewCounter(
		meter,
		"mwc_catalog_sync_total",
		"Total number of product sync operations by outcome",
		"{operations}",
	)
	if err != nil {
		return nil, err
	}

	sm.requestTotal, err = NewCounter(
		meter,
		"mwc_catalog_api_requests_total",
		"Total number of catalog API requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	sm.requestDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "mwc_catalog_api_request_duration_seconds",
		Description: "Catalog API request duration",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordSync counts one sync operation with its outcome.
func (m *SyncMetrics) RecordSync(ctx context.Context, operation, outcome string) {
	m.syncTotal.Inc(ctx,
		AttrOperation.String(operation),
		AttrOutcome.String(outcome),
	)
}

// RecordRequest records one outbound catalog API call.
func (m *SyncMetrics) RecordRequest(ctx context.Context, method string, statusCode int, d time.Duration) {
	attrs := []attribute.KeyValue{
		AttrHTTPMethod.String(method),
		AttrStatusCode.Int(statusCode),
	}
	m.requestTotal.Inc(ctx, attrs...)
	m.requestDuration.RecordDuration(ctx, d, attrs...)
}
