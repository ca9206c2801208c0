// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsCollector records invocation-level metrics. Wire-level counters
// (one increment per dispatch attempt) live in internal/pipeline; this
// collector sees one completed call regardless of how many attempts the
// retry policy spent on it.
type MetricsCollector struct {
	meter metric.Meter

	// Counters
	callsTotal metric.Int64Counter

	// Histograms
	callDuration metric.Float64Histogram
	callAttempts metric.Int64Histogram

	// Gauge state
	activeCalls   map[string]bool // keyed by request ID
	activeCallsMu sync.RWMutex
}

// NewMetricsCollector creates a new metrics collector using the given meter provider
func NewMetricsCollector(meterProvider metric.MeterProvider) (*MetricsCollector, error) {
	meter := meterProvider.Meter("courier")

	mc := &MetricsCollector{
		meter:       meter,
		activeCalls: make(map[string]bool),
	}

	var err error

	mc.callsTotal, err = meter.Int64Counter(
		"courier_calls_total",
		metric.WithDescription("Total number of completed operation calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	mc.callDuration, err = meter.Float64Histogram(
		"courier_call_duration_seconds",
		metric.WithDescription("Operation call duration in seconds, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	mc.callAttempts, err = meter.Int64Histogram(
		"courier_call_attempts",
		metric.WithDescription("Dispatch attempts spent per completed call"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.Int64ObservableGauge(
		"courier_active_calls",
		metric.WithDescription("Number of calls currently in flight"),
		metric.WithUnit("{call}"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			mc.activeCallsMu.RLock()
			count := len(mc.activeCalls)
			mc.activeCallsMu.RUnlock()
			observer.Observe(int64(count))
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return mc, nil
}

// RecordCallStart records the start of an operation call.
func (mc *MetricsCollector) RecordCallStart(ctx context.Context, requestID string) {
	mc.activeCallsMu.Lock()
	mc.activeCalls[requestID] = true
	mc.activeCallsMu.Unlock()
}

// RecordCallComplete records the completion of an operation call.
// Status is "ok" for successes and the failure kind otherwise.
func (mc *MetricsCollector) RecordCallComplete(ctx context.Context, requestID, operation, status string, attempts int, duration time.Duration) {
	mc.activeCallsMu.Lock()
	delete(mc.activeCalls, requestID)
	mc.activeCallsMu.Unlock()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("status", status),
	}

	mc.callsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	mc.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	mc.callAttempts.Record(ctx, int64(attempts), metric.WithAttributes(attribute.String("operation", operation)))
}

// ActiveCalls reports how many calls are currently in flight.
func (mc *MetricsCollector) ActiveCalls() int {
	mc.activeCallsMu.RLock()
	defer mc.activeCallsMu.RUnlock()
	return len(mc.activeCalls)
}
