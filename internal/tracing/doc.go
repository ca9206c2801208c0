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

/*
Package tracing provides distributed tracing and observability for courier.

This package implements OpenTelemetry-based tracing for operation calls and
dispatch attempts, Prometheus metrics collection, and correlation ID
propagation so a courier request can be followed through downstream services.

# Overview

The tracing package supports:

  - Distributed tracing via OpenTelemetry
  - Prometheus metrics export
  - Correlation ID propagation on outbound requests
  - W3C trace context injection into dispatched requests

# Quick Start

Create a provider:

	cfg := tracing.Config{
	    Enabled:        true,
	    ServiceName:    "courier",
	    ServiceVersion: "1.0.0",
	    Sampling: tracing.SamplingConfig{
	        Enabled: true,
	        Rate:    0.1, // 10% sampling
	    },
	}

	provider, err := tracing.NewProviderWithConfig(ctx, cfg)

Get a tracer and create spans:

	tracer := provider.Tracer("courier.sdk")

	ctx, span := tracer.Start(ctx, "call pets.get",
	    trace.WithAttributes(
	        attribute.String("operation", opID),
	    ),
	)
	defer span.End()

# Correlation IDs

Correlation IDs link a call to its dispatched requests:

	// Per call
	ctx = tracing.ToContext(ctx, tracing.NewCorrelationID())

	// The httpclient logging transport injects X-Correlation-ID from ctx.
	// Caller-supplied clients can be wrapped to do the same:
	client = tracing.WrapHTTPClient(client)

# Metrics Collection

Invocation-level metrics are recorded through the collector:

	collector := provider.Metrics()
	collector.RecordCallStart(ctx, requestID)
	collector.RecordCallComplete(ctx, requestID, "pets.get", "ok", attempts, duration)

Metrics exposed via provider.MetricsHandler():

  - courier_calls_total{operation,status}
  - courier_call_duration_seconds{operation,status}
  - courier_call_attempts{operation}
  - courier_active_calls

# Key Components

  - Provider: OpenTelemetry SDK wrapper
  - MetricsCollector: invocation metrics recording
  - CorrelationID: request correlation across services
  - Sampler: configurable trace sampling
  - span exporters: console, OTLP over HTTP, or disabled
*/
package tracing
