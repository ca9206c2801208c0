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
	"time"
)

// Config holds observability configuration.
type Config struct {
	// Enabled controls whether tracing is active.
	Enabled bool

	// ServiceName identifies this client in exported traces.
	ServiceName string

	// ServiceVersion is the client version.
	ServiceVersion string

	// Sampling configures trace sampling.
	Sampling SamplingConfig

	// Exporters configures trace export destinations.
	Exporters []ExporterConfig

	// BatchSize is the maximum number of spans per export batch (default: 512).
	BatchSize int

	// BatchInterval is how often to flush spans (default: 5s).
	BatchInterval time.Duration
}

// SamplingConfig controls which traces are recorded.
type SamplingConfig struct {
	// Enabled activates sampling. When false every trace is recorded.
	Enabled bool

	// Rate is the fraction of traces to record, 0.0 through 1.0.
	Rate float64

	// AlwaysSampleErrors records every trace that carries an error.
	AlwaysSampleErrors bool
}

// ExporterConfig defines a trace export destination.
type ExporterConfig struct {
	// Type is the exporter type: "otlp-http", "console", or "none".
	Type string

	// Endpoint is the OTLP receiver host (for type=otlp-http).
	Endpoint string

	// Headers are extra HTTP headers sent on export, typically for auth.
	Headers map[string]string

	// TLS configures the connection to the receiver.
	TLS TLSConfig
}

// TLSConfig configures TLS for exporters.
type TLSConfig struct {
	// Enabled activates TLS.
	Enabled bool

	// VerifyCertificate controls certificate validation.
	VerifyCertificate bool

	// CACertPath points at a PEM CA bundle. Empty means the system pool.
	CACertPath string
}

// DefaultConfig returns configuration with sensible defaults.
// Tracing is opt-in and exports nowhere until an exporter is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "courier",
		ServiceVersion: "unknown",
		Sampling: SamplingConfig{
			Enabled:            false,
			Rate:               1.0,
			AlwaysSampleErrors: true,
		},
		Exporters:     nil,
		BatchSize:     512,
		BatchInterval: 5 * time.Second,
	}
}
