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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newSpanExporter builds one span exporter from its configuration. The
// "none" type (and an empty one) yields a nil exporter without error.
func newSpanExporter(ctx context.Context, cfg ExporterConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Type {
	case "console":
		return stdouttrace.New(
			stdouttrace.WithWriter(os.Stdout),
			stdouttrace.WithPrettyPrint(),
		)
	case "otlp-http", "otlp_http":
		return newOTLPExporter(ctx, cfg)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown exporter type: %s", cfg.Type)
	}
}

func newOTLPExporter(ctx context.Context, cfg ExporterConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}

	if !cfg.TLS.Enabled {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		tlsCfg, err := exporterTLS(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter TLS: %w", err)
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	}

	return otlptracehttp.New(ctx, opts...)
}

// exporterTLS maps the exporter TLS section onto a tls.Config. TLS 1.2 is
// the floor; verification uses the configured CA file when one is given,
// otherwise the system pool.
func exporterTLS(cfg TLSConfig) (*tls.Config, error) {
	out := &tls.Config{MinVersion: tls.VersionTLS12}

	if !cfg.VerifyCertificate {
		out.InsecureSkipVerify = true
		return out, nil
	}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("reading CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA certificate %s contains no usable PEM data", cfg.CACertPath)
		}
		out.RootCAs = pool
		return out, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("loading system cert pool: %w", err)
	}
	out.RootCAs = pool
	return out, nil
}

// spanProcessors builds one batch processor per configured exporter. An
// exporter that fails to build is skipped with a warning; partial export
// beats no export.
func spanProcessors(ctx context.Context, cfg Config) []sdktrace.SpanProcessor {
	var processors []sdktrace.SpanProcessor

	for _, ec := range cfg.Exporters {
		exporter, err := newSpanExporter(ctx, ec)
		if err != nil {
			slog.Warn("skipping trace exporter",
				"type", ec.Type,
				"endpoint", ec.Endpoint,
				"error", err)
			continue
		}
		if exporter == nil {
			continue
		}

		var opts []sdktrace.BatchSpanProcessorOption
		if cfg.BatchSize > 0 {
			opts = append(opts, sdktrace.WithMaxExportBatchSize(cfg.BatchSize))
		}
		if cfg.BatchInterval > 0 {
			opts = append(opts, sdktrace.WithBatchTimeout(cfg.BatchInterval))
		}
		processors = append(processors, sdktrace.NewBatchSpanProcessor(exporter, opts...))
	}

	return processors
}
