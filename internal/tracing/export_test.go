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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpanExporter_Console(t *testing.T) {
	exporter, err := newSpanExporter(context.Background(), ExporterConfig{Type: "console"})
	require.NoError(t, err)
	assert.NotNil(t, exporter)
}

func TestNewSpanExporter_None(t *testing.T) {
	for _, typ := range []string{"none", ""} {
		exporter, err := newSpanExporter(context.Background(), ExporterConfig{Type: typ})
		require.NoError(t, err)
		assert.Nil(t, exporter)
	}
}

func TestNewSpanExporter_Unknown(t *testing.T) {
	_, err := newSpanExporter(context.Background(), ExporterConfig{Type: "jaeger-thrift"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter type")
}

func TestExporterTLS_Defaults(t *testing.T) {
	cfg, err := exporterTLS(TLSConfig{Enabled: true, VerifyCertificate: true})
	require.NoError(t, err)

	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.NotNil(t, cfg.RootCAs) // system pool
}

func TestExporterTLS_SkipVerify(t *testing.T) {
	cfg, err := exporterTLS(TLSConfig{Enabled: true, VerifyCertificate: false})
	require.NoError(t, err)

	assert.True(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.RootCAs)
}

func TestExporterTLS_MissingCAFile(t *testing.T) {
	_, err := exporterTLS(TLSConfig{
		Enabled:           true,
		VerifyCertificate: true,
		CACertPath:        "/nonexistent/ca.pem",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading CA certificate")
}

func TestExporterTLS_BadCAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	_, err := exporterTLS(TLSConfig{
		Enabled:           true,
		VerifyCertificate: true,
		CACertPath:        path,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable PEM data")
}

func TestSpanProcessors_SkipsBrokenExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exporters = []ExporterConfig{
		{Type: "does-not-exist"},
		{Type: "console"},
	}

	processors := spanProcessors(context.Background(), cfg)
	assert.Len(t, processors, 1)
}
