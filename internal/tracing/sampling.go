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
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// SamplerConfig controls which call traces are recorded.
type SamplerConfig struct {
	// Enabled turns sampling on; disabled means every trace is recorded.
	Enabled bool

	// Rate is the sampled fraction, 0.0 to 1.0.
	Rate float64

	// AlwaysSampleErrors records error-marked spans regardless of Rate.
	AlwaysSampleErrors bool
}

// NewSampler builds the sampler for the given configuration. Sampling
// disabled, or a rate of 1.0 or above, records everything; a rate of
// zero records nothing (except errors, when AlwaysSampleErrors is set).
func NewSampler(cfg SamplerConfig) sdktrace.Sampler {
	if !cfg.Enabled || cfg.Rate >= 1.0 {
		return sdktrace.AlwaysSample()
	}

	var base sdktrace.Sampler
	if cfg.Rate <= 0.0 {
		base = sdktrace.NeverSample()
	} else {
		base = sdktrace.TraceIDRatioBased(cfg.Rate)
	}

	if cfg.AlwaysSampleErrors {
		return errorBiasedSampler{base: base}
	}
	return base
}

// errorBiasedSampler records any span that starts with an error attribute
// and defers everything else to the base sampler. Failure traces stay
// observable even under aggressive rates.
type errorBiasedSampler struct {
	base sdktrace.Sampler
}

func (s errorBiasedSampler) ShouldSample(params sdktrace.SamplingParameters) sdktrace.SamplingResult {
	for _, attr := range params.Attributes {
		if attr.Key == "error" && attr.Value.AsBool() {
			return sdktrace.SamplingResult{
				Decision:   sdktrace.RecordAndSample,
				Tracestate: trace.SpanContextFromContext(params.ParentContext).TraceState(),
			}
		}
	}
	return s.base.ShouldSample(params)
}

func (s errorBiasedSampler) Description() string {
	return "ErrorBiasedSampler{base=" + s.base.Description() + "}"
}
