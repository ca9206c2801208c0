package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/courier/internal/codec"
	"github.com/tombee/courier/internal/log"
	"github.com/tombee/courier/internal/negotiate"
	"github.com/tombee/courier/internal/pipeline"
	"github.com/tombee/courier/internal/tracing"
	"github.com/tombee/courier/pkg/descriptor"
	courierrors "github.com/tombee/courier/pkg/errors"
	"github.com/tombee/courier/pkg/httpclient"
)

// call executes one invocation: it assigns the request id, opens the call
// span, drives the retry loop and records the completed call.
func (c *Client) call(ctx context.Context, op *descriptor.Operation, args Args) (*Result, error) {
	requestID := tracing.NewCorrelationID()
	ctx = tracing.ToContext(ctx, requestID)
	logger := log.WithOperation(c.logger, op.ID, requestID.String())

	ctx, span := c.tracer.Start(ctx, "courier.call",
		trace.WithAttributes(
			attribute.String("courier.operation", op.ID),
			attribute.String("http.request.method", op.Method),
		))
	defer span.End()

	if c.observer != nil {
		c.observer.RecordCallStart(ctx, requestID.String())
	}

	start := time.Now()
	result, attempts, err := c.run(ctx, op, args, logger)
	duration := time.Since(start)

	span.SetAttributes(attribute.Int("courier.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if c.observer != nil {
		c.observer.RecordCallComplete(ctx, requestID.String(), op.ID, outcomeLabel(err), attempts, duration)
	}

	if err != nil {
		logger.Warn("operation call failed",
			slog.Int(log.AttemptKey, attempts),
			slog.Int64(log.DurationKey, duration.Milliseconds()),
			log.Error(err),
		)
		return nil, err
	}

	result.Meta.Operation = op.ID
	result.Meta.RequestID = requestID.String()
	result.Meta.Attempts = attempts
	result.Meta.Duration = duration

	logger.Debug("operation call completed",
		slog.Int(log.StatusKey, result.Status),
		slog.Int(log.AttemptKey, attempts),
		slog.Int64(log.DurationKey, duration.Milliseconds()),
	)
	return result, nil
}

// run is the retry loop. It re-runs the full attempt pipeline on each
// granted retry, carrying rewritten arguments forward, and counts
// attempts from zero the way the policy observes them: the policy sees
// the number of prior re-runs, the returned count includes the final
// attempt.
func (c *Client) run(ctx context.Context, op *descriptor.Operation, args Args, logger *slog.Logger) (*Result, int, error) {
	current := args.Clone()
	attempts := 0

	for {
		result, next, err := c.attempt(ctx, op, current, attempts, logger)
		current = next
		if err == nil {
			return result, attempts + 1, nil
		}

		if c.retryPolicy == nil {
			return nil, attempts + 1, err
		}

		rc := RewriteContext{OperationID: op.ID, Args: current.Clone()}
		delay, perr := c.retryPolicy(ctx, rc, attempts, err)
		if perr != nil {
			// A failing policy is terminal and supersedes the attempt
			// failure it was deciding on.
			return nil, attempts + 1, &RetryPolicyError{Err: perr, Original: err}
		}
		if delay < 0 {
			return nil, attempts + 1, err
		}

		pipeline.RecordRetry(op.ID, delay)
		logger.Debug("retrying operation",
			slog.Int(log.AttemptKey, attempts+1),
			slog.Duration("delay", delay),
			log.Error(err),
		)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, attempts + 1, ctx.Err()
			case <-timer.C:
			}
		}
		attempts++
	}
}

// attempt runs the pipeline once: rewrite, bind, negotiate, encode,
// assemble, dispatch, decode, transform, map. It returns the possibly
// rewritten arguments so the retry loop carries them into the next
// attempt.
func (c *Client) attempt(ctx context.Context, op *descriptor.Operation, args Args, attempt int, logger *slog.Logger) (*Result, Args, error) {
	rc := RewriteContext{OperationID: op.ID, Args: args.Clone()}

	// The arguments rewriter runs first so the rest of the attempt binds
	// the rewritten values. Replacements persist into later attempts.
	if c.argRewriter != nil {
		replacement, err := c.argRewriter(ctx, rc)
		if err != nil {
			return nil, args, &HookError{Stage: StageArguments, Err: err}
		}
		if replacement != nil {
			args = replacement.Clone()
			rc = RewriteContext{OperationID: op.ID, Args: args.Clone()}
		}
	}

	bound := pipeline.Bind(op, args.Params)

	// Body and content type only for methods that carry a payload. The
	// negotiated type is set exactly once per attempt; an explicit
	// per-call Content-Type header wins over negotiation entirely.
	var (
		body        []byte
		contentType string
	)
	if op.HasBody() && args.Body != nil {
		if c.resolver != nil {
			ct, err := c.resolver(ctx, rc, args.Body)
			if err != nil {
				return nil, args, &HookError{Stage: StageContentType, Err: err}
			}
			contentType = ct
		}
		if contentType == "" {
			contentType = negotiate.Classify(args.Body)
		}

		encoded, err := pipeline.EncodeBody(args.Body, contentType)
		if err != nil {
			return nil, args, &courierrors.ValidationError{
				Field:      "body",
				Message:    err.Error(),
				Suggestion: "supply a body the negotiated content type can encode",
			}
		}
		body = encoded
	}

	// Header precedence, low to high: client defaults, bound parameters,
	// security context, explicit per-call headers.
	header := pipeline.MergeHeaders(c.defaultHeader, bound.Header)

	authCtx := c.authCtx
	if args.Auth != nil {
		authCtx = args.Auth
	}

	header, err := authCtx.ApplyHeader(ctx, header)
	if err != nil {
		return nil, args, &HookError{Stage: StageAuthHeader, Err: err}
	}
	header = pipeline.MergeHeaders(header, args.Header)

	if contentType != "" && header.Get(negotiate.HeaderName) == "" {
		header.Set(negotiate.HeaderName, contentType)
	}

	for name, values := range header {
		if httpclient.IsProtectedHeader(name) {
			header.Del(name)
			continue
		}
		for _, v := range values {
			if serr := httpclient.SanitizeHeaderValue(name, v); serr != nil {
				return nil, args, &courierrors.ValidationError{
					Field:      "header",
					Message:    serr.Error(),
					Suggestion: "remove control characters from header values",
				}
			}
		}
	}

	// URL assembly: base + bound path, per-call scheme/host override,
	// host hook, URL hook. The query string is appended last so every
	// rewriter sees the URL without it.
	base := args.BaseURL
	if base == "" {
		base = c.baseURL
	}
	if base == "" {
		return nil, args, &courierrors.ValidationError{
			Field:      "base_url",
			Message:    fmt.Sprintf("no base URL configured for operation %s", op.ID),
			Suggestion: "set WithBaseURL on the client or Args.BaseURL on the call",
		}
	}

	rawurl := pipeline.JoinURL(base, bound.Path)

	rawurl, err = pipeline.WithSchemeHost(rawurl, args.Scheme, args.Host)
	if err != nil {
		return nil, args, &courierrors.ValidationError{
			Field:      "url",
			Message:    err.Error(),
			Suggestion: "check the base URL and scheme/host overrides",
		}
	}

	if c.hostRewriter != nil {
		scheme, host, herr := c.hostRewriter(ctx, rc)
		if herr != nil {
			return nil, args, &HookError{Stage: StageHostRewrite, Err: herr}
		}
		rawurl, err = pipeline.WithSchemeHost(rawurl, scheme, host)
		if err != nil {
			return nil, args, &courierrors.ValidationError{
				Field:      "url",
				Message:    err.Error(),
				Suggestion: "check the host rewriter's returned scheme and host",
			}
		}
	}

	if c.urlRewriter != nil {
		replacement, uerr := c.urlRewriter(ctx, rc, rawurl)
		if uerr != nil {
			return nil, args, &HookError{Stage: StageURLRewrite, Err: uerr}
		}
		if replacement != "" {
			rawurl = replacement
		}
	}

	query := pipeline.MergeValues(bound.Query, args.Query)
	query, err = authCtx.ApplyQuery(ctx, query)
	if err != nil {
		return nil, args, &HookError{Stage: StageAuthQuery, Err: err}
	}
	rawurl = pipeline.AppendQuery(rawurl, query)

	httpClient := c.httpClient
	if args.HTTPClient != nil {
		// Keep correlation headers across caller-supplied transports.
		httpClient = tracing.WrapHTTPClient(args.HTTPClient)
	}

	tracing.InjectHeaders(ctx, header)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, args, err
		}
	}

	dispatchCtx, span := c.tracer.Start(ctx, "courier.dispatch",
		trace.WithAttributes(
			attribute.String("courier.operation", op.ID),
			attribute.Int("courier.attempt", attempt+1),
			attribute.String("http.request.method", op.Method),
		))

	start := time.Now()
	wire, err := pipeline.Dispatch(dispatchCtx, httpClient, op.Method, rawurl, body, header)
	duration := time.Since(start)

	if err != nil {
		pipeline.RecordRequest(op.ID, op.Method, 0, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		logger.Debug("dispatch failed",
			slog.Int(log.AttemptKey, attempt+1),
			slog.Int64(log.DurationKey, duration.Milliseconds()),
			log.Error(err),
		)
		// A transport failure with no received response propagates
		// unchanged so callers can inspect the original error.
		return nil, args, err
	}

	pipeline.RecordRequest(op.ID, op.Method, wire.Status, duration)
	span.SetAttributes(attribute.Int("http.response.status_code", wire.Status))
	if wire.Status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(wire.Status))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	logger.Debug("request dispatched",
		slog.Int(log.AttemptKey, attempt+1),
		slog.Int(log.StatusKey, wire.Status),
		slog.Int64(log.DurationKey, duration.Milliseconds()),
		slog.String(log.HostKey, wire.Request.URL.Host),
	)

	decoded := codec.Decode(wire.Body, wire.Header)

	// Transform stages run on the decoded value before schema mapping,
	// for failure payloads as much as success ones.
	for _, t := range c.transforms {
		next, terr := t(ctx, decoded)
		if terr != nil {
			return nil, args, &HookError{Stage: StageTransform, Err: terr}
		}
		decoded = next
	}

	if wire.Status >= 400 {
		return nil, args, c.apiError(op, wire, decoded)
	}

	mapped, err := pipeline.MapValue(op, wire.Status, decoded, c.registry)
	if err != nil {
		return nil, args, err
	}

	return &Result{
		Status: wire.Status,
		Header: wire.Header,
		Body:   mapped,
		Raw:    wire.Body,
		Meta:   Meta{URL: rawurl},
	}, args, nil
}

// apiError normalizes a failing response. The error payload goes through
// the same schema resolution as a success; if its constructor fails, the
// decoded payload is kept so the APIError still surfaces.
func (c *Client) apiError(op *descriptor.Operation, wire *pipeline.Wire, decoded any) *APIError {
	data := decoded
	if mapped, err := pipeline.MapValue(op, wire.Status, decoded, c.registry); err == nil {
		data = mapped
	}

	message := strings.TrimSpace(fmt.Sprintf("%d %s", wire.Status, http.StatusText(wire.Status)))
	if resp, ok := op.Responses[wire.Status]; ok && resp.Description != "" {
		message = resp.Description
	}

	return &APIError{
		Kind:       ClassifyStatus(wire.Status),
		Message:    message,
		Code:       CodeRequestFailed,
		StatusCode: wire.Status,
		Data:       data,
		Header:     wire.Header,
		Request:    wire.Request,
		Response:   wire.Response,
	}
}

// outcomeLabel maps a call outcome to the status label reported to the
// observer.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}

	var policyErr *RetryPolicyError
	if errors.As(err, &policyErr) {
		return "retry_policy_error"
	}
	var hookErr *HookError
	if errors.As(err, &hookErr) {
		return "hook_error"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Kind)
	}
	var valErr *courierrors.ValidationError
	if errors.As(err, &valErr) {
		return "validation_error"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "network_error"
}
