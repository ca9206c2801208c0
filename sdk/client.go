package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tombee/courier/pkg/auth"
	"github.com/tombee/courier/pkg/definitions"
	"github.com/tombee/courier/pkg/descriptor"
	"github.com/tombee/courier/pkg/errors"
	"github.com/tombee/courier/pkg/httpclient"
)

// Invocation performs one operation call. Generated SDKs hold an
// Invocation per exposed method and wrap it with typed arguments.
type Invocation func(ctx context.Context, args Args) (*Result, error)

// CallObserver receives call lifecycle notifications: one start and one
// completion per invocation, regardless of how many attempts the retry
// policy spent. Status is "ok" for successes and the failure kind
// otherwise. The tracing metrics collector satisfies this interface.
type CallObserver interface {
	RecordCallStart(ctx context.Context, requestID string)
	RecordCallComplete(ctx context.Context, requestID, operation, status string, attempts int, duration time.Duration)
}

// Client turns a declared operation surface into invocable calls. It is
// immutable after New returns and safe for concurrent use; all per-call
// state lives in the invocation.
type Client struct {
	provider descriptor.Provider
	tag      string

	// Operation map materialized from the provider at construction.
	ops map[string]*descriptor.Operation
	ids []string

	baseURL       string
	httpClient    *http.Client
	sigv4         *httpclient.SigV4Config
	registry      *definitions.Registry
	authCtx       *auth.Context
	defaultHeader http.Header

	resolver     ContentTypeResolver
	argRewriter  ArgumentsRewriter
	hostRewriter HostRewriter
	urlRewriter  URLRewriter
	retryPolicy  RetryPolicy
	transforms   []Transform

	limiter  *rate.Limiter
	logger   *slog.Logger
	observer CallObserver
	tracer   trace.Tracer
}

// New creates a client from the given options and validates the declared
// operation surface once. Returns an error if any option fails to apply,
// no provider is configured, or any operation is malformed.
//
// Example:
//
//	c, err := sdk.New(
//		sdk.WithOperations(ops...),
//		sdk.WithBaseURL("https://api.example.com/v2"),
//		sdk.WithRetry(sdk.DefaultRetryConfig()),
//	)
//	if err != nil {
//		return err
//	}
//	result, err := c.Invoke(ctx, "pets.get", sdk.Args{Params: map[string]any{"id": 7}})
func New(opts ...Option) (*Client, error) {
	c := &Client{
		registry:      definitions.NewRegistry(),
		defaultHeader: http.Header{},
		logger:        slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if c.provider == nil {
		return nil, &errors.ValidationError{
			Field:      "operations",
			Message:    "no operation provider configured",
			Suggestion: "pass WithOperations, WithSet or WithProvider",
		}
	}

	ops := c.provider.OperationsForTag(c.tag)
	if len(ops) == 0 {
		return nil, &errors.ValidationError{
			Field:      "operations",
			Message:    fmt.Sprintf("provider yielded no operations for tag %q", c.tag),
			Suggestion: "declare at least one operation carrying the selected tag",
		}
	}

	c.ops = make(map[string]*descriptor.Operation, len(ops))
	c.ids = make([]string, 0, len(ops))
	for i := range ops {
		op := ops[i]
		if err := op.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.ops[op.ID]; exists {
			return nil, &errors.ValidationError{
				Field:      "operations",
				Message:    fmt.Sprintf("duplicate operation id: %s", op.ID),
				Suggestion: "ensure each operation has a unique id",
			}
		}
		c.ops[op.ID] = &op
		c.ids = append(c.ids, op.ID)
	}
	sort.Strings(c.ids)

	if c.httpClient == nil {
		hc, err := httpclient.New(httpclient.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("create default HTTP client: %w", err)
		}
		c.httpClient = hc
	}

	if c.sigv4 != nil {
		sigCfg := *c.sigv4
		sigCfg.Base = c.httpClient.Transport
		signer, err := httpclient.NewSigV4Transport(context.Background(), sigCfg)
		if err != nil {
			return nil, fmt.Errorf("configure sigv4 signing: %w", err)
		}
		signed := *c.httpClient
		signed.Transport = signer
		c.httpClient = &signed
	}

	// No-op tracer unless an OpenTelemetry SDK is installed globally.
	c.tracer = otel.Tracer("github.com/tombee/courier/sdk")

	return c, nil
}

// Operation returns the invocation for an operation id. Returns a
// NotFoundError if the client does not expose the id.
func (c *Client) Operation(id string) (Invocation, error) {
	op, ok := c.ops[id]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "operation", ID: id}
	}
	return c.invocation(op), nil
}

// Operations returns the invocations for every exposed operation carrying
// the given tag, keyed by operation id. The empty tag selects all of them.
func (c *Client) Operations(tag string) map[string]Invocation {
	out := make(map[string]Invocation)
	for _, id := range c.ids {
		op := c.ops[id]
		if tag != "" && !op.HasTag(tag) {
			continue
		}
		out[id] = c.invocation(op)
	}
	return out
}

// OperationIDs returns the exposed operation ids in sorted order.
func (c *Client) OperationIDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Describe returns the descriptor for an operation id, or nil if the
// client does not expose it. The returned value is shared and must not
// be mutated.
func (c *Client) Describe(id string) *descriptor.Operation {
	return c.ops[id]
}

// Invoke calls an operation by id. It is the one-shot equivalent of
// resolving the invocation through Operation and calling it.
func (c *Client) Invoke(ctx context.Context, id string, args Args) (*Result, error) {
	inv, err := c.Operation(id)
	if err != nil {
		return nil, err
	}
	return inv(ctx, args)
}

// invocation binds an operation to the call loop.
func (c *Client) invocation(op *descriptor.Operation) Invocation {
	return func(ctx context.Context, args Args) (*Result, error) {
		return c.call(ctx, op, args)
	}
}
