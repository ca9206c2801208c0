package sdk

import (
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/tombee/courier/pkg/auth"
	"github.com/tombee/courier/pkg/definitions"
	"github.com/tombee/courier/pkg/descriptor"
	"github.com/tombee/courier/pkg/httpclient"
)

// Option is a functional option for Client construction.
type Option func(*Client) error

// WithProvider sets the operation provider. The client materializes the
// provider's operations once at construction.
func WithProvider(p descriptor.Provider) Option {
	return func(c *Client) error {
		if p == nil {
			return fmt.Errorf("provider cannot be nil")
		}
		c.provider = p
		return nil
	}
}

// WithOperations declares the operation surface directly. This is the
// typical path for generated SDKs, which embed their descriptors at
// build time.
//
// Example:
//
//	c, err := sdk.New(sdk.WithOperations(
//		descriptor.Operation{ID: "pets.get", Method: "GET", Path: "/pets/{id}",
//			Parameters: []descriptor.Parameter{{Name: "id", In: descriptor.InPath}}},
//	))
func WithOperations(ops ...descriptor.Operation) Option {
	return func(c *Client) error {
		if len(ops) == 0 {
			return fmt.Errorf("at least one operation is required")
		}
		c.provider = descriptor.NewStatic(ops)
		return nil
	}
}

// WithSet builds the operation surface from a loaded descriptor set and
// adopts the set's base URL unless one was configured explicitly.
func WithSet(set *descriptor.Set) Option {
	return func(c *Client) error {
		if set == nil {
			return fmt.Errorf("descriptor set cannot be nil")
		}
		c.provider = descriptor.FromSet(set)
		if c.baseURL == "" {
			c.baseURL = set.BaseURL
		}
		return nil
	}
}

// WithTag restricts the client to operations carrying the given tag. The
// empty tag (the default) exposes every operation the provider yields.
func WithTag(tag string) Option {
	return func(c *Client) error {
		c.tag = tag
		return nil
	}
}

// WithBaseURL sets the default base URL prepended to operation paths.
// Per-call Args.BaseURL overrides it.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		if base == "" {
			return fmt.Errorf("base URL cannot be empty")
		}
		c.baseURL = base
		return nil
	}
}

// WithHTTPClient sets the transport used for dispatch. Callers supplying
// their own client keep full control of TLS, pooling and proxying;
// per-call Args.HTTPClient overrides it for a single call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithHTTPClientConfig builds the transport through the httpclient
// factory: pooled connections, TLS 1.2 minimum, request logging and
// correlation header injection.
func WithHTTPClientConfig(cfg httpclient.Config) Option {
	return func(c *Client) error {
		hc, err := httpclient.New(cfg)
		if err != nil {
			return fmt.Errorf("create HTTP client: %w", err)
		}
		c.httpClient = hc
		return nil
	}
}

// WithSigV4 signs every dispatched request with AWS Signature Version 4
// for the given service and region. Credentials come from the default AWS
// chain (environment, shared config, IMDS) and are verified with STS at
// construction, so New fails fast on misconfigured credentials.
func WithSigV4(service, region string) Option {
	return func(c *Client) error {
		if service == "" || region == "" {
			return fmt.Errorf("sigv4 signing requires a service and a region")
		}
		c.sigv4 = &httpclient.SigV4Config{Service: service, Region: region}
		return nil
	}
}

// WithDefinitions sets the definition registry consulted by the schema
// mapper. Constructors registered after New are picked up by later calls;
// the registry is concurrent-safe.
func WithDefinitions(reg *definitions.Registry) Option {
	return func(c *Client) error {
		if reg == nil {
			return fmt.Errorf("definition registry cannot be nil")
		}
		c.registry = reg
		return nil
	}
}

// WithDefinition registers a single constructor in the client's
// definition registry.
//
// Example:
//
//	sdk.WithDefinition("Pet", func(data any) (any, error) {
//		return newPetFrom(data)
//	})
func WithDefinition(name string, ctor definitions.Constructor) Option {
	return func(c *Client) error {
		return c.registry.Register(name, ctor)
	}
}

// WithAuth sets the client's security context. It runs on every attempt
// after parameter binding; explicit per-call headers still win over its
// output. Per-call Args.Auth overrides it for a single call.
func WithAuth(ac *auth.Context) Option {
	return func(c *Client) error {
		if ac == nil {
			return fmt.Errorf("auth context cannot be nil")
		}
		c.authCtx = ac
		return nil
	}
}

// WithDefaultHeader adds a header sent on every dispatched request.
// Default headers have the lowest precedence: bound parameters, the
// security context and explicit per-call headers all win over them.
func WithDefaultHeader(key, value string) Option {
	return func(c *Client) error {
		if key == "" {
			return fmt.Errorf("header name cannot be empty")
		}
		if err := httpclient.SanitizeHeaderValue(key, value); err != nil {
			return err
		}
		c.defaultHeader.Add(key, value)
		return nil
	}
}

// WithContentTypeResolver sets the hook that picks the request content
// type per attempt. A non-empty return wins over the default payload
// classification.
func WithContentTypeResolver(r ContentTypeResolver) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("content type resolver cannot be nil")
		}
		c.resolver = r
		return nil
	}
}

// WithArgumentsRewriter sets the hook that replaces call arguments at the
// start of every attempt.
func WithArgumentsRewriter(r ArgumentsRewriter) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("arguments rewriter cannot be nil")
		}
		c.argRewriter = r
		return nil
	}
}

// WithHostRewriter sets the hook that overrides the target scheme and
// host after per-call overrides are applied.
func WithHostRewriter(r HostRewriter) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("host rewriter cannot be nil")
		}
		c.hostRewriter = r
		return nil
	}
}

// WithURLRewriter sets the hook that replaces the fully assembled URL
// before the query string is appended.
func WithURLRewriter(r URLRewriter) Option {
	return func(c *Client) error {
		if r == nil {
			return fmt.Errorf("URL rewriter cannot be nil")
		}
		c.urlRewriter = r
		return nil
	}
}

// WithRetryPolicy sets the retry policy consulted after each failed
// attempt. Without one, every failure is terminal.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) error {
		if p == nil {
			return fmt.Errorf("retry policy cannot be nil")
		}
		c.retryPolicy = p
		return nil
	}
}

// WithRetry installs the built-in exponential backoff policy for the
// given configuration.
//
// Example:
//
//	sdk.WithRetry(sdk.DefaultRetryConfig())
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		c.retryPolicy = ExponentialBackoff(cfg)
		return nil
	}
}

// WithTransform appends a response transform stage. Stages run in
// registration order on the decoded value, before schema mapping, on
// both success and failure payloads.
func WithTransform(t Transform) Option {
	return func(c *Client) error {
		if t == nil {
			return fmt.Errorf("transform cannot be nil")
		}
		c.transforms = append(c.transforms, t)
		return nil
	}
}

// WithJQ appends a jq transform stage compiled from the given expression.
//
// Example:
//
//	sdk.WithJQ(".items | length")
func WithJQ(expression string) Option {
	return func(c *Client) error {
		t, err := JQTransform(expression)
		if err != nil {
			return fmt.Errorf("compile jq transform: %w", err)
		}
		c.transforms = append(c.transforms, t)
		return nil
	}
}

// WithRateLimit gates dispatch attempts through a token bucket of rps
// requests per second with the given burst. The gate spans every
// operation of the client, retries included.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			return fmt.Errorf("rate limit must be positive, got %f", rps)
		}
		if burst < 1 {
			return fmt.Errorf("rate limit burst must be at least 1, got %d", burst)
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithLogger sets a custom structured logger.
// If not set, logs go to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithObserver registers a call lifecycle observer, typically the
// tracing metrics collector.
func WithObserver(o CallObserver) Option {
	return func(c *Client) error {
		if o == nil {
			return fmt.Errorf("observer cannot be nil")
		}
		c.observer = o
		return nil
	}
}
