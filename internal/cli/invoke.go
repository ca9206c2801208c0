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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/courier/internal/config"
	"github.com/tombee/courier/internal/log"
	"github.com/tombee/courier/internal/retryexpr"
	"github.com/tombee/courier/internal/tracing"
	"github.com/tombee/courier/pkg/auth"
	"github.com/tombee/courier/sdk"
)

// InvokeResponse is the JSON response for the invoke command
type InvokeResponse struct {
	jsonResponse
	Operation  string `json:"operation"`
	Status     int    `json:"status"`
	URL        string `json:"url"`
	RequestID  string `json:"request_id"`
	Attempts   int    `json:"attempts"`
	DurationMS int64  `json:"duration_ms"`
	Body       any    `json:"body"`
}

// invokeOptions carries the invoke command's flag values.
type invokeOptions struct {
	specs     []string
	params    []string
	body      string
	baseURL   string
	auth      string
	retry     string
	transform string
	headers   []string
	timeout   time.Duration
	raw       bool
}

// NewInvokeCommand creates the invoke command
func NewInvokeCommand() *cobra.Command {
	var opts invokeOptions

	cmd := &cobra.Command{
		Use:   "invoke <operation-id>",
		Short: "Invoke an operation from a descriptor set",
		Long: `Invoke calls one operation declared in the loaded descriptor sets.
Parameters are routed to their declared locations (path, query, header),
the body is content-negotiated, credentials are injected, and the decoded
response body is printed.

The --retry flag accepts "exponential" (the configured schedule), "none",
or a predicate expression over the variables attempts, status, kind,
operation, retryable, and retry_after.`,
		Example: `  courier invoke pets.get --spec 'specs/**/*.yaml' -p id=7
  courier invoke pets.create --spec petstore.yaml --body '{"name":"rex"}' --auth bearer:${API_TOKEN}
  courier invoke search.run -p q=term --retry 'attempts < 5 && status == 503' --transform '.items'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.specs, "spec", "s", nil, "Descriptor file or glob pattern (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Operation parameter key=value (repeatable)")
	cmd.Flags().StringVar(&opts.body, "body", "", "Request body: literal value, @file, or - for stdin")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Base URL override")
	cmd.Flags().StringVar(&opts.auth, "auth", "", "Credentials: bearer:TOKEN, basic:USER:PASS, header:Name=Value, query:name=value, keyring:SERVICE/ACCOUNT, sigv4:SERVICE/REGION, or profile:NAME")
	cmd.Flags().StringVar(&opts.retry, "retry", "", "Retry policy: exponential, none, or a predicate expression")
	cmd.Flags().StringVar(&opts.transform, "transform", "", "jq expression applied to the decoded response")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, `Extra request header "Name: Value" (repeatable)`)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Overall call deadline (0 means no deadline beyond the client timeout)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the raw response body without decoding")

	return cmd
}

func runInvoke(cmd *cobra.Command, operationID string, opts invokeOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := log.New(cfg.LoggerConfig(GetVerbose(), GetQuiet()))

	sets, err := loadSets(opts.specs, cfg)
	if err != nil {
		return err
	}

	set, _, err := findOperation(sets, operationID)
	if err != nil {
		return err
	}

	clientOpts := []sdk.Option{
		sdk.WithSet(set),
		sdk.WithHTTPClientConfig(cfg.HTTPClientConfig()),
		sdk.WithLogger(logger),
	}

	// Base URL precedence: the flag wins; otherwise the set's own base
	// URL; the configured default fills in when the set declares none.
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, sdk.WithBaseURL(opts.baseURL))
	} else if cfg.Client.BaseURL != "" && set.BaseURL == "" {
		clientOpts = append(clientOpts, sdk.WithBaseURL(cfg.Client.BaseURL))
	}

	if opts.auth != "" {
		// SigV4 signs the whole request at the transport, so it wires in
		// as a client option rather than a security context.
		if scheme, rest, ok := strings.Cut(opts.auth, ":"); ok && scheme == "sigv4" {
			service, region, ok := strings.Cut(rest, "/")
			if !ok || service == "" || region == "" {
				return NewAuthError("building credentials", fmt.Errorf("sigv4 auth requires SERVICE/REGION"))
			}
			clientOpts = append(clientOpts, sdk.WithSigV4(service, region))
		} else {
			sec, err := parseAuth(opts.auth, cfg)
			if err != nil {
				return NewAuthError("building credentials", err)
			}
			clientOpts = append(clientOpts, sdk.WithAuth(sec))
		}
	}

	policy, err := buildRetryPolicy(opts.retry, cfg)
	if err != nil {
		return NewArgumentError("compiling retry policy", err)
	}
	if policy != nil {
		clientOpts = append(clientOpts, sdk.WithRetryPolicy(policy))
	}

	if opts.transform != "" {
		clientOpts = append(clientOpts, sdk.WithJQ(opts.transform))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Telemetry is opt-in; when enabled the provider doubles as the call
	// observer so CLI invocations land in the same metrics as SDK use.
	if cfg.Telemetry.Enabled {
		provider, err := tracing.NewProviderWithConfig(ctx, cfg.TracingConfig())
		if err != nil {
			return NewInvocationError("initializing telemetry", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Warn("telemetry shutdown failed", "error", err)
			}
		}()
		clientOpts = append(clientOpts, sdk.WithObserver(provider.Metrics()))
	}

	client, err := sdk.New(clientOpts...)
	if err != nil {
		return NewArgumentError("building client", err)
	}

	args, err := buildArgs(opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	result, err := client.Invoke(ctx, operationID, args)
	if err != nil {
		return NewInvocationError(fmt.Sprintf("invoking %s", operationID), err)
	}

	return printResult(cmd.OutOrStdout(), operationID, result, opts.raw)
}

// buildArgs assembles the call arguments from flag values.
func buildArgs(opts invokeOptions, stdin io.Reader) (sdk.Args, error) {
	params, err := parseParams(opts.params)
	if err != nil {
		return sdk.Args{}, NewArgumentError("parsing parameters", err)
	}

	header, err := parseHeaders(opts.headers)
	if err != nil {
		return sdk.Args{}, NewArgumentError("parsing headers", err)
	}

	body, err := parseBody(opts.body, stdin)
	if err != nil {
		return sdk.Args{}, NewArgumentError("reading body", err)
	}

	return sdk.Args{
		Params: params,
		Header: header,
		Body:   body,
	}, nil
}

// parseParams turns repeated key=value flags into the call parameter bag.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed parameter %q, want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

// parseHeaders turns repeated -H flags into request headers. Each entry
// is curl-style "Name: Value".
func parseHeaders(pairs []string) (http.Header, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	header := http.Header{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("malformed header %q, want \"Name: Value\"", pair)
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return header, nil
}

// parseBody resolves the --body flag. "@path" reads a file, "-" reads
// stdin, anything else is the literal payload. Valid JSON passes through
// unencoded and is dispatched with a JSON content type; other payloads go
// out as plain text.
func parseBody(spec string, stdin io.Reader) (any, error) {
	if spec == "" {
		return nil, nil
	}

	var data []byte
	switch {
	case spec == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading body from stdin: %w", err)
		}
		data = b
	case strings.HasPrefix(spec, "@"):
		b, err := os.ReadFile(spec[1:])
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		data = b
	default:
		data = []byte(spec)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}
	return string(data), nil
}

// parseAuth builds a security context from an --auth specifier. A bare
// name refers to a configured auth profile.
func parseAuth(spec string, cfg *config.Config) (*auth.Context, error) {
	scheme, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return cfg.Profile(spec)
	}

	switch scheme {
	case "bearer":
		return auth.Bearer(rest)
	case "basic":
		user, pass, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("basic auth requires USER:PASS")
		}
		return auth.Basic(user, pass)
	case "header":
		name, value, ok := strings.Cut(rest, "=")
		if !ok {
			return nil, fmt.Errorf("header auth requires Name=Value")
		}
		return auth.APIKey(name, value)
	case "query":
		name, value, ok := strings.Cut(rest, "=")
		if !ok {
			return nil, fmt.Errorf("query auth requires name=value")
		}
		return auth.APIKeyQuery(name, value)
	case "keyring":
		service, account, ok := strings.Cut(rest, "/")
		if !ok {
			return nil, fmt.Errorf("keyring auth requires SERVICE/ACCOUNT")
		}
		return auth.BearerFromKeyring(service, account)
	case "profile":
		return cfg.Profile(rest)
	default:
		return nil, fmt.Errorf("unknown auth scheme %q (use bearer, basic, header, query, keyring, or profile)", scheme)
	}
}

// buildRetryPolicy maps the --retry flag onto a policy. Empty uses the
// configured schedule (or the configured predicate, when one is set);
// "none" disables retries; anything that is not a preset name is
// compiled as a predicate expression.
func buildRetryPolicy(spec string, cfg *config.Config) (sdk.RetryPolicy, error) {
	rc := cfg.RetryPolicy()

	switch spec {
	case "none":
		return nil, nil
	case "":
		if cfg.Retry.Policy != "" {
			return retryexpr.New().Policy(cfg.Retry.Policy, rc)
		}
		return sdk.ExponentialBackoff(rc), nil
	case "exponential":
		return sdk.ExponentialBackoff(rc), nil
	default:
		return retryexpr.New().Policy(spec, rc)
	}
}

// printResult writes the invocation outcome to the output writer.
func printResult(out io.Writer, operationID string, result *sdk.Result, raw bool) error {
	if GetJSON() {
		resp := InvokeResponse{
			jsonResponse: jsonResponse{
				Version: "1.0",
				Command: "invoke",
				Success: true,
			},
			Operation:  operationID,
			Status:     result.Status,
			URL:        result.Meta.URL,
			RequestID:  result.Meta.RequestID,
			Attempts:   result.Meta.Attempts,
			DurationMS: result.Meta.Duration.Milliseconds(),
			Body:       result.Body,
		}
		return emitJSON(out, resp)
	}

	if raw {
		_, err := out.Write(result.Raw)
		return err
	}

	// Text bodies print as-is; structured bodies pretty-print as JSON.
	switch body := result.Body.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(out, body)
		return err
	default:
		data, err := json.MarshalIndent(body, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding response body: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
}
