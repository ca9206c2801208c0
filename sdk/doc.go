// Package sdk turns a declared API surface into invocable HTTP calls.
//
// A Client is built once from a set of operation descriptors and is safe
// for concurrent use. Each invocation runs the full call pipeline:
// content negotiation, parameter binding, URL assembly and rewriting,
// security injection, dispatch, response decoding, transform stages and
// schema mapping, all under an optional retry policy.
//
// # Quick Start
//
// Declare operations, build a client and invoke:
//
//	bearer, err := auth.Bearer(os.Getenv("API_TOKEN"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	c, err := sdk.New(
//		sdk.WithOperations(
//			descriptor.Operation{
//				ID:     "pets.get",
//				Method: "GET",
//				Path:   "/pets/{id}",
//				Parameters: []descriptor.Parameter{
//					{Name: "id", In: descriptor.InPath},
//				},
//			},
//		),
//		sdk.WithBaseURL("https://api.example.com/v2"),
//		sdk.WithAuth(bearer),
//		sdk.WithRetry(sdk.DefaultRetryConfig()),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := c.Invoke(ctx, "pets.get", sdk.Args{
//		Params: map[string]any{"id": 7},
//	})
//
// Generated SDKs typically resolve invocations once and wrap them with
// typed arguments:
//
//	getPet, err := c.Operation("pets.get")
//
// # Failures
//
// A failing response surfaces as *APIError carrying the classified kind,
// the mapped error payload and the raw exchange. Transport failures that
// never received a response propagate unchanged. Failing hooks surface
// as *HookError, and a failing retry policy as *RetryPolicyError.
package sdk
