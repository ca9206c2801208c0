package sdk

import "context"

// RewriteContext is the immutable snapshot handed to hooks: the operation
// being called and the current call arguments. Hooks never mutate it in
// place; they return replacement values instead. The Args field is a
// clone, so even a misbehaving hook cannot reach shared call state.
type RewriteContext struct {
	// OperationID identifies the operation being invoked.
	OperationID string

	// Args is a snapshot of the arguments for the current attempt.
	Args Args
}

// ArgumentsRewriter replaces the call arguments before an attempt is
// bound. Returning nil keeps the current arguments. The rewriter runs at
// the start of every attempt, so a retry observes arguments rewritten on
// the previous one.
type ArgumentsRewriter func(ctx context.Context, rc RewriteContext) (*Args, error)

// ContentTypeResolver picks the request content type for an attempt.
// A non-empty return wins over the default payload classification;
// returning "" falls through to it.
type ContentTypeResolver func(ctx context.Context, rc RewriteContext, payload any) (string, error)

// HostRewriter overrides the target scheme and host after per-call
// overrides are applied. Empty return values keep the current parts.
type HostRewriter func(ctx context.Context, rc RewriteContext) (scheme, host string, err error)

// URLRewriter replaces the fully assembled URL (before the query string
// is appended). Returning "" keeps the assembled URL.
type URLRewriter func(ctx context.Context, rc RewriteContext, assembled string) (string, error)
