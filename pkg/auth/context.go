// Package auth supplies security contexts for dispatched calls.
//
// A Context is a pair of optional replacers: one rewrites the outgoing
// header set, the other the outgoing query set. Both run after parameter
// binding and before the explicit per-call header merge, so bound values
// lose to the security context and explicit per-call overrides win over
// both.
package auth

import (
	"context"
	"net/http"
	"net/url"
)

// HeaderReplacer receives the headers assembled so far and returns the
// headers to send. Implementations must not mutate the input.
type HeaderReplacer func(ctx context.Context, header http.Header) (http.Header, error)

// QueryReplacer receives the query values assembled so far and returns
// the values to send. Implementations must not mutate the input.
type QueryReplacer func(ctx context.Context, query url.Values) (url.Values, error)

// Context applies credentials to an outgoing request. Either capability
// may be nil; a nil Context applies nothing.
type Context struct {
	HeaderReplacer HeaderReplacer
	QueryReplacer  QueryReplacer
}

// ApplyHeader runs the header replacer if one is set.
func (c *Context) ApplyHeader(ctx context.Context, header http.Header) (http.Header, error) {
	if c == nil || c.HeaderReplacer == nil {
		return header, nil
	}
	return c.HeaderReplacer(ctx, header)
}

// ApplyQuery runs the query replacer if one is set.
func (c *Context) ApplyQuery(ctx context.Context, query url.Values) (url.Values, error) {
	if c == nil || c.QueryReplacer == nil {
		return query, nil
	}
	return c.QueryReplacer(ctx, query)
}

// cloneHeader copies a header map so replacers never mutate bound state.
func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h.Clone()
}

// cloneValues copies a query map so replacers never mutate bound state.
func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
