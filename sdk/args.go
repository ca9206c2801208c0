package sdk

import (
	"net/http"
	"net/url"

	"github.com/tombee/courier/pkg/auth"
)

// Args carries the per-invocation inputs for one operation call. An Args
// value belongs to exactly one invocation; the call loop clones it before
// any mutation, so concurrent calls never share argument state.
type Args struct {
	// Body is the request payload for operations whose method carries a
	// body. Raw payloads ([]byte, string, io.Reader, json.RawMessage)
	// pass through unencoded; anything else is serialized per the
	// negotiated content type.
	Body any

	// Params is the flat parameter bag. Entries matching a declared
	// operation parameter are routed to their declared location; the
	// rest are dropped and never reach the wire.
	Params map[string]any

	// BaseURL overrides the client's base URL for this call.
	BaseURL string

	// Scheme and Host override the assembled URL's scheme and host.
	Scheme string
	Host   string

	// Header holds explicit per-call headers. They are merged last and
	// win over bound parameters and security-context output on key
	// collision.
	Header http.Header

	// Query holds extra raw query pairs appended alongside bound query
	// parameters.
	Query url.Values

	// HTTPClient overrides the client's transport for this call.
	HTTPClient *http.Client

	// Auth overrides the client's security context for this call.
	Auth *auth.Context
}

// Clone returns a deep copy of the argument maps. The body payload and
// the transport/security overrides are shared by reference; the call
// pipeline treats them as read-only.
func (a Args) Clone() Args {
	out := a

	if a.Params != nil {
		out.Params = make(map[string]any, len(a.Params))
		for k, v := range a.Params {
			out.Params[k] = v
		}
	}
	if a.Header != nil {
		out.Header = a.Header.Clone()
	}
	if a.Query != nil {
		out.Query = url.Values{}
		for k, vs := range a.Query {
			out.Query[k] = append([]string(nil), vs...)
		}
	}

	return out
}
