package pipeline

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tombee/courier/pkg/descriptor"
)

// Bound holds the binder's routed output for one attempt: the path with
// placeholders substituted, plus the headers and query values contributed
// by declared parameters.
type Bound struct {
	Path   string
	Header http.Header
	Query  url.Values
}

// Bind routes the call's parameter bag through the operation's declared
// parameters. Each declared parameter present in the bag lands in exactly
// one destination per its location; bag entries with no matching
// declaration are dropped and never reach the wire.
//
// Path substitution replaces only the first occurrence of a placeholder.
// A template repeating the same placeholder keeps the second occurrence
// unresolved.
func Bind(op *descriptor.Operation, params map[string]any) Bound {
	b := Bound{
		Path:   op.Path,
		Header: http.Header{},
		Query:  url.Values{},
	}

	for _, p := range op.Parameters {
		value, ok := params[p.Name]
		if !ok {
			continue
		}

		switch p.In {
		case descriptor.InHeader:
			for _, s := range stringifyAll(value) {
				b.Header.Add(p.Name, s)
			}
		case descriptor.InQuery:
			for _, s := range stringifyAll(value) {
				b.Query.Add(p.Name, s)
			}
		case descriptor.InPath:
			placeholder := "{" + p.Name + "}"
			b.Path = strings.Replace(b.Path, placeholder, url.PathEscape(stringify(value)), 1)
		}
	}

	return b
}

// stringify renders a single parameter value for the wire.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

// stringifyAll renders a parameter value for a destination that accepts
// repeated entries. Slices expand to one entry per element; scalars yield
// a single entry.
func stringifyAll(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = stringify(item)
		}
		return out
	default:
		return []string{stringify(v)}
	}
}
