package definitions

import "fmt"

// Structural deep-copies a decoded payload into plain JSON shapes:
// map[string]any, []any and scalar leaves. Maps with non-string keys have
// their keys stringified. The result never aliases the input, so callers
// can mutate it without affecting shared decoder state.
//
// Used by the response mapper when an operation declares an inline schema
// with no named definition reference.
func Structural(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Structural(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Structural(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Structural(item)
		}
		return out
	default:
		return v
	}
}
