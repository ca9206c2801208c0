package pipeline

import (
	"github.com/tombee/courier/pkg/definitions"
	"github.com/tombee/courier/pkg/descriptor"
)

// MapValue resolves the decoded payload for a status code against the
// operation's response descriptors.
//
// A descriptor referencing a registered definition builds the typed value
// through its constructor. A reference to a definition the registry does
// not know passes the decoded payload through rather than failing the
// call. An inline schema with no reference applies the generic structural
// conversion. No descriptor for the status means no mapping at all.
func MapValue(op *descriptor.Operation, status int, decoded any, reg *definitions.Registry) (any, error) {
	if op == nil {
		return decoded, nil
	}

	resp, ok := op.Responses[status]
	if !ok {
		return decoded, nil
	}

	if resp.Ref != "" {
		if reg == nil || !reg.Has(resp.Ref) {
			return decoded, nil
		}
		return reg.Build(resp.Ref, decoded)
	}

	if resp.Schema != nil {
		return definitions.Structural(decoded), nil
	}

	return decoded, nil
}
