package sdk

import (
	"context"

	"github.com/tombee/courier/internal/jqx"
)

// Transform reshapes a decoded response body before schema mapping, so
// definition constructors see the transformed payload. Transforms run on
// both success and error responses; on the error path the transformed
// value feeds the APIError's Data field.
type Transform func(ctx context.Context, value any) (any, error)

// JQTransform compiles a jq expression into a Transform. The program
// runs sandboxed with a bounded input size and evaluation timeout. A
// single result comes back directly, multiple results as a slice, zero
// results as nil.
func JQTransform(expression string) (Transform, error) {
	prog, err := jqx.Compile(expression)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, value any) (any, error) {
		return prog.Run(ctx, value)
	}, nil
}
