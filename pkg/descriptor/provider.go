package descriptor

// Provider supplies the operations for a logical grouping tag. The SDK
// client consumes a Provider at construction time to build its per-operation
// invocation map.
//
// Implementations must return operations in a stable order and must not
// mutate them after handing them out.
type Provider interface {
	// OperationsForTag returns the operations carrying the given tag, in
	// declaration order. The empty tag selects every operation.
	OperationsForTag(tag string) []Operation
}

// Static is a Provider over a fixed slice of operations. It is the typical
// implementation for generated SDKs, which embed their descriptors at build
// time.
type Static struct {
	ops []Operation
}

// NewStatic returns a Static provider over the given operations. The slice
// is copied, so the caller may reuse or modify its own copy afterwards.
func NewStatic(ops []Operation) *Static {
	cp := make([]Operation, len(ops))
	copy(cp, ops)
	return &Static{ops: cp}
}

// FromSet returns a Static provider over a loaded descriptor set.
func FromSet(s *Set) *Static {
	return NewStatic(s.Operations)
}

// OperationsForTag implements Provider.
func (p *Static) OperationsForTag(tag string) []Operation {
	if tag == "" {
		out := make([]Operation, len(p.ops))
		copy(out, p.ops)
		return out
	}

	var out []Operation
	for _, op := range p.ops {
		if op.HasTag(tag) {
			out = append(out, op)
		}
	}
	return out
}
