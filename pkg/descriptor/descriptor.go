// Package descriptor defines the static operation metadata consumed by the
// request pipeline.
//
// Descriptors are built once per client, either directly in code (the typical
// generated-SDK path) or by loading a YAML document, and are immutable after
// construction. The pipeline shares them by reference across concurrent calls
// and never mutates them.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/tombee/courier/pkg/errors"
)

// Location identifies where a declared parameter is placed in the outgoing
// request.
type Location string

const (
	// InPath substitutes the parameter into the path template.
	InPath Location = "path"

	// InQuery appends the parameter to the query string.
	InQuery Location = "query"

	// InHeader sets the parameter as a request header.
	InHeader Location = "header"
)

// Parameter declares a single named argument of an operation and its
// transport location. Arguments supplied at call time that do not match a
// declared parameter are dropped by the binder.
type Parameter struct {
	// Name is the argument name as supplied in the call's parameter bag.
	// For path parameters it is also the placeholder token, so a template
	// containing {id} declares a parameter named "id".
	Name string `yaml:"name" json:"name"`

	// In is the transport location (path, query, header).
	In Location `yaml:"in" json:"in"`
}

// Response describes the expected payload for one status code.
type Response struct {
	// Description is the documented meaning of this status. It becomes the
	// failure message when the status indicates an error.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Ref names a registered definition. When set, the mapper builds the
	// typed value through the definition registry.
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty"`

	// Schema is an inline structural schema used when Ref is empty. The
	// mapper applies a generic structural conversion against it.
	Schema map[string]interface{} `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// HasSchema reports whether this response declares any payload shape,
// either by reference or inline.
func (r Response) HasSchema() bool {
	return r.Ref != "" || r.Schema != nil
}

// Operation describes one method+path endpoint of the API surface.
type Operation struct {
	// ID uniquely identifies the operation within its set (e.g. "pets.get").
	ID string `yaml:"id" json:"id"`

	// Method is the HTTP method, upper-cased during validation.
	Method string `yaml:"method" json:"method"`

	// Path is the path template, with {name} placeholders for path
	// parameters (e.g. "/pets/{id}").
	Path string `yaml:"path" json:"path"`

	// Description provides human-readable context for tooling output.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Tags group operations for proxy construction. An operation with no
	// tags belongs to the default group.
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Parameters are the declared arguments, in declaration order.
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Responses maps status codes to their expected payload descriptors.
	Responses map[int]Response `yaml:"responses,omitempty" json:"responses,omitempty"`
}

// validMethods lists the HTTP methods an operation may declare.
var validMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// bodylessMethods lists methods dispatched without a request body.
var bodylessMethods = map[string]bool{
	"GET":     true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// HasBody reports whether the operation's method conventionally carries a
// request body. GET, DELETE, HEAD and OPTIONS do not; everything else does.
func (o *Operation) HasBody() bool {
	return !bodylessMethods[strings.ToUpper(o.Method)]
}

// HasTag reports whether the operation carries the given tag.
func (o *Operation) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks that the operation is well formed.
func (o *Operation) Validate() error {
	if o.ID == "" {
		return &errors.ValidationError{
			Field:      "id",
			Message:    "operation id is required",
			Suggestion: "add an 'id' field to each operation",
		}
	}

	method := strings.ToUpper(o.Method)
	if !validMethods[method] {
		return &errors.ValidationError{
			Field:      "method",
			Message:    fmt.Sprintf("operation %s has invalid method %q", o.ID, o.Method),
			Suggestion: "use one of GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS",
		}
	}

	if o.Path == "" {
		return &errors.ValidationError{
			Field:      "path",
			Message:    fmt.Sprintf("operation %s is missing a path template", o.ID),
			Suggestion: "add a 'path' field, e.g. /pets/{id}",
		}
	}

	seen := make(map[string]Location, len(o.Parameters))
	for _, p := range o.Parameters {
		if p.Name == "" {
			return &errors.ValidationError{
				Field:      "parameters",
				Message:    fmt.Sprintf("operation %s declares a parameter with no name", o.ID),
				Suggestion: "give every parameter a name",
			}
		}
		switch p.In {
		case InPath, InQuery, InHeader:
		default:
			return &errors.ValidationError{
				Field:      "parameters",
				Message:    fmt.Sprintf("operation %s parameter %s has invalid location %q", o.ID, p.Name, p.In),
				Suggestion: "use one of path, query, header",
			}
		}
		if prior, ok := seen[p.Name]; ok && prior == p.In {
			return &errors.ValidationError{
				Field:      "parameters",
				Message:    fmt.Sprintf("operation %s declares parameter %s twice for location %s", o.ID, p.Name, p.In),
				Suggestion: "remove the duplicate declaration",
			}
		}
		seen[p.Name] = p.In
	}

	for status := range o.Responses {
		if status < 100 || status > 599 {
			return &errors.ValidationError{
				Field:      "responses",
				Message:    fmt.Sprintf("operation %s declares out-of-range status code %d", o.ID, status),
				Suggestion: "status codes must be between 100 and 599",
			}
		}
	}

	return nil
}

// Set is an ordered collection of operations loaded from one descriptor
// document, plus document-level defaults the CLI applies when invoking.
type Set struct {
	// Name identifies the API surface this set describes.
	Name string `yaml:"name" json:"name"`

	// BaseURL is the default base URL for invocations of this set.
	// Per-call overrides always win over it.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Operations are the declared operations, in document order.
	Operations []Operation `yaml:"operations" json:"operations"`
}

// Validate checks the whole set, including operation id uniqueness.
func (s *Set) Validate() error {
	if s.Name == "" {
		return &errors.ValidationError{
			Field:      "name",
			Message:    "descriptor set name is required",
			Suggestion: "add a descriptive name for the API surface",
		}
	}

	if len(s.Operations) == 0 {
		return &errors.ValidationError{
			Field:      "operations",
			Message:    "descriptor set must declare at least one operation",
			Suggestion: "add at least one operation to the set",
		}
	}

	ids := make(map[string]bool, len(s.Operations))
	for i := range s.Operations {
		op := &s.Operations[i]
		if err := op.Validate(); err != nil {
			return err
		}
		if ids[op.ID] {
			return &errors.ValidationError{
				Field:      "operations",
				Message:    fmt.Sprintf("duplicate operation id: %s", op.ID),
				Suggestion: "ensure each operation has a unique id",
			}
		}
		ids[op.ID] = true
	}

	return nil
}

// Find returns the operation with the given id, or nil if the set does not
// contain it.
func (s *Set) Find(id string) *Operation {
	for i := range s.Operations {
		if s.Operations[i].ID == id {
			return &s.Operations[i]
		}
	}
	return nil
}

// normalize upper-cases methods in place. Called after parsing so the
// pipeline never needs to case-fold.
func (s *Set) normalize() {
	for i := range s.Operations {
		s.Operations[i].Method = strings.ToUpper(s.Operations[i].Method)
	}
}
