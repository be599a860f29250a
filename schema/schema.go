// Package schema pre-validates the values a caller intends to pass as
// ParseTemplate arguments, using JSON Schema so validation rules can
// be expressed as data rather than Go code — useful when the set of
// %m/%s/%d directives a template expects is itself configuration.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// ArgSpec declares the expected shape of one template argument: its
// position in the %-directive sequence and a JSON Schema describing
// acceptable values once marshaled to JSON (e.g. an %s argument might
// be constrained to a schema with "type": "string", "maxLength": 64).
type ArgSpec struct {
	Position int             `json:"position"`
	Schema   json.RawMessage `json:"schema"`
}

// Validator compiles a set of ArgSpecs once and validates argument
// values against them by position, caching compiled schemas the same
// way a repeatedly-invoked template parser would want to.
type Validator struct {
	compiled map[int]*jsonschema.Schema
}

// Compile builds a Validator from specs, compiling every schema up
// front so Validate never pays compilation cost per call.
func Compile(specs []ArgSpec) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	v := &Validator{compiled: make(map[int]*jsonschema.Schema, len(specs))}
	for _, spec := range specs {
		name := fmt.Sprintf("arg-%d.json", spec.Position)
		if err := compiler.AddResource(name, bytesReader(spec.Schema)); err != nil {
			return nil, fmt.Errorf("schema: arg %d: adding resource: %w", spec.Position, err)
		}
		compiledSchema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("schema: arg %d: compiling: %w", spec.Position, err)
		}
		v.compiled[spec.Position] = compiledSchema
	}
	return v, nil
}

// Validate checks value (already decoded from JSON into Go types:
// map[string]any, []any, string, float64, bool, nil) against the
// schema registered for the given argument position. A position with
// no registered schema is unconstrained and always passes.
func (v *Validator) Validate(position int, value interface{}) error {
	compiledSchema, ok := v.compiled[position]
	if !ok {
		return nil
	}
	if err := compiledSchema.Validate(value); err != nil {
		return fmt.Errorf("schema: arg %d failed validation: %w", position, err)
	}
	return nil
}
