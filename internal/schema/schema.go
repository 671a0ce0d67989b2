// SPDX-License-Identifier: Apache-2.0

// Package schema validates decoded configuration documents against the CUE
// definitions in schema.cue.
package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var source string

// Definition names exported by schema.cue.
const (
	MarkerTable = "#MarkerTable"
	Config      = "#Config"
)

// Validate encodes v (through its json tags) and unifies it with the named
// definition. All values must be concrete.
func Validate(definition string, v any) error {
	ctx := cuecontext.New()
	root := ctx.CompileString(source, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := root.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("schema definition %s not found", definition)
	}

	val := ctx.Encode(v)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s: %s", definition, cueerrors.Details(err, nil))
	}
	return nil
}
