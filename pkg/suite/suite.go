// Package suite is the table of every function the shared library exports.
// cmd/udfgen generates the C symbols from it and udfctl installs from it, so
// adding a function here is the only registration step.
package suite

import (
	"github.com/pluots/udf-suite/pkg/functions/jsonify"
	"github.com/pluots/udf-suite/pkg/functions/uuid"
	"github.com/pluots/udf-suite/pkg/udf"
)

// Registry holds the exported functions in export order.
var Registry = udf.MustRegistry(definitions()...)

func definitions() []udf.Definition {
	var defs []udf.Definition
	defs = append(defs, uuid.Definitions()...)
	defs = append(defs, jsonify.Definitions()...)
	return defs
}

// Lookup returns the definition for name. The generated export shims use it
// once per symbol at load time.
func Lookup(name string) *udf.Definition {
	d, ok := Registry.Lookup(name)
	if !ok {
		panic("suite: no function " + name)
	}
	return d
}
