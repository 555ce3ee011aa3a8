package udf

import (
	"regexp"
	"strings"

	"github.com/pluots/udf-suite/pkg/errors"
)

// Kind distinguishes scalar from aggregate functions.
type Kind int

const (
	KindScalar Kind = iota
	KindAggregate
)

func (k Kind) String() string {
	if k == KindAggregate {
		return "aggregate"
	}
	return "scalar"
}

// Definition binds a SQL function name to its implementation.
type Definition struct {
	Name    string
	Kind    Kind
	Returns SQLType
	New     Constructor

	// Usage is a one-line call signature shown by udfctl.
	Usage string
}

// Symbol suffixes the server resolves for each function.
const (
	SuffixInit   = "_init"
	SuffixDeinit = "_deinit"
	SuffixClear  = "_clear"
	SuffixAdd    = "_add"
)

// Symbols returns the exported symbol names the server looks up for d.
func (d *Definition) Symbols() []string {
	syms := []string{d.Name, d.Name + SuffixInit, d.Name + SuffixDeinit}
	if d.Kind == KindAggregate {
		syms = append(syms, d.Name+SuffixClear, d.Name+SuffixAdd)
	}
	return syms
}

// symbolName matches names usable both as SQL identifiers and C symbols.
var symbolName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func (d *Definition) validate() error {
	if !symbolName.MatchString(d.Name) {
		return errors.Newf(errors.ErrCodeConfigInvalid, "function name %q is not a valid symbol", d.Name).Err()
	}
	for _, suffix := range []string{SuffixInit, SuffixDeinit, SuffixClear, SuffixAdd} {
		if strings.HasSuffix(d.Name, suffix) {
			return errors.Newf(errors.ErrCodeConfigInvalid, "function name %q ends in reserved suffix %s", d.Name, suffix).Err()
		}
	}
	if !d.Returns.Valid() {
		return errors.Newf(errors.ErrCodeConfigInvalid, "function %s has invalid return type %v", d.Name, d.Returns).Err()
	}
	if d.New == nil {
		return errors.Newf(errors.ErrCodeConfigInvalid, "function %s has no constructor", d.Name).Err()
	}
	return nil
}

// Registry is an ordered, immutable table of definitions.
type Registry struct {
	defs   []*Definition
	byName map[string]*Definition
}

// NewRegistry validates defs and builds a registry in the given order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:   make([]*Definition, 0, len(defs)),
		byName: make(map[string]*Definition, len(defs)),
	}
	for i := range defs {
		d := defs[i]
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, errors.Newf(errors.ErrCodeDuplicateFunc, "function %s registered twice", d.Name).Err()
		}
		r.defs = append(r.defs, &d)
		r.byName[d.Name] = &d
	}
	return r, nil
}

// MustRegistry is NewRegistry for package-level tables; it panics on error.
func MustRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.byName[strings.ToLower(name)]
	return d, ok
}

// All returns the definitions in registration order.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of definitions.
func (r *Registry) Len() int { return len(r.defs) }

// Select returns the named definitions, or all of them when names is empty.
func (r *Registry) Select(names []string) ([]*Definition, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	out := make([]*Definition, 0, len(names))
	for _, n := range names {
		d, ok := r.Lookup(n)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeUnknownFunc, "unknown function %s", n).Err()
		}
		out = append(out, d)
	}
	return out, nil
}
