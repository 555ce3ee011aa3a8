// Package jsonify implements functions that render SQL values as JSON:
// jsonify for one row, and the jsonify_agg and jsonify_objectagg aggregates.
//
// Strings become JSON strings (invalid UTF-8 is replaced), integers and
// decimals become numbers, non-finite reals and NULL become null.
package jsonify

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pluots/udf-suite/pkg/udf"
)

// Definitions returns the family in registration order.
func Definitions() []udf.Definition {
	return []udf.Definition{
		{Name: "jsonify", Returns: udf.TypeString, New: newJsonify, Usage: "jsonify(expr [AS key], ...)"},
		{Name: "jsonify_agg", Kind: udf.KindAggregate, Returns: udf.TypeString, New: newAgg, Usage: "jsonify_agg(expr)"},
		{Name: "jsonify_objectagg", Kind: udf.KindAggregate, Returns: udf.TypeString, New: newObjectAgg, Usage: "jsonify_objectagg(key, value)"},
	}
}

// toJSON converts v to a value encoding/json renders as described in the
// package doc. Strings are copied, so the result outlives the row.
func toJSON(v udf.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case udf.TypeInt:
		i, _ := v.AsInt()
		return i
	case udf.TypeReal:
		f, _ := v.AsReal()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case udf.TypeDecimal:
		d, ok := v.AsDecimalNumber()
		if !ok {
			return nil
		}
		return json.Number(d.String())
	default:
		s, _ := v.AsString()
		return s
	}
}

// encoder renders into a buffer owned by one instance.
type encoder struct {
	buf bytes.Buffer
	enc *json.Encoder
}

func (e *encoder) encode(v any) (udf.Value, error) {
	if e.enc == nil {
		e.enc = json.NewEncoder(&e.buf)
		e.enc.SetEscapeHTML(false)
	}
	e.buf.Reset()
	if err := e.enc.Encode(v); err != nil {
		udf.Logf(udf.LogWarning, "jsonify: %v", err)
		return udf.Value{}, udf.ErrProcess
	}
	return udf.Text(bytes.TrimSuffix(e.buf.Bytes(), []byte("\n"))), nil
}

func configure(cfg *udf.InitConfig) {
	cfg.SetMaxLen(udf.MaxLenLongBlob)
	cfg.SetMaybeNull(false)
}

// jsonify builds an object keyed by argument label. Repeated labels keep the
// last value.
type jsonify struct {
	encoder
	obj map[string]any
}

func newJsonify(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	configure(cfg)
	return &jsonify{obj: make(map[string]any, args.Len())}, nil
}

func (j *jsonify) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	clear(j.obj)
	for _, arg := range args.All() {
		j.obj[arg.Label()] = toJSON(arg.Value())
	}
	return j.encode(j.obj)
}

// agg collects one value per row into an array.
type agg struct {
	encoder
	items []any
}

func newAgg(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	if err := udf.ValidateArgCount(args.Len(), 1, "jsonify_agg"); err != nil {
		return nil, err
	}
	configure(cfg)
	return &agg{items: []any{}}, nil
}

func (a *agg) Clear(*udf.ProcessConfig) error {
	clear(a.items)
	a.items = a.items[:0]
	return nil
}

func (a *agg) Add(_ *udf.ProcessConfig, args *udf.ProcessArgs) error {
	a.items = append(a.items, toJSON(args.Value(0)))
	return nil
}

func (a *agg) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	return a.encode(a.items)
}

// objectAgg collects key/value rows into an object. Rows with a NULL key are
// skipped; a repeated key keeps the last value.
type objectAgg struct {
	encoder
	obj map[string]any
}

func newObjectAgg(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	if err := udf.ValidateArgCount(args.Len(), 2, "jsonify_objectagg"); err != nil {
		return nil, err
	}
	key, _ := args.Get(0)
	key.SetTypeCoercion(udf.TypeString)
	configure(cfg)
	return &objectAgg{obj: make(map[string]any)}, nil
}

func (o *objectAgg) Clear(*udf.ProcessConfig) error {
	clear(o.obj)
	return nil
}

func (o *objectAgg) Add(_ *udf.ProcessConfig, args *udf.ProcessArgs) error {
	key, ok := args.Value(0).AsString()
	if !ok {
		udf.Logf(udf.LogWarning, "jsonify_objectagg: skipping row with NULL key")
		return nil
	}
	o.obj[key] = toJSON(args.Value(1))
	return nil
}

func (o *objectAgg) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	return o.encode(o.obj)
}
