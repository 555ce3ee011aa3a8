package emulate

import (
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/udf"
)

// Arg describes one argument of an emulated call.
type Arg struct {
	Value udf.Value
	Label string

	// Const arguments are visible to init, as the server shows literal
	// values there. Other arguments read as NULL during init.
	Const bool

	MaybeNull bool
}

// Column is a non-constant argument, as produced by a column reference.
func Column(v udf.Value, label string) Arg {
	return Arg{Value: v, Label: label, MaybeNull: true}
}

// Literal is a constant argument.
func Literal(v udf.Value, label string) Arg {
	return Arg{Value: v, Label: label, Const: true, MaybeNull: v.IsNull()}
}

// DefaultSettings returns what the server puts in UDF_INIT before calling
// init: maybe_null when any argument may be NULL, and no max length.
func DefaultSettings(args []Arg) udf.Settings {
	s := udf.Settings{Decimals: 31}
	for _, a := range args {
		if a.MaybeNull {
			s.MaybeNull = true
		}
	}
	return s
}

// Statement is one emulated statement execution: a single initialized
// function instance.
type Statement struct {
	inst     *udf.Instance
	settings udf.Settings
	args     []Arg
	frame    *udf.Frame
}

// Init runs the init phase of def with args. It returns the init error
// unchanged; udf.InitMessage gives the client-facing text.
func Init(def *udf.Definition, args ...Arg) (*Statement, error) {
	frame := udf.NewFrame(len(args))
	for i, a := range args {
		slot := &frame.Slots[i]
		slot.Label = a.Label
		slot.Type = a.Value.Type()
		slot.Const = a.Const
		slot.MaybeNull = a.MaybeNull
		if a.Const {
			slot.Value = a.Value
		} else {
			slot.Value = udf.Null(a.Value.Type())
		}
	}

	inst, settings, err := udf.Open(def, frame, DefaultSettings(args))
	if err != nil {
		return nil, err
	}

	return &Statement{
		inst:     inst,
		settings: settings,
		args:     args,
		frame:    frame,
	}, nil
}

// Settings returns the configuration the function negotiated.
func (s *Statement) Settings() udf.Settings { return s.settings }

// ArgTypes returns the argument types after coercion requests.
func (s *Statement) ArgTypes() []udf.SQLType { return s.inst.ArgTypes() }

// Instance exposes the driven instance.
func (s *Statement) Instance() *udf.Instance { return s.inst }

// Process calls the function with the values given at Init.
func (s *Statement) Process() (udf.Value, error) {
	s.fill(nil)
	return s.inst.Process(s.frame)
}

// ProcessRow calls the function with new row values, one per argument.
func (s *Statement) ProcessRow(row ...udf.Value) (udf.Value, error) {
	if err := s.fill(row); err != nil {
		return udf.Null(s.inst.Definition().Returns), err
	}
	return s.inst.Process(s.frame)
}

// Clear starts a new aggregate group.
func (s *Statement) Clear() error {
	return s.inst.Clear()
}

// Add folds a row into the current group.
func (s *Statement) Add(row ...udf.Value) error {
	if err := s.fill(row); err != nil {
		return err
	}
	return s.inst.Add(s.frame)
}

// Close tears down the instance.
func (s *Statement) Close() {
	s.inst.Close()
}

// fill loads row (or the Init values when row is nil) into the frame,
// coerced to the negotiated types.
func (s *Statement) fill(row []udf.Value) error {
	if row != nil && len(row) != len(s.args) {
		return errors.Newf(errors.ErrCodeWrongPhase, "%d row values for %d arguments", len(row), len(s.args)).Err()
	}
	types := s.inst.ArgTypes()
	for i := range s.frame.Slots {
		v := s.args[i].Value
		if row != nil {
			v = row[i]
		}
		slot := &s.frame.Slots[i]
		slot.Type = types[i]
		slot.Const = false
		slot.Value = Coerce(v, types[i])
	}
	return nil
}

// Call runs a whole scalar statement: init, one process call per row, and
// teardown. With no rows it processes the Init values once.
func Call(def *udf.Definition, args []Arg, rows ...[]udf.Value) ([]udf.Value, error) {
	st, err := Init(def, args...)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if len(rows) == 0 {
		v, err := st.Process()
		if err != nil {
			return []udf.Value{v}, err
		}
		return []udf.Value{ownedCopy(v)}, nil
	}

	out := make([]udf.Value, 0, len(rows))
	for _, row := range rows {
		v, err := st.ProcessRow(row...)
		if err != nil {
			return out, err
		}
		// The result may borrow instance memory that the next call reuses.
		out = append(out, ownedCopy(v))
	}
	return out, nil
}

// Aggregate runs one aggregate statement over groups of rows and returns one
// result per group. A failed group yields NULL and does not stop the others.
func Aggregate(def *udf.Definition, args []Arg, groups ...[][]udf.Value) ([]udf.Value, error) {
	st, err := Init(def, args...)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	out := make([]udf.Value, 0, len(groups))
	for _, group := range groups {
		if err := st.Clear(); err == nil {
			for _, row := range group {
				if err := st.Add(row...); err != nil {
					break
				}
			}
		}
		v, err := st.Process()
		if err != nil {
			v = udf.Null(def.Returns)
		}
		out = append(out, ownedCopy(v))
	}
	return out, nil
}

func ownedCopy(v udf.Value) udf.Value {
	if v.IsNull() {
		return v
	}
	switch v.Type() {
	case udf.TypeString:
		b, _ := v.AsBytes()
		return udf.OwnedText(b)
	case udf.TypeDecimal:
		s, _ := v.AsDecimal()
		return udf.Decimal(s)
	default:
		return v
	}
}
