package udf

import "iter"

// Slot is one decoded argument as the glue sees it. The glue refills the
// slots of a Frame before every call; Value may point into engine memory and
// is only valid until that call returns.
type Slot struct {
	Value Value

	// Label is the argument's attribute: the column name or alias, or the
	// literal text for constants.
	Label string

	// Type is the declared type. During init a function may change it with
	// SetTypeCoercion; the glue copies it back to the engine afterwards.
	Type SQLType

	// Const is set during init when the engine supplied the argument's value,
	// which it does only for constant expressions.
	Const bool

	MaybeNull bool
}

// Frame is the argument array for one call into a function instance.
type Frame struct {
	Slots []Slot
}

// NewFrame returns a frame with n zeroed slots.
func NewFrame(n int) *Frame {
	return &Frame{Slots: make([]Slot, n)}
}

// Len returns the number of slots.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Slots)
}

// InitArgs is the argument list seen by a Constructor.
type InitArgs struct {
	frame *Frame
}

// Len returns the number of arguments.
func (a *InitArgs) Len() int { return a.frame.Len() }

// Get returns argument i, or ok == false if i is out of range.
func (a *InitArgs) Get(i int) (InitArg, bool) {
	if i < 0 || i >= a.Len() {
		return InitArg{}, false
	}
	return InitArg{slot: &a.frame.Slots[i]}, true
}

// All iterates the arguments in positional order.
func (a *InitArgs) All() iter.Seq2[int, InitArg] {
	return func(yield func(int, InitArg) bool) {
		for i := 0; i < a.Len(); i++ {
			if !yield(i, InitArg{slot: &a.frame.Slots[i]}) {
				return
			}
		}
	}
}

// InitArg is an argument during init. Only InitArg can request coercion.
type InitArg struct {
	slot *Slot
}

// Value returns the constant value of the argument, or NULL when the
// argument is not a constant.
func (a InitArg) Value() Value { return a.slot.Value }

// Label returns the argument's attribute.
func (a InitArg) Label() string { return a.slot.Label }

// IsConst reports whether the engine supplied a constant value.
func (a InitArg) IsConst() bool { return a.slot.Const }

// MaybeNull reports whether the argument can be NULL at process time.
func (a InitArg) MaybeNull() bool { return a.slot.MaybeNull }

// Type returns the type the argument will have at process time.
func (a InitArg) Type() SQLType { return a.slot.Type }

// SetTypeCoercion asks the engine to convert the argument to t on every
// process call. Calling it again with the same type is a no-op; a later call
// with a different type wins.
func (a InitArg) SetTypeCoercion(t SQLType) {
	if !t.Valid() {
		return
	}
	a.slot.Type = t
}

// ProcessArgs is the argument list seen by Process, Add and Clear.
type ProcessArgs struct {
	frame *Frame
}

// Len returns the number of arguments.
func (a *ProcessArgs) Len() int { return a.frame.Len() }

// Get returns argument i, or ok == false if i is out of range.
func (a *ProcessArgs) Get(i int) (ProcessArg, bool) {
	if i < 0 || i >= a.Len() {
		return ProcessArg{}, false
	}
	return ProcessArg{slot: &a.frame.Slots[i]}, true
}

// Value returns argument i's value, or NULL string if i is out of range.
func (a *ProcessArgs) Value(i int) Value {
	arg, ok := a.Get(i)
	if !ok {
		return Value{}
	}
	return arg.Value()
}

// All iterates the arguments in positional order.
func (a *ProcessArgs) All() iter.Seq2[int, ProcessArg] {
	return func(yield func(int, ProcessArg) bool) {
		for i := 0; i < a.Len(); i++ {
			if !yield(i, ProcessArg{slot: &a.frame.Slots[i]}) {
				return
			}
		}
	}
}

// ProcessArg is an argument during row processing.
type ProcessArg struct {
	slot *Slot
}

// Value returns the row's value, valid until the current call returns.
func (a ProcessArg) Value() Value { return a.slot.Value }

// Label returns the argument's attribute.
func (a ProcessArg) Label() string { return a.slot.Label }

// MaybeNull reports whether the argument can be NULL.
func (a ProcessArg) MaybeNull() bool { return a.slot.MaybeNull }
