// Package udf is the typed binding layer between the server's C UDF calling
// convention and Go function implementations.
//
// A function is a Constructor, called once per statement with an
// init-phase configuration handle and argument list, that returns an
// instance. The instance's Process method is called once per row (or once
// per group for aggregates, after Clear and Add). Init-phase and
// process-phase handles are distinct types, so configuring a function or
// requesting argument coercion after init does not compile.
//
//	func newUUIDIsValid(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
//		if err := udf.ValidateArgCount(args.Len(), 1, "uuid_is_valid"); err != nil {
//			return nil, err
//		}
//		arg, _ := args.Get(0)
//		arg.SetTypeCoercion(udf.TypeString)
//		return &uuidIsValid{}, nil
//	}
//
// Errors returned from a Constructor are shown to the client. Errors
// returned from Process, Add or Clear are not; they turn the row into NULL
// and are written to the diagnostic log.
package udf

import (
	stderrors "errors"
	"strconv"

	"github.com/pluots/udf-suite/pkg/errors"
)

// Func is an initialized scalar function instance.
//
// The returned Value may borrow memory owned by the instance; it must stay
// valid until the next call on the same instance.
type Func interface {
	Process(cfg *ProcessConfig, args *ProcessArgs) (Value, error)
}

// Aggregate is an initialized aggregate function instance. Process is the
// finalizer for the current group.
type Aggregate interface {
	Func

	// Clear resets the accumulator at the start of each group.
	Clear(cfg *ProcessConfig) error

	// Add folds one row into the accumulator.
	Add(cfg *ProcessConfig, args *ProcessArgs) error
}

// Teardowner is implemented by instances that hold resources beyond Go
// memory. Teardown is called exactly once, after the last process call.
type Teardowner interface {
	Teardown()
}

// Constructor initializes a function for one statement.
type Constructor func(cfg *InitConfig, args *InitArgs) (Func, error)

// ErrProcess is the payload-free per-row failure. Process implementations
// may return it directly after logging details with Logf.
var ErrProcess = stderrors.New("udf: process failed")

// ValidateArgCount returns the standard arity error when got != want.
func ValidateArgCount(got, want int, name string) error {
	if got == want {
		return nil
	}
	return errors.ArgCount(name, pluralArgs(want), got).Err()
}

// ValidateArgRange returns an arity error when got is outside [lo, hi].
// usage, if non-empty, is appended to the message.
func ValidateArgRange(got, lo, hi int, name, usage string) error {
	if got >= lo && got <= hi {
		return nil
	}
	var expected string
	switch {
	case lo == hi:
		expected = pluralArgs(lo)
	case hi == lo+1:
		expected = strconv.Itoa(lo) + " or " + strconv.Itoa(hi) + " arguments"
	default:
		expected = strconv.Itoa(lo) + " to " + pluralArgs(hi)
	}
	b := errors.ArgCount(name, expected, got)
	if usage != "" {
		e := b.Build()
		e.Message += " (usage: " + usage + ")"
		return e
	}
	return b.Err()
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}
