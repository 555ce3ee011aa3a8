package udf

import (
	"unicode/utf8"

	"github.com/pluots/udf-suite/pkg/errors"
)

// MaxMessageLen is the size of the engine's init message buffer, including
// the terminating NUL.
const MaxMessageLen = 512

// Instance drives one function through a statement: Open, then any number of
// Process (or Clear/Add/Process) calls, then Close. It owns the
// implementation's instance state and is what the C glue stores in the
// engine's UDF_INIT.
//
// Every method recovers panics from the implementation, so nothing unwinds
// past it. Instance is not safe for concurrent use; the engine never shares
// one between threads.
type Instance struct {
	def *Definition
	fn  Func
	agg Aggregate

	cfg   ProcessConfig
	args  ProcessArgs
	types []SQLType

	groupFailed bool
	closed      bool
}

// Open runs the init phase for def. frame holds the init-phase arguments;
// on return its slot types carry any coercions the function requested.
// defaults is the engine's initial configuration.
//
// On failure no instance exists and there is nothing to close. The error's
// client-facing text is InitMessage(err).
func Open(def *Definition, frame *Frame, defaults Settings) (inst *Instance, settings Settings, err error) {
	settings = defaults
	if frame == nil {
		frame = &Frame{}
	}

	defer func() {
		if r := recover(); r != nil {
			inst = nil
			err = errors.Panic(def.Name+".init", r).Err()
			Logger().Boundary().Error("panic during init", err, "function", def.Name)
		}
	}()

	cfg := &InitConfig{s: &settings}
	fn, err := def.New(cfg, &InitArgs{frame: frame})
	if err != nil {
		Logger().Lifecycle().Debug("init rejected", "function", def.Name, "reason", errors.Message(err))
		return nil, settings, err
	}
	if fn == nil {
		return nil, settings, errors.Internal(def.Name + ": constructor returned no instance").Err()
	}

	inst = &Instance{
		def:   def,
		fn:    fn,
		types: make([]SQLType, frame.Len()),
	}
	if def.Kind == KindAggregate {
		agg, ok := fn.(Aggregate)
		if !ok {
			inst.Close()
			return nil, settings, errors.Internal(def.Name + ": aggregate constructor returned a scalar instance").Err()
		}
		inst.agg = agg
	}
	for i := range frame.Slots {
		inst.types[i] = frame.Slots[i].Type
	}
	inst.cfg = ProcessConfig{s: settings}

	Logger().Lifecycle().Debug("init", "function", def.Name, "args", frame.Len())
	return inst, settings, nil
}

// Definition returns the function this instance runs.
func (in *Instance) Definition() *Definition { return in.def }

// ArgTypes returns the argument types negotiated during init.
func (in *Instance) ArgTypes() []SQLType { return in.types }

// Settings returns the configuration negotiated during init.
func (in *Instance) Settings() Settings { return in.cfg.s }

// Process runs the scalar body, or the aggregate finalizer. A non-nil error
// means the row failed: the engine should see NULL and its error flag.
//
// The returned Value may borrow the instance's memory until the next call.
func (in *Instance) Process(frame *Frame) (v Value, err error) {
	null := Null(in.def.Returns)
	if err := in.check(frame, "process"); err != nil {
		return null, err
	}
	if in.groupFailed {
		return null, ErrProcess
	}

	defer func() {
		if r := recover(); r != nil {
			v = null
			err = errors.Panic(in.def.Name+".process", r).Err()
			Logger().Boundary().Error("panic during process", err, "function", in.def.Name)
		}
	}()

	in.args.frame = frame
	v, err = in.fn.Process(&in.cfg, &in.args)
	if err != nil {
		in.rowFailed("process", err)
		return null, err
	}
	if !v.IsNull() && v.Type() != in.def.Returns {
		err = errors.Newf(errors.ErrCodeProcessFailed, "%s returned a %s value but is declared %s",
			in.def.Name, v.Type(), in.def.Returns).Critical().Err()
		Logger().Boundary().Error("result type mismatch", err, "function", in.def.Name)
		return null, err
	}
	return v, nil
}

// Clear starts a new aggregate group.
func (in *Instance) Clear() (err error) {
	if err := in.check(nil, "clear"); err != nil {
		return err
	}
	if in.agg == nil {
		return errors.Newf(errors.ErrCodeWrongPhase, "%s is not an aggregate", in.def.Name).Err()
	}

	defer func() {
		if r := recover(); r != nil {
			in.groupFailed = true
			err = errors.Panic(in.def.Name+".clear", r).Err()
			Logger().Boundary().Error("panic during clear", err, "function", in.def.Name)
		}
	}()

	in.groupFailed = false
	if err := in.agg.Clear(&in.cfg); err != nil {
		in.groupFailed = true
		in.rowFailed("clear", err)
		return err
	}
	return nil
}

// Add folds one row into the current group. After a failed Add the group
// finalizes to NULL.
func (in *Instance) Add(frame *Frame) (err error) {
	if err := in.check(frame, "add"); err != nil {
		return err
	}
	if in.agg == nil {
		return errors.Newf(errors.ErrCodeWrongPhase, "%s is not an aggregate", in.def.Name).Err()
	}
	if in.groupFailed {
		return ErrProcess
	}

	defer func() {
		if r := recover(); r != nil {
			in.groupFailed = true
			err = errors.Panic(in.def.Name+".add", r).Err()
			Logger().Boundary().Error("panic during add", err, "function", in.def.Name)
		}
	}()

	in.args.frame = frame
	if err := in.agg.Add(&in.cfg, &in.args); err != nil {
		in.groupFailed = true
		in.rowFailed("add", err)
		return err
	}
	return nil
}

// Close runs Teardown if the implementation has one. It is safe to call
// more than once; only the first call has an effect.
func (in *Instance) Close() {
	if in == nil || in.closed {
		return
	}
	in.closed = true

	defer func() {
		if r := recover(); r != nil {
			err := errors.Panic(in.def.Name+".deinit", r).Err()
			Logger().Boundary().Error("panic during deinit", err, "function", in.def.Name)
		}
		in.fn = nil
		in.agg = nil
	}()

	if td, ok := in.fn.(Teardowner); ok {
		td.Teardown()
	}
	Logger().Lifecycle().Debug("deinit", "function", in.def.Name)
}

// Closed reports whether Close has run.
func (in *Instance) Closed() bool { return in.closed }

func (in *Instance) check(frame *Frame, op string) error {
	if in.closed {
		return errors.Newf(errors.ErrCodeWrongPhase, "%s: %s after deinit", in.def.Name, op).Critical().Err()
	}
	if frame == nil {
		return nil
	}
	if frame.Len() != len(in.types) {
		err := errors.Newf(errors.ErrCodeWrongPhase, "%s: %s called with %d arguments, init saw %d",
			in.def.Name, op, frame.Len(), len(in.types)).Critical().Err()
		Logger().Boundary().Error("argument count changed after init", err, "function", in.def.Name)
		return err
	}
	return nil
}

// rowFailed logs a per-row failure. A bare ErrProcess was already explained
// by the implementation through Logf.
func (in *Instance) rowFailed(op string, err error) {
	if err == ErrProcess {
		Logger().Row().Debug(op+" failed", "function", in.def.Name)
		return
	}
	Logger().Row().Warn(op+" failed", "function", in.def.Name, "error", err.Error())
}

// InitMessage returns the client-facing text for an init error, cut to fit
// the engine's message buffer without splitting a UTF-8 sequence.
func InitMessage(err error) string {
	msg := errors.Message(err)
	if msg == "" {
		msg = "initialization failed"
	}
	limit := MaxMessageLen - 1
	if len(msg) <= limit {
		return msg
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
