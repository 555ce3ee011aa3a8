// Package cabi connects the server's C calling convention for loadable
// functions to udf.Instance.
//
// The exported shims in cmd/udfsuite pass their raw UDF_INIT, UDF_ARGS and
// flag pointers here as unsafe.Pointer, since cgo types are local to the
// package that declares them. Argument bytes are read in place; results are
// copied into the engine's result buffer when they fit, or into a C buffer
// owned by the instance and freed at deinit.
//
// Every entry point recovers panics. A panic during init becomes an init
// error; any later panic becomes a NULL row with the error flag set.
package cabi

/*
#include "udf_abi.h"

static uintptr_t udf_get_handle(UDF_INIT *initid) { return (uintptr_t)initid->ptr; }
static void udf_set_handle(UDF_INIT *initid, uintptr_t h) { initid->ptr = (char *)h; }
*/
import "C"

import (
	"os"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/pluots/udf-suite/pkg/config"
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/udf"
)

// ResultBufferLen is the size of the result buffer the engine passes to
// string functions.
const ResultBufferLen = 766

// state is what UDF_INIT.ptr refers to, through a cgo.Handle.
type state struct {
	inst  *udf.Instance
	frame *udf.Frame

	// out is a C buffer for results longer than the engine's buffer. It grows
	// and is reused across rows.
	out    unsafe.Pointer
	outCap int
}

var setupOnce sync.Once

// setup installs the library logger the first time any function runs.
func setup() {
	setupOnce.Do(func() {
		cfg, err := config.LibraryFromEnv(os.LookupEnv)
		l := cfg.NewLogger(os.Stderr)
		udf.SetLogger(l)
		if err != nil {
			l.Lifecycle().Warn("ignoring invalid environment configuration", "error", errors.Message(err))
		}
	})
}

// Init implements <name>_init. It returns true when initialization failed,
// after writing the client-facing reason into message.
func Init(def *udf.Definition, initid, args, message unsafe.Pointer) (failed bool) {
	setup()
	ini := (*C.UDF_INIT)(initid)
	ua := (*C.UDF_ARGS)(args)

	defer func() {
		if r := recover(); r != nil {
			err := errors.Panic(def.Name+".init", r).Err()
			udf.Logger().Boundary().Error("panic in init glue", err, "function", def.Name)
			writeMessage(message, udf.InitMessage(err))
			failed = true
		}
	}()

	frame := udf.NewFrame(int(ua.arg_count))
	decode(ua, frame, true)

	inst, settings, err := udf.Open(def, frame, settingsFrom(ini))
	if err != nil {
		writeMessage(message, udf.InitMessage(err))
		return true
	}

	types := unsafe.Slice(ua.arg_type, int(ua.arg_count))
	for i, t := range inst.ArgTypes() {
		types[i] = C.int(t)
	}
	applySettings(ini, settings)

	h := cgo.NewHandle(&state{inst: inst, frame: frame})
	C.udf_set_handle(ini, C.uintptr_t(h))
	return false
}

// Deinit implements <name>_deinit.
func Deinit(def *udf.Definition, initid unsafe.Pointer) {
	defer recoverBoundary(def, "deinit")

	ini := (*C.UDF_INIT)(initid)
	h := cgo.Handle(C.udf_get_handle(ini))
	if h == 0 {
		return
	}
	C.udf_set_handle(ini, 0)

	s := h.Value().(*state)
	h.Delete()
	s.inst.Close()
	if s.out != nil {
		C.free(s.out)
		s.out, s.outCap = nil, 0
	}
}

// ProcessString implements <name> for STRING and DECIMAL functions.
func ProcessString(def *udf.Definition, initid, args, result, length, isNull, errFlag unsafe.Pointer) (out unsafe.Pointer) {
	defer recoverRow(def, "process", isNull, errFlag)

	s, ok := load(def, initid, isNull, errFlag)
	if !ok {
		return nil
	}
	v, ok := s.row(args, isNull, errFlag)
	if !ok {
		return nil
	}

	var b []byte
	if v.Type() == udf.TypeDecimal {
		b, _ = v.AsDecimalBytes()
	} else {
		b, _ = v.AsBytes()
	}
	p, ok := s.marshal(b, result, (*C.ulong)(length))
	if !ok {
		err := errors.Newf(errors.ErrCodeResultTooLong, "%s: cannot allocate %d result bytes", def.Name, len(b)).Err()
		udf.Logger().Boundary().Error("result allocation failed", err, "function", def.Name)
		setFlag(isNull)
		setFlag(errFlag)
		return nil
	}
	return p
}

// ProcessInt implements <name> for INTEGER functions.
func ProcessInt(def *udf.Definition, initid, args, isNull, errFlag unsafe.Pointer) (out int64) {
	defer recoverRow(def, "process", isNull, errFlag)

	s, ok := load(def, initid, isNull, errFlag)
	if !ok {
		return 0
	}
	v, ok := s.row(args, isNull, errFlag)
	if !ok {
		return 0
	}
	i, _ := v.AsInt()
	return i
}

// ProcessReal implements <name> for REAL functions.
func ProcessReal(def *udf.Definition, initid, args, isNull, errFlag unsafe.Pointer) (out float64) {
	defer recoverRow(def, "process", isNull, errFlag)

	s, ok := load(def, initid, isNull, errFlag)
	if !ok {
		return 0
	}
	v, ok := s.row(args, isNull, errFlag)
	if !ok {
		return 0
	}
	f, _ := v.AsReal()
	return f
}

// Clear implements <name>_clear.
func Clear(def *udf.Definition, initid, isNull, errFlag unsafe.Pointer) {
	defer recoverRow(def, "clear", isNull, errFlag)

	s, ok := load(def, initid, isNull, errFlag)
	if !ok {
		return
	}
	if err := s.inst.Clear(); err != nil {
		setFlag(errFlag)
	}
}

// Add implements <name>_add.
func Add(def *udf.Definition, initid, args, isNull, errFlag unsafe.Pointer) {
	defer recoverRow(def, "add", isNull, errFlag)

	s, ok := load(def, initid, isNull, errFlag)
	if !ok {
		return
	}
	if err := s.inst.Add(s.decodeRow(args)); err != nil {
		setFlag(errFlag)
	}
}

func load(def *udf.Definition, initid, isNull, errFlag unsafe.Pointer) (*state, bool) {
	h := cgo.Handle(C.udf_get_handle((*C.UDF_INIT)(initid)))
	if h == 0 {
		err := errors.Newf(errors.ErrCodeWrongPhase, "%s called without a successful init", def.Name).Critical().Err()
		udf.Logger().Boundary().Error("missing instance", err, "function", def.Name)
		setFlag(isNull)
		setFlag(errFlag)
		return nil, false
	}
	return h.Value().(*state), true
}

// row decodes the current arguments and runs Process. ok is false when the
// result is NULL, with the flags already set.
func (s *state) row(args, isNull, errFlag unsafe.Pointer) (udf.Value, bool) {
	v, err := s.inst.Process(s.decodeRow(args))
	if err != nil {
		setFlag(isNull)
		setFlag(errFlag)
		return v, false
	}
	if v.IsNull() {
		setFlag(isNull)
		return v, false
	}
	return v, true
}

// decodeRow refills the instance's frame. If the engine passes a different
// argument count than at init, a fresh frame is used so the instance can
// reject the call instead of the decoder reading out of bounds.
func (s *state) decodeRow(args unsafe.Pointer) *udf.Frame {
	ua := (*C.UDF_ARGS)(args)
	frame := s.frame
	if int(ua.arg_count) != frame.Len() {
		frame = udf.NewFrame(int(ua.arg_count))
	}
	decode(ua, frame, false)
	return frame
}

// marshal copies b to where the engine will read it and stores its length.
func (s *state) marshal(b []byte, result unsafe.Pointer, length *C.ulong) (unsafe.Pointer, bool) {
	*length = C.ulong(len(b))
	if len(b) <= ResultBufferLen && result != nil {
		if len(b) > 0 {
			C.memcpy(result, unsafe.Pointer(&b[0]), C.size_t(len(b)))
		}
		return result, true
	}

	// A NULL pointer means SQL NULL, so an empty result still needs a buffer.
	need := max(len(b), 1)
	if need > s.outCap {
		p := C.realloc(s.out, C.size_t(need))
		if p == nil {
			return nil, false
		}
		s.out, s.outCap = p, need
	}
	if len(b) > 0 {
		C.memcpy(s.out, unsafe.Pointer(&b[0]), C.size_t(len(b)))
	}
	return s.out, true
}

// decode reads UDF_ARGS into frame. Labels and constness are only read at
// init; labels stay in the frame for the rest of the statement.
func decode(ua *C.UDF_ARGS, frame *udf.Frame, init bool) {
	n := int(ua.arg_count)
	types := unsafe.Slice(ua.arg_type, n)
	values := unsafe.Slice(ua.args, n)
	lengths := unsafe.Slice(ua.lengths, n)

	var nullable []C.char
	if ua.maybe_null != nil {
		nullable = unsafe.Slice(ua.maybe_null, n)
	}

	for i := range frame.Slots {
		slot := &frame.Slots[i]
		slot.Type = udf.SQLType(types[i])
		if nullable != nil {
			slot.MaybeNull = nullable[i] != 0
		}
		if init {
			slot.Label = attribute(ua, i)
			slot.Const = values[i] != nil
		} else {
			slot.Const = false
		}
		slot.Value = decodeValue(slot.Type, values[i], lengths[i])
	}
}

func decodeValue(t udf.SQLType, p *C.char, n C.ulong) udf.Value {
	if p == nil {
		return udf.Null(t)
	}
	switch t {
	case udf.TypeInt:
		return udf.Int(int64(*(*C.longlong)(unsafe.Pointer(p))))
	case udf.TypeReal:
		return udf.Real(float64(*(*C.double)(unsafe.Pointer(p))))
	case udf.TypeDecimal:
		return udf.DecimalBytes(unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n)))
	default:
		return udf.Text(unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n)))
	}
}

func attribute(ua *C.UDF_ARGS, i int) string {
	if ua.attributes == nil || ua.attribute_lengths == nil {
		return ""
	}
	n := int(ua.arg_count)
	p := unsafe.Slice(ua.attributes, n)[i]
	if p == nil {
		return ""
	}
	return C.GoStringN(p, C.int(unsafe.Slice(ua.attribute_lengths, n)[i]))
}

func settingsFrom(ini *C.UDF_INIT) udf.Settings {
	return udf.Settings{
		MaxLen:    uint64(ini.max_length),
		Decimals:  uint32(ini.decimals),
		IsConst:   ini.const_item != 0,
		MaybeNull: ini.maybe_null != 0,
	}
}

func applySettings(ini *C.UDF_INIT, s udf.Settings) {
	ini.max_length = C.ulong(s.MaxLen)
	ini.decimals = C.uint(s.Decimals)
	ini.const_item = cbool(s.IsConst)
	ini.maybe_null = cbool(s.MaybeNull)
}

func cbool(b bool) C.char {
	if b {
		return 1
	}
	return 0
}

func setFlag(p unsafe.Pointer) {
	if p != nil {
		*(*C.char)(p) = 1
	}
}

// writeMessage copies msg, NUL-terminated, into the engine's message buffer.
func writeMessage(message unsafe.Pointer, msg string) {
	if message == nil {
		return
	}
	buf := unsafe.Slice((*byte)(message), udf.MaxMessageLen)
	n := copy(buf[:udf.MaxMessageLen-1], msg)
	buf[n] = 0
}

func recoverRow(def *udf.Definition, op string, isNull, errFlag unsafe.Pointer) {
	if r := recover(); r != nil {
		err := errors.Panic(def.Name+"."+op, r).Err()
		udf.Logger().Boundary().Error("panic in "+op+" glue", err, "function", def.Name)
		setFlag(isNull)
		setFlag(errFlag)
	}
}

func recoverBoundary(def *udf.Definition, op string) {
	if r := recover(); r != nil {
		err := errors.Panic(def.Name+"."+op, r).Err()
		udf.Logger().Boundary().Error("panic in "+op+" glue", err, "function", def.Name)
	}
}
