package cabi

/*
#include "udf_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pluots/udf-suite/pkg/udf"
)

// Harness lays out UDF_INIT, UDF_ARGS and the flag and buffer arguments in C
// memory the way the server does, so the glue can be driven from Go. Tests
// use it since cgo is unavailable in _test files.
type Harness struct {
	ini     *C.UDF_INIT
	args    *C.UDF_ARGS
	message unsafe.Pointer
	result  unsafe.Pointer
	length  *C.ulong
	isNull  *C.char
	errFlag *C.char

	n      int
	values []unsafe.Pointer
	allocs []unsafe.Pointer
}

// NewHarness allocates the blocks for a call with n arguments.
func NewHarness(n int) *Harness {
	h := &Harness{n: n, values: make([]unsafe.Pointer, n)}
	h.ini = (*C.UDF_INIT)(h.calloc(1, C.sizeof_UDF_INIT))
	h.args = (*C.UDF_ARGS)(h.calloc(1, C.sizeof_UDF_ARGS))
	h.message = h.calloc(udf.MaxMessageLen, 1)
	h.result = h.calloc(ResultBufferLen, 1)
	h.length = (*C.ulong)(h.calloc(1, C.sizeof_ulong))
	h.isNull = (*C.char)(h.calloc(1, 1))
	h.errFlag = (*C.char)(h.calloc(1, 1))

	h.args.arg_count = C.uint(n)
	if n > 0 {
		h.args.arg_type = (*C.int)(h.calloc(n, C.sizeof_int))
		h.args.args = (**C.char)(h.calloc(n, C.size_t(unsafe.Sizeof(uintptr(0)))))
		h.args.lengths = (*C.ulong)(h.calloc(n, C.sizeof_ulong))
		h.args.maybe_null = (*C.char)(h.calloc(n, 1))
		h.args.attributes = (**C.char)(h.calloc(n, C.size_t(unsafe.Sizeof(uintptr(0)))))
		h.args.attribute_lengths = (*C.ulong)(h.calloc(n, C.sizeof_ulong))
	}
	h.ini.decimals = 31
	return h
}

func (h *Harness) calloc(n int, size C.size_t) unsafe.Pointer {
	p := C.calloc(C.size_t(n), size)
	if p == nil {
		panic("calloc failed")
	}
	h.allocs = append(h.allocs, p)
	return p
}

// Declare sets argument i's type, label and nullability.
func (h *Harness) Declare(i int, t udf.SQLType, label string, maybeNull bool) {
	unsafe.Slice(h.args.arg_type, h.n)[i] = C.int(t)
	unsafe.Slice(h.args.maybe_null, h.n)[i] = cbool(maybeNull)

	l := C.CString(label)
	h.allocs = append(h.allocs, unsafe.Pointer(l))
	unsafe.Slice(h.args.attributes, h.n)[i] = l
	unsafe.Slice(h.args.attribute_lengths, h.n)[i] = C.ulong(len(label))
}

// Bind stores v as argument i's value, encoded for the argument's current
// type. A NULL v leaves the value pointer NULL, which is also how init sees
// non-constant arguments.
func (h *Harness) Bind(i int, v udf.Value) {
	ptrs := unsafe.Slice(h.args.args, h.n)
	lengths := unsafe.Slice(h.args.lengths, h.n)
	if h.values[i] != nil {
		C.free(h.values[i])
		h.values[i] = nil
	}
	ptrs[i], lengths[i] = nil, 0
	if v.IsNull() {
		return
	}

	var p unsafe.Pointer
	var n int
	switch v.Type() {
	case udf.TypeInt:
		x, _ := v.AsInt()
		p = C.malloc(C.sizeof_longlong)
		*(*C.longlong)(p) = C.longlong(x)
		n = C.sizeof_longlong
	case udf.TypeReal:
		x, _ := v.AsReal()
		p = C.malloc(C.sizeof_double)
		*(*C.double)(p) = C.double(x)
		n = C.sizeof_double
	case udf.TypeDecimal:
		b, _ := v.AsDecimalBytes()
		p, n = cbytes(b), len(b)
	default:
		b, _ := v.AsBytes()
		p, n = cbytes(b), len(b)
	}
	h.values[i] = p
	ptrs[i] = (*C.char)(p)
	lengths[i] = C.ulong(n)
}

// cbytes copies b into C memory with a trailing NUL, so an empty value still
// gets a non-NULL pointer.
func cbytes(b []byte) unsafe.Pointer {
	p := C.malloc(C.size_t(len(b) + 1))
	buf := unsafe.Slice((*byte)(p), len(b)+1)
	copy(buf, b)
	buf[len(b)] = 0
	return p
}

// ArgType returns the type the glue left in arg_type after init.
func (h *Harness) ArgType(i int) udf.SQLType {
	return udf.SQLType(unsafe.Slice(h.args.arg_type, h.n)[i])
}

// Settings reads back UDF_INIT.
func (h *Harness) Settings() udf.Settings { return settingsFrom(h.ini) }

// SetMaybeNull sets UDF_INIT.maybe_null before init, as the server does.
func (h *Harness) SetMaybeNull(b bool) { h.ini.maybe_null = cbool(b) }

// Message returns the init message buffer as a string.
func (h *Harness) Message() string { return C.GoString((*C.char)(h.message)) }

// ResetFlags clears is_null and error, as the server does before each row.
func (h *Harness) ResetFlags() {
	*h.isNull = 0
	*h.errFlag = 0
}

// IsNull reports the is_null flag.
func (h *Harness) IsNull() bool { return *h.isNull != 0 }

// Error reports the error flag.
func (h *Harness) Error() bool { return *h.errFlag != 0 }

// InEngineBuffer reports whether p is the engine's result buffer.
func (h *Harness) InEngineBuffer(p unsafe.Pointer) bool { return p == h.result }

// HasInstance reports whether UDF_INIT.ptr is set.
func (h *Harness) HasInstance() bool { return h.ini.ptr != nil }

// Init calls the init entry point.
func (h *Harness) Init(def *udf.Definition) bool {
	return Init(def, unsafe.Pointer(h.ini), unsafe.Pointer(h.args), h.message)
}

// Deinit calls the deinit entry point.
func (h *Harness) Deinit(def *udf.Definition) {
	Deinit(def, unsafe.Pointer(h.ini))
}

// String calls the string entry point and copies out the result. ok is false
// for NULL.
func (h *Harness) String(def *udf.Definition) (b []byte, p unsafe.Pointer, ok bool) {
	p = ProcessString(def, unsafe.Pointer(h.ini), unsafe.Pointer(h.args), h.result,
		unsafe.Pointer(h.length), unsafe.Pointer(h.isNull), unsafe.Pointer(h.errFlag))
	if p == nil || h.IsNull() {
		return nil, p, false
	}
	return C.GoBytes(p, C.int(*h.length)), p, true
}

// Int calls the integer entry point.
func (h *Harness) Int(def *udf.Definition) int64 {
	return ProcessInt(def, unsafe.Pointer(h.ini), unsafe.Pointer(h.args),
		unsafe.Pointer(h.isNull), unsafe.Pointer(h.errFlag))
}

// Real calls the real entry point.
func (h *Harness) Real(def *udf.Definition) float64 {
	return ProcessReal(def, unsafe.Pointer(h.ini), unsafe.Pointer(h.args),
		unsafe.Pointer(h.isNull), unsafe.Pointer(h.errFlag))
}

// Clear calls the clear entry point.
func (h *Harness) Clear(def *udf.Definition) {
	Clear(def, unsafe.Pointer(h.ini), unsafe.Pointer(h.isNull), unsafe.Pointer(h.errFlag))
}

// Add calls the add entry point.
func (h *Harness) Add(def *udf.Definition) {
	Add(def, unsafe.Pointer(h.ini), unsafe.Pointer(h.args), unsafe.Pointer(h.isNull), unsafe.Pointer(h.errFlag))
}

// Free releases all C memory. Deinit must have run first.
func (h *Harness) Free() {
	for i, p := range h.values {
		if p != nil {
			C.free(p)
			h.values[i] = nil
		}
	}
	for _, p := range h.allocs {
		C.free(p)
	}
	h.allocs = nil
}
