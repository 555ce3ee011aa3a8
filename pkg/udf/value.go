package udf

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Value is a nullable SQL scalar: text bytes, a 64-bit integer, a double, or
// a decimal kept in its textual form. It is used for argument values,
// results, and aggregate state.
//
// The zero Value is a NULL string.
//
// A Value never converts between variants. Asking for a different variant
// reports ok == false; type conversion is requested from the engine with
// InitArg.SetTypeCoercion.
type Value struct {
	typ   SQLType
	valid bool

	b []byte // TypeString and TypeDecimal
	i int64
	f float64
}

// Text returns a string Value that borrows b. The caller must keep b
// unchanged for as long as the Value is in use.
func Text(b []byte) Value {
	return Value{typ: TypeString, valid: true, b: b}
}

// OwnedText returns a string Value holding a copy of b.
func OwnedText(b []byte) Value {
	return Value{typ: TypeString, valid: true, b: bytes.Clone(nonNil(b))}
}

// TextString returns a string Value for s.
func TextString(s string) Value {
	return Value{typ: TypeString, valid: true, b: []byte(s)}
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{typ: TypeInt, valid: true, i: i}
}

// Real returns a real Value.
func Real(f float64) Value {
	return Value{typ: TypeReal, valid: true, f: f}
}

// Decimal returns a decimal Value from its textual form. The text is not
// validated; the engine accepts whatever it can parse.
func Decimal(s string) Value {
	return Value{typ: TypeDecimal, valid: true, b: []byte(s)}
}

// DecimalBytes returns a decimal Value that borrows b.
func DecimalBytes(b []byte) Value {
	return Value{typ: TypeDecimal, valid: true, b: b}
}

// DecimalNumber returns a decimal Value for d.
func DecimalNumber(d decimal.Decimal) Value {
	return Decimal(d.String())
}

// Null returns a SQL NULL of the given variant.
func Null(t SQLType) Value {
	return Value{typ: t}
}

// FromNullString converts a sql.NullString.
func FromNullString(ns sql.NullString) Value {
	if !ns.Valid {
		return Null(TypeString)
	}
	return TextString(ns.String)
}

// FromNullInt64 converts a sql.NullInt64.
func FromNullInt64(ni sql.NullInt64) Value {
	if !ni.Valid {
		return Null(TypeInt)
	}
	return Int(ni.Int64)
}

// FromNullFloat64 converts a sql.NullFloat64.
func FromNullFloat64(nf sql.NullFloat64) Value {
	if !nf.Valid {
		return Null(TypeReal)
	}
	return Real(nf.Float64)
}

// FromNullDecimal converts a decimal.NullDecimal.
func FromNullDecimal(nd decimal.NullDecimal) Value {
	if !nd.Valid {
		return Null(TypeDecimal)
	}
	return DecimalNumber(nd.Decimal)
}

// Type returns the variant, which is meaningful for NULL values too.
func (v Value) Type() SQLType { return v.typ }

// IsNull reports whether v is SQL NULL.
func (v Value) IsNull() bool { return !v.valid }

// AsBytes returns the bytes of a non-NULL string Value. The slice may borrow
// engine or instance memory and is only valid for the current call.
func (v Value) AsBytes() ([]byte, bool) {
	if !v.valid || v.typ != TypeString {
		return nil, false
	}
	return nonNil(v.b), true
}

// AsString is AsBytes copied into a string.
func (v Value) AsString() (string, bool) {
	b, ok := v.AsBytes()
	if !ok {
		return "", false
	}
	return string(b), true
}

// AsInt returns the value of a non-NULL integer Value.
func (v Value) AsInt() (int64, bool) {
	if !v.valid || v.typ != TypeInt {
		return 0, false
	}
	return v.i, true
}

// AsReal returns the value of a non-NULL real Value.
func (v Value) AsReal() (float64, bool) {
	if !v.valid || v.typ != TypeReal {
		return 0, false
	}
	return v.f, true
}

// AsDecimal returns the text of a non-NULL decimal Value.
func (v Value) AsDecimal() (string, bool) {
	if !v.valid || v.typ != TypeDecimal {
		return "", false
	}
	return string(v.b), true
}

// AsDecimalBytes is AsDecimal without the copy.
func (v Value) AsDecimalBytes() ([]byte, bool) {
	if !v.valid || v.typ != TypeDecimal {
		return nil, false
	}
	return nonNil(v.b), true
}

// AsDecimalNumber parses a non-NULL decimal Value.
func (v Value) AsDecimalNumber() (decimal.Decimal, bool) {
	b, ok := v.AsDecimalBytes()
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Equal reports whether two Values have the same variant, nullness and
// content.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}
	switch v.typ {
	case TypeInt:
		return v.i == o.i
	case TypeReal:
		return v.f == o.f
	default:
		return bytes.Equal(v.b, o.b)
	}
}

// String formats v for logs and test failures.
func (v Value) String() string {
	if !v.valid {
		return "NULL(" + v.typ.String() + ")"
	}
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeDecimal:
		return "decimal(" + string(v.b) + ")"
	default:
		return fmt.Sprintf("%q", v.b)
	}
}

// nonNil keeps empty strings distinguishable from NULL for callers that
// check b == nil.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
