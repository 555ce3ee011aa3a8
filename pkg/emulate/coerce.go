// Package emulate reproduces the server's side of the UDF protocol so
// functions can be driven without a running server: building init and
// process argument frames, honouring coercion requests, and walking the
// init → process/clear/add → deinit sequence.
//
// It backs the package tests of every function and the in-process SQLite
// host. Functions that validate a constant argument before the server
// converts it use Coerce to predict the converted value.
package emulate

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pluots/udf-suite/pkg/udf"
)

// Coerce converts v to t the way the server does before calling a function
// whose init requested t. NULL stays NULL. Text that does not parse as a
// number converts from its longest numeric prefix, or to zero, as the server
// does with a truncation warning.
func Coerce(v udf.Value, t udf.SQLType) udf.Value {
	if v.Type() == t {
		return v
	}
	if v.IsNull() {
		return udf.Null(t)
	}

	switch t {
	case udf.TypeString:
		return udf.TextString(formatText(v))
	case udf.TypeInt:
		return udf.Int(toInt(v))
	case udf.TypeReal:
		return udf.Real(toReal(v))
	case udf.TypeDecimal:
		return udf.DecimalNumber(toDecimal(v))
	default:
		return v
	}
}

func formatText(v udf.Value) string {
	switch v.Type() {
	case udf.TypeInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case udf.TypeReal:
		f, _ := v.AsReal()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case udf.TypeDecimal:
		s, _ := v.AsDecimal()
		return s
	default:
		s, _ := v.AsString()
		return s
	}
}

func toInt(v udf.Value) int64 {
	switch v.Type() {
	case udf.TypeReal:
		f, _ := v.AsReal()
		return clampRound(f)
	case udf.TypeDecimal:
		d, _ := v.AsDecimalNumber()
		return d.Round(0).IntPart()
	default:
		s, _ := v.AsString()
		return parseIntPrefix(s)
	}
}

func toReal(v udf.Value) float64 {
	switch v.Type() {
	case udf.TypeInt:
		i, _ := v.AsInt()
		return float64(i)
	case udf.TypeDecimal:
		d, _ := v.AsDecimalNumber()
		f, _ := d.Float64()
		return f
	default:
		s, _ := v.AsString()
		return parseFloatPrefix(s)
	}
}

func toDecimal(v udf.Value) decimal.Decimal {
	switch v.Type() {
	case udf.TypeInt:
		i, _ := v.AsInt()
		return decimal.NewFromInt(i)
	case udf.TypeReal:
		f, _ := v.AsReal()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(f)
	default:
		s, _ := v.AsString()
		d, err := decimal.NewFromString(numericPrefix(s))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
}

// clampRound rounds half away from zero and saturates at the int64 range.
func clampRound(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Round(f))
}

func parseIntPrefix(s string) int64 {
	p := numericPrefix(s)
	if p == "" {
		return 0
	}
	if i, err := strconv.ParseInt(p, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0
	}
	return clampRound(f)
}

func parseFloatPrefix(s string) float64 {
	p := numericPrefix(s)
	if p == "" {
		return 0
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0
	}
	return f
}

// numericPrefix returns the longest prefix of s (after leading spaces) that
// reads as a number: sign, digits, optional fraction and exponent.
func numericPrefix(s string) string {
	s = strings.TrimLeft(s, " \t\n\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		i = j
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return strings.TrimSuffix(s[:i], ".")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
