package emulate

import (
	"math"
	"testing"

	"github.com/pluots/udf-suite/pkg/udf"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   udf.Value
		to   udf.SQLType
		want udf.Value
	}{
		{"same type", udf.Int(3), udf.TypeInt, udf.Int(3)},
		{"null keeps null", udf.Null(udf.TypeString), udf.TypeInt, udf.Null(udf.TypeInt)},
		{"text to int", udf.TextString("1"), udf.TypeInt, udf.Int(1)},
		{"text prefix to int", udf.TextString(" 12abc"), udf.TypeInt, udf.Int(12)},
		{"garbage to int", udf.TextString("abc"), udf.TypeInt, udf.Int(0)},
		{"fraction text rounds", udf.TextString("2.5"), udf.TypeInt, udf.Int(3)},
		{"negative fraction rounds away", udf.TextString("-2.5"), udf.TypeInt, udf.Int(-3)},
		{"exponent text", udf.TextString("1e3"), udf.TypeInt, udf.Int(1000)},
		{"real to int", udf.Real(1.4), udf.TypeInt, udf.Int(1)},
		{"huge real saturates", udf.Real(1e300), udf.TypeInt, udf.Int(math.MaxInt64)},
		{"decimal to int", udf.Decimal("9.5"), udf.TypeInt, udf.Int(10)},
		{"int to text", udf.Int(-42), udf.TypeString, udf.TextString("-42")},
		{"real to text", udf.Real(0.5), udf.TypeString, udf.TextString("0.5")},
		{"decimal to text", udf.Decimal("1.10"), udf.TypeString, udf.TextString("1.10")},
		{"text to real", udf.TextString("3.25x"), udf.TypeReal, udf.Real(3.25)},
		{"int to real", udf.Int(2), udf.TypeReal, udf.Real(2)},
		{"decimal to real", udf.Decimal("0.125"), udf.TypeReal, udf.Real(0.125)},
		{"int to decimal", udf.Int(7), udf.TypeDecimal, udf.Decimal("7")},
		{"text to decimal", udf.TextString("1.5 apples"), udf.TypeDecimal, udf.Decimal("1.5")},
		{"nan to decimal", udf.Real(math.NaN()), udf.TypeDecimal, udf.Decimal("0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.in, tt.to)
			if !got.Equal(tt.want) {
				t.Errorf("Coerce(%v, %v) = %v, want %v", tt.in, tt.to, got, tt.want)
			}
		})
	}
}

func TestNumericPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"-", ""},
		{".", ""},
		{"12", "12"},
		{"  -3.5e2xyz", "-3.5e2"},
		{"4.", "4"},
		{".5", ".5"},
		{"7e", "7"},
		{"+1e-2", "+1e-2"},
	}

	for _, tt := range tests {
		if got := numericPrefix(tt.in); got != tt.want {
			t.Errorf("numericPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
