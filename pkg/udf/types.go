package udf

import (
	"fmt"
	"strings"
)

// SQLType is the engine's argument/result type tag. The numeric values match
// the server's Item_result enum so the C glue can cast directly.
type SQLType int32

const (
	TypeString  SQLType = 0
	TypeReal    SQLType = 1
	TypeInt     SQLType = 2
	TypeDecimal SQLType = 4
)

// Unused by functions but part of Item_result; kept so unknown tags coming
// from the engine are recognisable in logs.
const (
	typeInvalid SQLType = -1
	typeRow     SQLType = 3
)

func (t SQLType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeReal:
		return "real"
	case TypeInt:
		return "int"
	case TypeDecimal:
		return "decimal"
	case typeRow:
		return "row"
	case typeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("SQLType(%d)", int32(t))
	}
}

// Valid reports whether t is one of the four value variants.
func (t SQLType) Valid() bool {
	switch t {
	case TypeString, TypeReal, TypeInt, TypeDecimal:
		return true
	}
	return false
}

// ReturnsKeyword is the keyword used in CREATE FUNCTION ... RETURNS.
func (t SQLType) ReturnsKeyword() string {
	switch t {
	case TypeString:
		return "STRING"
	case TypeReal:
		return "REAL"
	case TypeInt:
		return "INTEGER"
	case TypeDecimal:
		return "DECIMAL"
	default:
		return ""
	}
}

// ParseSQLType parses a type name as written in SQL or in logs.
func ParseSQLType(s string) (SQLType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "text":
		return TypeString, nil
	case "real", "double":
		return TypeReal, nil
	case "int", "integer":
		return TypeInt, nil
	case "decimal":
		return TypeDecimal, nil
	default:
		return typeInvalid, fmt.Errorf("unknown SQL type %q", s)
	}
}
