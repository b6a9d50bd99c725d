package document

import (
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Value Kinds
// --------------------------------------------------------------------------

// Kind identifies which scalar a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota // 0: zero Value, never stored
	KindInt                 // 1: signed 64 bit integer
	KindFloat               // 2: 64 bit floating-point number
	KindText                // 3: UTF-8 string
)

// String returns the name of the kind as used by the cli and the http api
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "string"
	default:
		return "invalid"
	}
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "string":
		return KindText, nil
	default:
		return KindInvalid, fmt.Errorf("invalid value type %q (expected one of: int, float, string)", s)
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is a tagged union of the three scalar kinds a document can hold.
// The zero Value is invalid and is never written to a document.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Scalar is the closed set of Go types that can be turned into a Value.
type Scalar interface {
	int | int32 | int64 | float32 | float64 | string
}

// Int creates an integer Value
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// Float creates a floating-point Value
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Text creates a string Value
func Text(v string) Value {
	return Value{kind: KindText, s: v}
}

// ValueOf converts any Scalar to the matching Value.
func ValueOf[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case int:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float32:
		// go through the decimal representation so 3.14f stays 3.14
		f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(x), 'g', -1, 32), 64)
		return Float(f)
	case float64:
		return Float(x)
	case string:
		return Text(x)
	}
	return Value{}
}

// Kind returns the kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value holds one of the scalar kinds
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Int returns the integer payload. It is only meaningful for KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the floating-point payload. It is only meaningful for KindFloat.
func (v Value) Float() float64 { return v.f }

// Text returns the string payload. It is only meaningful for KindText.
func (v Value) Text() string { return v.s }

// Interface returns the payload as int64, float64 or string (nil for an invalid value)
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	default:
		return nil
	}
}

// String implements fmt.Stringer
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	default:
		return "<invalid>"
	}
}
