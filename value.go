package anchor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the scalar type carried by a Value.
type Kind uint8

const (
	// KindString is the zero kind so an unset Value encodes as "".
	KindString Kind = iota
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a scalar anchor value: a string, a number or a boolean flag.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Int returns a numeric Value for n.
func Int(n int) Value {
	return Number(float64(n))
}

// Bool returns a boolean Value. A false flag is omitted when encoded.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Flag is shorthand for Bool(true).
func Flag() Value {
	return Bool(true)
}

// Kind reports the tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsTrue reports whether v is a boolean true flag.
func (v Value) IsTrue() bool {
	return v.kind == KindBool && v.flag
}

// Text returns the raw string payload for string values and "" otherwise.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String stringifies v. This is the form used for schema value lookups and
// for the wire value of strings and numbers.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindNumber:
		return formatNumber(v.num)
	default:
		return v.str
	}
}

// Interface returns v as a plain Go value (string, float64 or bool).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindNumber:
		return v.num
	default:
		return v.str
	}
}

// Equal reports whether v and other carry the same tag and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.flag == other.flag
	case KindNumber:
		return v.num == other.num
	default:
		return v.str == other.str
	}
}

// ValueOf converts a plain Go scalar into a Value. nil maps to the zero
// Value. Unsupported types report false.
func ValueOf(raw any) (Value, bool) {
	switch typed := raw.(type) {
	case nil:
		return Value{}, true
	case Value:
		return typed, true
	case string:
		return String(typed), true
	case bool:
		return Bool(typed), true
	case int:
		return Number(float64(typed)), true
	case int8:
		return Number(float64(typed)), true
	case int16:
		return Number(float64(typed)), true
	case int32:
		return Number(float64(typed)), true
	case int64:
		return Number(float64(typed)), true
	case uint:
		return Number(float64(typed)), true
	case uint8:
		return Number(float64(typed)), true
	case uint16:
		return Number(float64(typed)), true
	case uint32:
		return Number(float64(typed)), true
	case uint64:
		return Number(float64(typed)), true
	case float32:
		return Number(float64(typed)), true
	case float64:
		return Number(typed), true
	case fmt.Stringer:
		return String(typed.String()), true
	default:
		return Value{}, false
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	abs := math.Abs(n)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return trimExponent(strconv.FormatFloat(n, 'g', -1, 64))
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// trimExponent drops the zero padding Go puts on exponents: 1e-07 becomes
// 1e-7.
func trimExponent(s string) string {
	mantissa, exponent, ok := strings.Cut(s, "e")
	if !ok || len(exponent) < 2 {
		return s
	}
	sign, digits := exponent[:1], strings.TrimLeft(exponent[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
