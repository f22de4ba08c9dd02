package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

// Value kinds. The set is closed: adapters coerce every driver value into
// one of these before it enters a snapshot, so downstream code can switch
// exhaustively.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindRaw
)

// Value is a single cell of a query result. The zero value is null.
// Values are immutable; constructors are the only way to build one.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewInt returns an integer value.
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }

// NewFloat returns a floating point value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: KindString, s: s} }

// NewRaw returns a value holding driver bytes that fit no scalar kind.
func NewRaw(p []byte) Value { return Value{kind: KindRaw, s: string(p)} }

// Kind reports which member of the union is set.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean member. False for any other kind.
func (v Value) Bool() bool { return v.b }

// Int returns the integer member. Zero for any other kind.
func (v Value) Int() int64 { return v.i }

// Float returns the float member. Zero for any other kind.
func (v Value) Float() float64 { return v.f }

// Raw returns the raw bytes member. Nil for any other kind.
func (v Value) Raw() []byte {
	if v.kind != KindRaw {
		return nil
	}
	return []byte(v.s)
}

// Text returns the string rendition of the value: the form filters match
// against and exports write. Null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Compare defines the total order used for sorting: null sorts below every
// non-null value, the numeric kinds (bool, int, float) compare as one
// numeric class with false=0 and true=1, and everything else compares by
// Text, byte-wise and case-sensitively.
func (v Value) Compare(o Value) int {
	vn, on := v.IsNull(), o.IsNull()
	switch {
	case vn && on:
		return 0
	case vn:
		return -1
	case on:
		return 1
	}
	if v.isNumeric() && o.isNumeric() {
		if v.kind == KindInt && o.kind == KindInt {
			return cmpOrdered(v.i, o.i)
		}
		return cmpOrdered(v.numeric(), o.numeric())
	}
	return strings.Compare(v.Text(), o.Text())
}

// MarshalJSON emits the raw value: null, true/false, a number, or a JSON
// string. Raw bytes that already form valid JSON pass through untouched;
// non-finite floats degrade to null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindRaw:
		if json.Valid([]byte(v.s)) {
			return []byte(v.s), nil
		}
		return json.Marshal(v.s)
	default:
		return json.Marshal(v.s)
	}
}

func (v Value) isNumeric() bool {
	return v.kind == KindBool || v.kind == KindInt || v.kind == KindFloat
}

func (v Value) numeric() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.i)
	default:
		return v.f
	}
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
