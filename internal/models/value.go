package models

import (
	"strconv"
	"strings"
	"time"
)

// Kind tags the declared type of a property value.
type Kind string

// Registered kinds. Anything else is carried verbatim and read back as a string.
const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindTime   Kind = "time"
)

// kindAliases maps accepted spellings onto registered kinds.
var kindAliases = map[string]Kind{
	"":        KindString,
	"string":  KindString,
	"text":    KindString,
	"int":     KindInt,
	"integer": KindInt,
	"long":    KindInt,
	"float":   KindFloat,
	"double":  KindFloat,
	"number":  KindFloat,
	"bool":    KindBool,
	"boolean": KindBool,
	"time":    KindTime,
	"date":    KindTime,
}

// Value is a closed tagged variant holding one coerced property value.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// coercer parses the stored string form of a value.
type coercer func(raw string) (Value, bool)

var coercers = map[Kind]coercer{
	KindString: func(raw string) (Value, bool) { return StringValue(raw), true },
	KindInt: func(raw string) (Value, bool) {
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, false
		}
		return IntValue(i), true
	},
	KindFloat: func(raw string) (Value, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, false
		}
		return FloatValue(f), true
	},
	KindBool: func(raw string) (Value, bool) {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, false
		}
		return BoolValue(b), true
	},
	KindTime: func(raw string) (Value, bool) {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
		if err != nil {
			return Value{}, false
		}
		return TimeValue(t), true
	},
}

// Coerce converts a stored string into a typed Value according to its declared type.
// Unknown types yield the raw string. Malformed input for a known type yields ok=false.
func Coerce(declaredType, raw string) (Value, bool) {
	kind, known := kindAliases[strings.ToLower(strings.TrimSpace(declaredType))]
	if !known {
		return StringValue(raw), true
	}

	return coercers[kind](raw)
}

// StringValue returns a string-tagged value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntValue returns an int-tagged value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a float-tagged value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue returns a bool-tagged value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// TimeValue returns a time-tagged value.
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind reports the tag of v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Int returns the integer payload and whether v is an int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload and whether v is a float.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean payload and whether v is a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the time payload and whether v is a time.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }

// Any returns the payload as an untyped Go value.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	default:
		return v.str
	}
}

// String encodes v in its stored string form.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.UTC().Format(time.RFC3339)
	default:
		return v.str
	}
}
