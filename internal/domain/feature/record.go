// Package feature turns raw customer attributes into fixed-width numeric
// vectors: one-hot encoding followed by alignment against a frozen column schema.
package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Sentinel errors.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrEmptySchema     = errors.New("column schema is empty")
	ErrDuplicateColumn = errors.New("duplicate column in schema")
	ErrUnknownColumns  = errors.New("record has columns outside the schema")
)

// Kind is the dynamic type of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
)

// Value is one attribute value: text, integer or floating point.
// The zero Value is invalid.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) Text() string { return v.s }

// IsCategorical reports whether the value is expanded into indicator columns.
func (v Value) IsCategorical() bool { return v.kind == KindString }

// Float64 returns the numeric value. Categorical values return 0.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return "<invalid>"
	}
}

// Field is a named attribute.
type Field struct {
	Name  string
	Value Value
}

// RawRecord is an ordered, immutable set of customer attributes.
type RawRecord struct {
	fields []Field
}

// NewRawRecord validates names and values and keeps the given order.
func NewRawRecord(fields ...Field) (RawRecord, error) {
	seen := make(map[string]struct{}, len(fields))
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return RawRecord{}, fmt.Errorf("%w: empty field name", ErrMalformedRecord)
		}
		if _, dup := seen[f.Name]; dup {
			return RawRecord{}, fmt.Errorf("%w: field %q repeated", ErrMalformedRecord, f.Name)
		}
		if f.Value.kind == KindInvalid {
			return RawRecord{}, fmt.Errorf("%w: field %q has no value", ErrMalformedRecord, f.Name)
		}
		if f.Value.kind == KindFloat && (math.IsNaN(f.Value.f) || math.IsInf(f.Value.f, 0)) {
			return RawRecord{}, fmt.Errorf("%w: field %q is not finite", ErrMalformedRecord, f.Name)
		}
		seen[f.Name] = struct{}{}
		out = append(out, f)
	}
	return RawRecord{fields: out}, nil
}

// RecordFromMap converts decoded JSON-like input. Keys are taken in sorted
// order so the result does not depend on map iteration.
func RecordFromMap(m map[string]any) (RawRecord, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		v, err := valueOf(m[k])
		if err != nil {
			return RawRecord{}, fmt.Errorf("%w: field %q: %v", ErrMalformedRecord, k, err)
		}
		fields = append(fields, Field{Name: k, Value: v})
	}
	return NewRawRecord(fields...)
}

func valueOf(x any) (Value, error) {
	switch t := x.(type) {
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case nil:
		return Value{}, errors.New("null value")
	default:
		return Value{}, fmt.Errorf("unsupported type %T", x)
	}
}

// Len returns the number of fields.
func (r RawRecord) Len() int { return len(r.fields) }

// Fields returns a copy of the fields in record order.
func (r RawRecord) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Get looks a field up by name.
func (r RawRecord) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}
