// Package value implements the tagged-union Value model and the nested
// Value tree queried by the expression evaluator.
package value

import (
	"math"

	"github.com/brindlewood/actcore/core/redact"
)

// Value is the tagged union of everything the expression language can
// produce or consume. Concrete kinds are Null, Bool, Float, String, Array,
// and Mapping; isValue is unexported so no other package can add a kind.
type Value interface {
	isValue()
}

// Null is the absence of a value.
type Null struct{}

func (Null) isValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) isValue() {}

// Float is a floating point number. NaN is a first-class value produced by
// failed numeric coercion, not an error.
type Float float64

func (Float) isValue() {}

// IsNaN reports whether f is the CI-semantics "not a number" value.
func (f Float) IsNaN() bool { return math.IsNaN(float64(f)) }

// NaNValue is the canonical NaN Float.
var NaNValue = Float(math.NaN())

// String wraps a redacted string so secrets flow through the value model
// without an auxiliary out-of-band tracking structure.
type String struct {
	Redacted *redact.String
}

func (String) isValue() {}

// NewString builds a plain (non-secret) String value.
func NewString(s string) String {
	r := redact.New()
	r.Push(s)
	return String{Redacted: r}
}

// Array is an ordered list of values.
type Array []Value

func (Array) isValue() {}

// Mapping is an ordered key -> Value store. Insertion order is preserved;
// re-inserting an existing key updates the value in place without moving
// its position.
type Mapping struct {
	keys   []string
	values map[string]Value
}

func (*Mapping) isValue() {}

// NewMapping returns an empty ordered mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Set inserts or updates a key, preserving first-insertion order.
func (m *Mapping) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value at key and whether it was present.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// Clone returns a deep-enough copy: a new Mapping with the same key order,
// sharing leaf Values (Values are treated as immutable once constructed).
func (m *Mapping) Clone() *Mapping {
	clone := NewMapping()
	for _, k := range m.keys {
		v := m.values[k]
		if nested, ok := v.(*Mapping); ok {
			v = nested.Clone()
		}
		clone.Set(k, v)
	}
	return clone
}

// Truthy implements the CI truthiness table from the expression evaluator.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(t)
	case Float:
		if t.IsNaN() {
			return false
		}
		return float64(t) != 0
	case String:
		return t.Redacted.Len() > 0
	case Array:
		return len(t) > 0
	case *Mapping:
		return true
	default:
		return false
	}
}
