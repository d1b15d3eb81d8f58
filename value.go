package schematools

import (
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Value is a node of a JSON-like document tree. The set of implementations is
// closed: *Object, Array, String, Number, Bool and Null.
type Value interface {
	isValue()
}

// Object is an ordered mapping with unique string keys. Insertion order is
// preserved by every operation, including replacement of an existing key.
type Object struct {
	fields *sequencedmap.Map[string, Value]
}

// Array is an ordered sequence of values.
type Array []Value

// String is a JSON string.
type String string

// Number holds the literal text of a JSON number. It is never re-formatted,
// so numbers survive a decode/encode cycle byte for byte.
type Number string

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null value.
type Null struct{}

func (*Object) isValue() {}
func (Array) isValue()   {}
func (String) isValue()  {}
func (Number) isValue()  {}
func (Bool) isValue()    {}
func (Null) isValue()    {}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: sequencedmap.New[string, Value]()}
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil || o.fields == nil {
		return 0
	}
	return o.fields.Len()
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.fields == nil {
		return nil, false
	}
	return o.fields.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position and has its value replaced.
func (o *Object) Set(key string, v Value) {
	if o.fields == nil {
		o.fields = sequencedmap.New[string, Value]()
	}
	o.fields.Set(key, v)
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if o == nil || o.fields == nil {
		return
	}
	o.fields.Delete(key)
}

// All iterates over the fields in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil || o.fields == nil {
			return
		}
		for k, v := range o.fields.All() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for k := range o.All() {
		keys = append(keys, k)
	}
	return keys
}

// AsObject returns v as an object when it is one.
func AsObject(v Value) (*Object, bool) {
	obj, ok := v.(*Object)
	return obj, ok && obj != nil
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return x
		}
		out := NewObject()
		for k, child := range x.All() {
			out.Set(k, Clone(child))
		}
		return out
	case Array:
		if x == nil {
			return x
		}
		out := make(Array, len(x))
		for i, child := range x {
			out[i] = Clone(child)
		}
		return out
	default:
		// scalars are immutable
		return v
	}
}

// Equal reports whether a and b are structurally identical, including the
// key order of every object.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		xk, yk := x.Keys(), y.Keys()
		for i, k := range xk {
			if yk[i] != k {
				return false
			}
			xv, _ := x.Get(k)
			yv, _ := y.Get(k)
			if !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Null:
		_, ok := b.(Null)
		return ok
	default:
		return a == nil && b == nil
	}
}
