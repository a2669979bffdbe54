package frozen

import "math/big"

// Cloner wraps the CloneValue method. Values implementing it control how they
// are copied by DeepClone.
type Cloner interface {
	// CloneValue returns a deep copy of the receiver.
	CloneValue() any
}

// Clone returns the receiver. A Map never changes, so a shallow copy is the
// receiver itself.
func (m Map) Clone() Map {
	return m
}

// DeepClone returns the receiver when every contained value is immutable;
// since nothing reachable from such a map can change, identity is safe to
// keep. Otherwise it returns a new Map holding deep copies of the values:
// mutable containers ([]any, native Go maps) are always copied, values
// implementing Cloner copy themselves, and anything else is shared as-is.
func (m Map) DeepClone() Map {
	if m.deep || m.Len() == 0 {
		return m
	}
	inner := emptyInner
	for it := m.rep().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		inner = inner.Assoc(k, cloneValue(v))
	}
	return wrap(inner)
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case []any:
		vv := make([]any, len(v))
		for i, e := range v {
			vv[i] = cloneValue(e)
		}
		return vv
	case map[string]any:
		vv := make(map[string]any, len(v))
		for k, e := range v {
			vv[k] = cloneValue(e)
		}
		return vv
	case map[any]any:
		vv := make(map[any]any, len(v))
		for k, e := range v {
			vv[k] = cloneValue(e)
		}
		return vv
	case Map:
		return v.DeepClone()
	case Cloner:
		return v.CloneValue()
	default:
		return v
	}
}

// immutable reports whether a value can never change: scalars, strings, big
// numbers, and Maps all of whose values are immutable. Keys are not checked;
// they are hashable by contract and therefore immutable.
func immutable(v any) bool {
	switch v := v.(type) {
	case nil, bool, int, float64, string, *big.Int, *big.Rat:
		return true
	case Map:
		return v.deep || v.Len() == 0
	default:
		return false
	}
}
