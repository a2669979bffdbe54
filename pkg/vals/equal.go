package vals

import (
	"math/big"
	"reflect"

	"src.fmap.dev/pkg/persistent/hashmap"
)

// Equaler wraps the Equal method.
type Equaler interface {
	// Equal compares the receiver to another value. Two equal values must
	// have the same hash code.
	Equal(other any) bool
}

// Equal returns whether two values are equal. It is implemented for the
// builtin types bool, int, float64 and string, big numbers, []any lists,
// hashmap.Map, and types satisfying the Equaler interface. For other types,
// it uses reflect.DeepEqual to compare the two values.
func Equal(x, y any) bool {
	switch x := x.(type) {
	case nil:
		return y == nil
	case bool:
		return x == y
	case int:
		return x == y
	case float64:
		return x == y
	case *big.Int:
		if y, ok := y.(*big.Int); ok {
			return x.Cmp(y) == 0
		}
		return false
	case *big.Rat:
		if y, ok := y.(*big.Rat); ok {
			return x.Cmp(y) == 0
		}
		return false
	case string:
		return x == y
	case Equaler:
		return x.Equal(y)
	case []any:
		if y, ok := y.([]any); ok {
			return equalList(x, y)
		}
		return false
	case hashmap.Map:
		if y, ok := y.(hashmap.Map); ok {
			return equalMap(x, y)
		}
		return false
	default:
		return reflect.DeepEqual(x, y)
	}
}

func equalList(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}

func equalMap(x, y hashmap.Map) bool {
	if x.Len() != y.Len() {
		return false
	}
	for it := x.Iterator(); it.HasElem(); it.Next() {
		k, vx := it.Elem()
		vy, ok := y.Index(k)
		if !ok || !Equal(vx, vy) {
			return false
		}
	}
	return true
}
