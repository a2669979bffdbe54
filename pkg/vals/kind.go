package vals

import (
	"fmt"
	"math/big"

	"src.fmap.dev/pkg/persistent/hashmap"
)

// Kinder wraps the Kind method.
type Kinder interface {
	Kind() string
}

// Kind returns the "kind" of the value, a concept similar to type but not
// tied to concrete Go types. It is implemented for the builtin nil, bool and
// string, numbers, []any lists, hashmap.Map, and types satisfying the Kinder
// interface. For other types, it returns the Go type name of the argument
// preceded by "!!".
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int, float64, *big.Int, *big.Rat:
		return "number"
	case string:
		return "string"
	case []any:
		return "list"
	case hashmap.Map:
		return "map"
	case Kinder:
		return v.Kind()
	default:
		return fmt.Sprintf("!!%T", v)
	}
}
