package vals

import (
	"math/big"

	"src.fmap.dev/pkg/persistent/hash"
	"src.fmap.dev/pkg/persistent/hashmap"
)

// Hasher wraps the Hash method.
type Hasher interface {
	// Hash computes the hash code of the receiver.
	Hash() uint32
}

// Hash returns the 32-bit hash of a value. It is implemented for the builtin
// types bool, int, float64 and string, big numbers, []any lists, hashmap.Map,
// and types satisfying the Hasher interface. For other values, it returns 0
// (which is OK in terms of correctness).
func Hash(v any) uint32 {
	switch v := v.(type) {
	case bool:
		return hash.Bool(v)
	case int:
		return hash.UIntPtr(uintptr(v))
	case *big.Int:
		h := hash.DJBCombine(hash.DJBInit, uint32(v.Sign()))
		for _, word := range v.Bits() {
			h = hash.DJBCombine(h, hash.UIntPtr(uintptr(word)))
		}
		return h
	case *big.Rat:
		return hash.DJB(Hash(v.Num()), Hash(v.Denom()))
	case float64:
		return hash.Float64(v)
	case string:
		return hash.String(v)
	case Hasher:
		return v.Hash()
	case []any:
		h := hash.DJBInit
		for _, e := range v {
			h = hash.DJBCombine(h, Hash(e))
		}
		return h
	case hashmap.Map:
		return HashMap(v)
	default:
		return 0
	}
}

// HashMap returns the hash of a hashmap.Map, computed over its entries in a
// way that does not depend on iteration order.
func HashMap(m hashmap.Map) uint32 {
	// The iteration order of maps only depends on the hash of the keys. It is
	// almost deterministic, with only one exception: when two keys have the
	// same hash, they get produced in insertion order. As a result, it is
	// possible for two maps that should be considered equal to produce
	// entries in different orders.
	//
	// So instead of using hash.DJBCombine, combine the hash result from each
	// key-value pair by summing, so that the order doesn't matter.
	var h uint32
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		h += hash.DJB(Hash(k), Hash(v))
	}
	return h
}
