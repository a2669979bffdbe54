// Package frozen implements an immutable mapping type. A frozen.Map never
// changes after construction: it has value semantics, supports structural
// equality and hashing, and can therefore be used as a key in another Map.
// Since it is immutable, it is safe for concurrent use by multiple goroutines
// without synchronization.
package frozen

import (
	"fmt"
	"strings"

	"src.fmap.dev/pkg/persistent/hashmap"
	"src.fmap.dev/pkg/vals"
)

// Mapping is the read-only capability contract shared by Map and types that
// extend it by embedding. It deliberately exposes no mutating operations.
type Mapping interface {
	// Len returns the number of entries.
	Len() int
	// Index returns whether there is a value associated with the given key,
	// and that value or nil.
	Index(k any) (any, bool)
	// Iterator returns an iterator over the entries.
	Iterator() hashmap.Iterator
}

// MutableMapping is the interface of a general mutable map. Map implements it
// so that it can be passed to code written against mutable maps; every
// mutating method fails with ErrImmutable and leaves the map unchanged.
type MutableMapping interface {
	Mapping
	Set(k, v any) error
	Delete(k any) error
	Update(other Mapping) error
	Clear() error
	Pop(k any) (any, error)
}

// Map is an immutable mapping from keys to values. Keys are compared with
// vals.Equal and hashed with vals.Hash; keys must therefore be values whose
// hash is meaningful (scalars, strings, big numbers, or other Maps). Values
// may be of any type, including unhashable ones such as []any. The zero
// value of Map is an empty map, ready to use.
type Map struct {
	inner hashmap.Map
	hash  uint32
	// deep records whether every contained value is immutable, in which case
	// DeepClone may return the receiver.
	deep bool
}

var (
	_ Mapping        = Map{}
	_ MutableMapping = Map{}
	_ vals.Equaler   = Map{}
	_ vals.Hasher    = Map{}
	_ vals.Kinder    = Map{}
)

var emptyInner = hashmap.New(vals.Equal, vals.Hash)

// Empty is an empty Map.
var Empty = wrap(emptyInner)

// wrap makes a Map from an inner hashmap, precomputing the hash code and the
// immutability of the contained values. The hash code must agree with
// vals.HashMap so that a Map and its inner map hash the same.
func wrap(inner hashmap.Map) Map {
	deep := true
	for it := inner.Iterator(); it.HasElem() && deep; it.Next() {
		_, v := it.Elem()
		deep = immutable(v)
	}
	return Map{inner, vals.HashMap(inner), deep}
}

// New creates a Map from arguments that are alternately keys and values. It
// panics if the number of arguments is odd. If the same key is given more
// than once, the last value wins, matching the construction semantics of a
// native map literal.
func New(kv ...any) Map {
	if len(kv)%2 == 1 {
		panic("odd number of arguments to New")
	}
	inner := emptyInner
	for i := 0; i+1 < len(kv); i += 2 {
		inner = inner.Assoc(kv[i], kv[i+1])
	}
	return wrap(inner)
}

// Pair is a key-value pair.
type Pair struct {
	Key   any
	Value any
}

// FromPairs creates a Map from key-value pairs. If the same key appears more
// than once, the last value wins.
func FromPairs(pairs []Pair) Map {
	inner := emptyInner
	for _, p := range pairs {
		inner = inner.Assoc(p.Key, p.Value)
	}
	return wrap(inner)
}

// FromMap creates a Map holding a snapshot of a native Go map. Mutating the
// argument afterwards does not affect the returned Map.
func FromMap[K comparable, V any](m map[K]V) Map {
	inner := emptyInner
	for k, v := range m {
		inner = inner.Assoc(k, v)
	}
	return wrap(inner)
}

// FromKeys creates a Map with the given keys, each associated with v.
func FromKeys(keys []any, v any) Map {
	inner := emptyInner
	for _, k := range keys {
		inner = inner.Assoc(k, v)
	}
	return wrap(inner)
}

// rep returns the inner map, substituting a shared empty map for the zero
// value of Map.
func (m Map) rep() hashmap.Map {
	if m.inner == nil {
		return emptyInner
	}
	return m.inner
}

// Len returns the number of entries.
func (m Map) Len() int {
	return m.rep().Len()
}

// Index returns whether there is a value associated with the given key, and
// that value or nil.
func (m Map) Index(k any) (any, bool) {
	return m.rep().Index(k)
}

// Get returns the value associated with k, or def if there is none.
func (m Map) Get(k, def any) any {
	if v, ok := m.rep().Index(k); ok {
		return v
	}
	return def
}

// HasKey reports whether the map has the given key.
func (m Map) HasKey(k any) bool {
	return hashmap.HasKey(m.rep(), k)
}

// Keys returns the keys of the map.
func (m Map) Keys() []any {
	ks := make([]any, 0, m.Len())
	for it := m.rep().Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		ks = append(ks, k)
	}
	return ks
}

// Values returns the values of the map.
func (m Map) Values() []any {
	vs := make([]any, 0, m.Len())
	for it := m.rep().Iterator(); it.HasElem(); it.Next() {
		_, v := it.Elem()
		vs = append(vs, v)
	}
	return vs
}

// Iterator returns an iterator over the entries.
func (m Map) Iterator() hashmap.Iterator {
	return m.rep().Iterator()
}

// Each calls f for each key-value pair, stopping early if f returns false.
func (m Map) Each(f func(k, v any) bool) {
	for it := m.rep().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		if !f(k, v) {
			break
		}
	}
}

// Union returns a new Map containing the entries of both maps. When a key is
// present in both, the entry from other wins.
func (m Map) Union(other Mapping) Map {
	inner := m.rep()
	for it := other.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		inner = inner.Assoc(k, v)
	}
	return wrap(inner)
}

// Kind returns "map". Types extending Map define their own Kind, which is
// also what the codec uses to reconstruct them.
func (m Map) Kind() string {
	return "map"
}

// Equal returns whether other is also a mapping with pairwise equal entries,
// in any iteration order. Values of non-mapping types compare unequal, never
// an error.
func (m Map) Equal(other any) bool {
	switch other := other.(type) {
	case Map:
		return m.equalMapping(other)
	case Mapping:
		return m.equalMapping(other)
	default:
		return false
	}
}

func (m Map) equalMapping(other Mapping) bool {
	if m.Len() != other.Len() {
		return false
	}
	for it := m.rep().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		v2, ok := other.Index(k)
		if !ok || !vals.Equal(v, v2) {
			return false
		}
	}
	return true
}

// Hash returns the hash code of the map. It is precomputed at construction,
// does not depend on iteration order, and never fails, even when the map
// contains unhashable values (they hash to 0). Equal maps have equal hash
// codes.
func (m Map) Hash() uint32 {
	return m.hash
}

// String returns a representation of the map in the form [&k=v &k=v ...]; an
// empty map is [&]. The order of entries is unspecified.
func (m Map) String() string {
	if m.Len() == 0 {
		return "[&]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for it := m.rep().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "&%v=%v", k, v)
	}
	sb.WriteByte(']')
	return sb.String()
}
