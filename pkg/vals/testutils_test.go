package vals

import "src.fmap.dev/pkg/persistent/hashmap"

// makeMap creates a map from arguments that are alternately keys and values.
func makeMap(kv ...any) hashmap.Map {
	m := hashmap.New(Equal, Hash)
	for i := 0; i+1 < len(kv); i += 2 {
		m = m.Assoc(kv[i], kv[i+1])
	}
	return m
}
