// Package codec serializes frozen maps. The wire form is a YAML envelope
// carrying a kind tag and the entries of the map; decoding dispatches on the
// kind tag, so a type that extends frozen.Map round-trips to its own type
// rather than to the base Map.
//
// Keys are encoded as YAML values instead of YAML mapping keys, so every key
// type a frozen map supports (including other frozen maps) round-trips.
package codec

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"src.fmap.dev/pkg/frozen"
	"src.fmap.dev/pkg/vals"
)

// envelope is the wire form of a map.
type envelope struct {
	Kind    string  `yaml:"kind"`
	Entries []entry `yaml:"entries"`
}

type entry struct {
	Key   any `yaml:"key"`
	Value any `yaml:"value"`
}

// Rebuild turns a decoded base map into the concrete type registered for a
// kind.
type Rebuild func(frozen.Map) frozen.Mapping

var registry = map[string]Rebuild{
	"map": func(m frozen.Map) frozen.Mapping { return m },
}

// Register associates a kind tag with a rebuild function. Types extending
// frozen.Map must register their kind so that Unmarshal reconstructs them
// instead of the base Map. Register panics if the kind is already taken.
func Register(kind string, rebuild Rebuild) {
	if _, dup := registry[kind]; dup {
		panic("codec: Register called twice for kind " + kind)
	}
	registry[kind] = rebuild
}

// Marshal encodes a map. The dynamic type of m is recorded via its Kind
// method, so Unmarshal can reconstruct it. Values must be nil, bool, int,
// float64, string, []any lists or mappings; anything else yields an error.
func Marshal(m frozen.Mapping) ([]byte, error) {
	env, err := encodeMapping(m)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(env)
}

// Unmarshal decodes data previously produced by Marshal. The dynamic type of
// the returned value is the one registered for the envelope's kind tag.
func Unmarshal(data []byte) (frozen.Mapping, error) {
	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("codec: decode envelope: %w", err)
	}
	return decodeEnvelope(&env)
}

func encodeMapping(m frozen.Mapping) (*envelope, error) {
	env := &envelope{Kind: kindOf(m)}
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		ek, err := encodeValue(k)
		if err != nil {
			return nil, err
		}
		ev, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		env.Entries = append(env.Entries, entry{ek, ev})
	}
	return env, nil
}

func kindOf(m frozen.Mapping) string {
	if k, ok := m.(vals.Kinder); ok {
		return k.Kind()
	}
	return "map"
}

func encodeValue(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, int, float64, string:
		return v, nil
	case []any:
		es := make([]any, len(v))
		for i, e := range v {
			ee, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			es[i] = ee
		}
		return es, nil
	case frozen.Mapping:
		return encodeMapping(v)
	default:
		return nil, fmt.Errorf("codec: cannot encode value of type %T", v)
	}
}

func decodeEnvelope(env *envelope) (frozen.Mapping, error) {
	rebuild, ok := registry[env.Kind]
	if !ok {
		return nil, fmt.Errorf("codec: unknown kind %q", env.Kind)
	}
	pairs := make([]frozen.Pair, 0, len(env.Entries))
	for _, e := range env.Entries {
		k, err := decodeValue(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(e.Value)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frozen.Pair{Key: k, Value: v})
	}
	return rebuild(frozen.FromPairs(pairs)), nil
}

func decodeValue(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		// A mapping in value position is always a nested envelope.
		env, err := reshapeEnvelope(v)
		if err != nil {
			return nil, err
		}
		return decodeEnvelope(env)
	case []any:
		es := make([]any, len(v))
		for i, e := range v {
			ee, err := decodeValue(e)
			if err != nil {
				return nil, err
			}
			es[i] = ee
		}
		return es, nil
	default:
		return v, nil
	}
}

// reshapeEnvelope converts the untyped mapping the YAML decoder produces for
// a nested envelope back into an envelope.
func reshapeEnvelope(m map[string]any) (*envelope, error) {
	kind, ok := m["kind"].(string)
	if !ok {
		return nil, errors.New("codec: mapping value without kind tag")
	}
	env := &envelope{Kind: kind}
	entries, _ := m["entries"].([]any)
	for _, raw := range entries {
		em, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.New("codec: malformed entry")
		}
		env.Entries = append(env.Entries, entry{em["key"], em["value"]})
	}
	return env, nil
}
