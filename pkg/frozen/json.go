package frozen

import "encoding/json"

// MarshalJSON marshals the map as a JSON object. Keys must be strings,
// numbers or bools; other key types yield an error.
func (m Map) MarshalJSON() ([]byte, error) {
	return m.rep().MarshalJSON()
}

// UnmarshalJSON builds the map from a JSON object. Objects nested in values
// become Maps and arrays become []any lists, so that the result works with
// Equal and Hash. Numbers follow JSON conventions and decode as float64. For
// an encoding that round-trips keys of any type and extension types, use the
// codec package.
func (m *Map) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	inner := emptyInner
	for k, v := range obj {
		inner = inner.Assoc(k, fromJSON(v))
	}
	*m = wrap(inner)
	return nil
}

func fromJSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		inner := emptyInner
		for k, e := range v {
			inner = inner.Assoc(k, fromJSON(e))
		}
		return wrap(inner)
	case []any:
		for i, e := range v {
			v[i] = fromJSON(e)
		}
		return v
	default:
		return v
	}
}
