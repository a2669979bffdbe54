package codec

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.fmap.dev/pkg/frozen"
	"src.fmap.dev/pkg/must"
)

// config extends frozen.Map; its kind tag makes it round-trip to config
// rather than to the base Map.
type config struct{ frozen.Map }

func (c config) Kind() string { return "config" }

func init() {
	Register("config", func(m frozen.Map) frozen.Mapping { return config{m} })
}

var equalMaps = cmp.Comparer(func(a, b frozen.Map) bool { return a.Equal(b) })

func TestRoundTrip(t *testing.T) {
	m := frozen.New(
		"name", "alpha",
		"count", 3,
		"ratio", 0.5,
		"on", true,
		"none", nil,
		"flags", []any{1, "x", []any{2}},
		"nested", frozen.New("k", "v"),
	)
	got := must.OK1(Unmarshal(must.OK1(Marshal(m))))
	gm, ok := got.(frozen.Map)
	if !ok {
		t.Fatalf("Unmarshal -> %T, want frozen.Map", got)
	}
	if diff := cmp.Diff(m, gm, equalMaps); diff != "" {
		t.Errorf("round trip diff (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_EmptyMap(t *testing.T) {
	got := must.OK1(Unmarshal(must.OK1(Marshal(frozen.Empty))))
	if !got.(frozen.Map).Equal(frozen.Empty) {
		t.Errorf("round trip of empty map = %v", got)
	}
}

func TestRoundTrip_MapKeys(t *testing.T) {
	key := frozen.New("k", "v")
	m := frozen.New(key, "x")
	got := must.OK1(Unmarshal(must.OK1(Marshal(m)))).(frozen.Map)
	if v, ok := got.Index(frozen.New("k", "v")); !ok || v != "x" {
		t.Errorf("Index(map key) after round trip = %v, %v, want x, true", v, ok)
	}
}

func TestRoundTrip_Extension(t *testing.T) {
	c := config{frozen.New("host", "localhost", "port", 8080)}
	data := must.OK1(Marshal(c))
	if !strings.Contains(string(data), "kind: config") {
		t.Errorf("Marshal of config lacks its kind tag:\n%s", data)
	}

	got := must.OK1(Unmarshal(data))
	gc, ok := got.(config)
	if !ok {
		t.Fatalf("Unmarshal -> %T, want config", got)
	}
	if !gc.Equal(c) {
		t.Errorf("round trip = %v, want %v", gc, c)
	}
}

func TestRoundTrip_NestedExtension(t *testing.T) {
	m := frozen.New("cfg", config{frozen.New("a", 1)})
	got := must.OK1(Unmarshal(must.OK1(Marshal(m)))).(frozen.Map)
	v, _ := got.Index("cfg")
	if _, ok := v.(config); !ok {
		t.Errorf("nested extension decoded as %T, want config", v)
	}
}

func TestUnmarshal_UnknownKind(t *testing.T) {
	_, err := Unmarshal([]byte("kind: bogus\nentries: []\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Errorf("Unmarshal with unknown kind -> %v, want unknown kind error", err)
	}
}

func TestUnmarshal_Garbage(t *testing.T) {
	if _, err := Unmarshal([]byte("]not yaml[")); err == nil {
		t.Errorf("Unmarshal of garbage -> no error")
	}
}

func TestMarshal_UnsupportedValue(t *testing.T) {
	if _, err := Marshal(frozen.New("ch", make(chan int))); err == nil {
		t.Errorf("Marshal with channel value -> no error")
	}
}

func TestRegister_DuplicateKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("duplicate Register did not panic")
		}
	}()
	Register("config", func(m frozen.Map) frozen.Mapping { return config{m} })
}
