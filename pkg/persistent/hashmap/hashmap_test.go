package hashmap

import (
	"math/rand"
	"strconv"
	"testing"

	"src.fmap.dev/pkg/persistent/hash"
)

const (
	nSequential = 0x1000
	nCollision  = 0x100
	nRandom     = 0x400
	nReplace    = 0x200

	nIneffectiveDissoc = 0x200
)

type testKey uint64

func testEqualFunc(k1, k2 any) bool {
	return k1 == k2
}

func testHashFunc(k any) uint32 {
	switch k := k.(type) {
	case uint32:
		return k
	case string:
		return hash.String(k)
	case testKey:
		// Return the lower 32 bits for testKey. This is intended so that hash
		// collisions can be easily constructed.
		return uint32(k & 0xffffffff)
	default:
		return 0
	}
}

var empty = New(testEqualFunc, testHashFunc)

type refEntry struct {
	k testKey
	v string
}

func hex(i uint64) string {
	return "0x" + strconv.FormatUint(i, 16)
}

func TestHashMap(t *testing.T) {
	var refEntries []refEntry
	add := func(k testKey, v string) {
		refEntries = append(refEntries, refEntry{k, v})
	}

	for i := 0; i < nSequential; i++ {
		add(testKey(i), hex(uint64(i)))
	}
	for i := 0; i < nCollision; i++ {
		add(testKey(uint64(i+1)<<32), "collision "+hex(uint64(i)))
	}
	for i := 0; i < nRandom; i++ {
		k := uint64(rand.Int63())>>31 | uint64(rand.Int63())<<32
		add(testKey(k), "random "+hex(k))
	}
	for i := 0; i < nReplace; i++ {
		k := uint64(rand.Int31n(nSequential))
		add(testKey(k), "replace "+hex(k))
	}

	testHashMapWithRefEntries(t, refEntries)
}

// testHashMapWithRefEntries tests the operations of a Map. It uses the
// supplied list of entries to build the map, and then tests all its
// operations.
func testHashMapWithRefEntries(t *testing.T, refEntries []refEntry) {
	m := empty
	// Len of empty should be 0.
	if m.Len() != 0 {
		t.Errorf("m.Len = %d, want %d", m.Len(), 0)
	}

	// Assoc and Len, test by building a map simultaneously.
	ref := make(map[testKey]string, len(refEntries))
	for _, e := range refEntries {
		ref[e.k] = e.v
		m = m.Assoc(e.k, e.v)
		if m.Len() != len(ref) {
			t.Errorf("m.Len = %d, want %d", m.Len(), len(ref))
		}
	}

	// Index.
	testMapContent(t, m, ref)
	in, ok := m.Index(testKey(0xdeadbeef_00000000))
	if in != nil || ok {
		t.Errorf("m.Index <absent key> returns %v, %v", in, ok)
	}

	// Iterator.
	gotEntries := make(map[testKey]string, m.Len())
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		gotEntries[k.(testKey)] = v.(string)
	}
	if len(gotEntries) != len(ref) {
		t.Errorf("iterator yields %d entries, want %d", len(gotEntries), len(ref))
	}
	for k, v := range ref {
		if gotEntries[k] != v {
			t.Errorf("iterator yields entry %v: %v, want %v", k, gotEntries[k], v)
		}
	}

	// Dissoc on absent keys should be ineffective.
	for i := 0; i < nIneffectiveDissoc; i++ {
		k := testKey(uint64(rand.Int63())>>31 | uint64(rand.Int63())<<32)
		if _, present := ref[k]; present {
			continue
		}
		m2 := m.Dissoc(k)
		if m2.Len() != len(ref) {
			t.Errorf("m.Dissoc <absent key> changes len to %d", m2.Len())
		}
	}

	// Dissoc all keys, one by one.
	for k := range ref {
		delete(ref, k)
		m = m.Dissoc(k)
		if m.Len() != len(ref) {
			t.Errorf("m.Len = %d after Dissoc, want %d", m.Len(), len(ref))
		}
		if _, ok := m.Index(k); ok {
			t.Errorf("m.Index(%v) ok after Dissoc, want !ok", k)
		}
	}
	if m.Len() != 0 {
		t.Errorf("m.Len = %d after Dissoc'ing all keys, want 0", m.Len())
	}
}

func testMapContent(t *testing.T, m Map, ref map[testKey]string) {
	t.Helper()
	for k, v := range ref {
		got, ok := m.Index(k)
		if !ok || got != v {
			t.Errorf("m.Index(%v) = %v, %v, want %v, true", k, got, ok, v)
		}
	}
}

func TestAssocPersists(t *testing.T) {
	m1 := empty.Assoc(testKey(1), "a")
	m2 := m1.Assoc(testKey(1), "b").Assoc(testKey(2), "c")
	if v, _ := m1.Index(testKey(1)); v != "a" {
		t.Errorf("m1[1] = %v after deriving m2, want a", v)
	}
	if m1.Len() != 1 || m2.Len() != 2 {
		t.Errorf("m1.Len, m2.Len = %d, %d, want 1, 2", m1.Len(), m2.Len())
	}
}

var marshalJSONTests = []struct {
	in      Map
	wantOut string
	wantErr bool
}{
	{makeHashMap(), `{}`, false},
	{makeHashMap(uint32(1), "a", "2", "b"), `{"1":"a","2":"b"}`, false},
	// Invalid key type
	{makeHashMap([]any{}, "x"), "", true},
}

func TestMarshalJSON(t *testing.T) {
	for i, test := range marshalJSONTests {
		out, err := test.in.MarshalJSON()
		if string(out) != test.wantOut {
			t.Errorf("m%d.MarshalJSON -> out %s, want %s", i, out, test.wantOut)
		}
		if (err != nil) != test.wantErr {
			var wantErr string
			if test.wantErr {
				wantErr = "non-nil"
			} else {
				wantErr = "nil"
			}
			t.Errorf("m%d.MarshalJSON -> err %v, want %s", i, err, wantErr)
		}
	}
}

func makeHashMap(data ...any) Map {
	m := empty
	for i := 0; i+1 < len(data); i += 2 {
		k, v := data[i], data[i+1]
		m = m.Assoc(k, v)
	}
	return m
}
