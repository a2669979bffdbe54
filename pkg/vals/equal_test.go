package vals

import (
	"math/big"
	"testing"

	"src.fmap.dev/pkg/tt"
)

type equaler struct{ x int }

func (e equaler) Equal(other any) bool {
	o, ok := other.(equaler)
	return ok && e.x == o.x
}

func TestEqual(t *testing.T) {
	tt.Test(t, Equal,
		tt.Args(nil, nil).Rets(true),
		tt.Args(nil, "").Rets(false),
		tt.Args(true, true).Rets(true),
		tt.Args(true, false).Rets(false),
		tt.Args(1, 1).Rets(true),
		tt.Args(1, 2).Rets(false),
		// Equality is strict about types; 1 and 1.0 are distinct values.
		tt.Args(1, 1.0).Rets(false),
		tt.Args(1.0, 1.0).Rets(true),
		tt.Args(big.NewInt(3), big.NewInt(3)).Rets(true),
		tt.Args(big.NewInt(3), big.NewInt(4)).Rets(false),
		tt.Args(big.NewRat(1, 2), big.NewRat(2, 4)).Rets(true),
		tt.Args("lorem", "lorem").Rets(true),
		tt.Args("lorem", "ipsum").Rets(false),
		tt.Args(equaler{7}, equaler{7}).Rets(true),
		tt.Args(equaler{7}, equaler{8}).Rets(false),

		tt.Args([]any{"foo", "bar"}, []any{"foo", "bar"}).Rets(true),
		tt.Args([]any{"foo", "bar"}, []any{"bar", "foo"}).Rets(false),
		tt.Args([]any{"foo"}, []any{"foo", "bar"}).Rets(false),
		tt.Args([]any{}, "foo").Rets(false),

		tt.Args(makeMap("k", "v"), makeMap("k", "v")).Rets(true),
		tt.Args(makeMap("k", "v"), makeMap("k", "u")).Rets(false),
		tt.Args(makeMap("k", "v"), makeMap("j", "v")).Rets(false),
		tt.Args(makeMap("k", "v"), makeMap("k", "v", "j", "u")).Rets(false),
		tt.Args(makeMap("k", "v"), "k").Rets(false),
	)
}

func TestEqual_MapsBuiltInDifferentOrders(t *testing.T) {
	m1 := makeMap("k1", "v1", "k2", "v2")
	m2 := makeMap("k2", "v2", "k1", "v1")
	if !Equal(m1, m2) {
		t.Errorf("Equal(%v, %v) = false, want true", m1, m2)
	}
}
