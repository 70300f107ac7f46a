package hybrid

import (
	"context"
	"testing"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/dispatch"
)

func sumV2(t *testing.T, cat *catalog.Catalog, c int) uint64 {
	t.Helper()
	disp := dispatch.NewV2(cat, c)
	var sum uint64
	for chunk := uint64(0); chunk < disp.NumChunks(); chunk++ {
		contribution, err := disp.EvalChunk(context.Background(), chunk)
		if err != nil {
			t.Fatalf("EvalChunk: %v", err)
		}
		sum += contribution
	}
	return sum
}

func sumV3(t *testing.T, cat *catalog.Catalog, c, p int) uint64 {
	t.Helper()
	v3 := Build(cat, c, p)
	var sum uint64
	for chunk := uint64(0); chunk < v3.NumChunks(); chunk++ {
		contribution, err := v3.EvalChunk(context.Background(), chunk)
		if err != nil {
			t.Fatalf("EvalChunk: %v", err)
		}
		sum += contribution
	}
	return sum
}

func TestV3MatchesV2_3SAT(t *testing.T) {
	cases := []struct {
		v, c int
	}{
		{3, 8},
		{4, 10},
		{4, 11},
	}
	for _, tc := range cases {
		cat, err := catalog.Build(tc.v, 3)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		p := DefaultPrefixDepth(tc.c)
		v2sum := sumV2(t, cat, tc.c)
		v3sum := sumV3(t, cat, tc.c, p)
		if v2sum != v3sum {
			t.Errorf("v=%d c=%d: V2=%d V3=%d", tc.v, tc.c, v2sum, v3sum)
		}
	}
}

func TestKnownMUCount3SATViaV3(t *testing.T) {
	cases := []struct {
		v, c int
		want uint64
	}{
		{3, 8, 1},
		{4, 10, 29792},
	}
	for _, tc := range cases {
		cat, err := catalog.Build(tc.v, 3)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		p := DefaultPrefixDepth(tc.c)
		got := sumV3(t, cat, tc.c, p)
		if got != tc.want {
			t.Errorf("MU(v=%d,k=3,c=%d) via V3 = %d, want %d", tc.v, tc.c, got, tc.want)
		}
	}
}

func TestKnownMUCount3SATViaV3Slow(t *testing.T) {
	if testing.Short() {
		t.Skip("v=5,c=11 has a C(80,11)-sized nominal candidate space; skip under -short")
	}
	cat, err := catalog.Build(5, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := DefaultPrefixDepth(11)
	got := sumV3(t, cat, 11, p)
	if want := uint64(258380800); got != want {
		t.Errorf("MU(v=5,k=3,c=11) via V3 = %d, want %d", got, want)
	}
}
