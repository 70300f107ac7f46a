package formula

import "testing"

func TestEvaluateMatchesKnownValues(t *testing.T) {
	for _, kv := range KnownValues {
		if kv.V > 5 {
			// v=6 cases enumerate C(60, c) 2-clause subsets directly in
			// this package's O(2^v) per-tuple representation; skip them
			// here to keep the unit test fast. Of the v=6 rows, only
			// v=6,c=8 is checked elsewhere, against its known value, by
			// orchestrator's TestEndToEndKnownCountsSlow.
			continue
		}
		got, err := Evaluate(kv.V, kv.C)
		if err != nil {
			t.Fatalf("Evaluate(%d,%d): %v", kv.V, kv.C, err)
		}
		if got.Int64() != kv.Want {
			t.Errorf("Evaluate(%d,%d) = %s, want %d", kv.V, kv.C, got.String(), kv.Want)
		}
	}
}

func TestEvaluateRejectsV2NonFour(t *testing.T) {
	if _, err := Evaluate(2, 3); err == nil {
		t.Errorf("expected ConfigError for v=2,c=3")
	}
	if _, err := Evaluate(2, 5); err == nil {
		t.Errorf("expected ConfigError for v=2,c=5")
	}
}

func TestEvaluateRejectsBelowStructuralMinimum(t *testing.T) {
	if _, err := Evaluate(4, 4); err == nil {
		t.Errorf("expected ConfigError for v=4,c=4 (below v+1)")
	}
}

func TestDiagonal(t *testing.T) {
	if d := Diagonal(4, 7); d != 3 {
		t.Errorf("Diagonal(4,7) = %d, want 3", d)
	}
}
