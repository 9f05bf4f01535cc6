package forgetting

import (
	"testing"
	"time"
)

func TestRetrievabilityRangeAndDecay(t *testing.T) {
	now := time.Now()
	r := Retrievability(now, now, 5.0)
	if r != 1 {
		t.Errorf("expected R=1 at zero elapsed time, got %v", r)
	}

	later := Retrievability(now, now.Add(10*24*time.Hour), 5.0)
	if later <= 0 || later >= 1 {
		t.Errorf("expected R in (0,1), got %v", later)
	}
	if later >= r {
		t.Errorf("expected retrievability to decay with age")
	}
}

func TestRetrievabilityNonIncreasingOverTime(t *testing.T) {
	now := time.Now()
	r10 := Retrievability(now, now.Add(10*24*time.Hour), 5.0)
	r20 := Retrievability(now, now.Add(20*24*time.Hour), 5.0)
	if r20 > r10 {
		t.Errorf("expected non-increasing retrievability: r10=%v r20=%v", r10, r20)
	}
}

func TestRetrievabilityClampsToPositive(t *testing.T) {
	now := time.Now()
	r := Retrievability(now, now.Add(10000*24*time.Hour), 0.01)
	if r <= 0 {
		t.Errorf("expected retrievability clamped above zero, got %v", r)
	}
}

func TestRetrievabilityNonPositiveStabilityDoesNotPanic(t *testing.T) {
	now := time.Now()
	r := Retrievability(now, now.Add(time.Hour), 0)
	if r <= 0 || r > 1 {
		t.Errorf("expected a valid retrievability with zero stability, got %v", r)
	}
}

func TestStabilityIncreasesWithConsolidationAndImportance(t *testing.T) {
	p := DefaultParams()
	base := Stability("factual", 0, 0, 0, p)
	withConsolidation := Stability("factual", 0, 5, 0, p)
	withImportance := Stability("factual", 1.0, 0, 0, p)

	if withConsolidation <= base {
		t.Errorf("expected consolidation to raise stability: base=%v withConsolidation=%v", base, withConsolidation)
	}
	if withImportance <= base {
		t.Errorf("expected importance to raise stability: base=%v withImportance=%v", base, withImportance)
	}
}

func TestStabilityUnknownKindUsesDefault(t *testing.T) {
	p := DefaultParams()
	got := Stability("unknown-kind", 0, 0, 0, p)
	if got != defaultKindStability {
		t.Errorf("got %v want %v", got, defaultKindStability)
	}
}

func TestEffectiveStrength(t *testing.T) {
	got := EffectiveStrength(0.6, 0.4, 0.5)
	if got != 0.5 {
		t.Errorf("got %v want 0.5", got)
	}
}

func TestShouldPrune(t *testing.T) {
	p := Params{ForgetThreshold: 0.1}

	if ShouldPrune(0.5, false, false, p) {
		t.Error("should not prune a strong, non-pinned, non-root entry")
	}
	if !ShouldPrune(0.05, false, false, p) {
		t.Error("should prune a weak, non-pinned, non-root entry")
	}
	if ShouldPrune(0.05, true, false, p) {
		t.Error("pinned entries must never be pruned")
	}
	if ShouldPrune(0.05, false, true, p) {
		t.Error("contradiction-chain roots must never be pruned")
	}
}
