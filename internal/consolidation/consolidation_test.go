package consolidation

import (
	"testing"
	"time"
)

func TestDecayReducesBothStrengths(t *testing.T) {
	p := DefaultParams()
	r1, r2 := Decay(1.0, 1.0, 10, p)
	if r1 >= 1.0 {
		t.Errorf("expected r1 to decay, got %v", r1)
	}
	if r2 >= 1.0 {
		t.Errorf("expected r2 to decay, got %v", r2)
	}
	if r1 >= r2 {
		t.Errorf("expected working strength to decay faster than core strength: r1=%v r2=%v", r1, r2)
	}
}

func TestDecayZeroElapsedIsNoOp(t *testing.T) {
	p := DefaultParams()
	r1, r2 := Decay(0.5, 0.5, 0, p)
	if r1 != 0.5 || r2 != 0.5 {
		t.Errorf("expected no change at deltaT=0, got r1=%v r2=%v", r1, r2)
	}
}

func TestTransferIncreasesCoreStrength(t *testing.T) {
	p := DefaultParams()
	got := Transfer(1.0, 0, 0, 1, p)
	if got <= 0 {
		t.Errorf("expected transfer to raise r2, got %v", got)
	}
}

func TestTransferScalesWithImportance(t *testing.T) {
	p := DefaultParams()
	low := Transfer(1.0, 0, 0, 1, p)
	high := Transfer(1.0, 0, 1.0, 1, p)
	if high <= low {
		t.Errorf("expected higher importance to transfer more: low=%v high=%v", low, high)
	}
}

func TestReplayBoostsWorkingStrength(t *testing.T) {
	p := DefaultParams()
	got := Replay(0.5, p)
	if got != 0.5+p.ReplayBoost {
		t.Errorf("got %v want %v", got, 0.5+p.ReplayBoost)
	}
}

func TestDownscaleShrinksStrength(t *testing.T) {
	p := DefaultParams()
	got := Downscale(1.0, p)
	if got != p.GlobalDownscale {
		t.Errorf("got %v want %v", got, p.GlobalDownscale)
	}
}

func TestLayerTransitionPromotesToCore(t *testing.T) {
	p := DefaultParams()
	got := LayerTransition("working", p.PromoteThreshold, 1.0, p)
	if got != "core" {
		t.Errorf("got %q want core", got)
	}
}

func TestLayerTransitionCoreNeverDemotes(t *testing.T) {
	p := DefaultParams()
	got := LayerTransition("core", 0, 0, p)
	if got != "core" {
		t.Errorf("got %q want core (core never demotes via this rule)", got)
	}
}

func TestLayerTransitionDemotesToArchive(t *testing.T) {
	p := DefaultParams()
	got := LayerTransition("working", 0, p.DemoteThreshold/2, p)
	if got != "archive" {
		t.Errorf("got %q want archive", got)
	}
}

func TestLayerTransitionStaysPutOtherwise(t *testing.T) {
	p := DefaultParams()
	got := LayerTransition("working", 0, p.DemoteThreshold*10, p)
	if got != "working" {
		t.Errorf("got %q want working", got)
	}
}

func TestClassifyRecencyBuckets(t *testing.T) {
	now := time.Now()
	cases := []struct {
		age  time.Duration
		want RecencyBucket
	}{
		{time.Hour, BucketLastDay},
		{3 * 24 * time.Hour, BucketLastWeek},
		{30 * 24 * time.Hour, BucketOlder},
	}
	for _, c := range cases {
		got := ClassifyRecency(now.Add(-c.age), now)
		if got != c.want {
			t.Errorf("age=%v: got bucket %v want %v", c.age, got, c.want)
		}
	}
}

func TestSampleForReplayRespectsBucketShares(t *testing.T) {
	idsByBucket := map[RecencyBucket][]string{
		BucketLastDay:  {"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		BucketLastWeek: {"k", "l", "m", "n", "o", "p"},
		BucketOlder:    {"q", "r", "s", "t"},
	}
	sample := SampleForReplay(idsByBucket, 20)
	if len(sample) == 0 {
		t.Fatal("expected a non-empty sample")
	}
	if len(sample) > 20 {
		t.Errorf("sample exceeded requested total: %d", len(sample))
	}
}

func TestSampleForReplayZeroTotal(t *testing.T) {
	idsByBucket := map[RecencyBucket][]string{BucketLastDay: {"a", "b"}}
	if got := SampleForReplay(idsByBucket, 0); got != nil {
		t.Errorf("expected nil sample for totalSample=0, got %v", got)
	}
}

func TestSampleForReplayCapsAtBucketSize(t *testing.T) {
	idsByBucket := map[RecencyBucket][]string{BucketLastDay: {"a"}}
	sample := SampleForReplay(idsByBucket, 100)
	if len(sample) != 1 {
		t.Errorf("expected sample capped to bucket size 1, got %d", len(sample))
	}
}
