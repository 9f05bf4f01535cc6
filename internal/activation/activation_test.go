package activation

import (
	"math"
	"testing"
	"time"
)

func TestBaseLevelEmptyAccessTimes(t *testing.T) {
	b := BaseLevel(nil, time.Now())
	if !math.IsInf(b, -1) {
		t.Errorf("expected -Inf for empty access times, got %v", b)
	}
}

func TestBaseLevelDecaysWithAge(t *testing.T) {
	now := time.Now()
	recent := BaseLevel([]time.Time{now.Add(-1 * time.Hour)}, now)
	old := BaseLevel([]time.Time{now.Add(-30 * 24 * time.Hour)}, now)
	if recent <= old {
		t.Errorf("expected a recent access to score higher than an old one: recent=%v old=%v", recent, old)
	}
}

func TestBaseLevelMultipleAccessesIncreaseScore(t *testing.T) {
	now := time.Now()
	single := BaseLevel([]time.Time{now.Add(-time.Hour)}, now)
	multi := BaseLevel([]time.Time{now.Add(-time.Hour), now.Add(-2 * time.Hour), now.Add(-3 * time.Hour)}, now)
	if multi <= single {
		t.Errorf("expected more accesses to raise base-level activation: single=%v multi=%v", single, multi)
	}
}

func TestSpreadingWholeWordMatch(t *testing.T) {
	w := DefaultWeights()
	got := Spreading("the cat sat on the mat", []string{"cat", "dog"}, w)
	want := w.Spreading * 1
	if got != want {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestSpreadingRejectsSubstringMatch(t *testing.T) {
	w := DefaultWeights()
	got := Spreading("concatenate the strings", []string{"cat"}, w)
	if got != 0 {
		t.Errorf("expected no match for 'cat' inside 'concatenate', got %v", got)
	}
}

func TestSpreadingNoKeywords(t *testing.T) {
	if got := Spreading("anything", nil, DefaultWeights()); got != 0 {
		t.Errorf("expected 0 with no keywords, got %v", got)
	}
}

func TestSpreadingCaseInsensitive(t *testing.T) {
	w := DefaultWeights()
	got := Spreading("The Cat sat down", []string{"cat"}, w)
	if got != w.Spreading {
		t.Errorf("expected a case-insensitive match, got %v", got)
	}
}

func TestImportance(t *testing.T) {
	w := DefaultWeights()
	got := Importance(0.8, w)
	want := w.Importance * 0.8
	if got != want {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestCompositeAppliesContradictionPenalty(t *testing.T) {
	w := DefaultWeights()
	now := time.Now()
	base := Inputs{AccessTimes: []time.Time{now}, Content: "x", Importance: 0.5, Now: now}

	clean := Composite(base, w)
	contra := base
	contra.Contradicted = true
	withPenalty := Composite(contra, w)

	if withPenalty != clean-w.ContradictionPenalty {
		t.Errorf("expected penalty subtraction: clean=%v withPenalty=%v penalty=%v", clean, withPenalty, w.ContradictionPenalty)
	}
}

func TestCompositeAddsHebbianTerm(t *testing.T) {
	w := DefaultWeights()
	now := time.Now()
	withoutHebbian := Composite(Inputs{AccessTimes: []time.Time{now}, Now: now}, w)
	withHebbian := Composite(Inputs{AccessTimes: []time.Time{now}, Now: now, HebbianTerm: 2.0}, w)

	if withHebbian != withoutHebbian+w.Hebbian*2.0 {
		t.Errorf("expected hebbian term to add w.Hebbian*2.0: without=%v with=%v", withoutHebbian, withHebbian)
	}
}
