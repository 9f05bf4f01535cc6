package retrieval

import (
	"testing"
	"time"

	"github.com/engramhq/engram/internal/store"
)

func TestAdaptiveWeightsHighOverlap(t *testing.T) {
	w := AdaptiveWeights([]string{"a", "b", "c"}, []string{"a", "b", "c"})
	if w != highOverlapWeights {
		t.Errorf("got %+v want %+v", w, highOverlapWeights)
	}
}

func TestAdaptiveWeightsLowOverlap(t *testing.T) {
	w := AdaptiveWeights([]string{"a"}, []string{"b"})
	if w != lowOverlapWeights {
		t.Errorf("got %+v want %+v", w, lowOverlapWeights)
	}
}

func TestAdaptiveWeightsMediumOverlap(t *testing.T) {
	// intersection {b} over union {a,b,c,d} = 0.25, in (0.2, 0.5]
	w := AdaptiveWeights([]string{"a", "b"}, []string{"b", "c", "d"})
	if w != mediumOverlapWeights {
		t.Errorf("got %+v want %+v", w, mediumOverlapWeights)
	}
}

func TestAdaptiveWeightsBothEmpty(t *testing.T) {
	w := AdaptiveWeights(nil, nil)
	if w != lowOverlapWeights {
		t.Errorf("expected empty sets to fall into the low-overlap band, got %+v", w)
	}
}

func TestFuseMergesAndScores(t *testing.T) {
	a := &store.Memory{ID: "a"}
	b := &store.Memory{ID: "b"}

	fts := []store.FTSResult{{Memory: a, Relevance: 1.0}}
	vec := []store.VectorResult{{Memory: a, Similarity: 1.0}, {Memory: b, Similarity: 0.5}}

	merged := Fuse(fts, vec)
	if len(merged) != 2 {
		t.Fatalf("got %d candidates want 2", len(merged))
	}
	if merged["a"].FusedScore <= 0 {
		t.Errorf("expected a non-zero fused score for a shared match, got %v", merged["a"].FusedScore)
	}
	if merged["b"].FTSScore != 0 {
		t.Errorf("expected b to have no FTS score, got %v", merged["b"].FTSScore)
	}
}

func TestApplyFiltersDropsExcludedKind(t *testing.T) {
	candidates := map[string]*Candidate{
		"a": {Memory: &store.Memory{ID: "a", Kind: "factual"}},
		"b": {Memory: &store.Memory{ID: "b", Kind: "episodic"}},
	}
	ApplyFilters(candidates, Filters{Kinds: []string{"factual"}})
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates want 1", len(candidates))
	}
	if _, ok := candidates["a"]; !ok {
		t.Error("expected the factual candidate to survive filtering")
	}
}

func TestApplyFiltersDropsGraphExpandedArchive(t *testing.T) {
	candidates := map[string]*Candidate{
		"a": {Memory: &store.Memory{ID: "a", Layer: "archive"}, FromGraph: true},
		"b": {Memory: &store.Memory{ID: "b", Layer: "archive"}, FromGraph: false},
	}
	ApplyFilters(candidates, Filters{})
	if _, ok := candidates["a"]; ok {
		t.Error("expected a graph-expanded archive entry to be dropped")
	}
	if _, ok := candidates["b"]; !ok {
		t.Error("expected a directly matched archive entry to survive")
	}
}

func TestRankOrderSortsByActivationThenTiebreaks(t *testing.T) {
	now := time.Now()
	results := []Scored{
		{Memory: &store.Memory{ID: "low", CreatedAt: now}, Activation: 0.1},
		{Memory: &store.Memory{ID: "high", CreatedAt: now}, Activation: 0.9},
	}
	RankOrder(results)
	if results[0].Memory.ID != "high" {
		t.Errorf("expected highest activation first, got %q", results[0].Memory.ID)
	}
}

func TestRankOrderTiebreaksByCreatedAt(t *testing.T) {
	now := time.Now()
	results := []Scored{
		{Memory: &store.Memory{ID: "z", CreatedAt: now.Add(-time.Hour), Importance: 0.5}, Activation: 1.0},
		{Memory: &store.Memory{ID: "a", CreatedAt: now, Importance: 0.1}, Activation: 1.0},
	}
	RankOrder(results)
	if results[0].Memory.ID != "a" {
		t.Errorf("expected the more recent entry to win the tie, got %q", results[0].Memory.ID)
	}
}

func TestExpandGraphAddsEntityAndHebbianNeighbors(t *testing.T) {
	candidates := map[string]*Candidate{
		"seed": {Memory: &store.Memory{ID: "seed"}, FusedScore: 1.0},
	}

	entitySharers := func(id string) ([]string, error) { return []string{"ent"}, nil }
	hebbianNeighbors := func(id string, minStrength float64) ([]store.HebbianLink, error) {
		return []store.HebbianLink{{MemoryA: "seed", MemoryB: "heb"}}, nil
	}
	fetch := func(id string) (*store.Memory, error) { return &store.Memory{ID: id}, nil }

	if err := ExpandGraph(candidates, 1, 0.5, entitySharers, hebbianNeighbors, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := candidates["ent"]; !ok {
		t.Error("expected an entity-shared neighbor to be added")
	}
	if c, ok := candidates["heb"]; !ok || !c.FromGraph {
		t.Error("expected a Hebbian neighbor to be added and marked FromGraph")
	}
}
