// Package retrieval implements candidate generation for recall: lexical and
// semantic fusion with adaptive weighting, graph/Hebbian expansion,
// filtering, and the tie-break ordering that feeds activation scoring
// (spec §4.5). Grounded on the merge-and-rank shape of clive's hybrid
// searcher (apps/memory/internal/search/hybrid.go).
package retrieval

import (
	"sort"

	"github.com/engramhq/engram/internal/store"
)

// FusionWeights is one of the three adaptive (w_vec, w_fts) pairs chosen by
// Jaccard overlap between the lexical and semantic candidate sets
// (spec §4.5 step 3).
type FusionWeights struct {
	Vector float64
	FTS    float64
}

var (
	highOverlapWeights   = FusionWeights{Vector: 0.8, FTS: 0.2}
	mediumOverlapWeights = FusionWeights{Vector: 0.6, FTS: 0.4}
	lowOverlapWeights    = FusionWeights{Vector: 0.4, FTS: 0.6}
)

// AdaptiveWeights chooses the fusion weight pair from the Jaccard overlap
// between the lexical and semantic id sets (spec §4.5 step 3: >0.5 high,
// >0.2 medium, else low).
func AdaptiveWeights(ftsIDs, vectorIDs []string) FusionWeights {
	overlap := jaccard(ftsIDs, vectorIDs)
	switch {
	case overlap > 0.5:
		return highOverlapWeights
	case overlap > 0.2:
		return mediumOverlapWeights
	default:
		return lowOverlapWeights
	}
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, id := range a {
		setA[id] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for id := range setA {
		union[id] = true
	}
	intersection := 0
	for _, id := range b {
		union[id] = true
		if setA[id] {
			intersection++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// Candidate is one fused, pre-activation-scored retrieval candidate.
type Candidate struct {
	Memory     *store.Memory
	FTSScore   float64 // normalized BM25, [0,1]
	VecScore   float64 // cosine similarity, [0,1]
	FusedScore float64 // s = w_vec*vec + w_fts*fts
	FromGraph  bool    // added by graph/Hebbian expansion rather than direct match
}

// Fuse merges lexical and semantic result sets into a single candidate map
// keyed by memory id, applying the adaptive weight pair (spec §4.5 steps
// 1-3).
func Fuse(fts []store.FTSResult, vec []store.VectorResult) map[string]*Candidate {
	ftsIDs := make([]string, len(fts))
	for i, r := range fts {
		ftsIDs[i] = r.Memory.ID
	}
	vecIDs := make([]string, len(vec))
	for i, r := range vec {
		vecIDs[i] = r.Memory.ID
	}
	w := AdaptiveWeights(ftsIDs, vecIDs)

	merged := make(map[string]*Candidate)
	for _, r := range fts {
		merged[r.Memory.ID] = &Candidate{Memory: r.Memory, FTSScore: r.Relevance}
	}
	for _, r := range vec {
		if c, ok := merged[r.Memory.ID]; ok {
			c.VecScore = r.Similarity
		} else {
			merged[r.Memory.ID] = &Candidate{Memory: r.Memory, VecScore: r.Similarity}
		}
	}
	for _, c := range merged {
		c.FusedScore = w.Vector*c.VecScore + w.FTS*c.FTSScore
	}
	return merged
}

// ExpandGraph unions in, for each of the top candidates, entries sharing a
// graph-link label (1 hop) and Hebbian neighbors above the given floor
// (spec §4.5 step 4). entitySharers, hebbianNeighbors and fetch are store-backed lookups
// passed in so this package stays free of a hard store dependency beyond
// types.
func ExpandGraph(
	candidates map[string]*Candidate,
	topN int,
	hebbianFloor float64,
	entitySharers func(memoryID string) ([]string, error),
	hebbianNeighbors func(memoryID string, minStrength float64) ([]store.HebbianLink, error),
	fetch func(id string) (*store.Memory, error),
) error {
	top := topCandidateIDs(candidates, topN)

	for _, id := range top {
		sharedIDs, err := entitySharers(id)
		if err != nil {
			return err
		}
		for _, sid := range sharedIDs {
			if err := addExpanded(candidates, sid, fetch); err != nil {
				return err
			}
		}

		links, err := hebbianNeighbors(id, hebbianFloor)
		if err != nil {
			return err
		}
		for _, l := range links {
			other := l.Other(id)
			if other == "" {
				continue
			}
			if err := addExpanded(candidates, other, fetch); err != nil {
				return err
			}
		}
	}
	return nil
}

func addExpanded(candidates map[string]*Candidate, id string, fetch func(id string) (*store.Memory, error)) error {
	if _, ok := candidates[id]; ok {
		return nil
	}
	m, err := fetch(id)
	if err != nil || m == nil {
		return err
	}
	candidates[id] = &Candidate{Memory: m, FromGraph: true}
	return nil
}

func topCandidateIDs(candidates map[string]*Candidate, n int) []string {
	type scored struct {
		id    string
		score float64
	}
	all := make([]scored, 0, len(candidates))
	for id, c := range candidates {
		all = append(all, scored{id, c.FusedScore})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score > all[j].score })
	if n > len(all) {
		n = len(all)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = all[i].id
	}
	return out
}

// Filters narrows the candidate set before scoring (spec §4.5 step 5).
type Filters struct {
	Kinds         []string // empty means no kind restriction
	MinConfidence float64
}

// ApplyFilters drops entries whose kind is excluded or whose layer is
// archive and was reached only via graph/Hebbian expansion rather than a
// direct lexical/semantic match (archive is searchable, never expandable).
func ApplyFilters(candidates map[string]*Candidate, f Filters) {
	kindSet := map[string]bool{}
	for _, k := range f.Kinds {
		kindSet[k] = true
	}
	for id, c := range candidates {
		if len(kindSet) > 0 && !kindSet[c.Memory.Kind] {
			delete(candidates, id)
			continue
		}
		if c.Memory.Layer == "archive" && c.FromGraph {
			delete(candidates, id)
			continue
		}
	}
}

// Scored is a final ranked retrieval result (spec §4.5 step 6; see also
// the §4.8 recall output shape).
type Scored struct {
	Memory         *store.Memory
	Activation     float64
	Confidence     float64
	ConfidenceBand string
	FusedScore     float64
}

// RankOrder sorts scored results by activation descending; ties break by
// higher created_at, then higher importance, then ascending id (spec §4.5
// step 6 — a fully deterministic, stable ordering).
func RankOrder(results []Scored) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Activation != b.Activation {
			return a.Activation > b.Activation
		}
		if !a.Memory.CreatedAt.Equal(b.Memory.CreatedAt) {
			return a.Memory.CreatedAt.After(b.Memory.CreatedAt)
		}
		if a.Memory.Importance != b.Memory.Importance {
			return a.Memory.Importance > b.Memory.Importance
		}
		return a.Memory.ID < b.Memory.ID
	})
}
