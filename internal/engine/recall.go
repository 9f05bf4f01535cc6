package engine

import (
	"context"
	"time"

	"github.com/engramhq/engram/internal/activation"
	"github.com/engramhq/engram/internal/confidence"
	"github.com/engramhq/engram/internal/forgetting"
	"github.com/engramhq/engram/internal/hebbian"
	"github.com/engramhq/engram/internal/retrieval"
	"github.com/engramhq/engram/internal/store"
	"github.com/engramhq/engram/internal/vector"
)

// graphExpandTopN caps how many top-fused candidates are expanded via
// graph/Hebbian neighbors (spec §4.5 step 4).
const graphExpandTopN = 5

// hebbianExpandFloor is the minimum link strength a Hebbian neighbor must
// carry to be pulled into the candidate set during expansion.
const hebbianExpandFloor = 1.0

// activationQualifyFloor is the provisional B+C+I score a candidate must
// clear before it can contribute to another candidate's Hebbian term H
// (spec §4.2's "scored above a floor" — an implementation choice since the
// spec does not fix the floor's value).
const activationQualifyFloor = 0.0

// RecallInput bundles the recall operation's inputs (spec §4.8).
type RecallInput struct {
	Query        string
	K            int
	Context      []string // keyword set for spreading activation
	Kinds        []string
	MinConfidence float64
	GraphExpand  bool
}

// Result is one ranked recall record (spec §6: "id, content, kind,
// confidence, effective strength, activation, age in days, layer,
// importance, contradicted flag").
type Result struct {
	Memory            *store.Memory `json:"memory"`
	Activation        float64       `json:"activation"`
	Confidence        float64       `json:"confidence"`
	ConfidenceBand    string        `json:"confidence_band"`
	EffectiveStrength float64       `json:"effective_strength"`
	AgeDays           float64       `json:"age_days"`
}

// Recall runs the full candidate-generation, scoring, and ranking pipeline
// of spec §4.5 and never errors on an empty result set. Store I/O failures
// still surface as errors.
func (e *Engine) Recall(ctx context.Context, in RecallInput) ([]Result, error) {
	k := in.K
	if k <= 0 {
		k = 10
	}
	fetchK := k * 3
	if fetchK < 20 {
		fetchK = 20
	}

	fts, err := e.store.SearchFTS(in.Query, fetchK)
	if err != nil {
		fts = nil // an empty or all-stopword query is not a recall failure
	}

	var vec []store.VectorResult
	if e.allowProvider("embedding") {
		if qvec, embErr := e.embed.Embed(ctx, in.Query); embErr == nil && len(qvec) > 0 {
			vec, err = e.vectorSearch(ctx, qvec, fetchK)
			if err != nil {
				return nil, err
			}
		}
	}

	candidates := retrieval.Fuse(fts, vec)

	if in.GraphExpand {
		err := retrieval.ExpandGraph(candidates, graphExpandTopN, hebbianExpandFloor,
			e.store.MemoriesSharingEntities,
			e.store.HebbianNeighbors,
			e.store.Peek,
		)
		if err != nil {
			return nil, err
		}
	}

	retrieval.ApplyFilters(candidates, retrieval.Filters{Kinds: in.Kinds})

	now := time.Now()
	if err := e.attachAccessHistory(candidates); err != nil {
		return nil, err
	}

	provisional := make(map[string]float64, len(candidates))
	for id, c := range candidates {
		provisional[id] = e.baseActivation(c, in.Context, now)
	}

	qualifying := make([]string, 0, len(provisional))
	for id, score := range provisional {
		if score >= activationQualifyFloor {
			qualifying = append(qualifying, id)
		}
	}

	results := make([]retrieval.Scored, 0, len(candidates))
	for id, c := range candidates {
		hebbianTerm, err := e.hebbianTerm(id, qualifying)
		if err != nil {
			return nil, err
		}
		act := provisional[id] + e.activationWeights.Hebbian*hebbianTerm

		r1, r2 := c.Memory.WorkingStrength, c.Memory.CoreStrength
		stability := forgetting.Stability(c.Memory.Kind, c.Memory.Importance, c.Memory.ConsolidationCount, len(c.Memory.AccessTimes), e.forgettingParams)
		lastAccess := now
		if len(c.Memory.AccessTimes) > 0 {
			lastAccess = c.Memory.AccessTimes[len(c.Memory.AccessTimes)-1]
		}
		retrievability := forgetting.Retrievability(lastAccess, now, stability)

		conf := confidence.Score(retrievability, c.FusedScore, r1, r2, c.Memory.IsContradicted(), e.confidenceParams)
		band := confidence.Band(conf)

		if in.MinConfidence > 0 && conf < in.MinConfidence {
			continue
		}

		results = append(results, retrieval.Scored{
			Memory:         c.Memory,
			Activation:     act,
			Confidence:     conf,
			ConfidenceBand: band,
			FusedScore:     c.FusedScore,
		})
	}

	retrieval.RankOrder(results)
	if len(results) > k {
		results = results[:k]
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Memory.ID
	}
	if err := e.recordAccessAndHebbian(ids); err != nil {
		return nil, err
	}

	out := make([]Result, len(results))
	for i, r := range results {
		stability := forgetting.Stability(r.Memory.Kind, r.Memory.Importance, r.Memory.ConsolidationCount, len(r.Memory.AccessTimes), e.forgettingParams)
		lastAccess := now
		if len(r.Memory.AccessTimes) > 0 {
			lastAccess = r.Memory.AccessTimes[len(r.Memory.AccessTimes)-1]
		}
		retrievability := forgetting.Retrievability(lastAccess, now, stability)
		out[i] = Result{
			Memory:            r.Memory,
			Activation:        r.Activation,
			Confidence:        r.Confidence,
			ConfidenceBand:    r.ConfidenceBand,
			EffectiveStrength: forgetting.EffectiveStrength(r.Memory.WorkingStrength, r.Memory.CoreStrength, retrievability),
			AgeDays:           now.Sub(r.Memory.CreatedAt).Hours() / 24,
		}
	}
	return out, nil
}

// vectorSearch resolves the semantic candidate set. When an external index
// is wired and ready (spec §4.10's "delegate vector_search to an external
// vector index adapter"), it serves the query and each hit's id is
// materialized back into a full Memory via Peek; a hit whose memory has
// since been deleted is dropped rather than failing the whole recall. Any
// index error, or the index never having seen an Add yet (dimension 0),
// falls back to the store's own linear cosine scan so recall never hard-
// fails on an optional external dependency.
func (e *Engine) vectorSearch(ctx context.Context, qvec []float64, fetchK int) ([]store.VectorResult, error) {
	if e.vectorIdx != nil && e.vectorIdx.IsEnabled() && e.vectorIdx.Dimension() == len(qvec) && e.allowProvider("vector_index") {
		hits, err := e.vectorIdx.Search(ctx, &vector.SearchOptions{
			Vector: qvec,
			Limit:  fetchK,
		})
		if err != nil {
			log.Warn("vector index search failed, falling back to store scan", "error", err)
		} else {
			out := make([]store.VectorResult, 0, len(hits))
			for _, h := range hits {
				m, err := e.store.Peek(h.ID)
				if err != nil {
					return nil, err
				}
				if m == nil {
					continue
				}
				out = append(out, store.VectorResult{Memory: m, Similarity: h.Score})
			}
			return out, nil
		}
	}
	return e.store.VectorSearch(qvec, fetchK, 0.0)
}

// attachAccessHistory fills in AccessTimes for every candidate's Memory,
// since neither SearchFTS nor VectorSearch populate it (only Peek/Get do).
func (e *Engine) attachAccessHistory(candidates map[string]*retrieval.Candidate) error {
	for id, c := range candidates {
		if len(c.Memory.AccessTimes) > 0 {
			continue
		}
		full, err := e.store.Peek(id)
		if err != nil {
			return err
		}
		if full != nil {
			c.Memory = full
		}
	}
	return nil
}

func (e *Engine) baseActivation(c *retrieval.Candidate, keywords []string, now time.Time) float64 {
	return activation.Composite(activation.Inputs{
		AccessTimes:  c.Memory.AccessTimes,
		Content:      c.Memory.Content,
		Keywords:     keywords,
		Importance:   c.Memory.Importance,
		Contradicted: c.Memory.IsContradicted(),
		HebbianTerm:  0,
		Now:          now,
	}, e.activationWeights)
}

// hebbianTerm sums live link strengths from id to every other qualifying
// candidate (spec §4.2's Hebbian spreading bonus).
func (e *Engine) hebbianTerm(id string, qualifying []string) (float64, error) {
	if !e.hebbianEnabled {
		return 0, nil
	}
	links, err := e.store.HebbianNeighbors(id, 0)
	if err != nil {
		return 0, err
	}
	qualifySet := make(map[string]bool, len(qualifying))
	for _, q := range qualifying {
		qualifySet[q] = true
	}
	var sum float64
	for _, l := range links {
		other := l.Other(id)
		if qualifySet[other] {
			sum += l.Strength
		}
	}
	return sum, nil
}

// recordAccessAndHebbian appends an access-log row on every returned entry
// (spec §4.5 step 7) and runs the Hebbian co-activation update over the
// final ordered id list (spec §4.5 step 8).
func (e *Engine) recordAccessAndHebbian(ids []string) error {
	for _, id := range ids {
		if _, err := e.store.Get(id); err != nil {
			return err
		}
	}

	if !e.hebbianEnabled || len(ids) < 2 {
		return nil
	}
	for _, pair := range hebbian.CoActivatedPairs(ids) {
		a, b := pair[0], pair[1]
		link, err := e.store.GetHebbianLink(a, b)
		if err != nil {
			return err
		}
		counter := 0
		existed := false
		strength := 0.0
		if link != nil {
			counter = link.CoActivationCount
			existed = link.Strength > 0
			strength = link.Strength
		}
		newCounter, shouldExist, newStrength := hebbian.NextCoActivation(counter, existed, strength, e.hebbianParams)
		if shouldExist {
			if err := e.store.UpsertHebbianLink(a, b, newStrength, newCounter); err != nil {
				return err
			}
		} else {
			if err := e.store.UpsertHebbianLink(a, b, 0, newCounter); err != nil {
				return err
			}
		}
	}
	return nil
}
