package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/engramhq/engram/internal/forgetting"
	"github.com/engramhq/engram/internal/store"
)

// ForgetInput selects what to forget: exactly one of ID or Threshold must
// be set (spec §4.8 — "fails when both/neither supplied").
type ForgetInput struct {
	ID           string
	Threshold    float64
	UseThreshold bool // distinguishes an explicit 0.0 threshold from "unset"
}

// isChainRoot reports whether m is the original claim at the head of a
// contradiction chain: nothing precedes it, but a later entry supersedes
// it. Such entries are protected from threshold pruning so the chain's
// provenance survives even after its content is superseded (spec §4.3's
// "stored strengths are not rewritten — audit preserved").
func isChainRoot(m *store.Memory) bool {
	return m.Contradicts == "" && m.ContradictedBy != ""
}

// Forget removes exactly the memory named by ID, or every non-pinned,
// non-chain-root memory whose effective strength falls below Threshold
// (spec §4.3's prune predicate). Returns the count removed.
func (e *Engine) Forget(in ForgetInput) (int, error) {
	if in.ID != "" && in.UseThreshold {
		return 0, fmt.Errorf("forget accepts either an id or a threshold, not both")
	}
	if in.ID == "" && !in.UseThreshold {
		return 0, fmt.Errorf("forget requires either an id or a threshold")
	}

	if in.ID != "" {
		if err := e.store.Delete(in.ID); err != nil {
			return 0, err
		}
		e.deleteFromIndex(in.ID)
		return 1, nil
	}

	all, err := e.store.ListMemories(nil)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0
	for _, base := range all {
		m, err := e.store.Peek(base.ID)
		if err != nil {
			return removed, err
		}
		if m == nil {
			continue
		}

		stability := forgetting.Stability(m.Kind, m.Importance, m.ConsolidationCount, len(m.AccessTimes), e.forgettingParams)
		lastAccess := m.CreatedAt
		if len(m.AccessTimes) > 0 {
			lastAccess = m.AccessTimes[len(m.AccessTimes)-1]
		}
		retrievability := forgetting.Retrievability(lastAccess, now, stability)
		effective := forgetting.EffectiveStrength(m.WorkingStrength, m.CoreStrength, retrievability)

		params := e.forgettingParams
		params.ForgetThreshold = in.Threshold
		if !forgetting.ShouldPrune(effective, m.Pinned, isChainRoot(m), params) {
			continue
		}

		if err := e.store.Delete(m.ID); err != nil {
			return removed, err
		}
		e.deleteFromIndex(m.ID)
		removed++
	}
	return removed, nil
}

// deleteFromIndex best-effort removes a point from the external vector
// index so a forgotten memory can't resurface from a stale Qdrant entry.
// Forget has no ctx parameter of its own; this call is short-lived and
// non-critical, so a background context is fine.
func (e *Engine) deleteFromIndex(id string) {
	if e.vectorIdx == nil || !e.vectorIdx.IsEnabled() {
		return
	}
	if err := e.vectorIdx.Delete(context.Background(), []string{id}); err != nil {
		log.Warn("vector index delete failed", "id", id, "error", err)
	}
}
