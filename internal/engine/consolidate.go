package engine

import (
	"context"
	"time"

	"github.com/engramhq/engram/internal/consolidation"
	"github.com/engramhq/engram/internal/forgetting"
	"github.com/engramhq/engram/internal/hebbian"
)

// defaultReplaySampleFraction caps interleaved replay to roughly a tenth of
// the store per cycle — enough to realize the spacing effect without
// rewriting every row's r1 on every tick.
const defaultReplaySampleFraction = 0.1

// Consolidate runs one consolidation cycle over every non-pinned memory:
// decay, working→core transfer, interleaved replay, layer transitions,
// global downscale, and Hebbian decay, in that normative order (spec
// §4.6). Each entry is updated independently; a failure on one entry is
// logged and does not abort the cycle. Returns the number of memories
// touched.
func (e *Engine) Consolidate(ctx context.Context, deltaT float64) (int, error) {
	if !e.allowProvider("consolidation") {
		log.Warn("consolidation cycle rate-limited, skipping this tick")
		return 0, nil
	}
	if deltaT <= 0 {
		deltaT = 1.0
	}

	all, err := e.store.ListMemories(nil)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	idsByBucket := map[consolidation.RecencyBucket][]string{}
	for _, m := range all {
		if m.Pinned {
			continue
		}
		bucket := consolidation.ClassifyRecency(m.CreatedAt, now)
		idsByBucket[bucket] = append(idsByBucket[bucket], m.ID)
	}
	sampleSize := int(float64(len(all)) * defaultReplaySampleFraction)
	replaySet := make(map[string]bool)
	for _, id := range consolidation.SampleForReplay(idsByBucket, sampleSize) {
		replaySet[id] = true
	}

	touched := 0
	for _, base := range all {
		if base.Pinned {
			continue
		}
		m, err := e.store.Peek(base.ID)
		if err != nil {
			log.Error("consolidation peek failed", "id", base.ID, "error", err)
			continue
		}
		if m == nil {
			continue
		}

		r1, r2 := consolidation.Decay(m.WorkingStrength, m.CoreStrength, deltaT, e.consolidateParams)
		r2 = consolidation.Transfer(r1, r2, m.Importance, deltaT, e.consolidateParams)
		if replaySet[m.ID] {
			r1 = consolidation.Replay(r1, e.consolidateParams)
		}

		stability := forgetting.Stability(m.Kind, m.Importance, m.ConsolidationCount, len(m.AccessTimes), e.forgettingParams)
		lastAccess := m.CreatedAt
		if len(m.AccessTimes) > 0 {
			lastAccess = m.AccessTimes[len(m.AccessTimes)-1]
		}
		retrievability := forgetting.Retrievability(lastAccess, now, stability)
		effective := forgetting.EffectiveStrength(r1, r2, retrievability)

		m.Layer = consolidation.LayerTransition(m.Layer, r2, effective, e.consolidateParams)

		r1 = consolidation.Downscale(r1, e.consolidateParams)
		r2 = consolidation.Downscale(r2, e.consolidateParams)

		m.WorkingStrength = r1
		m.CoreStrength = r2
		m.ConsolidationCount++
		lc := now
		m.LastConsolidated = &lc

		if err := e.store.Update(m); err != nil {
			log.Error("consolidation update failed", "id", m.ID, "error", err)
			continue
		}
		touched++
	}

	if err := e.decayHebbianLinks(); err != nil {
		return touched, err
	}

	return touched, nil
}

// decayHebbianLinks applies one consolidation cycle's decay to every live
// Hebbian link, removing any that fall below the prune floor (spec §4.4).
func (e *Engine) decayHebbianLinks() error {
	if !e.hebbianEnabled {
		return nil
	}
	links, err := e.store.AllHebbianLinks()
	if err != nil {
		return err
	}
	for _, l := range links {
		newStrength, remove := hebbian.Decay(l.Strength, e.hebbianParams)
		if remove {
			if err := e.store.DeleteHebbianLink(l.MemoryA, l.MemoryB); err != nil {
				return err
			}
			continue
		}
		if err := e.store.UpsertHebbianLink(l.MemoryA, l.MemoryB, newStrength, l.CoActivationCount); err != nil {
			return err
		}
	}
	return nil
}
