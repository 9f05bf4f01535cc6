// Package consolidation implements the periodic memory-dynamics cycle:
// decay, working-to-core transfer, interleaved replay, layer transitions,
// global downscale, and Hebbian decay (spec §4.6). Grounded on the
// stability/decay update shape of Harshitk-cp-engram's consolidation
// service and qubicdb's Hebbian decay pass.
package consolidation

import (
	"math"
	"sort"
	"time"
)

// Params bundles the tunable consolidation constants (spec §9 glossary
// defaults).
type Params struct {
	Mu1               float64 // μ₁: working-strength decay rate
	Mu2               float64 // μ₂: core-strength decay rate
	TransferAlpha     float64 // α: working→core transfer rate
	ReplayBoost       float64
	PromoteThreshold  float64 // r₂ ≥ this → layer = core
	DemoteThreshold   float64 // E < this → layer = archive
	GlobalDownscale   float64 // d: per-cycle multiplicative homeostasis
}

// DefaultParams returns the glossary defaults.
func DefaultParams() Params {
	return Params{
		Mu1:              0.1,
		Mu2:              0.01,
		TransferAlpha:    0.2,
		ReplayBoost:      0.05,
		PromoteThreshold: 1.0,
		DemoteThreshold:  0.05,
		GlobalDownscale:  0.95,
	}
}

// Decay applies the per-entry strength decay step:
// r1 <- r1 * exp(-μ1*Δt), r2 <- r2 * exp(-μ2*Δt) (spec §4.6).
func Decay(r1, r2, deltaT float64, p Params) (newR1, newR2 float64) {
	return r1 * math.Exp(-p.Mu1*deltaT), r2 * math.Exp(-p.Mu2*deltaT)
}

// Transfer applies r2 <- r2 + α*r1*Δt*(1+importance) (spec §4.6).
func Transfer(r1, r2, importance, deltaT float64, p Params) float64 {
	return r2 + p.TransferAlpha*r1*deltaT*(1+importance)
}

// Replay applies the spacing-effect boost to a sampled entry:
// r1 <- r1 + replay_boost.
func Replay(r1 float64, p Params) float64 {
	return r1 + p.ReplayBoost
}

// Downscale applies the global homeostatic downscale to a non-pinned
// strength: strength * d (spec §4.6).
func Downscale(strength float64, p Params) float64 {
	return strength * p.GlobalDownscale
}

// LayerTransition computes the new layer given r2, effective strength E,
// and the current layer (spec §4.6). archive<->working transitions via
// retrieval access are handled by the engine at recall time, not here —
// this function only applies the consolidation-time promote/demote rule.
func LayerTransition(currentLayer string, r2, effectiveStrength float64, p Params) string {
	if r2 >= p.PromoteThreshold {
		return "core"
	}
	if currentLayer == "core" {
		return currentLayer // core never demotes purely from this rule
	}
	if effectiveStrength < p.DemoteThreshold {
		return "archive"
	}
	return currentLayer
}

// RecencyBucket classifies an entry's age for interleaved-replay sampling
// (spec §4.6: 50% last day, 30% 1-7 days, 20% older).
type RecencyBucket int

const (
	BucketLastDay RecencyBucket = iota
	BucketLastWeek
	BucketOlder
)

func ClassifyRecency(createdAt, now time.Time) RecencyBucket {
	age := now.Sub(createdAt)
	switch {
	case age <= 24*time.Hour:
		return BucketLastDay
	case age <= 7*24*time.Hour:
		return BucketLastWeek
	default:
		return BucketOlder
	}
}

// bucketShares mirrors spec §4.6's replay distribution.
var bucketShares = map[RecencyBucket]float64{
	BucketLastDay:  0.5,
	BucketLastWeek: 0.3,
	BucketOlder:    0.2,
}

// SampleForReplay partitions ids by recency bucket and returns a sampled
// subset sized to match the target share per bucket, up to totalSample
// entries overall. The sample is deterministic given the bucket contents'
// order (ids within a bucket are taken in the order supplied) so
// consolidation runs are reproducible for a fixed store state.
func SampleForReplay(idsByBucket map[RecencyBucket][]string, totalSample int) []string {
	if totalSample <= 0 {
		return nil
	}
	var out []string
	for _, bucket := range []RecencyBucket{BucketLastDay, BucketLastWeek, BucketOlder} {
		ids := idsByBucket[bucket]
		if len(ids) == 0 {
			continue
		}
		want := int(math.Round(bucketShares[bucket] * float64(totalSample)))
		if want > len(ids) {
			want = len(ids)
		}
		if remaining := totalSample - len(out); want > remaining {
			want = remaining
		}
		out = append(out, ids[:want]...)
	}
	sort.Strings(out)
	return out
}
