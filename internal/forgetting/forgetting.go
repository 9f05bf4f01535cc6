// Package forgetting implements the Ebbinghaus-style retrievability curve,
// entry stability, effective strength, and the pruning predicate (spec
// §4.3). All functions are pure, grounded on the retrievability shape used
// across the example pack's cognitive-scoring components.
package forgetting

import (
	"math"
	"time"
)

// KindStabilities gives the base stability S_kind per memory kind (spec §9).
// Procedural and factual knowledge is modeled as more durable than
// transient episodic or emotional recollection.
var KindStabilities = map[string]float64{
	"factual":    7.0,
	"procedural": 10.0,
	"relational": 6.0,
	"episodic":   3.0,
	"emotional":  4.0,
	"opinion":    5.0,
}

const defaultKindStability = 5.0

// Params bundles the stability-shaping constants (spec §9 glossary).
type Params struct {
	Beta            float64 // β: consolidation-count scaling
	Gamma           float64 // γ: importance scaling
	ForgetThreshold float64
}

// DefaultParams returns the glossary defaults.
func DefaultParams() Params {
	return Params{Beta: 0.1, Gamma: 0.2, ForgetThreshold: 0.01}
}

// Stability computes S = S_kind * (1 + β*consolidation_count) * (1 + γ*importance),
// monotonically non-decreasing with repeated consolidation/access — the
// spacing effect (spec §4.3).
func Stability(kind string, importance float64, consolidationCount, accessCount int, p Params) float64 {
	base, ok := KindStabilities[kind]
	if !ok {
		base = defaultKindStability
	}
	_ = accessCount // reserved: access count already feeds base-level activation directly
	return base * (1 + p.Beta*float64(consolidationCount)) * (1 + p.Gamma*importance)
}

// Retrievability computes R(t) = exp(-(t_now - t_last_access)/S), clamped to
// (0,1]. S <= 0 is treated as a negligible stability (fast decay) rather
// than a division fault.
func Retrievability(lastAccess, now time.Time, stability float64) float64 {
	if stability <= 0 {
		stability = 0.01
	}
	elapsedDays := now.Sub(lastAccess).Seconds() / 86400.0
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	r := math.Exp(-elapsedDays / stability)
	if r > 1 {
		r = 1
	}
	if r <= 0 {
		r = math.SmallestNonzeroFloat64
	}
	return r
}

// EffectiveStrength computes E = (r1 + r2) * R (spec §4.3).
func EffectiveStrength(workingStrength, coreStrength, retrievability float64) float64 {
	return (workingStrength + coreStrength) * retrievability
}

// ShouldPrune implements the prune predicate: E < forget_threshold AND NOT
// pinned AND NOT a contradiction-chain root (spec §4.3). A chain root is an
// entry that contradicts nothing but has been contradicted by a later entry —
// callers determine isChainRoot from the store's contradiction pointers.
func ShouldPrune(effectiveStrength float64, pinned, isChainRoot bool, p Params) bool {
	if pinned || isChainRoot {
		return false
	}
	return effectiveStrength < p.ForgetThreshold
}
