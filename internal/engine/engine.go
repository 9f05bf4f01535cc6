// Package engine is the façade (C8) wiring the store, activation,
// forgetting, Hebbian, retrieval, consolidation, confidence, and embedding
// packages into the operation contracts of spec §4.8: add, recall,
// consolidate, forget, reward, pin/unpin, update_memory, stats, export.
package engine

import (
	"context"

	"github.com/engramhq/engram/internal/activation"
	"github.com/engramhq/engram/internal/confidence"
	"github.com/engramhq/engram/internal/consolidation"
	"github.com/engramhq/engram/internal/embedding"
	"github.com/engramhq/engram/internal/forgetting"
	"github.com/engramhq/engram/internal/hebbian"
	"github.com/engramhq/engram/internal/logging"
	"github.com/engramhq/engram/internal/ratelimit"
	"github.com/engramhq/engram/internal/store"
	"github.com/engramhq/engram/internal/vector"
	"github.com/engramhq/engram/pkg/config"
)

var log = logging.GetLogger("engine")

// Engine holds the scoped resources of a single engine instance: the store
// handle, the embedding-provider session, and the optional external vector
// index, plus the weight parameters derived from configuration. Opened at
// construction, released on Close (spec §9 "scoped resources").
type Engine struct {
	store     *store.Store
	embed     *embedding.Manager
	vectorIdx *vector.QdrantClient // nil unless cfg.Vector.Enabled
	limiter   *ratelimit.Limiter

	activationWeights  activation.Weights
	forgettingParams   forgetting.Params
	hebbianParams      hebbian.Params
	consolidateParams  consolidation.Params
	confidenceParams   confidence.Params
	hebbianEnabled     bool
	rewardMagnitude    float64
	rewardN            int
}

// New constructs an Engine over an already-open, schema-initialized store.
func New(cfg *config.Config, st *store.Store) *Engine {
	e := &Engine{
		store:   st,
		embed:   embedding.NewManager(cfg.Embedding),
		limiter: ratelimit.NewLimiter(&cfg.RateLimit),
	}
	e.applyWeights(cfg.Weights)

	if cfg.Vector.Enabled {
		e.vectorIdx = vector.NewQdrantClient(&cfg.Vector)
	}

	return e
}

func (e *Engine) applyWeights(w config.WeightsConfig) {
	e.activationWeights = activation.Weights{
		Spreading:            w.WSpread,
		Importance:           w.WImportance,
		Hebbian:              w.WHebbian,
		ContradictionPenalty: w.PContra,
	}
	e.forgettingParams = forgetting.Params{
		Beta:            w.Beta,
		Gamma:           w.Gamma,
		ForgetThreshold: w.ForgetThreshold,
	}
	e.hebbianParams = hebbian.Params{
		FormThreshold: w.ThetaForm,
		Eta:           w.Eta,
		MaxStrength:   w.SMax,
		Decay:         w.LambdaHeb,
		PruneBelow:    0.1,
	}
	e.consolidateParams = consolidation.Params{
		Mu1:              w.Mu1,
		Mu2:              w.Mu2,
		TransferAlpha:    w.Alpha,
		ReplayBoost:      w.ReplayBoost,
		PromoteThreshold: w.PromoteThreshold,
		DemoteThreshold:  w.DemoteThreshold,
		GlobalDownscale:  w.Downscale,
	}
	e.confidenceParams = confidence.DefaultParams()
	e.hebbianEnabled = w.HebbianEnabled
	e.rewardMagnitude = w.RewardMagnitude
	if e.rewardMagnitude == 0 {
		e.rewardMagnitude = confidence.DefaultRewardMagnitude
	}
	e.rewardN = w.RewardN
	if e.rewardN == 0 {
		e.rewardN = confidence.DefaultRewardN
	}
}

// allowProvider checks the outbound rate limiter for the named external
// dependency (embedding, vector_index, consolidation). Callers treat a
// disallowed call the same way they treat a failed one: skip it and carry
// on, since none of these calls are required for an operation to succeed.
func (e *Engine) allowProvider(name string) bool {
	return e.limiter.Allow(name).Allowed
}

// Close releases the underlying store connection.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store exposes the underlying store for callers that need direct access
// (export, migrations, scenario harness setup).
func (e *Engine) Store() *store.Store { return e.store }

// warmEmbedding resolves the embedding provider once so the first real
// recall/add call doesn't pay the probe cost. Safe to call repeatedly.
func (e *Engine) warmEmbedding(ctx context.Context) {
	if _, err := e.embed.Active(ctx); err != nil {
		log.Warn("embedding provider resolution failed", "error", err)
	}
}
