package engine

import (
	"context"
	"time"

	"github.com/engramhq/engram/internal/store"
)

// Stats aggregates store counters with engine-level diagnostics (spec
// §4.8, §6).
type Stats struct {
	Store              *store.Stats  `json:"store"`
	EmbeddingProvider  string        `json:"embedding_provider"`
	EmbeddingAvailable bool          `json:"embedding_available"`
	VectorIndexEnabled bool          `json:"vector_index_enabled"`
	VectorIndexPoints  int64         `json:"vector_index_points,omitempty"`
	Uptime             time.Duration `json:"uptime"`
}

var processStart = time.Now()

// Stats returns aggregate counts by kind/layer plus provider/uptime
// diagnostics.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	storeStats, err := e.store.GetStats()
	if err != nil {
		return nil, err
	}

	status := e.embed.GetStatus(ctx)

	s := &Stats{
		Store:              storeStats,
		EmbeddingProvider:  status.Provider,
		EmbeddingAvailable: status.Available,
		VectorIndexEnabled: e.vectorIdx != nil,
		Uptime:             time.Since(processStart),
	}

	if e.vectorIdx != nil && e.vectorIdx.IsEnabled() {
		if info, err := e.vectorIdx.GetCollectionInfo(ctx); err != nil {
			log.Warn("vector index stats unavailable", "error", err)
		} else {
			s.VectorIndexPoints = info.PointsCount
		}
	}

	return s, nil
}
