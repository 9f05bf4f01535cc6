package engine

import (
	"context"
	"fmt"

	"github.com/engramhq/engram/internal/store"
)

// AddInput bundles the add operation's inputs (spec §4.8).
type AddInput struct {
	Content     string
	Kind        string
	Importance  float64 // defaults to 0.5 if zero
	Tags        []string
	Entities    []string
	Contradicts string // id of the memory this entry supersedes, or ""
}

// Add creates a new memory: embeds its content (if a provider is
// available), inserts the row, indexes any entity tags as graph links, and
// records a contradiction edge if requested. Fails if kind is invalid or
// Contradicts names a memory that does not exist.
func (e *Engine) Add(ctx context.Context, in AddInput) (string, error) {
	if in.Content == "" {
		return "", fmt.Errorf("add requires non-empty content")
	}

	importance := in.Importance
	if importance == 0 {
		importance = 0.5
	}

	var embedding []float64
	if !e.allowProvider("embedding") {
		log.Warn("embedding provider rate-limited, storing without vector")
	} else if vec, err := e.embed.Embed(ctx, in.Content); err != nil {
		log.Warn("embedding failed, storing without vector", "error", err)
	} else {
		embedding = vec
	}

	m := &store.Memory{
		Content:         in.Content,
		Kind:            in.Kind,
		Layer:           "working",
		WorkingStrength: 1.0,
		CoreStrength:    0.0,
		Importance:      importance,
		Embedding:       embedding,
	}

	if err := e.store.Insert(m); err != nil {
		return "", fmt.Errorf("add failed: %w", err)
	}

	for _, label := range in.Tags {
		if err := e.store.AddGraphLink(m.ID, label, "tag"); err != nil {
			log.Warn("failed to index tag", "tag", label, "error", err)
		}
	}
	for _, label := range in.Entities {
		if err := e.store.AddGraphLink(m.ID, label, "entity"); err != nil {
			log.Warn("failed to index entity", "entity", label, "error", err)
		}
	}

	if in.Contradicts != "" {
		if err := e.store.MarkContradiction(m.ID, in.Contradicts); err != nil {
			return "", fmt.Errorf("add failed: %w", err)
		}
	}

	if e.vectorIdx != nil && len(embedding) > 0 && e.allowProvider("vector_index") {
		if err := e.vectorIdx.InitCollection(ctx, len(embedding)); err != nil {
			log.Warn("vector index init failed", "error", err)
		} else if err := e.vectorIdx.Upsert(ctx, m.ID, embedding, map[string]interface{}{"kind": m.Kind}); err != nil {
			log.Warn("vector index upsert failed", "error", err)
		}
	}

	return m.ID, nil
}
