package scenarios

import (
	"context"
	"fmt"
	"time"

	"github.com/engramhq/engram/internal/engine"
	"github.com/engramhq/engram/internal/store"
)

// Harness wraps an Engine with the seeding helpers scenarios need. It is
// meant to run against a throwaway store (a tempfile or in-memory database
// opened just for this run) — scenarios add memories with backdated
// timestamps, and pin_immunity runs a threshold forget that deletes every
// entry not protected by a pin or a contradiction chain.
type Harness struct {
	Eng *engine.Engine
	ctx context.Context
}

// NewHarness wraps eng for scenario use.
func NewHarness(eng *engine.Engine) *Harness {
	return &Harness{Eng: eng, ctx: context.Background()}
}

// seed inserts a memory directly through the store (bypassing Engine.Add,
// whose AddInput has no way to backdate CreatedAt) with CreatedAt set to
// ago before now. Returns the new memory's id.
func (h *Harness) seed(content, kind string, importance float64, ago time.Duration) (string, error) {
	m := &store.Memory{
		Content:         content,
		Kind:            kind,
		Layer:           "working",
		WorkingStrength: 1.0,
		CoreStrength:    0.0,
		Importance:      importance,
		CreatedAt:       time.Now().Add(-ago),
	}
	if err := h.Eng.Store().Insert(m); err != nil {
		return "", fmt.Errorf("seeding %q: %w", content, err)
	}
	return m.ID, nil
}

// supersede seeds a memory as in seed, then marks it as contradicting
// (superseding) priorID.
func (h *Harness) supersede(content, kind string, importance float64, ago time.Duration, priorID string) (string, error) {
	id, err := h.seed(content, kind, importance, ago)
	if err != nil {
		return "", err
	}
	if err := h.Eng.Store().MarkContradiction(id, priorID); err != nil {
		return "", fmt.Errorf("marking contradiction for %q: %w", content, err)
	}
	return id, nil
}

func fail(name, format string, args ...interface{}) *Result {
	return &Result{Name: name, Passed: false, Detail: fmt.Sprintf(format, args...)}
}

func pass(name, format string, args ...interface{}) *Result {
	return &Result{Name: name, Passed: true, Detail: fmt.Sprintf(format, args...)}
}
