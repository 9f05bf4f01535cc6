package engine

import (
	"context"
	"fmt"
)

// UpdateMemory supersedes an existing memory with revised content: a new
// memory is created inheriting the old entry's kind and importance, and is
// recorded as contradicting (superseding) the old id, preserving the old
// row's strengths for audit rather than rewriting them in place (spec
// §4.3, §4.8). Returns the new id. Fails if oldID does not exist.
func (e *Engine) UpdateMemory(ctx context.Context, oldID, newContent string) (string, error) {
	old, err := e.store.Peek(oldID)
	if err != nil {
		return "", err
	}
	if old == nil {
		return "", fmt.Errorf("memory not found: %s", oldID)
	}

	return e.Add(ctx, AddInput{
		Content:     newContent,
		Kind:        old.Kind,
		Importance:  old.Importance,
		Contradicts: oldID,
	})
}
