package engine

import "fmt"

// Pin marks a memory as exempt from pruning and consolidation decay.
// Fails if id does not exist.
func (e *Engine) Pin(id string) error {
	return e.setPinned(id, true)
}

// Unpin clears a memory's pinned flag. Fails if id does not exist.
func (e *Engine) Unpin(id string) error {
	return e.setPinned(id, false)
}

func (e *Engine) setPinned(id string, pinned bool) error {
	m, err := e.store.Peek(id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("memory not found: %s", id)
	}
	m.Pinned = pinned
	return e.store.Update(m)
}
