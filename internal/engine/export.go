package engine

// Export writes a self-contained snapshot of the store to destPath. Fails
// on any underlying i/o error (spec §4.8).
func (e *Engine) Export(destPath string) error {
	return e.store.Export(destPath)
}
