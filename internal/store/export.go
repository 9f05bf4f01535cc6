package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Export writes a self-contained snapshot of the store to destPath. The
// snapshot is a complete, independently-openable SQLite file: WAL content is
// checkpointed into the main file first, then VACUUM INTO produces a
// defragmented copy holding every table, index, trigger, and the FTS5
// index (spec §4.1 export).
func (s *Store) Export(destPath string) error {
	if destPath == "" {
		return fmt.Errorf("export destination path is required")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("export destination already exists: %s", destPath)
	}

	if err := s.Checkpoint(); err != nil {
		log.Warn("checkpoint before export failed, continuing", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`VACUUM INTO ?`, destPath); err != nil {
		return fmt.Errorf("failed to export store: %w", err)
	}

	log.Info("store exported", "path", destPath)
	return nil
}
