package store

import (
	"database/sql"
	"fmt"
)

// migrateAddContradictionAndVectorColumns adds the contradiction pointer
// columns and the embedding columns to a pre-existing memories table that
// predates them. This is the schema-migration routine spec §4.1 calls out
// as "the only upgrade mechanism": additive ALTER TABLE statements that are
// safe to run repeatedly (an error here means the column already exists).
func migrateAddContradictionAndVectorColumns(db *sql.DB) error {
	statements := []string{
		"ALTER TABLE memories ADD COLUMN contradicts TEXT;",
		"ALTER TABLE memories ADD COLUMN contradicted_by TEXT;",
		"ALTER TABLE memories ADD COLUMN embedding BLOB;",
		"ALTER TABLE memories ADD COLUMN embedding_dim INTEGER;",
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Debug("migration statement skipped (column likely exists)", "stmt", stmt, "error", err)
		}
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_memories_contradicts ON memories(contradicts);`); err != nil {
		log.Warn("failed to create contradicts index", "error", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_memories_contradicted_by ON memories(contradicted_by);`); err != nil {
		log.Warn("failed to create contradicted_by index", "error", err)
	}
	return nil
}

// RunMigrations brings a store opened against an older schema version up to
// SchemaVersion. Migrations are additive only: no column is ever dropped or
// renamed, so old data always remains readable.
func (s *Store) RunMigrations() error {
	version, err := s.GetSchemaVersion()
	if err != nil {
		version = 0
	}

	log.Info("checking migrations", "current_version", version, "target_version", SchemaVersion)

	if version >= SchemaVersion {
		log.Debug("store is up to date")
		return nil
	}

	if version < 1 {
		if err := migrateAddContradictionAndVectorColumns(s.db); err != nil {
			return fmt.Errorf("migration to v1 failed: %w", err)
		}
		if _, err := s.db.Exec(`INSERT OR REPLACE INTO schema_version (version, applied_at) VALUES (1, CURRENT_TIMESTAMP)`); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	// Future migrations append here, e.g.: if version < 2 { ... }

	return nil
}
