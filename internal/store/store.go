// Package store is the engine's durable persistence layer: a single SQLite
// file holding memories, their access log, the caller-entity graph, the
// relationship/contradiction graph, and Hebbian co-activation links, with an
// FTS5 index kept current by triggers. See spec §4.1.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/engramhq/engram/internal/logging"
	_ "github.com/mattn/go-sqlite3"
)

var log = logging.GetLogger("store")

// Store represents a connection to the engine's SQLite database. Writes are
// serialized through a single connection (SQLite supports one writer);
// reads may run concurrently.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens a database connection. It does not initialize the schema;
// call InitSchema (and RunMigrations) after Open.
func Open(path string) (*Store, error) {
	log.Info("opening store", "path", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under our own serialization guarantee (spec §5).
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	s := &Store{db: db, path: path}
	log.Info("store connection established", "path", path)
	return s, nil
}

// InitSchema creates all tables, indexes, triggers, and the FTS5 virtual
// table if they do not already exist, then runs any pending migrations.
func (s *Store) InitSchema() error {
	log.Info("initializing schema", "version", SchemaVersion)

	s.mu.Lock()
	var tableName string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='memories' LIMIT 1`).Scan(&tableName)
	alreadyInitialized := err == nil && tableName != ""
	s.mu.Unlock()

	if !alreadyInitialized {
		s.mu.Lock()
		tx, err := s.db.Begin()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to begin schema transaction: %w", err)
		}

		if _, err := tx.Exec(CoreSchema); err != nil {
			tx.Rollback()
			s.mu.Unlock()
			return fmt.Errorf("failed to create core schema: %w", err)
		}
		if _, err := tx.Exec(FTS5Schema); err != nil {
			log.Warn("failed to create FTS5 schema (full-text search disabled)", "error", err)
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO schema_version (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`, SchemaVersion); err != nil {
			tx.Rollback()
			s.mu.Unlock()
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to commit schema: %w", err)
		}
		s.mu.Unlock()
		log.Info("schema initialized", "version", SchemaVersion)
	}

	return s.RunMigrations()
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// DB returns the underlying *sql.DB for packages (export, migrations) that
// need direct access.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) exec(query string, args ...interface{}) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Exec(query, args...)
}

func (s *Store) query(query string, args ...interface{}) (*sql.Rows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Query(query, args...)
}

func (s *Store) queryRow(query string, args ...interface{}) *sql.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.QueryRow(query, args...)
}

// GetSchemaVersion returns the currently recorded schema version.
func (s *Store) GetSchemaVersion() (int, error) {
	var version int
	if err := s.queryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Vacuum runs VACUUM to reclaim space and defragment the file.
func (s *Store) Vacuum() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("VACUUM")
	return err
}

// Checkpoint forces a WAL checkpoint, flushing the write-ahead log into the
// main database file. Useful before Export.
func (s *Store) Checkpoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// GetStats computes store-wide counters for the engine's stats operation.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{
		Path:         s.path,
		CountByKind:  map[string]int{},
		CountByLayer: map[string]int{},
	}

	version, err := s.GetSchemaVersion()
	if err == nil {
		stats.SchemaVersion = version
	}

	s.queryRow(`SELECT COUNT(*) FROM memories`).Scan(&stats.MemoryCount)
	s.queryRow(`SELECT COUNT(*) FROM memory_relationships`).Scan(&stats.RelationCount)
	s.queryRow(`SELECT COUNT(*) FROM hebbian_links`).Scan(&stats.HebbianCount)

	for _, kind := range MemoryKinds {
		var c int
		s.queryRow(`SELECT COUNT(*) FROM memories WHERE kind = ?`, kind).Scan(&c)
		stats.CountByKind[kind] = c
	}
	for _, layer := range Layers {
		var c int
		s.queryRow(`SELECT COUNT(*) FROM memories WHERE layer = ?`, layer).Scan(&c)
		stats.CountByLayer[layer] = c
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.FileSizeBytes = info.Size()
	}

	return stats, nil
}
