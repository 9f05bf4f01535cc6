package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Insert atomically creates a new memory and appends its creation access
// row. It assigns no state the caller did not supply beyond an id (if
// empty) and timestamps (if zero) — spec §4.1.
func (s *Store) Insert(m *Memory) error {
	if !IsValidKind(m.Kind) {
		return fmt.Errorf("invalid memory kind: %q", m.Kind)
	}
	if m.Layer == "" {
		m.Layer = "working"
	}
	if !IsValidLayer(m.Layer) {
		return fmt.Errorf("invalid layer: %q", m.Layer)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	s.mu.Lock()
	tx, err := s.db.Begin()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}

	embBytes, embDim := encodeEmbedding(m.Embedding)

	_, err = tx.Exec(`
		INSERT INTO memories (
			id, content, summary, kind, layer, created_at,
			working_strength, core_strength, importance, pinned,
			consolidation_count, last_consolidated, source,
			contradicts, contradicted_by, embedding, embedding_dim
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID, m.Content, nullString(m.Summary), m.Kind, m.Layer, m.CreatedAt.Unix(),
		m.WorkingStrength, m.CoreStrength, m.Importance, m.Pinned,
		m.ConsolidationCount, nullTime(m.LastConsolidated), nullString(m.Source),
		nullString(m.Contradicts), nullString(m.ContradictedBy), embBytes, nullInt(embDim),
	)
	if err != nil {
		tx.Rollback()
		s.mu.Unlock()
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO access_log (memory_id, accessed_at) VALUES (?, ?)`, m.ID, m.CreatedAt.Unix()); err != nil {
		tx.Rollback()
		s.mu.Unlock()
		return fmt.Errorf("failed to append creation access: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	s.mu.Unlock()

	m.AccessTimes = []time.Time{m.CreatedAt}
	return nil
}

// Get returns a memory with its access history attached and appends a new
// access row at the current wall-clock time — the single source of
// "recency" per spec §4.1.
func (s *Store) Get(id string) (*Memory, error) {
	m, err := s.peekLocked(id)
	if err != nil || m == nil {
		return m, err
	}

	now := time.Now()
	if _, err := s.exec(`INSERT INTO access_log (memory_id, accessed_at) VALUES (?, ?)`, id, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to record access: %w", err)
	}
	m.AccessTimes = append(m.AccessTimes, now)
	return m, nil
}

// Peek returns a memory with its access history attached but does not
// record a new access — used by internal maintenance (consolidation,
// scoring) per spec §4.1.
func (s *Store) Peek(id string) (*Memory, error) {
	return s.peekLocked(id)
}

func (s *Store) peekLocked(id string) (*Memory, error) {
	m, err := s.scanMemoryByID(id)
	if err != nil || m == nil {
		return m, err
	}
	times, err := s.accessTimes(id)
	if err != nil {
		return nil, err
	}
	m.AccessTimes = times
	return m, nil
}

func (s *Store) scanMemoryByID(id string) (*Memory, error) {
	row := s.queryRow(`
		SELECT id, content, summary, kind, layer, created_at,
		       working_strength, core_strength, importance, pinned,
		       consolidation_count, last_consolidated, source,
		       contradicts, contradicted_by, embedding, embedding_dim
		FROM memories WHERE id = ?
	`, id)
	return scanMemoryRow(row)
}

func scanMemoryRow(row *sql.Row) (*Memory, error) {
	var m Memory
	var summary, source, contradicts, contradictedBy sql.NullString
	var lastConsolidated sql.NullInt64
	var createdAt int64
	var embedding []byte
	var embeddingDim sql.NullInt64

	err := row.Scan(
		&m.ID, &m.Content, &summary, &m.Kind, &m.Layer, &createdAt,
		&m.WorkingStrength, &m.CoreStrength, &m.Importance, &m.Pinned,
		&m.ConsolidationCount, &lastConsolidated, &source,
		&contradicts, &contradictedBy, &embedding, &embeddingDim,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan memory: %w", err)
	}

	m.CreatedAt = time.Unix(createdAt, 0)
	m.Summary = summary.String
	m.Source = source.String
	m.Contradicts = contradicts.String
	m.ContradictedBy = contradictedBy.String
	if lastConsolidated.Valid {
		t := time.Unix(lastConsolidated.Int64, 0)
		m.LastConsolidated = &t
	}
	if embeddingDim.Valid {
		m.EmbeddingDim = int(embeddingDim.Int64)
	}
	m.Embedding = decodeEmbedding(embedding)

	return &m, nil
}

func (s *Store) accessTimes(memoryID string) ([]time.Time, error) {
	rows, err := s.query(`SELECT accessed_at FROM access_log WHERE memory_id = ? ORDER BY accessed_at ASC`, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access log: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		times = append(times, time.Unix(ts, 0))
	}
	return times, rows.Err()
}

// Update replaces mutable fields of an existing memory. It does not touch
// the access log (spec §4.1).
func (s *Store) Update(m *Memory) error {
	embBytes, embDim := encodeEmbedding(m.Embedding)

	result, err := s.exec(`
		UPDATE memories SET
			content = ?, summary = ?, kind = ?, layer = ?,
			working_strength = ?, core_strength = ?, importance = ?, pinned = ?,
			consolidation_count = ?, last_consolidated = ?, source = ?,
			contradicts = ?, contradicted_by = ?, embedding = ?, embedding_dim = ?
		WHERE id = ?
	`,
		m.Content, nullString(m.Summary), m.Kind, m.Layer,
		m.WorkingStrength, m.CoreStrength, m.Importance, m.Pinned,
		m.ConsolidationCount, nullTime(m.LastConsolidated), nullString(m.Source),
		nullString(m.Contradicts), nullString(m.ContradictedBy), embBytes, nullInt(embDim),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("memory not found: %s", m.ID)
	}
	return nil
}

// Delete removes a memory. Cascades to access_log, graph_links,
// memory_relationships, and hebbian_links via foreign keys (spec §3
// lifecycle).
func (s *Store) Delete(id string) error {
	result, err := s.exec(`DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("memory not found: %s", id)
	}
	return nil
}

// ListMemories returns memories matching the given filters, most recent
// first.
func (s *Store) ListMemories(filters *MemoryFilters) ([]*Memory, error) {
	query := `
		SELECT id, content, summary, kind, layer, created_at,
		       working_strength, core_strength, importance, pinned,
		       consolidation_count, last_consolidated, source,
		       contradicts, contradicted_by, embedding, embedding_dim
		FROM memories
	`
	var clauses []string
	var args []interface{}

	if filters != nil {
		if filters.Kind != "" {
			clauses = append(clauses, "kind = ?")
			args = append(args, filters.Kind)
		}
		if filters.Layer != "" {
			clauses = append(clauses, "layer = ?")
			args = append(args, filters.Layer)
		}
		if filters.Pinned != nil {
			clauses = append(clauses, "pinned = ?")
			args = append(args, *filters.Pinned)
		}
	}
	if len(clauses) > 0 {
		query += " WHERE "
		for i, c := range clauses {
			if i > 0 {
				query += " AND "
			}
			query += c
		}
	}
	query += " ORDER BY created_at DESC"
	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filters.Limit)
	}

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	return scanMemoryRows(rows)
}

func scanMemoryRows(rows *sql.Rows) ([]*Memory, error) {
	var out []*Memory
	for rows.Next() {
		var m Memory
		var summary, source, contradicts, contradictedBy sql.NullString
		var lastConsolidated sql.NullInt64
		var createdAt int64
		var embedding []byte
		var embeddingDim sql.NullInt64

		err := rows.Scan(
			&m.ID, &m.Content, &summary, &m.Kind, &m.Layer, &createdAt,
			&m.WorkingStrength, &m.CoreStrength, &m.Importance, &m.Pinned,
			&m.ConsolidationCount, &lastConsolidated, &source,
			&contradicts, &contradictedBy, &embedding, &embeddingDim,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory row: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0)
		m.Summary = summary.String
		m.Source = source.String
		m.Contradicts = contradicts.String
		m.ContradictedBy = contradictedBy.String
		if lastConsolidated.Valid {
			t := time.Unix(lastConsolidated.Int64, 0)
			m.LastConsolidated = &t
		}
		if embeddingDim.Valid {
			m.EmbeddingDim = int(embeddingDim.Int64)
		}
		m.Embedding = decodeEmbedding(embedding)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) interface{} {
	if i == 0 {
		return nil
	}
	return i
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func encodeEmbedding(v []float64) ([]byte, int) {
	if len(v) == 0 {
		return nil, 0
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, 0
	}
	return b, len(v)
}

func decodeEmbedding(b []byte) []float64 {
	if len(b) == 0 {
		return nil
	}
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}
