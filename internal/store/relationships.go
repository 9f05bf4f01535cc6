package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateRelationship inserts a new edge into memory_relationships. This is
// the shared substrate for contradiction pointers, Hebbian-materialized
// links, and caller-declared associative edges (SPEC_FULL §3.1).
func (s *Store) CreateRelationship(r *Relationship) error {
	if !IsValidRelationshipType(r.RelationshipType) {
		return fmt.Errorf("invalid relationship type: %q", r.RelationshipType)
	}
	if r.Strength < 0.0 || r.Strength > 1.0 {
		return fmt.Errorf("relationship strength must be in [0,1], got %f", r.Strength)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.exec(`
		INSERT INTO memory_relationships (
			id, source_memory_id, target_memory_id, relationship_type,
			strength, context, auto_generated, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.SourceMemoryID, r.TargetMemoryID, r.RelationshipType,
		r.Strength, nullString(r.Context), r.AutoGenerated, r.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}

// DeleteRelationship removes a single relationship by id.
func (s *Store) DeleteRelationship(id string) error {
	_, err := s.exec(`DELETE FROM memory_relationships WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	return nil
}

// RelationshipsForMemory returns every relationship touching a memory,
// optionally filtered by type ("" means any type).
func (s *Store) RelationshipsForMemory(memoryID, relType string) ([]*Relationship, error) {
	query := `
		SELECT id, source_memory_id, target_memory_id, relationship_type,
		       strength, context, auto_generated, created_at
		FROM memory_relationships
		WHERE (source_memory_id = ? OR target_memory_id = ?)
	`
	args := []interface{}{memoryID, memoryID}
	if relType != "" {
		query += " AND relationship_type = ?"
		args = append(args, relType)
	}

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}
	defer rows.Close()
	return scanRelationshipRows(rows)
}

func scanRelationshipRows(rows *sql.Rows) ([]*Relationship, error) {
	var out []*Relationship
	for rows.Next() {
		var r Relationship
		var context sql.NullString
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.SourceMemoryID, &r.TargetMemoryID, &r.RelationshipType,
			&r.Strength, &context, &r.AutoGenerated, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		r.Context = context.String
		r.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// MarkContradiction sets newID.contradicts = oldID and oldID.contradicted_by
// = newID, and records an auto-generated "contradicts" relationship row,
// all in one transaction (invariant 5). Returns an error if oldID is
// already contradicted (the chain is a forest: each node has at most one
// direct successor) or if doing so would close a cycle.
func (s *Store) MarkContradiction(newID, oldID string) error {
	if newID == oldID {
		return fmt.Errorf("a memory cannot contradict itself")
	}

	old, err := s.Peek(oldID)
	if err != nil {
		return err
	}
	if old == nil {
		return fmt.Errorf("contradicted memory not found: %s", oldID)
	}
	if old.ContradictedBy != "" {
		return fmt.Errorf("memory %s is already contradicted by %s", oldID, old.ContradictedBy)
	}

	// Walk the existing chain from newID backwards; if oldID already
	// appears as an ancestor-of-newID's-ancestor this would form a cycle.
	cursor := newID
	for cursor != "" {
		if cursor == oldID {
			return fmt.Errorf("marking %s as contradicting %s would form a cycle", newID, oldID)
		}
		m, err := s.Peek(cursor)
		if err != nil || m == nil {
			break
		}
		cursor = m.Contradicts
	}

	s.mu.Lock()
	tx, err := s.db.Begin()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to begin contradiction transaction: %w", err)
	}

	if _, err := tx.Exec(`UPDATE memories SET contradicts = ? WHERE id = ?`, oldID, newID); err != nil {
		tx.Rollback()
		s.mu.Unlock()
		return fmt.Errorf("failed to set contradicts: %w", err)
	}
	if _, err := tx.Exec(`UPDATE memories SET contradicted_by = ? WHERE id = ?`, newID, oldID); err != nil {
		tx.Rollback()
		s.mu.Unlock()
		return fmt.Errorf("failed to set contradicted_by: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO memory_relationships (id, source_memory_id, target_memory_id, relationship_type, strength, auto_generated, created_at)
		VALUES (?, ?, ?, 'contradicts', 1.0, 1, ?)
	`, uuid.New().String(), newID, oldID, time.Now().Unix()); err != nil {
		tx.Rollback()
		s.mu.Unlock()
		return fmt.Errorf("failed to record contradiction relationship: %w", err)
	}
	if err := tx.Commit(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to commit contradiction: %w", err)
	}
	s.mu.Unlock()
	return nil
}
