package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetHebbianLink returns the link between a and b, if one exists. Endpoints
// are canonicalized before lookup so callers never need to know the
// storage order (spec §3 Hebbian link).
func (s *Store) GetHebbianLink(a, b string) (*HebbianLink, error) {
	x, y := CanonicalPair(a, b)
	row := s.queryRow(`
		SELECT memory_a, memory_b, strength, co_activation_count, created_at
		FROM hebbian_links WHERE memory_a = ? AND memory_b = ?
	`, x, y)
	return scanHebbianRow(row)
}

func scanHebbianRow(row *sql.Row) (*HebbianLink, error) {
	var h HebbianLink
	var createdAt int64
	err := row.Scan(&h.MemoryA, &h.MemoryB, &h.Strength, &h.CoActivationCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan hebbian link: %w", err)
	}
	h.CreatedAt = time.Unix(createdAt, 0)
	return &h, nil
}

// UpsertHebbianLink materializes or updates the link between a and b. The
// endpoints are canonicalized; self-loops are rejected (invariant 6).
func (s *Store) UpsertHebbianLink(a, b string, strength float64, coActivationCount int) error {
	if a == b {
		return fmt.Errorf("hebbian link endpoints must be distinct: %s", a)
	}
	x, y := CanonicalPair(a, b)
	_, err := s.exec(`
		INSERT INTO hebbian_links (memory_a, memory_b, strength, co_activation_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(memory_a, memory_b) DO UPDATE SET
			strength = excluded.strength,
			co_activation_count = excluded.co_activation_count
	`, x, y, strength, coActivationCount, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert hebbian link: %w", err)
	}
	return nil
}

// DeleteHebbianLink removes the link between a and b, if any.
func (s *Store) DeleteHebbianLink(a, b string) error {
	x, y := CanonicalPair(a, b)
	_, err := s.exec(`DELETE FROM hebbian_links WHERE memory_a = ? AND memory_b = ?`, x, y)
	if err != nil {
		return fmt.Errorf("failed to delete hebbian link: %w", err)
	}
	return nil
}

// HebbianNeighbors returns every live link touching id with strength at
// least minStrength (spec §4.4 neighbors).
func (s *Store) HebbianNeighbors(id string, minStrength float64) ([]HebbianLink, error) {
	rows, err := s.query(`
		SELECT memory_a, memory_b, strength, co_activation_count, created_at
		FROM hebbian_links
		WHERE (memory_a = ? OR memory_b = ?) AND strength >= ?
	`, id, id, minStrength)
	if err != nil {
		return nil, fmt.Errorf("failed to load hebbian neighbors: %w", err)
	}
	defer rows.Close()
	return scanHebbianRows(rows)
}

// AllHebbianLinks returns every link in the store — used by the
// consolidation cycle's decay pass (spec §4.4 decay).
func (s *Store) AllHebbianLinks() ([]HebbianLink, error) {
	rows, err := s.query(`SELECT memory_a, memory_b, strength, co_activation_count, created_at FROM hebbian_links`)
	if err != nil {
		return nil, fmt.Errorf("failed to load hebbian links: %w", err)
	}
	defer rows.Close()
	return scanHebbianRows(rows)
}

func scanHebbianRows(rows *sql.Rows) ([]HebbianLink, error) {
	var out []HebbianLink
	for rows.Next() {
		var h HebbianLink
		var createdAt int64
		if err := rows.Scan(&h.MemoryA, &h.MemoryB, &h.Strength, &h.CoActivationCount, &createdAt); err != nil {
			return nil, err
		}
		h.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, h)
	}
	return out, rows.Err()
}
