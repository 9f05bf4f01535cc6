package store

import "fmt"

// AddGraphLink indexes a (memory, entity, relation) triple. Upsert
// semantics: re-adding the same triple is a no-op (spec §3's graph link).
func (s *Store) AddGraphLink(memoryID, entityLabel, relationLabel string) error {
	_, err := s.exec(`
		INSERT OR IGNORE INTO graph_links (memory_id, entity_label, relation_label)
		VALUES (?, ?, ?)
	`, memoryID, entityLabel, relationLabel)
	if err != nil {
		return fmt.Errorf("failed to add graph link: %w", err)
	}
	return nil
}

// GraphLinksForMemory returns every entity label a memory has been indexed
// under.
func (s *Store) GraphLinksForMemory(memoryID string) ([]GraphLink, error) {
	rows, err := s.query(`SELECT memory_id, entity_label, relation_label FROM graph_links WHERE memory_id = ?`, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph links: %w", err)
	}
	defer rows.Close()

	var out []GraphLink
	for rows.Next() {
		var l GraphLink
		if err := rows.Scan(&l.MemoryID, &l.EntityLabel, &l.RelationLabel); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SearchByEntity returns every memory indexed under an exact entity label
// (spec §4.1 search_by_entity).
func (s *Store) SearchByEntity(label string) ([]*Memory, error) {
	rows, err := s.query(`
		SELECT m.id, m.content, m.summary, m.kind, m.layer, m.created_at,
		       m.working_strength, m.core_strength, m.importance, m.pinned,
		       m.consolidation_count, m.last_consolidated, m.source,
		       m.contradicts, m.contradicted_by, m.embedding, m.embedding_dim
		FROM memories m
		JOIN graph_links g ON g.memory_id = m.id
		WHERE g.entity_label = ?
	`, label)
	if err != nil {
		return nil, fmt.Errorf("failed to search by entity: %w", err)
	}
	defer rows.Close()
	return scanMemoryRows(rows)
}

// RelatedEntities performs a breadth-first expansion through the
// memory<->entity bipartite graph up to hops steps, starting from every
// entity label a caller-supplied seed label co-occurs with on a shared
// memory. Returns the set of reachable entity labels, excluding the seed
// itself (spec §4.1 related_entities).
func (s *Store) RelatedEntities(label string, hops int) ([]string, error) {
	if hops < 1 {
		hops = 1
	}

	visited := map[string]bool{label: true}
	frontier := []string{label}

	for h := 0; h < hops; h++ {
		var next []string
		for _, entity := range frontier {
			memIDs, err := s.memoryIDsForEntity(entity)
			if err != nil {
				return nil, err
			}
			for _, mid := range memIDs {
				labels, err := s.entityLabelsForMemory(mid)
				if err != nil {
					return nil, err
				}
				for _, l := range labels {
					if !visited[l] {
						visited[l] = true
						next = append(next, l)
					}
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	delete(visited, label)
	out := make([]string, 0, len(visited))
	for l := range visited {
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) memoryIDsForEntity(label string) ([]string, error) {
	rows, err := s.query(`SELECT memory_id FROM graph_links WHERE entity_label = ?`, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) entityLabelsForMemory(memoryID string) ([]string, error) {
	rows, err := s.query(`SELECT entity_label FROM graph_links WHERE memory_id = ?`, memoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MemoriesSharingEntities returns, for a given memory, the ids of other
// memories that share at least one of its entity labels — the 1-hop
// entity-based expansion used by candidate retrieval (spec §4.5 step 4a).
func (s *Store) MemoriesSharingEntities(memoryID string) ([]string, error) {
	labels, err := s.entityLabelsForMemory(memoryID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{memoryID: true}
	var out []string
	for _, label := range labels {
		ids, err := s.memoryIDsForEntity(label)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}
