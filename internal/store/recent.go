package store

// RecentlyAccessed returns the ids of the n most recently accessed
// memories, most recent first, with no id repeated — used by the reward
// operation's "last N accessed entries" rule (spec §4.7).
func (s *Store) RecentlyAccessed(n int) ([]string, error) {
	if n <= 0 {
		n = 3
	}
	rows, err := s.query(`
		SELECT memory_id, MAX(accessed_at) as last_accessed
		FROM access_log
		GROUP BY memory_id
		ORDER BY last_accessed DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var lastAccessed int64
		if err := rows.Scan(&id, &lastAccessed); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
