package store

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
)

// SearchFTS returns up to k entries matching a text query, ordered by BM25
// (spec §4.1 search_fts). Relevance is normalized to [0,1], higher-better.
func (s *Store) SearchFTS(query string, k int) ([]FTSResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if k <= 0 {
		k = 10
	}

	ftsQuery := escapeFTS5Query(query)

	rows, err := s.query(`
		SELECT m.id, m.content, m.summary, m.kind, m.layer, m.created_at,
		       m.working_strength, m.core_strength, m.importance, m.pinned,
		       m.consolidation_count, m.last_consolidated, m.source,
		       m.contradicts, m.contradicted_by, m.embedding, m.embedding_dim,
		       bm25(memories_fts) as relevance
		FROM memories_fts fts
		JOIN memories m ON m.id = fts.id
		WHERE memories_fts MATCH ?
		ORDER BY relevance
		LIMIT ?
	`, ftsQuery, k)
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}
	defer rows.Close()

	var rawScores []float64
	var memories []*Memory
	for rows.Next() {
		m, relevance, err := scanFTSRow(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
		rawScores = append(rawScores, relevance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return normalizeBM25(memories, rawScores), nil
}

func scanFTSRow(rows *sql.Rows) (*Memory, float64, error) {
	var m Memory
	var summary, source, contradicts, contradictedBy sql.NullString
	var lastConsolidated sql.NullInt64
	var createdAt int64
	var embedding []byte
	var embeddingDim sql.NullInt64
	var relevance float64

	err := rows.Scan(
		&m.ID, &m.Content, &summary, &m.Kind, &m.Layer, &createdAt,
		&m.WorkingStrength, &m.CoreStrength, &m.Importance, &m.Pinned,
		&m.ConsolidationCount, &lastConsolidated, &source,
		&contradicts, &contradictedBy, &embedding, &embeddingDim, &relevance,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan fts row: %w", err)
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
	return &m, relevance, nil
}

// normalizeBM25 max-normalizes raw (negative, lower-is-better) BM25 scores
// into [0,1], higher-better. Guards the empty-result case (spec §4.5 step
// 1: "negate and max-normalize; guard empty").
func normalizeBM25(memories []*Memory, rawScores []float64) []FTSResult {
	if len(memories) == 0 {
		return nil
	}
	// bm25() is more negative for better matches; negate so larger is better.
	negated := make([]float64, len(rawScores))
	maxV := math.Inf(-1)
	for i, s := range rawScores {
		negated[i] = -s
		if negated[i] > maxV {
			maxV = negated[i]
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	out := make([]FTSResult, len(memories))
	for i, m := range memories {
		score := negated[i] / maxV
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		out[i] = FTSResult{Memory: m, Relevance: score}
	}
	return out
}

func escapeFTS5Query(query string) string {
	replacer := strings.NewReplacer(`"`, `""`)
	// Wrap as a phrase-safe token-OR query: split on whitespace and OR the
	// escaped terms so any-term matches surface (greedy recall over strict
	// AND matching, consistent with a memory "recall" rather than a
	// precise document search).
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return `""`
	}
	for i, f := range fields {
		fields[i] = `"` + replacer.Replace(f) + `"`
	}
	return strings.Join(fields, " OR ")
}

// VectorSearch returns up to k entries with a stored embedding whose cosine
// similarity to q is at least minSim, ordered best-first. Implemented as a
// linear scan, acceptable for small-to-medium stores per spec §4.1.
func (s *Store) VectorSearch(q []float64, k int, minSim float64) ([]VectorResult, error) {
	if len(q) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 10
	}

	rows, err := s.query(`
		SELECT id, content, summary, kind, layer, created_at,
		       working_strength, core_strength, importance, pinned,
		       consolidation_count, last_consolidated, source,
		       contradicts, contradicted_by, embedding, embedding_dim
		FROM memories WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	memories, err := scanMemoryRows(rows)
	if err != nil {
		return nil, err
	}

	var results []VectorResult
	for _, m := range memories {
		if len(m.Embedding) != len(q) {
			continue // invariant 8: mixed dimensions are never compared
		}
		sim := cosineSimilarity(q, m.Embedding)
		if sim >= minSim {
			results = append(results, VectorResult{Memory: m, Similarity: sim})
		}
	}

	sortVectorResultsDesc(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func sortVectorResultsDesc(results []VectorResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Similarity > results[j-1].Similarity; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}
