package store

import "time"

// Memory is the primary record held by the store. See spec §3.
type Memory struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
	Kind    string `json:"kind"`  // factual, episodic, relational, emotional, procedural, opinion
	Layer   string `json:"layer"` // core, working, archive

	CreatedAt time.Time `json:"created_at"`

	WorkingStrength float64 `json:"working_strength"` // r1
	CoreStrength    float64 `json:"core_strength"`    // r2
	Importance      float64 `json:"importance"`       // [0,1]

	Pinned bool `json:"pinned"`

	ConsolidationCount int        `json:"consolidation_count"`
	LastConsolidated   *time.Time `json:"last_consolidated,omitempty"`

	Source string `json:"source,omitempty"`

	Contradicts    string `json:"contradicts,omitempty"`     // memory id this entry supersedes, or ""
	ContradictedBy string `json:"contradicted_by,omitempty"` // memory id that supersedes this entry, or ""

	Embedding    []float64 `json:"-"`
	EmbeddingDim int       `json:"embedding_dim,omitempty"`

	// AccessTimes is attached by Get/Peek; empty unless populated by a read.
	AccessTimes []time.Time `json:"access_times,omitempty"`
}

// IsContradicted reports whether this entry has been superseded.
func (m *Memory) IsContradicted() bool {
	return m.ContradictedBy != ""
}

// GraphLink is a (memory, entity, relation) triple. See spec §3.
type GraphLink struct {
	MemoryID      string
	EntityLabel   string
	RelationLabel string
}

// HebbianLink is a symmetric co-activation edge. MemoryA < MemoryB always
// (canonical ordering enforced by the store).
type HebbianLink struct {
	MemoryA           string
	MemoryB           string
	Strength          float64
	CoActivationCount int
	CreatedAt         time.Time
}

// Other returns the endpoint of the link that is not id. Panics-free: if id
// matches neither endpoint, returns "".
func (h *HebbianLink) Other(id string) string {
	switch id {
	case h.MemoryA:
		return h.MemoryB
	case h.MemoryB:
		return h.MemoryA
	default:
		return ""
	}
}

// CanonicalPair returns (a, b) with a < b, the canonical storage order for a
// Hebbian link between two distinct memory ids.
func CanonicalPair(x, y string) (string, string) {
	if x < y {
		return x, y
	}
	return y, x
}

// Relationship is an edge in the memory_relationships table: the substrate
// for contradiction pointers, Hebbian-materialized links, and any
// caller-declared associative graph edges. See SPEC_FULL §3.1.
type Relationship struct {
	ID                string
	SourceMemoryID    string
	TargetMemoryID    string
	RelationshipType  string
	Strength          float64
	Context           string
	AutoGenerated     bool
	CreatedAt         time.Time
}

// FTSResult is one row from a full-text search, with its BM25-derived
// relevance normalized to [0,1] (higher is better).
type FTSResult struct {
	Memory    *Memory
	Relevance float64
}

// VectorResult is one row from a vector similarity search.
type VectorResult struct {
	Memory     *Memory
	Similarity float64
}

// MemoryFilters narrows ListMemories.
type MemoryFilters struct {
	Kind   string
	Layer  string
	Pinned *bool
	Limit  int
}

// Stats aggregates store-wide counters, used by the engine's stats operation.
type Stats struct {
	Path          string         `json:"path"`
	SchemaVersion int            `json:"schema_version"`
	MemoryCount   int            `json:"memory_count"`
	CountByKind   map[string]int `json:"count_by_kind"`
	CountByLayer  map[string]int `json:"count_by_layer"`
	RelationCount int            `json:"relation_count"`
	HebbianCount  int            `json:"hebbian_count"`
	FileSizeBytes int64          `json:"file_size_bytes"`
}
