package store

// SchemaVersion is the current schema version. Migrations are additive only.
const SchemaVersion = 1

// CoreSchema contains the main table definitions for the memory engine.
//
// Tables: memories, access_log, graph_links, memory_relationships,
// hebbian_links, schema_version.
const CoreSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- =============================================================================
-- MEMORIES TABLE
-- =============================================================================
CREATE TABLE IF NOT EXISTS memories (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	summary TEXT,
	kind TEXT NOT NULL CHECK (kind IN ('factual','episodic','relational','emotional','procedural','opinion')),
	layer TEXT NOT NULL DEFAULT 'working' CHECK (layer IN ('core','working','archive')),
	created_at INTEGER NOT NULL,
	working_strength REAL NOT NULL DEFAULT 1.0,
	core_strength REAL NOT NULL DEFAULT 0.0,
	importance REAL NOT NULL DEFAULT 0.5 CHECK (importance >= 0.0 AND importance <= 1.0),
	pinned BOOLEAN NOT NULL DEFAULT 0,
	consolidation_count INTEGER NOT NULL DEFAULT 0,
	last_consolidated INTEGER,
	source TEXT,
	contradicts TEXT REFERENCES memories(id) ON DELETE SET NULL,
	contradicted_by TEXT REFERENCES memories(id) ON DELETE SET NULL,
	embedding BLOB,
	embedding_dim INTEGER
);

CREATE INDEX IF NOT EXISTS idx_memories_kind ON memories(kind);
CREATE INDEX IF NOT EXISTS idx_memories_layer ON memories(layer);
CREATE INDEX IF NOT EXISTS idx_memories_pinned ON memories(pinned);
CREATE INDEX IF NOT EXISTS idx_memories_created_at ON memories(created_at);
CREATE INDEX IF NOT EXISTS idx_memories_contradicts ON memories(contradicts);
CREATE INDEX IF NOT EXISTS idx_memories_contradicted_by ON memories(contradicted_by);

-- =============================================================================
-- ACCESS LOG TABLE
-- Append-only; one row per access (including the creation access).
-- =============================================================================
CREATE TABLE IF NOT EXISTS access_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	memory_id TEXT NOT NULL REFERENCES memories(id) ON DELETE CASCADE,
	accessed_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_access_log_memory ON access_log(memory_id);
CREATE INDEX IF NOT EXISTS idx_access_log_memory_time ON access_log(memory_id, accessed_at);

-- =============================================================================
-- GRAPH LINKS TABLE
-- Many-to-many index over caller-supplied entity labels.
-- =============================================================================
CREATE TABLE IF NOT EXISTS graph_links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	memory_id TEXT NOT NULL REFERENCES memories(id) ON DELETE CASCADE,
	entity_label TEXT NOT NULL,
	relation_label TEXT NOT NULL DEFAULT '',
	UNIQUE(memory_id, entity_label, relation_label)
);

CREATE INDEX IF NOT EXISTS idx_graph_links_memory ON graph_links(memory_id);
CREATE INDEX IF NOT EXISTS idx_graph_links_entity ON graph_links(entity_label);

-- =============================================================================
-- MEMORY RELATIONSHIPS TABLE
-- Underlying edge table for contradiction pointers, Hebbian-materialized
-- links (auto_generated=1), and any caller-declared associative edges.
-- =============================================================================
CREATE TABLE IF NOT EXISTS memory_relationships (
	id TEXT PRIMARY KEY,
	source_memory_id TEXT NOT NULL REFERENCES memories(id) ON DELETE CASCADE,
	target_memory_id TEXT NOT NULL REFERENCES memories(id) ON DELETE CASCADE,
	relationship_type TEXT NOT NULL CHECK (
		relationship_type IN ('references','contradicts','expands','similar','sequential','causes','enables')
	),
	strength REAL NOT NULL CHECK (strength >= 0.0 AND strength <= 1.0),
	context TEXT,
	auto_generated BOOLEAN NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_relationships_source ON memory_relationships(source_memory_id);
CREATE INDEX IF NOT EXISTS idx_relationships_target ON memory_relationships(target_memory_id);
CREATE INDEX IF NOT EXISTS idx_relationships_type ON memory_relationships(relationship_type);
CREATE INDEX IF NOT EXISTS idx_relationships_source_type ON memory_relationships(source_memory_id, relationship_type);
CREATE INDEX IF NOT EXISTS idx_relationships_target_type ON memory_relationships(target_memory_id, relationship_type);

-- =============================================================================
-- HEBBIAN LINKS TABLE
-- Symmetric co-activation edges. Endpoints are stored canonically ordered
-- (memory_a < memory_b) so each unordered pair has exactly one row.
-- =============================================================================
CREATE TABLE IF NOT EXISTS hebbian_links (
	memory_a TEXT NOT NULL REFERENCES memories(id) ON DELETE CASCADE,
	memory_b TEXT NOT NULL REFERENCES memories(id) ON DELETE CASCADE,
	strength REAL NOT NULL DEFAULT 0.0,
	co_activation_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (memory_a, memory_b),
	CHECK (memory_a < memory_b)
);

CREATE INDEX IF NOT EXISTS idx_hebbian_a ON hebbian_links(memory_a);
CREATE INDEX IF NOT EXISTS idx_hebbian_b ON hebbian_links(memory_b);
`

// FTS5Schema contains the full-text search configuration: a standalone FTS5
// virtual table (stores its own content) kept current by triggers so the
// index never drifts from memories.content/summary.
const FTS5Schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
	id UNINDEXED,
	content,
	summary
);

CREATE TRIGGER IF NOT EXISTS memories_fts_insert AFTER INSERT ON memories BEGIN
	INSERT INTO memories_fts(id, content, summary) VALUES (new.id, new.content, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS memories_fts_delete AFTER DELETE ON memories BEGIN
	DELETE FROM memories_fts WHERE id = old.id;
END;

CREATE TRIGGER IF NOT EXISTS memories_fts_update AFTER UPDATE ON memories BEGIN
	UPDATE memories_fts SET content = new.content, summary = new.summary WHERE id = old.id;
END;
`

// RelationshipTypes contains the 7 supported relationship-edge types.
var RelationshipTypes = []string{
	"references",
	"contradicts",
	"expands",
	"similar",
	"sequential",
	"causes",
	"enables",
}

// IsValidRelationshipType reports whether t is a supported relationship type.
func IsValidRelationshipType(t string) bool {
	for _, rt := range RelationshipTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// MemoryKinds contains the 6 supported memory kinds.
var MemoryKinds = []string{
	"factual", "episodic", "relational", "emotional", "procedural", "opinion",
}

// IsValidKind reports whether k is a supported memory kind.
func IsValidKind(k string) bool {
	for _, kind := range MemoryKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Layers contains the 3 lifecycle layers, in promotion order.
var Layers = []string{"archive", "working", "core"}

// IsValidLayer reports whether l is a supported layer.
func IsValidLayer(l string) bool {
	for _, layer := range Layers {
		if layer == l {
			return true
		}
	}
	return false
}
