// Package vector provides an optional external vector-index backend
// (SPEC_FULL §4.10): a Qdrant client usable in place of the store's
// built-in linear-scan vector_search when a store grows large enough that
// an ANN index pays for itself. The store row remains the authoritative
// record; this index only accelerates similarity search.
package vector
