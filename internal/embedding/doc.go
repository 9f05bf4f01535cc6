// Package embedding provides the engine's pluggable text-to-vector
// provider abstraction (SPEC_FULL §4.9): a local daemon (Ollama-style HTTP),
// an in-process dependency-free embedder, a generic remote HTTP API, and a
// no-op provider, selected by a Manager in auto/explicit/none mode.
package embedding
