// Package dependencies provides centralized checking and messaging for the
// engine's optional external dependencies: an embedding provider reachable
// over HTTP (local daemon or remote API) and an optional Qdrant vector
// index. Neither is required for the engine to run — lexical (FTS5) search
// and the store's built-in linear vector scan work with nothing installed —
// but a "doctor" command needs to explain what is and isn't wired up.
package dependencies

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/engramhq/engram/internal/embedding"
	"github.com/engramhq/engram/internal/vector"
	"github.com/engramhq/engram/pkg/config"
)

// Status represents the status of an optional dependency
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusDisabled    Status = "disabled"
	StatusMissing     Status = "missing"
)

// DependencyInfo contains information about a dependency
type DependencyInfo struct {
	Name    string
	Status  Status
	Version string
	URL     string
	Message string
}

// CheckResult contains the results of checking all optional dependencies
type CheckResult struct {
	Embedding DependencyInfo
	Vector    DependencyInfo
}

// Check checks all optional dependencies and returns their status
func Check(cfg *config.Config) *CheckResult {
	result := &CheckResult{}

	result.Embedding = checkEmbedding(cfg)
	result.Vector = checkVector(cfg)

	return result
}

func checkEmbedding(cfg *config.Config) DependencyInfo {
	info := DependencyInfo{Name: "Embedding provider"}

	if cfg.Embedding.Mode == string(embedding.ModeNone) {
		info.Status = StatusDisabled
		info.Message = "embedding is disabled in configuration (mode=none)"
		return info
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mgr := embedding.NewManager(cfg.Embedding)
	p, err := mgr.Active(ctx)
	if err != nil {
		info.Status = StatusMissing
		info.Message = fmt.Sprintf("failed to resolve an embedding provider: %v", err)
		return info
	}

	info.Name = fmt.Sprintf("Embedding provider (%s)", p.Name())
	info.Version = p.Model()
	if p.Name() == "local-daemon" {
		info.URL = cfg.Embedding.LocalDaemon.BaseURL
	} else if p.Name() == "remote-http" {
		info.URL = cfg.Embedding.RemoteHTTP.Endpoint
	}

	if p.Available(ctx) {
		info.Status = StatusAvailable
		info.Message = fmt.Sprintf("%s is reachable, model %s", p.Name(), p.Model())
	} else {
		info.Status = StatusUnavailable
		info.Message = fmt.Sprintf("%s is configured but not reachable", p.Name())
	}

	return info
}

func checkVector(cfg *config.Config) DependencyInfo {
	info := DependencyInfo{Name: "Qdrant", URL: cfg.Vector.URL}

	if !cfg.Vector.Enabled {
		info.Status = StatusDisabled
		info.Message = "external vector index is disabled; using the store's built-in linear scan"
		return info
	}

	client := vector.NewQdrantClient(&cfg.Vector)
	if !client.IsAvailable() {
		info.Status = StatusMissing
		info.Message = "Qdrant is not running or not reachable at " + cfg.Vector.URL
		return info
	}

	info.Status = StatusAvailable
	info.Message = "Qdrant is running, collection " + client.CollectionName()
	return info
}

// HasAnyMissing returns true if any dependencies are missing
func (r *CheckResult) HasAnyMissing() bool {
	return r.Embedding.Status == StatusMissing || r.Vector.Status == StatusMissing
}

// SemanticSearchAvailable returns true if vector-backed retrieval can run:
// an embedding provider is producing vectors (local-daemon/remote-http/
// in-process all count; "none" does not).
func (r *CheckResult) SemanticSearchAvailable() bool {
	return r.Embedding.Status == StatusAvailable
}

// ExternalIndexAvailable returns true if the optional Qdrant index is live.
func (r *CheckResult) ExternalIndexAvailable() bool {
	return r.Vector.Status == StatusAvailable
}

// FormatWarning formats a warning message for display
func FormatWarning(result *CheckResult) string {
	var buf bytes.Buffer

	if result.Embedding.Status == StatusMissing || result.Embedding.Status == StatusUnavailable {
		buf.WriteString("warning: no embedding provider is reachable - falling back to lexical-only retrieval\n")
	}

	if result.Vector.Status == StatusMissing {
		buf.WriteString("warning: Qdrant is enabled in configuration but not reachable - using the store's linear vector scan\n")
	}

	if buf.Len() > 0 {
		buf.WriteString("   Run 'engramd doctor' for details and installation instructions.\n")
	}

	return buf.String()
}

// FormatShortWarning formats a brief inline warning
func FormatShortWarning(result *CheckResult) string {
	var warnings []string

	if result.Embedding.Status == StatusMissing || result.Embedding.Status == StatusUnavailable {
		warnings = append(warnings, "no embedding provider")
	}

	if result.Vector.Status == StatusMissing {
		warnings = append(warnings, "Qdrant unavailable")
	}

	if len(warnings) > 0 {
		return fmt.Sprintf("[engram: %s]", strings.Join(warnings, ", "))
	}
	return ""
}

// InstallInstructions returns installation instructions for missing dependencies
type InstallInstructions struct {
	Embedding *EmbeddingInstallInstructions
	Vector    *VectorInstallInstructions
}

// EmbeddingInstallInstructions contains steps to stand up a local embedding daemon
type EmbeddingInstallInstructions struct {
	InstallSteps []string
}

// VectorInstallInstructions contains Qdrant-specific install steps
type VectorInstallInstructions struct {
	InstallSteps []string
}

// GetInstallInstructions returns installation instructions for missing dependencies
func GetInstallInstructions(result *CheckResult) *InstallInstructions {
	instructions := &InstallInstructions{}

	if result.Embedding.Status == StatusMissing || result.Embedding.Status == StatusUnavailable {
		instructions.Embedding = getEmbeddingInstructions()
	}

	if result.Vector.Status == StatusMissing {
		instructions.Vector = getVectorInstructions()
	}

	return instructions
}

func getEmbeddingInstructions() *EmbeddingInstallInstructions {
	instr := &EmbeddingInstallInstructions{}

	switch runtime.GOOS {
	case "darwin":
		instr.InstallSteps = []string{
			"1. Install a local embedding daemon (e.g. Ollama):",
			"   brew install ollama",
			"   ollama serve",
			"   ollama pull nomic-embed-text",
			"",
			"2. Or set embedding.mode: in-process in the config to skip",
			"   external dependencies entirely (dependency-free embeddings).",
		}
	case "linux":
		instr.InstallSteps = []string{
			"1. Install a local embedding daemon (e.g. Ollama):",
			"   curl -fsSL https://ollama.ai/install.sh | sh",
			"   ollama serve",
			"   ollama pull nomic-embed-text",
			"",
			"2. Or set embedding.mode: in-process in the config to skip",
			"   external dependencies entirely (dependency-free embeddings).",
		}
	default:
		instr.InstallSteps = []string{
			"1. Install a local embedding daemon from https://ollama.ai",
			"2. Or set embedding.mode: in-process to skip external dependencies.",
		}
	}

	return instr
}

func getVectorInstructions() *VectorInstallInstructions {
	instr := &VectorInstallInstructions{}

	switch runtime.GOOS {
	case "windows":
		instr.InstallSteps = []string{
			"Option 1 - Docker Desktop (recommended):",
			"   docker run -p 6333:6333 -v qdrant_storage:/qdrant/storage qdrant/qdrant",
			"",
			"Option 2 - Binary:",
			"   Download from: https://github.com/qdrant/qdrant/releases",
			"   qdrant.exe",
		}
	default:
		instr.InstallSteps = []string{
			"Option 1 - Docker (recommended):",
			"   docker run -p 6333:6333 -v qdrant_storage:/qdrant/storage qdrant/qdrant",
			"",
			"Option 2 - Binary:",
			"   Download from: https://github.com/qdrant/qdrant/releases",
			"   ./qdrant",
			"",
			"Vector indexing is entirely optional: the store falls back to a",
			"linear scan over embedded rows when Qdrant is disabled.",
		}
	}

	return instr
}

// FormatDoctorReport formats a detailed doctor report
func FormatDoctorReport(result *CheckResult) string {
	var buf bytes.Buffer

	buf.WriteString("Embedding provider... ")
	switch result.Embedding.Status {
	case StatusAvailable:
		buf.WriteString("OK\n")
		if result.Embedding.URL != "" {
			buf.WriteString(fmt.Sprintf("  URL: %s\n", result.Embedding.URL))
		}
		if result.Embedding.Version != "" {
			buf.WriteString(fmt.Sprintf("  Model: %s\n", result.Embedding.Version))
		}
	case StatusDisabled:
		buf.WriteString("DISABLED\n")
		buf.WriteString("  Retrieval will be lexical-only (FTS5 BM25, no vector fusion).\n")
	case StatusMissing, StatusUnavailable:
		buf.WriteString("NOT AVAILABLE\n")
		buf.WriteString(fmt.Sprintf("  %s\n", result.Embedding.Message))
	}

	buf.WriteString("Qdrant... ")
	switch result.Vector.Status {
	case StatusAvailable:
		buf.WriteString("OK\n")
		buf.WriteString(fmt.Sprintf("  URL: %s\n", result.Vector.URL))
	case StatusDisabled:
		buf.WriteString("DISABLED\n")
		buf.WriteString("  Using the store's built-in linear vector scan.\n")
	case StatusMissing, StatusUnavailable:
		buf.WriteString("NOT AVAILABLE\n")
		buf.WriteString(fmt.Sprintf("  %s\n", result.Vector.Message))
	}

	return buf.String()
}
