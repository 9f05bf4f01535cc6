package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LocalDaemonProvider calls an Ollama-style local embedding daemon over
// HTTP. Grounded on the teacher's OllamaClient (internal/ai/ollama.go)
// embedding request/response shape, trimmed to the embedding concern only.
type LocalDaemonProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewLocalDaemonProvider constructs a client for a local daemon at baseURL
// serving the given model.
func NewLocalDaemonProvider(baseURL, model string) *LocalDaemonProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &LocalDaemonProvider{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *LocalDaemonProvider) Name() string  { return "local-daemon" }
func (p *LocalDaemonProvider) Model() string { return p.model }

// Available pings the daemon's tag-listing endpoint with a short timeout.
func (p *LocalDaemonProvider) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type localDaemonEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type localDaemonEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed requests a single embedding vector for text.
func (p *LocalDaemonProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(localDaemonEmbedRequest{Model: p.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed localDaemonEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	return parsed.Embedding, nil
}
