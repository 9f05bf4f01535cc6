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

// RemoteHTTPProvider calls a generic JSON embedding API: POST {model,input}
// -> {embedding}. Bearer-token auth, grounded on the same request/response
// shape as LocalDaemonProvider but pointed at an external endpoint.
type RemoteHTTPProvider struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewRemoteHTTPProvider(endpoint, apiKey, model string) *RemoteHTTPProvider {
	return &RemoteHTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *RemoteHTTPProvider) Name() string  { return "remote-http" }
func (p *RemoteHTTPProvider) Model() string { return p.model }

func (p *RemoteHTTPProvider) Available(ctx context.Context) bool {
	return p.endpoint != ""
}

type remoteEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type remoteEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (p *RemoteHTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(remoteEmbedRequest{Model: p.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed remoteEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	return parsed.Embedding, nil
}
