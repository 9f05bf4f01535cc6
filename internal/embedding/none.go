package embedding

import (
	"context"
	"fmt"
)

// NoneProvider explicitly disables embeddings: add/recall run in
// lexical-only mode (SPEC_FULL §4.9, spec embedding selection mode "none").
type NoneProvider struct{}

func NewNoneProvider() *NoneProvider { return &NoneProvider{} }

func (p *NoneProvider) Name() string  { return "none" }
func (p *NoneProvider) Model() string { return "" }

func (p *NoneProvider) Available(ctx context.Context) bool { return false }

func (p *NoneProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	return nil, fmt.Errorf("embedding provider is disabled (mode=none)")
}
