// Package ratelimit throttles calls to the engine's external providers —
// the embedding HTTP backend, the optional Qdrant vector index, and the
// background consolidation scheduler — with a global bucket plus one
// token bucket per provider name.
package ratelimit

// Config holds rate limiting configuration
type Config struct {
	Enabled   bool            `mapstructure:"enabled"`
	Global    LimitConfig     `mapstructure:"global"`
	Providers []ProviderLimit `mapstructure:"providers"`
}

// LimitConfig defines rate limit parameters
type LimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// ProviderLimit defines per-provider rate limiting
type ProviderLimit struct {
	Name              string  `mapstructure:"name"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// DefaultConfig returns the default rate limiting configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Global: LimitConfig{
			RequestsPerSecond: 100,
			BurstSize:         200,
		},
		Providers: []ProviderLimit{
			{
				// embedding calls, whichever provider is active
				Name:              "embedding",
				RequestsPerSecond: 20,
				BurstSize:         40,
			},
			{
				// Qdrant upsert/search calls
				Name:              "vector_index",
				RequestsPerSecond: 30,
				BurstSize:         60,
			},
			{
				// background consolidation cycle
				Name:              "consolidation",
				RequestsPerSecond: 0.1, // 1 every 10 seconds
				BurstSize:         1,
			},
		},
	}
}

// GetProviderLimit returns the limit configuration for a specific provider
// Returns nil if no specific limit is configured for the provider
func (c *Config) GetProviderLimit(providerName string) *ProviderLimit {
	for _, p := range c.Providers {
		if p.Name == providerName {
			return &p
		}
	}
	return nil
}
