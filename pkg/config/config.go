// Package config loads and validates the engine's layered configuration:
// defaults, an optional YAML file, and environment overrides, via Viper.
// Structure follows the teacher's viper-backed layering (config.go),
// extended with the dynamics weight table named in the specification.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/engramhq/engram/internal/ratelimit"
)

// Config is the complete engine configuration.
type Config struct {
	Profile    string           `mapstructure:"profile"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Vector     VectorConfig     `mapstructure:"vector"`
	RestAPI    RestAPIConfig    `mapstructure:"rest_api"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Weights    WeightsConfig    `mapstructure:"weights"`
	RateLimit  ratelimit.Config `mapstructure:"rate_limit"`
}

// DatabaseConfig holds store configuration.
type DatabaseConfig struct {
	Path        string `mapstructure:"path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// EmbeddingConfig selects and configures the embedding provider (SPEC_FULL
// §4.9). Mode is one of "auto", "none", or an explicit provider name
// ("local-daemon", "in-process", "remote-http").
type EmbeddingConfig struct {
	Mode       string           `mapstructure:"mode"`
	LocalDaemon LocalDaemonConfig `mapstructure:"local_daemon"`
	RemoteHTTP  RemoteHTTPConfig  `mapstructure:"remote_http"`
}

// LocalDaemonConfig configures the Ollama-style local embedding daemon.
type LocalDaemonConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// RemoteHTTPConfig configures a generic remote HTTP embedding API.
type RemoteHTTPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// VectorConfig configures the optional external vector-index backend
// (SPEC_FULL §4.10).
type VectorConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	AutoDetect bool   `mapstructure:"auto_detect"`
	URL        string `mapstructure:"url"`
}

// RestAPIConfig configures the thin read-only status/export HTTP surface.
type RestAPIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	CORS    bool   `mapstructure:"cors"`
}

// SchedulerConfig configures the background consolidation scheduler
// (SPEC_FULL §4.12).
type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	DeltaT   float64       `mapstructure:"delta_t"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WeightsConfig collects every tunable in the spec §9 glossary table.
// Defaults below are the spec's named defaults; named presets override a
// subset.
type WeightsConfig struct {
	// Activation (§4.2)
	WSpread     float64 `mapstructure:"w_spread"`
	WImportance float64 `mapstructure:"w_importance"`
	WHebbian    float64 `mapstructure:"w_hebbian"`
	PContra     float64 `mapstructure:"p_contra"`

	// Forgetting (§4.3)
	Beta            float64 `mapstructure:"beta"`
	Gamma           float64 `mapstructure:"gamma"`
	ForgetThreshold float64 `mapstructure:"forget_threshold"`

	// Hebbian (§4.4)
	HebbianEnabled bool    `mapstructure:"hebbian_enabled"`
	ThetaForm      int     `mapstructure:"theta_form"`
	Eta            float64 `mapstructure:"eta"`
	LambdaHeb      float64 `mapstructure:"lambda_heb"`
	SMax           float64 `mapstructure:"s_max"`

	// Consolidation (§4.6)
	Mu1              float64 `mapstructure:"mu1"`
	Mu2              float64 `mapstructure:"mu2"`
	Alpha            float64 `mapstructure:"alpha"`
	ReplayBoost      float64 `mapstructure:"replay_boost"`
	PromoteThreshold float64 `mapstructure:"promote_threshold"`
	DemoteThreshold  float64 `mapstructure:"demote_threshold"`
	Downscale        float64 `mapstructure:"downscale"`

	// Confidence & feedback (§4.7)
	RewardMagnitude float64 `mapstructure:"reward_magnitude"`
	RewardN         int     `mapstructure:"reward_n"`
}

// DefaultWeights returns the spec §9 glossary defaults verbatim.
func DefaultWeights() WeightsConfig {
	return WeightsConfig{
		WSpread: 0.5, WImportance: 0.7, WHebbian: 0.3, PContra: 3.0,
		Beta: 0.1, Gamma: 0.2, ForgetThreshold: 0.01,
		HebbianEnabled: true, ThetaForm: 3, Eta: 0.1, LambdaHeb: 0.95, SMax: 5.0,
		Mu1: 0.1, Mu2: 0.01, Alpha: 0.2, ReplayBoost: 0.05,
		PromoteThreshold: 1.0, DemoteThreshold: 0.05, Downscale: 0.95,
		RewardMagnitude: 0.3, RewardN: 3,
	}
}

// Presets holds the named weight-table overlays mentioned in SPEC_FULL §9:
// chatbot (fast-forgetting, high recency weight), task-agent (importance
// persistence), personal-assistant (balanced), researcher (slow decay,
// strong Hebbian emphasis for cross-reference).
var Presets = map[string]func(WeightsConfig) WeightsConfig{
	"chatbot": func(w WeightsConfig) WeightsConfig {
		w.Mu1, w.Mu2 = 0.2, 0.02
		w.ForgetThreshold = 0.02
		return w
	},
	"task-agent": func(w WeightsConfig) WeightsConfig {
		w.WImportance = 0.9
		w.Alpha = 0.3
		return w
	},
	"personal-assistant": func(w WeightsConfig) WeightsConfig {
		return w // the glossary defaults are themselves balanced
	},
	"researcher": func(w WeightsConfig) WeightsConfig {
		w.Mu1, w.Mu2 = 0.05, 0.005
		w.WHebbian = 0.5
		return w
	},
}

// DefaultConfig returns the engine's out-of-the-box configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".engram")

	return &Config{
		Profile: "personal-assistant",
		Database: DatabaseConfig{
			Path:        filepath.Join(configDir, "engram.db"),
			AutoMigrate: true,
		},
		Embedding: EmbeddingConfig{
			Mode: "auto",
			LocalDaemon: LocalDaemonConfig{
				BaseURL: "http://localhost:11434",
				Model:   "nomic-embed-text",
			},
		},
		Vector: VectorConfig{
			Enabled:    false,
			AutoDetect: true,
			URL:        "http://localhost:6333",
		},
		RestAPI: RestAPIConfig{
			Enabled: true,
			Port:    7433,
			Host:    "localhost",
			CORS:    true,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Interval: time.Hour,
			DeltaT:   1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Weights:   DefaultWeights(),
		RateLimit: *ratelimit.DefaultConfig(),
	}
}

// Load reads configuration from (in order of increasing precedence):
// built-in defaults, ./config.yaml, ~/.engram/config.yaml or
// /etc/engram/config.yaml, and ENGRAM_-prefixed environment variables. The
// selected profile's preset is applied last, so the weights it sets replace
// any values for them from the file or the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	homeDir, _ := os.UserHomeDir()
	v.AddConfigPath(filepath.Join(homeDir, ".engram"))
	v.AddConfigPath("/etc/engram")

	v.SetEnvPrefix("ENGRAM")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if overlay, ok := Presets[cfg.Profile]; ok {
		cfg.Weights = overlay(cfg.Weights)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("profile", def.Profile)
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("database.auto_migrate", def.Database.AutoMigrate)

	v.SetDefault("embedding.mode", def.Embedding.Mode)
	v.SetDefault("embedding.local_daemon.base_url", def.Embedding.LocalDaemon.BaseURL)
	v.SetDefault("embedding.local_daemon.model", def.Embedding.LocalDaemon.Model)

	v.SetDefault("vector.enabled", def.Vector.Enabled)
	v.SetDefault("vector.auto_detect", def.Vector.AutoDetect)
	v.SetDefault("vector.url", def.Vector.URL)

	v.SetDefault("rest_api.enabled", def.RestAPI.Enabled)
	v.SetDefault("rest_api.port", def.RestAPI.Port)
	v.SetDefault("rest_api.host", def.RestAPI.Host)
	v.SetDefault("rest_api.cors", def.RestAPI.CORS)

	v.SetDefault("scheduler.enabled", def.Scheduler.Enabled)
	v.SetDefault("scheduler.interval", def.Scheduler.Interval)
	v.SetDefault("scheduler.delta_t", def.Scheduler.DeltaT)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetDefault("rate_limit.enabled", def.RateLimit.Enabled)
	v.SetDefault("rate_limit.global.requests_per_second", def.RateLimit.Global.RequestsPerSecond)
	v.SetDefault("rate_limit.global.burst_size", def.RateLimit.Global.BurstSize)
	v.SetDefault("rate_limit.providers", def.RateLimit.Providers)

	w := def.Weights
	v.SetDefault("weights.w_spread", w.WSpread)
	v.SetDefault("weights.w_importance", w.WImportance)
	v.SetDefault("weights.w_hebbian", w.WHebbian)
	v.SetDefault("weights.p_contra", w.PContra)
	v.SetDefault("weights.beta", w.Beta)
	v.SetDefault("weights.gamma", w.Gamma)
	v.SetDefault("weights.forget_threshold", w.ForgetThreshold)
	v.SetDefault("weights.hebbian_enabled", w.HebbianEnabled)
	v.SetDefault("weights.theta_form", w.ThetaForm)
	v.SetDefault("weights.eta", w.Eta)
	v.SetDefault("weights.lambda_heb", w.LambdaHeb)
	v.SetDefault("weights.s_max", w.SMax)
	v.SetDefault("weights.mu1", w.Mu1)
	v.SetDefault("weights.mu2", w.Mu2)
	v.SetDefault("weights.alpha", w.Alpha)
	v.SetDefault("weights.replay_boost", w.ReplayBoost)
	v.SetDefault("weights.promote_threshold", w.PromoteThreshold)
	v.SetDefault("weights.demote_threshold", w.DemoteThreshold)
	v.SetDefault("weights.downscale", w.Downscale)
	v.SetDefault("weights.reward_magnitude", w.RewardMagnitude)
	v.SetDefault("weights.reward_n", w.RewardN)
}

// Validate checks the configuration for conflicts (spec §7's "configuration
// conflict" error class).
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.RestAPI.Enabled {
		if c.RestAPI.Port < 1 || c.RestAPI.Port > 65535 {
			return fmt.Errorf("rest_api.port must be between 1 and 65535")
		}
		if c.RestAPI.Host == "" {
			return fmt.Errorf("rest_api.host is required when the REST API is enabled")
		}
	}

	switch c.Embedding.Mode {
	case "auto", "none", "local-daemon", "remote-http", "in-process":
	default:
		return fmt.Errorf("embedding.mode must be one of: auto, none, local-daemon, remote-http, in-process")
	}
	if c.Embedding.Mode == "remote-http" && c.Embedding.RemoteHTTP.Endpoint == "" {
		return fmt.Errorf("embedding.remote_http.endpoint is required when embedding.mode is remote-http")
	}

	if c.Vector.Enabled && c.Vector.URL == "" {
		return fmt.Errorf("vector.url is required when vector.enabled is true")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json")
	}

	w := c.Weights
	if w.Mu1 <= w.Mu2 {
		return fmt.Errorf("weights.mu1 must be greater than weights.mu2 (working strength must decay faster than core)")
	}
	if w.LambdaHeb <= 0 || w.LambdaHeb >= 1 {
		return fmt.Errorf("weights.lambda_heb must be in (0,1)")
	}
	if w.Downscale <= 0 || w.Downscale >= 1 {
		return fmt.Errorf("weights.downscale must be in (0,1)")
	}
	if w.ThetaForm < 1 {
		return fmt.Errorf("weights.theta_form must be >= 1")
	}
	if w.ForgetThreshold <= 0 {
		return fmt.Errorf("weights.forget_threshold must be > 0")
	}
	if w.PromoteThreshold <= 0 {
		return fmt.Errorf("weights.promote_threshold must be > 0")
	}
	if w.DemoteThreshold <= 0 {
		return fmt.Errorf("weights.demote_threshold must be > 0")
	}
	if w.DemoteThreshold >= w.PromoteThreshold {
		return fmt.Errorf("weights.demote_threshold must be less than weights.promote_threshold (an entry cannot qualify to both demote and promote)")
	}

	return nil
}

// EnsureConfigDir creates the store's parent directory if missing.
func (c *Config) EnsureConfigDir() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// ConfigPath returns the default configuration directory.
func ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".engram")
}

// DatabasePath returns the default store path.
func DatabasePath() string {
	return filepath.Join(ConfigPath(), "engram.db")
}
