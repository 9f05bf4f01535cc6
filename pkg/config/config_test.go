package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Database.AutoMigrate {
		t.Error("expected Database.AutoMigrate=true")
	}
	if cfg.Profile != "personal-assistant" {
		t.Errorf("expected default profile personal-assistant, got %s", cfg.Profile)
	}

	if !cfg.RestAPI.Enabled {
		t.Error("expected RestAPI.Enabled=true")
	}
	if cfg.RestAPI.Port != 7433 {
		t.Errorf("expected port=7433, got %d", cfg.RestAPI.Port)
	}

	if cfg.Embedding.Mode != "auto" {
		t.Errorf("expected embedding.mode=auto, got %s", cfg.Embedding.Mode)
	}

	w := cfg.Weights
	if w.ThetaForm != 3 || w.Eta != 0.1 || w.SMax != 5.0 || w.LambdaHeb != 0.95 {
		t.Errorf("unexpected hebbian defaults: %+v", w)
	}
	if w.Mu1 != 0.1 || w.Mu2 != 0.01 || w.Alpha != 0.2 {
		t.Errorf("unexpected consolidation defaults: %+v", w)
	}
	if w.ForgetThreshold != 0.01 {
		t.Errorf("expected forget_threshold=0.01, got %f", w.ForgetThreshold)
	}
}

func TestPresets(t *testing.T) {
	base := DefaultWeights()
	researcher := Presets["researcher"](base)
	if researcher.Mu1 >= base.Mu1 {
		t.Error("expected researcher preset to slow decay relative to default")
	}
	if researcher.WHebbian <= base.WHebbian {
		t.Error("expected researcher preset to raise hebbian weight")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		expectErr bool
	}{
		{name: "valid config", modify: func(c *Config) {}, expectErr: false},
		{name: "empty database path", modify: func(c *Config) { c.Database.Path = "" }, expectErr: true},
		{name: "invalid port", modify: func(c *Config) { c.RestAPI.Port = 99999 }, expectErr: true},
		{name: "invalid logging level", modify: func(c *Config) { c.Logging.Level = "invalid" }, expectErr: true},
		{name: "invalid embedding mode", modify: func(c *Config) { c.Embedding.Mode = "bogus" }, expectErr: true},
		{
			name: "remote-http mode without endpoint",
			modify: func(c *Config) {
				c.Embedding.Mode = "remote-http"
				c.Embedding.RemoteHTTP.Endpoint = ""
			},
			expectErr: true,
		},
		{
			name:      "mu1 not greater than mu2",
			modify:    func(c *Config) { c.Weights.Mu1 = 0.001 },
			expectErr: true,
		},
		{
			name:      "lambda_heb out of range",
			modify:    func(c *Config) { c.Weights.LambdaHeb = 1.5 },
			expectErr: true,
		},
		{
			name:      "demote threshold not below promote threshold",
			modify:    func(c *Config) { c.Weights.DemoteThreshold = c.Weights.PromoteThreshold },
			expectErr: true,
		},
		{
			name:      "demote threshold above promote threshold",
			modify:    func(c *Config) { c.Weights.DemoteThreshold = c.Weights.PromoteThreshold + 1 },
			expectErr: true,
		},
		{
			name:      "zero forget threshold",
			modify:    func(c *Config) { c.Weights.ForgetThreshold = 0 },
			expectErr: true,
		},
		{
			name:      "negative promote threshold",
			modify:    func(c *Config) { c.Weights.PromoteThreshold = -0.1 },
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd) //nolint:errcheck
	_ = os.Chdir(tmpDir)

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error with missing config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}
	if cfg.RestAPI.Port != 7433 {
		t.Errorf("expected default port 7433, got %d", cfg.RestAPI.Port)
	}
}

func TestLoadConfig_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
profile: researcher
database:
  path: /tmp/test-engram.db
  auto_migrate: false
rest_api:
  enabled: true
  port: 4000
  host: 127.0.0.1
  cors: false
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd) //nolint:errcheck
	_ = os.Chdir(tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Profile != "researcher" {
		t.Errorf("expected profile=researcher, got %s", cfg.Profile)
	}
	if cfg.Database.Path != "/tmp/test-engram.db" {
		t.Errorf("expected database path=/tmp/test-engram.db, got %s", cfg.Database.Path)
	}
	if cfg.RestAPI.Port != 4000 {
		t.Errorf("expected port=4000, got %d", cfg.RestAPI.Port)
	}
	if cfg.RestAPI.CORS {
		t.Error("expected cors=false, got true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level=debug, got %s", cfg.Logging.Level)
	}
	// The researcher preset should have been applied on top of the file.
	if cfg.Weights.WHebbian <= DefaultWeights().WHebbian {
		t.Error("expected researcher preset weights to be applied")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(tmpDir, "subdir", "test.db"),
		},
	}

	if err := cfg.EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "subdir")); os.IsNotExist(err) {
		t.Error("config directory was not created")
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()
	if path == "" {
		t.Error("ConfigPath returned empty string")
	}
	homeDir, _ := os.UserHomeDir()
	expected := filepath.Join(homeDir, ".engram")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestDatabasePath(t *testing.T) {
	path := DatabasePath()
	if path == "" {
		t.Error("DatabasePath returned empty string")
	}
	if filepath.Base(path) != "engram.db" {
		t.Errorf("expected database file named engram.db, got %s", filepath.Base(path))
	}
}
