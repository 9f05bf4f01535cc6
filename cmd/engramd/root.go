package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/engine"
	"github.com/engramhq/engram/internal/logging"
	"github.com/engramhq/engram/internal/store"
	"github.com/engramhq/engram/pkg/config"
)

// Version is set during build.
var Version = "dev"

var (
	cfgFile  string
	logLevel string
	quiet    bool
)

// rootCmd is the engramd entrypoint: a persistent cognitive memory engine,
// operated through one subcommand per engine operation (add, recall,
// consolidate, forget, reward, pin, unpin, update, stats, export) plus
// service management (start/stop/status) and doctor.
var rootCmd = &cobra.Command{
	Use:     "engramd",
	Short:   "A persistent cognitive memory engine",
	Long:    `engramd stores, retrieves, and consolidates memories using activation, forgetting, and Hebbian-link dynamics.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ~/.config/engram/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "", "log level override: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig loads configuration, applying the --log_level override if set,
// and initializes the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: "stderr"})
	return cfg, nil
}

// openEngine loads config, opens the store, and wires an Engine over it.
// Callers must call engine.Close() (or let process exit) when done.
func openEngine() (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureConfigDir(); err != nil {
		return nil, nil, fmt.Errorf("creating config directory: %w", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	if err := st.InitSchema(); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("initializing schema: %w", err)
	}

	return engine.New(cfg, st), cfg, nil
}

// mustEngine opens the engine or exits with an error message. Used by
// subcommands that have no graceful degradation path.
func mustEngine() (*engine.Engine, *config.Config) {
	eng, cfg, err := openEngine()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return eng, cfg
}
