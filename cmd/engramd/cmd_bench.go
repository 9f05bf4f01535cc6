package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/engine"
	"github.com/engramhq/engram/internal/scenarios"
	"github.com/engramhq/engram/internal/store"
)

// benchDBPath overrides the configured database with a throwaway file so
// the scenario suite's backdated seed memories never land in a real store.
var benchDBPath string

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the seed end-to-end scenario suite",
	Long: `Run the engine's seed scenarios: recency override, frequency
reinforcement, importance persistence, contradiction suppression, Hebbian
emergence, and pin immunity. Runs against a throwaway database, never the
configured one, since scenarios seed backdated memories purely for testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBench()
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().StringVar(&benchDBPath, "db", "", "path to a throwaway database file (default: a tempfile)")
}

func runBench() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath := benchDBPath
	if dbPath == "" {
		f, err := os.CreateTemp("", "engram-bench-*.db")
		if err != nil {
			fmt.Printf("Error creating temp database: %v\n", err)
			os.Exit(1)
		}
		dbPath = f.Name()
		f.Close()
		defer os.Remove(dbPath)
	}
	cfg.Database.Path = dbPath

	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.InitSchema(); err != nil {
		fmt.Printf("Error initializing schema: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(cfg, st)
	defer eng.Close()

	h := scenarios.NewHarness(eng)
	results := scenarios.RunAll(h)

	fmt.Print(scenarios.FormatReport(results))

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}
