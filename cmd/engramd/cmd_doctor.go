package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/dependencies"
	"github.com/engramhq/engram/internal/store"
	"github.com/engramhq/engram/pkg/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, store, and optional dependencies",
	Run: func(cmd *cobra.Command, args []string) {
		runDoctor()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor() {
	fmt.Println("engramd System Check")
	fmt.Println("====================")
	fmt.Println()

	allOK := true

	fmt.Print("Configuration... ")
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		allOK = false
	} else {
		fmt.Println("OK")
	}

	fmt.Print("Store... ")
	if cfg != nil {
		if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
			fmt.Println("NOT INITIALIZED (will be created on first use)")
		} else {
			st, err := store.Open(cfg.Database.Path)
			if err != nil {
				fmt.Printf("ERROR: %v\n", err)
				allOK = false
			} else {
				stats, err := st.GetStats()
				if err != nil {
					fmt.Printf("ERROR: %v\n", err)
					allOK = false
				} else {
					fmt.Printf("OK (%d memories)\n", stats.MemoryCount)
				}
				st.Close()
			}
		}
		fmt.Printf("  Path: %s\n", cfg.Database.Path)
	}
	fmt.Println()

	if cfg != nil {
		result := dependencies.Check(cfg)
		fmt.Print(dependencies.FormatDoctorReport(result))
		fmt.Println()

		if result.SemanticSearchAvailable() {
			fmt.Println("  ✅ Hybrid retrieval (BM25 + vector fusion)")
		} else {
			fmt.Println("  ⚠️  Lexical-only retrieval (no embedding provider reachable)")
		}
		if result.ExternalIndexAvailable() {
			fmt.Println("  ✅ External vector index (Qdrant)")
		} else {
			fmt.Println("  ⚪ Built-in linear vector scan")
		}
	}

	fmt.Println()
	if allOK {
		fmt.Println("✅ All required systems operational.")
	} else {
		fmt.Println("❌ Some issues detected. Please review the errors above.")
	}
}
