package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store and provider statistics",
	Run: func(cmd *cobra.Command, args []string) {
		runStats()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export a self-contained snapshot of the store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runExport(args[0])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd, exportCmd)
}

func runStats() {
	eng, _ := mustEngine()
	defer eng.Close()

	stats, err := eng.Stats(context.Background())
	if err != nil {
		fmt.Printf("Error fetching stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Store")
	fmt.Printf("  Memories:       %d\n", stats.Store.MemoryCount)
	fmt.Printf("  Relationships:  %d\n", stats.Store.RelationCount)
	fmt.Printf("  Hebbian links:  %d\n", stats.Store.HebbianCount)
	fmt.Printf("  File size:      %d bytes\n", stats.Store.FileSizeBytes)
	fmt.Println("  By kind:")
	for kind, n := range stats.Store.CountByKind {
		fmt.Printf("    %-12s %d\n", kind, n)
	}
	fmt.Println("  By layer:")
	for layer, n := range stats.Store.CountByLayer {
		fmt.Printf("    %-12s %d\n", layer, n)
	}
	fmt.Println()
	fmt.Println("Engine")
	fmt.Printf("  Embedding provider: %s (available: %v)\n", stats.EmbeddingProvider, stats.EmbeddingAvailable)
	fmt.Printf("  Vector index:       %v\n", stats.VectorIndexEnabled)
	fmt.Printf("  Uptime:             %s\n", stats.Uptime.Round(1e9))
}

func runExport(path string) {
	eng, _ := mustEngine()
	defer eng.Close()

	if err := eng.Export(path); err != nil {
		fmt.Printf("Error exporting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Exported to %s\n", path)
}
