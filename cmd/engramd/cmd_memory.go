package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/engine"
)

var (
	addKind        string
	addImportance  float64
	addTags        []string
	addEntities    []string
	addContradicts string

	recallK             int
	recallContext       []string
	recallKinds         []string
	recallMinConfidence float64
	recallGraphExpand   bool

	forgetThreshold    float64
	forgetUseThreshold bool
	forgetYes          bool
)

var addCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a new memory",
	Long:  `Add a new memory entry, optionally tagged with entities and a kind.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAdd(args[0])
	},
}

var recallCmd = &cobra.Command{
	Use:   "recall <query>",
	Short: "Recall memories matching a query",
	Long:  `Run the retrieval pipeline (hybrid search, activation, confidence) and print ranked results.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRecall(args[0])
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a memory by id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runGet(args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <new-content>",
	Short: "Supersede a memory with revised content",
	Long:  `Create a new memory that contradicts (supersedes) the given id, preserving the old entry for audit.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runUpdate(args[0], args[1])
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget [id]",
	Short: "Forget a memory, or prune below a threshold",
	Long:  `Delete a single memory by id, or pass --threshold to prune every non-pinned, non-chain-root memory below it.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		runForget(id)
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Pin a memory (exempt from pruning and decay)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPin(args[0], true)
	},
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <id>",
	Short: "Unpin a memory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPin(args[0], false)
	},
}

var rewardCmd = &cobra.Command{
	Use:   "reward <feedback>",
	Short: "Apply feedback to recently accessed memories",
	Long:  `Classify feedback text (positive/negative/neutral) and nudge the importance and working strength of recently accessed memories accordingly.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReward(args[0])
	},
}

func init() {
	rootCmd.AddCommand(addCmd, recallCmd, getCmd, updateCmd, forgetCmd, pinCmd, unpinCmd, rewardCmd)

	addCmd.Flags().StringVar(&addKind, "kind", "factual", "memory kind: factual, episodic, relational, emotional, procedural, opinion")
	addCmd.Flags().Float64Var(&addImportance, "importance", 0, "importance in [0,1] (default 0.5)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
	addCmd.Flags().StringSliceVar(&addEntities, "entities", nil, "comma-separated entity labels")
	addCmd.Flags().StringVar(&addContradicts, "contradicts", "", "id of the memory this entry supersedes")

	recallCmd.Flags().IntVarP(&recallK, "limit", "k", 10, "maximum results")
	recallCmd.Flags().StringSliceVar(&recallContext, "context", nil, "keyword set used for spreading activation")
	recallCmd.Flags().StringSliceVar(&recallKinds, "kinds", nil, "restrict to these kinds")
	recallCmd.Flags().Float64Var(&recallMinConfidence, "min_confidence", 0, "drop results below this confidence")
	recallCmd.Flags().BoolVar(&recallGraphExpand, "graph_expand", false, "expand candidates via shared entities and Hebbian neighbors")

	forgetCmd.Flags().Float64Var(&forgetThreshold, "threshold", 0, "prune every memory with effective strength below this")
	forgetCmd.Flags().BoolVar(&forgetYes, "yes", false, "skip the confirmation prompt")
}

func runAdd(content string) {
	eng, _ := mustEngine()
	defer eng.Close()

	id, err := eng.Add(context.Background(), engine.AddInput{
		Content:     content,
		Kind:        addKind,
		Importance:  addImportance,
		Tags:        addTags,
		Entities:    addEntities,
		Contradicts: addContradicts,
	})
	if err != nil {
		fmt.Printf("Error adding memory: %v\n", err)
		os.Exit(1)
	}

	if quiet {
		fmt.Println(id)
		return
	}
	fmt.Printf("✅ Memory added (id: %s)\n", id)
	if addContradicts != "" {
		fmt.Printf("   Supersedes: %s\n", addContradicts)
	}
}

func runRecall(query string) {
	eng, _ := mustEngine()
	defer eng.Close()

	results, err := eng.Recall(context.Background(), engine.RecallInput{
		Query:         query,
		K:             recallK,
		Context:       recallContext,
		Kinds:         recallKinds,
		MinConfidence: recallMinConfidence,
		GraphExpand:   recallGraphExpand,
	})
	if err != nil {
		fmt.Printf("Error recalling memories: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("No memories found.")
		return
	}

	fmt.Printf("Found %d memories:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("%d. [%s] %s\n", i+1, r.Memory.ID, truncate(r.Memory.Content, 100))
		fmt.Printf("   kind: %s  confidence: %.2f (%s)  activation: %.3f  effective: %.3f  age: %.1fd\n",
			r.Memory.Kind, r.Confidence, r.ConfidenceBand, r.Activation, r.EffectiveStrength, r.AgeDays)
		if r.Memory.IsContradicted() {
			fmt.Printf("   ⚠️  superseded by %s\n", r.Memory.ContradictedBy)
		}
		fmt.Println()
	}
}

func runGet(id string) {
	eng, _ := mustEngine()
	defer eng.Close()

	m, err := eng.Store().Get(id)
	if err != nil {
		fmt.Printf("Error fetching memory: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Printf("Memory not found: %s\n", id)
		os.Exit(1)
	}

	fmt.Printf("ID:         %s\n", m.ID)
	fmt.Printf("Kind:       %s\n", m.Kind)
	fmt.Printf("Layer:      %s\n", m.Layer)
	fmt.Printf("Content:    %s\n", m.Content)
	fmt.Printf("Importance: %.2f\n", m.Importance)
	fmt.Printf("Strengths:  r1=%.3f r2=%.3f\n", m.WorkingStrength, m.CoreStrength)
	fmt.Printf("Pinned:     %v\n", m.Pinned)
	fmt.Printf("Created:    %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	if m.IsContradicted() {
		fmt.Printf("⚠️  Superseded by: %s\n", m.ContradictedBy)
	}
	if m.Contradicts != "" {
		fmt.Printf("Supersedes: %s\n", m.Contradicts)
	}
}

func runUpdate(oldID, newContent string) {
	eng, _ := mustEngine()
	defer eng.Close()

	newID, err := eng.UpdateMemory(context.Background(), oldID, newContent)
	if err != nil {
		fmt.Printf("Error updating memory: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Memory updated (new id: %s, supersedes %s)\n", newID, oldID)
}

func runForget(id string) {
	if id == "" && forgetThreshold == 0 && !forgetCmd.Flags().Changed("threshold") {
		fmt.Println("Error: pass an id or --threshold")
		os.Exit(1)
	}

	if !forgetYes {
		var prompt string
		if id != "" {
			prompt = fmt.Sprintf("Delete memory %s? [y/N]: ", id)
		} else {
			prompt = fmt.Sprintf("Prune every non-pinned memory below effective strength %.3f? [y/N]: ", forgetThreshold)
		}
		fmt.Print(prompt)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Println("Cancelled.")
			return
		}
	}

	eng, _ := mustEngine()
	defer eng.Close()

	count, err := eng.Forget(engine.ForgetInput{
		ID:           id,
		Threshold:    forgetThreshold,
		UseThreshold: id == "",
	})
	if err != nil {
		fmt.Printf("Error forgetting memory: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🗑️  Removed %d memor%s\n", count, plural(count))
}

func runPin(id string, pinned bool) {
	eng, _ := mustEngine()
	defer eng.Close()

	var err error
	if pinned {
		err = eng.Pin(id)
	} else {
		err = eng.Unpin(id)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if pinned {
		fmt.Printf("📌 Pinned %s\n", id)
	} else {
		fmt.Printf("Unpinned %s\n", id)
	}
}

func runReward(feedback string) {
	eng, _ := mustEngine()
	defer eng.Close()

	count, err := eng.Reward(feedback)
	if err != nil {
		fmt.Printf("Error applying reward: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Adjusted %d recently accessed memor%s\n", count, plural(count))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
