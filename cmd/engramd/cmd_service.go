package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/engramhq/engram/internal/api"
	"github.com/engramhq/engram/internal/scheduler"
	"github.com/engramhq/engram/pkg/config"
)

var (
	startPort int
	startHost string

	consolidateDeltaT float64
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the engram daemon",
	Long:  `Start the engramd daemon: the REST API (if enabled) and the periodic consolidation scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		runStart()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Run: func(cmd *cobra.Command, args []string) {
		runStop()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Run: func(cmd *cobra.Command, args []string) {
		runStatus()
	},
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Run one consolidation cycle now",
	Long:  `Run a single consolidation cycle (decay, transfer, replay, layer transitions, Hebbian decay) and exit, rather than waiting for the scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		runConsolidate()
	},
}

func init() {
	rootCmd.AddCommand(startCmd, stopCmd, statusCmd, consolidateCmd)

	startCmd.Flags().IntVarP(&startPort, "port", "p", 0, "REST API port (overrides config)")
	startCmd.Flags().StringVar(&startHost, "host", "", "REST API host (overrides config)")

	consolidateCmd.Flags().Float64Var(&consolidateDeltaT, "delta_t", 1.0, "elapsed time units to decay over")
}

func runStart() {
	eng, cfg := mustEngine()
	defer eng.Close()

	d := scheduler.New(config.ConfigPath(), Version)
	if d.IsRunning() {
		status := d.Status()
		fmt.Printf("engramd is already running (PID: %d)\n", status.PID)
		fmt.Println("Use 'engramd stop' to stop it first")
		os.Exit(1)
	}

	if startPort > 0 {
		cfg.RestAPI.Port = startPort
	}
	if startHost != "" {
		cfg.RestAPI.Host = startHost
	}

	fmt.Printf("engramd v%s\n", Version)
	fmt.Printf("Database: %s\n", cfg.Database.Path)

	if err := d.Start(cfg.RestAPI.Enabled, cfg.RestAPI.Host, cfg.RestAPI.Port); err != nil {
		fmt.Printf("Warning: could not register daemon state: %v\n", err)
	}
	defer d.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived %v, shutting down...\n", sig)
		cancel()
	}()

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(cfg.Scheduler.Interval, func(ctx context.Context) (int, error) {
			return eng.Consolidate(ctx, cfg.Scheduler.DeltaT)
		})
		go sched.Run(ctx)
		fmt.Printf("Consolidation scheduler running every %s\n", cfg.Scheduler.Interval)
		defer sched.Stop()
	}

	if !cfg.RestAPI.Enabled {
		fmt.Println("REST API is disabled in configuration")
		<-ctx.Done()
		return
	}

	server := api.NewServer(eng, cfg)
	fmt.Printf("REST API listening on %s:%d\n", cfg.RestAPI.Host, cfg.RestAPI.Port)
	fmt.Println("Press Ctrl+C to stop")
	if err := server.StartWithContext(ctx, 10*time.Second); err != nil {
		fmt.Printf("Error running server: %v\n", err)
		os.Exit(1)
	}
}

func runStop() {
	_, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	d := scheduler.New(config.ConfigPath(), Version)

	if !d.IsRunning() {
		fmt.Println("engramd is not running")
		return
	}

	status := d.Status()
	fmt.Printf("Stopping engramd (PID: %d)...\n", status.PID)
	if err := d.Stop(); err != nil {
		fmt.Printf("Error stopping daemon: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Daemon stopped.")
}

func runStatus() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	d := scheduler.New(config.ConfigPath(), Version)
	status := d.Status()

	fmt.Println("engramd Status")
	fmt.Println("==============")
	if status.Running {
		fmt.Printf("🟢 Running (PID: %d, uptime %s)\n", status.PID, status.Uptime.Round(time.Second))
		if status.RESTEnabled {
			fmt.Printf("   REST API: http://%s:%d\n", status.RESTHost, status.RESTPort)
		} else {
			fmt.Println("   REST API: disabled")
		}
	} else {
		fmt.Println("🔴 Not running")
	}
	fmt.Printf("Database: %s\n", cfg.Database.Path)
}

func runConsolidate() {
	eng, _ := mustEngine()
	defer eng.Close()

	touched, err := eng.Consolidate(context.Background(), consolidateDeltaT)
	if err != nil {
		fmt.Printf("Error running consolidation: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Consolidation complete: %d memories touched\n", touched)
}
