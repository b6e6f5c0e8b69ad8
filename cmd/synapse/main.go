package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Adaptive mitigation engine for managed project components",
	Long: `synapse monitors the components of a managed project and decides how
much each one should be slowed, rebalanced, or isolated based on its
integration debt and live telemetry.

The engine combines four controls on every telemetry arrival:
- a debt brake that throttles components as integration debt rises
- a hardware/software balancer correcting capacity/demand imbalance
- a pruning controller that quarantines failing components
- a PID regulator nudging throttle toward a target utilization`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to engine config YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger with tinted output on stderr
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}
