package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rasim21-maker/synapse-framework/internal/config"
	"github.com/rasim21-maker/synapse-framework/internal/debt"
	"github.com/rasim21-maker/synapse-framework/internal/limiter"
	"github.com/rasim21-maker/synapse-framework/internal/metrics"
	"github.com/rasim21-maker/synapse-framework/internal/mitigation"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

var (
	simTicks       int
	simInterval    time.Duration
	simSeed        int64
	simMetricsAddr string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Feed scripted telemetry through the mitigation engine",
	Long: `Run a scripted telemetry scenario against a demo fleet and print
every mitigation decision the engine makes.

Examples:
  # Default scenario, 30 ticks
  synapse simulate

  # Longer run with prometheus metrics exposed
  synapse simulate --ticks 200 --metrics-addr :9090

  # Custom engine tuning
  synapse simulate --config engine.yaml`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 30, "telemetry ticks to feed per component")
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 50*time.Millisecond, "delay between ticks")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 42, "random seed for the telemetry generator")
	simulateCmd.Flags().StringVar(&simMetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	rootCmd.AddCommand(simulateCmd)
}

// demoComponent describes one member of the simulated fleet
type demoComponent struct {
	state  *types.ComponentState
	inputs types.DebtInputs
	// load shapes the synthetic telemetry: 0 = idle, 1 = saturated
	load float64
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	engineCfg := mitigation.DefaultConfig()
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		engineCfg, err = fileCfg.ToEngineConfig()
		if err != nil {
			return err
		}
	}

	engine, err := mitigation.NewEngine(engineCfg, logger)
	if err != nil {
		return err
	}

	fleet := demoFleet()
	enforcer := limiter.NewEnforcer(engineCfg.TargetThroughput)
	collector := metrics.NewCollector()

	for _, member := range fleet {
		if err := engine.Register(member.state); err != nil {
			return err
		}
		score := debt.CalculateForFlavor(member.state.Flavor, member.inputs)
		if err := engine.SetDebtScore(member.state.ID, score, member.inputs); err != nil {
			return err
		}
		enforcer.Track(member.state.ID)
	}

	engine.OnMitigation("display", displayEvent)
	engine.OnMitigation("limiter", enforcer.HandleEvent)
	engine.OnMitigation("metrics", collector.HandleEvent)

	if simMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(simMetricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("serving prometheus metrics", "addr", simMetricsAddr)
	}

	// One goroutine per component: samples for a single component stay
	// serialized, components run concurrently.
	var g errgroup.Group
	for i, member := range fleet {
		member := member
		rng := rand.New(rand.NewSource(simSeed + int64(i)))
		g.Go(func() error {
			for tick := 0; tick < simTicks; tick++ {
				sample := syntheticSample(member, rng)
				engine.ProcessTelemetry(member.state.ID, sample)
				collector.Sync(engine.Components())
				time.Sleep(simInterval)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printHealthSummary(engine)
	return nil
}

// demoFleet builds a small fleet spanning healthy, indebted, and
// overloaded components
func demoFleet() []*demoComponent {
	return []*demoComponent{
		{
			state:  types.NewComponentState("comp-001", "Sensor Driver", types.KindHardware, types.FlavorIoT),
			inputs: types.DebtInputs{DaysSinceIntegration: 3, LinesChanged: 1500, Dependencies: 4},
			load:   0.3,
		},
		{
			state:  types.NewComponentState("comp-002", "ML Inference", types.KindSoftware, types.FlavorIoT),
			inputs: types.DebtInputs{DaysSinceIntegration: 8, LinesChanged: 3200, Dependencies: 6},
			load:   0.85,
		},
		{
			state:  types.NewComponentState("comp-003", "Billing API", types.KindSoftware, types.FlavorCloud),
			inputs: types.DebtInputs{PRAgeDays: 12, ChangedFiles: 20, DependentServices: 3},
			load:   0.6,
		},
	}
}

// syntheticSample produces one telemetry tick shaped by the member's
// load factor with a little noise
func syntheticSample(member *demoComponent, rng *rand.Rand) types.TelemetrySample {
	noise := func(spread float64) float64 { return (rng.Float64() - 0.5) * spread }

	cpu := clampPct(member.load*100 + noise(20))
	mem := clampPct(member.load*90 + noise(15))

	sample := types.TelemetrySample{
		ComponentID:   member.state.ID,
		Timestamp:     time.Now(),
		CPUPercent:    cpu,
		MemoryPercent: mem,
		IOLatencyMs:   20 + member.load*200 + noise(30),
		NetLatencyMs:  10 + member.load*80 + noise(20),
		ErrorRate:     clamp01(member.load*0.03 + noise(0.01)),
		Throughput:    200 + member.load*900 + noise(100),
	}

	if member.state.Kind == types.KindHardware {
		temp := 40 + member.load*45 + noise(10)
		sample.TemperatureC = &temp
		power := 80 + member.load*120 + noise(20)
		sample.PowerDrawWatts = &power
	}

	return sample
}

func printHealthSummary(engine *mitigation.Engine) {
	health := engine.Health()

	bold := color.New(color.Bold)
	bold.Println("\nSystem health")
	fmt.Printf("  status:      %s\n", statusColor(health.Status).Sprint(health.Status))
	fmt.Printf("  avg health:  %.1f\n", health.AverageHealth)
	fmt.Printf("  components:  %d total, %d healthy, %d warning, %d quarantined\n",
		health.TotalComponents, health.HealthyCount, health.WarningCount, health.QuarantinedCount)
	if len(health.QuarantinedIDs) > 0 {
		fmt.Printf("  quarantined: %v\n", health.QuarantinedIDs)
	}

	fmt.Println("\nComponents")
	for _, comp := range engine.Components() {
		state := "active"
		if comp.IsQuarantined {
			state = color.RedString("quarantined")
		}
		fmt.Printf("  %-10s debt=%-6.2f throttle=%-5.2f health=%-5.1f %s\n",
			comp.ID, comp.DebtScore, comp.ThrottleLevel, comp.HealthScore, state)
	}
}

func statusColor(status string) *color.Color {
	switch status {
	case "critical":
		return color.New(color.FgRed, color.Bold)
	case "warning":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func clampPct(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
