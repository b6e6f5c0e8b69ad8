package mitigation

import (
	"fmt"
	"time"

	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// Config holds tuning parameters for the mitigation engine
type Config struct {
	// ThresholdOverrides replaces the per-flavor debt threshold tuples.
	// Flavors without an override use the canonical defaults.
	ThresholdOverrides map[types.FlavorType]types.DebtThresholds

	// Resources are the hardware/software limits used by the balancer
	// and pruning controller
	Resources types.ResourceThresholds

	// TargetThroughput is the throughput (req/s) treated as 100% demand
	// Default: 1000
	TargetThroughput float64

	// ImbalanceBand is the dead zone around zero imbalance inside which
	// the balancer takes no action
	// Default: 0.3
	ImbalanceBand float64

	// BalanceWindow is the number of balance observations averaged
	// before acting, to avoid reacting to single noisy samples
	// Default: 10
	BalanceWindow int

	// Regulator holds the PID gains and setpoint
	Regulator RegulatorConfig

	// MinQuarantineDwell is how long a component must stay quarantined
	// before restoration is considered
	// Default: 1 hour
	MinQuarantineDwell time.Duration

	// HysteresisBand is the minimum throttle change the regulator must
	// propose before it is applied, preventing oscillation
	// Default: 0.05
	HysteresisBand float64

	// HistoryLimit bounds the brake, balance, and pruning history lists
	// Default: 1000
	HistoryLimit int

	// TelemetryWindow bounds each component's diagnostic sample ring
	// Default: 100
	TelemetryWindow int
}

// RegulatorConfig holds PID controller tuning
type RegulatorConfig struct {
	// Kp is the proportional gain. Default: 0.5
	Kp float64
	// Ki is the integral gain. Default: 0.1
	Ki float64
	// Kd is the derivative gain. Default: 0.05
	Kd float64
	// TargetUtilization is the CPU setpoint in percent. Default: 70
	TargetUtilization float64
}

// DefaultConfig returns the engine defaults
func DefaultConfig() *Config {
	return &Config{
		Resources:          types.DefaultResourceThresholds(),
		TargetThroughput:   1000.0,
		ImbalanceBand:      0.3,
		BalanceWindow:      10,
		Regulator:          RegulatorConfig{Kp: 0.5, Ki: 0.1, Kd: 0.05, TargetUtilization: 70.0},
		MinQuarantineDwell: time.Hour,
		HysteresisBand:     0.05,
		HistoryLimit:       1000,
		TelemetryWindow:    types.DefaultTelemetryWindow,
	}
}

// Validate checks the config for invalid values
func (c *Config) Validate() error {
	if c.TargetThroughput <= 0 {
		return fmt.Errorf("target throughput must be positive (got %g)", c.TargetThroughput)
	}
	if c.ImbalanceBand <= 0 || c.ImbalanceBand >= 1 {
		return fmt.Errorf("imbalance band must be in (0, 1) (got %g)", c.ImbalanceBand)
	}
	if c.BalanceWindow <= 0 {
		return fmt.Errorf("balance window must be positive (got %d)", c.BalanceWindow)
	}
	if c.MinQuarantineDwell < 0 {
		return fmt.Errorf("minimum quarantine dwell cannot be negative")
	}
	if c.HysteresisBand < 0 {
		return fmt.Errorf("hysteresis band cannot be negative")
	}
	for flavor, t := range c.ThresholdOverrides {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("thresholds for flavor %s: %w", flavor, err)
		}
	}
	return nil
}

// normalize fills zero values with defaults so a partially-populated
// config behaves sensibly
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.TargetThroughput == 0 {
		c.TargetThroughput = def.TargetThroughput
	}
	if c.ImbalanceBand == 0 {
		c.ImbalanceBand = def.ImbalanceBand
	}
	if c.BalanceWindow == 0 {
		c.BalanceWindow = def.BalanceWindow
	}
	if c.Regulator == (RegulatorConfig{}) {
		c.Regulator = def.Regulator
	}
	if c.MinQuarantineDwell == 0 {
		c.MinQuarantineDwell = def.MinQuarantineDwell
	}
	if c.HysteresisBand == 0 {
		c.HysteresisBand = def.HysteresisBand
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.TelemetryWindow == 0 {
		c.TelemetryWindow = def.TelemetryWindow
	}
	if c.Resources == (types.ResourceThresholds{}) {
		c.Resources = def.Resources
	}
}
