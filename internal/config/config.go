// Package config loads mitigation engine configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rasim21-maker/synapse-framework/internal/mitigation"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// FileConfig is the on-disk YAML representation of engine configuration.
// Zero-valued fields fall back to engine defaults.
type FileConfig struct {
	Engine EngineYAML `yaml:"engine"`

	// Resources overrides the hardware/software limits
	Resources *types.ResourceThresholds `yaml:"resources,omitempty"`

	// Flavors overrides the per-flavor debt threshold tuples
	Flavors map[string]types.DebtThresholds `yaml:"flavors,omitempty"`
}

// EngineYAML holds the engine tuning section
type EngineYAML struct {
	TargetThroughput float64 `yaml:"target_throughput,omitempty"`
	ImbalanceBand    float64 `yaml:"imbalance_band,omitempty"`
	BalanceWindow    int     `yaml:"balance_window,omitempty"`
	HysteresisBand   float64 `yaml:"hysteresis_band,omitempty"`
	HistoryLimit     int     `yaml:"history_limit,omitempty"`
	TelemetryWindow  int     `yaml:"telemetry_window,omitempty"`

	// MinQuarantineDwell accepts extended durations, e.g. "1h", "2d"
	MinQuarantineDwell string `yaml:"min_quarantine_dwell,omitempty"`

	Regulator RegulatorYAML `yaml:"regulator,omitempty"`
}

// RegulatorYAML holds the PID tuning section
type RegulatorYAML struct {
	Kp                float64 `yaml:"kp,omitempty"`
	Ki                float64 `yaml:"ki,omitempty"`
	Kd                float64 `yaml:"kd,omitempty"`
	TargetUtilization float64 `yaml:"target_utilization,omitempty"`
}

// Load reads engine configuration from a YAML file
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}

// ToEngineConfig converts the file representation into an engine
// config, filling unset values with defaults
func (f *FileConfig) ToEngineConfig() (*mitigation.Config, error) {
	cfg := mitigation.DefaultConfig()

	if f.Engine.TargetThroughput > 0 {
		cfg.TargetThroughput = f.Engine.TargetThroughput
	}
	if f.Engine.ImbalanceBand > 0 {
		cfg.ImbalanceBand = f.Engine.ImbalanceBand
	}
	if f.Engine.BalanceWindow > 0 {
		cfg.BalanceWindow = f.Engine.BalanceWindow
	}
	if f.Engine.HysteresisBand > 0 {
		cfg.HysteresisBand = f.Engine.HysteresisBand
	}
	if f.Engine.HistoryLimit > 0 {
		cfg.HistoryLimit = f.Engine.HistoryLimit
	}
	if f.Engine.TelemetryWindow > 0 {
		cfg.TelemetryWindow = f.Engine.TelemetryWindow
	}

	if f.Engine.MinQuarantineDwell != "" {
		dwell, err := parseDuration(f.Engine.MinQuarantineDwell)
		if err != nil {
			return nil, fmt.Errorf("invalid min_quarantine_dwell %q: %w", f.Engine.MinQuarantineDwell, err)
		}
		cfg.MinQuarantineDwell = dwell
	}

	if f.Engine.Regulator != (RegulatorYAML{}) {
		reg := cfg.Regulator
		if f.Engine.Regulator.Kp > 0 {
			reg.Kp = f.Engine.Regulator.Kp
		}
		if f.Engine.Regulator.Ki > 0 {
			reg.Ki = f.Engine.Regulator.Ki
		}
		if f.Engine.Regulator.Kd > 0 {
			reg.Kd = f.Engine.Regulator.Kd
		}
		if f.Engine.Regulator.TargetUtilization > 0 {
			reg.TargetUtilization = f.Engine.Regulator.TargetUtilization
		}
		cfg.Regulator = reg
	}

	if f.Resources != nil {
		cfg.Resources = *f.Resources
	}

	if len(f.Flavors) > 0 {
		cfg.ThresholdOverrides = make(map[types.FlavorType]types.DebtThresholds, len(f.Flavors))
		for name, tuple := range f.Flavors {
			flavor := types.FlavorType(name)
			if !flavor.IsValid() {
				return nil, fmt.Errorf("unknown flavor %q in config", name)
			}
			if err := tuple.Validate(); err != nil {
				return nil, fmt.Errorf("flavor %q: %w", name, err)
			}
			cfg.ThresholdOverrides[flavor] = tuple
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration extends time.ParseDuration to support days and weeks
func parseDuration(s string) (time.Duration, error) {
	var days int
	if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && fmt.Sprintf("%dd", days) == s {
		return time.Duration(days) * 24 * time.Hour, nil
	}

	var weeks int
	if _, err := fmt.Sscanf(s, "%dw", &weeks); err == nil && fmt.Sprintf("%dw", weeks) == s {
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}
