package types

import "fmt"

// DebtThresholds is the four-tier boundary tuple for one flavor.
// A score below Healthy is healthy; at or above Quarantine the
// component must be isolated.
type DebtThresholds struct {
	Healthy    float64 `json:"healthy" yaml:"healthy"`
	Warning    float64 `json:"warning" yaml:"warning"`
	Critical   float64 `json:"critical" yaml:"critical"`
	Quarantine float64 `json:"quarantine" yaml:"quarantine"`
}

// Validate checks the tuple is strictly increasing
func (t DebtThresholds) Validate() error {
	if !(t.Healthy < t.Warning && t.Warning < t.Critical && t.Critical < t.Quarantine) {
		return fmt.Errorf("thresholds must be strictly increasing (got %g < %g < %g < %g)",
			t.Healthy, t.Warning, t.Critical, t.Quarantine)
	}
	return nil
}

// ResourceThresholds holds the hardware and software limits the
// balancer and pruning controller compare telemetry against.
type ResourceThresholds struct {
	CPUWarning   float64 `yaml:"cpu_warning"`
	CPUCritical  float64 `yaml:"cpu_critical"`
	CPUEmergency float64 `yaml:"cpu_emergency"`

	MemoryWarning  float64 `yaml:"memory_warning"`
	MemoryCritical float64 `yaml:"memory_critical"`

	TemperatureWarning  float64 `yaml:"temperature_warning"`
	TemperatureCritical float64 `yaml:"temperature_critical"`
	TemperatureShutdown float64 `yaml:"temperature_shutdown"`

	ErrorRateWarning  float64 `yaml:"error_rate_warning"`
	ErrorRateCritical float64 `yaml:"error_rate_critical"`

	LatencyWarningMs  float64 `yaml:"latency_warning_ms"`
	LatencyCriticalMs float64 `yaml:"latency_critical_ms"`
}

// DefaultResourceThresholds returns the canonical resource limits
func DefaultResourceThresholds() ResourceThresholds {
	return ResourceThresholds{
		CPUWarning:   70.0,
		CPUCritical:  85.0,
		CPUEmergency: 95.0,

		MemoryWarning:  75.0,
		MemoryCritical: 90.0,

		TemperatureWarning:  70.0,
		TemperatureCritical: 85.0,
		TemperatureShutdown: 95.0,

		ErrorRateWarning:  0.01,
		ErrorRateCritical: 0.05,

		LatencyWarningMs:  100.0,
		LatencyCriticalMs: 500.0,
	}
}
