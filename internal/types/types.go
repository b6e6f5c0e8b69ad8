package types

import (
	"fmt"
	"time"
)

// FlavorType identifies which project flavor a component belongs to.
// The flavor selects the debt formula and threshold tuple used for it.
type FlavorType string

const (
	FlavorIoT      FlavorType = "iot"
	FlavorCloud    FlavorType = "cloud"
	FlavorEmbedded FlavorType = "embedded"
	FlavorInfra    FlavorType = "infra"
	FlavorData     FlavorType = "data"
	FlavorMobile   FlavorType = "mobile"
)

// IsValid checks if the flavor value is valid
func (f FlavorType) IsValid() bool {
	switch f {
	case FlavorIoT, FlavorCloud, FlavorEmbedded, FlavorInfra, FlavorData, FlavorMobile:
		return true
	}
	return false
}

// ComponentKind categorizes what a tracked component is made of
type ComponentKind string

const (
	KindHardware ComponentKind = "hardware"
	KindSoftware ComponentKind = "software"
	KindFirmware ComponentKind = "firmware"
	KindHybrid   ComponentKind = "hybrid"
)

// IsValid checks if the component kind is valid
func (k ComponentKind) IsValid() bool {
	switch k {
	case KindHardware, KindSoftware, KindFirmware, KindHybrid:
		return true
	}
	return false
}

// Severity represents how far a component's debt score has drifted.
// Tiers are totally ordered: healthy < warning < critical < quarantine.
type Severity string

const (
	SeverityHealthy    Severity = "healthy"
	SeverityWarning    Severity = "warning"
	SeverityCritical   Severity = "critical"
	SeverityQuarantine Severity = "quarantine"
)

// Rank returns the ordinal position of the severity tier.
// Higher rank means worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityHealthy:
		return 0
	case SeverityWarning:
		return 1
	case SeverityCritical:
		return 2
	case SeverityQuarantine:
		return 3
	}
	return -1
}

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	return s.Rank() >= 0
}

// MitigationAction is the kind of corrective action the engine decided on
type MitigationAction string

const (
	ActionNone          MitigationAction = "none"
	ActionThrottle      MitigationAction = "throttle"
	ActionBrake         MitigationAction = "brake"
	ActionQuarantine    MitigationAction = "quarantine"
	ActionRebalance     MitigationAction = "rebalance"
	ActionAlert         MitigationAction = "alert"
	ActionAutoIntegrate MitigationAction = "auto_integrate"
)

// IsValid checks if the action value is valid
func (a MitigationAction) IsValid() bool {
	switch a {
	case ActionNone, ActionThrottle, ActionBrake, ActionQuarantine,
		ActionRebalance, ActionAlert, ActionAutoIntegrate:
		return true
	}
	return false
}

// TelemetrySample is a single observation for one component.
// Samples are produced by an external collector and are never mutated
// by the engine. Temperature and PowerDraw are hardware-only and optional.
type TelemetrySample struct {
	ComponentID    string     `json:"component_id"`
	Timestamp      time.Time  `json:"timestamp"`
	CPUPercent     float64    `json:"cpu_percent"`     // 0-100
	MemoryPercent  float64    `json:"memory_percent"`  // 0-100
	IOLatencyMs    float64    `json:"io_latency_ms"`
	NetLatencyMs   float64    `json:"net_latency_ms"`
	ErrorRate      float64    `json:"error_rate"` // 0-1
	Throughput     float64    `json:"throughput"` // requests/sec
	TemperatureC   *float64   `json:"temperature_c,omitempty"`
	PowerDrawWatts *float64   `json:"power_draw_watts,omitempty"`
}

// DebtInputs holds the flavor-specific raw counters the debt formula
// consumes. The engine treats these as opaque; only the debt package
// interprets them per flavor.
type DebtInputs struct {
	DaysSinceIntegration int     `json:"days_since_integration"`
	LinesChanged         int     `json:"lines_changed"`
	Dependencies         int     `json:"dependencies"`
	PRAgeDays            int     `json:"pr_age_days,omitempty"`
	ChangedFiles         int     `json:"changed_files,omitempty"`
	DependentServices    int     `json:"dependent_services,omitempty"`
	Modules              int     `json:"modules,omitempty"`
	HoursSinceApply      int     `json:"hours_since_apply,omitempty"`
	ChangedResources     int     `json:"changed_resources,omitempty"`
	Environments         int     `json:"environments,omitempty"`
	DaysSinceSync        int     `json:"days_since_sync,omitempty"`
	BreakingChanges      int     `json:"breaking_changes,omitempty"`
	DownstreamConsumers  int     `json:"downstream_consumers,omitempty"`
	ChangedScreens       int     `json:"changed_screens,omitempty"`
	PlatformFactor       float64 `json:"platform_factor,omitempty"`
}

// DefaultTelemetryWindow is the number of recent samples a component retains
// for display and diagnostics. The control loops never read this ring.
const DefaultTelemetryWindow = 100

// ComponentState is the engine's record for one tracked component.
// A ComponentState is exclusively owned by the orchestrator: all
// mutation goes through a single pipeline invocation at a time.
type ComponentState struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Kind       ComponentKind `json:"kind"`
	Flavor     FlavorType    `json:"flavor"`

	// DebtScore is supplied by the debt-score collaborator; the engine
	// only ever reads it.
	DebtScore float64    `json:"debt_score"`
	Inputs    DebtInputs `json:"inputs"`

	IsQuarantined bool    `json:"is_quarantined"`
	ThrottleLevel float64 `json:"throttle_level"` // 0.0 = stopped, 1.0 = full speed
	HealthScore   float64 `json:"health_score"`   // 0-100

	// Telemetry is a bounded ring of the most recent samples, newest last.
	Telemetry       []TelemetrySample `json:"-"`
	TelemetryWindow int               `json:"-"`
}

// NewComponentState creates a component record with full-speed defaults
func NewComponentState(id, name string, kind ComponentKind, flavor FlavorType) *ComponentState {
	return &ComponentState{
		ID:              id,
		Name:            name,
		Kind:            kind,
		Flavor:          flavor,
		ThrottleLevel:   1.0,
		HealthScore:     100.0,
		TelemetryWindow: DefaultTelemetryWindow,
	}
}

// Validate checks if the component has valid field values
func (c *ComponentState) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("component id is required")
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("invalid component kind: %s", c.Kind)
	}
	if !c.Flavor.IsValid() {
		return fmt.Errorf("invalid flavor: %s", c.Flavor)
	}
	if c.ThrottleLevel < 0.0 || c.ThrottleLevel > 1.0 {
		return fmt.Errorf("throttle level must be in [0.0, 1.0] (got %g)", c.ThrottleLevel)
	}
	if c.IsQuarantined && c.ThrottleLevel > 0.0 {
		return fmt.Errorf("quarantined component cannot have positive throttle (got %g)", c.ThrottleLevel)
	}
	return nil
}

// AppendTelemetry adds a sample to the component's history ring,
// evicting the oldest entries beyond the window
func (c *ComponentState) AppendTelemetry(sample TelemetrySample) {
	window := c.TelemetryWindow
	if window <= 0 {
		window = DefaultTelemetryWindow
	}
	c.Telemetry = append(c.Telemetry, sample)
	if len(c.Telemetry) > window {
		c.Telemetry = c.Telemetry[len(c.Telemetry)-window:]
	}
}

// LatestTelemetry returns the most recent sample, or nil if none recorded
func (c *ComponentState) LatestTelemetry() *TelemetrySample {
	if len(c.Telemetry) == 0 {
		return nil
	}
	return &c.Telemetry[len(c.Telemetry)-1]
}

// MitigationResult is an immutable output event describing one decision
type MitigationResult struct {
	Action      MitigationAction       `json:"action"`
	ComponentID string                 `json:"component_id"`
	Reason      string                 `json:"reason"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// IsNoOp reports whether the result carries no action
func (r *MitigationResult) IsNoOp() bool {
	return r.Action == ActionNone
}

// QuarantineRecord tracks one currently-quarantined component.
// Created on quarantine entry, deleted on restoration.
type QuarantineRecord struct {
	ComponentID      string    `json:"component_id"`
	ComponentName    string    `json:"component_name"`
	Reason           string    `json:"reason"`
	QuarantinedAt    time.Time `json:"quarantined_at"`
	DebtAtQuarantine float64   `json:"debt_at_quarantine"`
	HealthAtEntry    float64   `json:"health_at_entry"`
}
