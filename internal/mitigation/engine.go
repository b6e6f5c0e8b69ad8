// Package mitigation implements the adaptive mitigation engine: a set
// of closed-loop controls that convert per-component telemetry and
// integration debt scores into throttle levels, balancing actions, and
// quarantine decisions.
//
// The Engine orchestrates four sub-algorithms on every telemetry
// arrival: the debt Brake, the hardware/software Balancer, the Pruner
// (quarantine state machine), and the PID Regulator. Decisions are
// broadcast to observers through the events bus.
package mitigation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/rasim21-maker/synapse-framework/internal/debt"
	"github.com/rasim21-maker/synapse-framework/internal/events"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// Engine owns all per-component state and sequences the mitigation
// pipeline. A single component's pipeline runs serialized under that
// component's lock; telemetry for different components may be
// processed concurrently.
type Engine struct {
	mu         sync.RWMutex
	components map[string]*trackedComponent

	brake     *Brake
	balancer  *Balancer
	pruner    *Pruner
	regulator *Regulator

	bus    *events.Bus
	cfg    *Config
	logger *slog.Logger
}

// trackedComponent pairs a component's state with its threshold tuple
// and the lock serializing its pipeline
type trackedComponent struct {
	mu         sync.Mutex
	state      *types.ComponentState
	thresholds types.DebtThresholds
}

// NewEngine creates a mitigation engine. A nil config uses defaults; a
// nil logger falls back to slog.Default().
func NewEngine(cfg *Config, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		components: make(map[string]*trackedComponent),
		brake:      NewBrake(cfg.HistoryLimit),
		balancer:   NewBalancer(cfg),
		pruner:     NewPruner(cfg),
		regulator:  NewRegulator(cfg.Regulator),
		bus:        events.NewBus(logger),
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Register tracks a component using the canonical threshold tuple for
// its flavor (or the configured override)
func (e *Engine) Register(c *types.ComponentState) error {
	thresholds, ok := e.cfg.ThresholdOverrides[c.Flavor]
	if !ok {
		thresholds = debt.DefaultThresholds(c.Flavor)
	}
	return e.RegisterWithThresholds(c, thresholds)
}

// RegisterWithThresholds tracks a component with an explicit threshold
// tuple supplied at registration
func (e *Engine) RegisterWithThresholds(c *types.ComponentState, thresholds types.DebtThresholds) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid component: %w", err)
	}
	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds for %s: %w", c.ID, err)
	}
	if c.TelemetryWindow <= 0 {
		c.TelemetryWindow = e.cfg.TelemetryWindow
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.components[c.ID]; exists {
		return fmt.Errorf("component %q already registered", c.ID)
	}
	e.components[c.ID] = &trackedComponent{state: c, thresholds: thresholds}
	return nil
}

// OnMitigation registers an observer that receives every non-no-op
// mitigation result. Observers are invoked synchronously in
// registration order with per-observer fault isolation.
//
// Observers run inside the pipeline while the component's lock is
// held: they must not call back into the engine (Component, Components,
// Health, ProcessTelemetry) or they will deadlock. Hand off to another
// goroutine if engine state is needed.
func (e *Engine) OnMitigation(name string, fn events.Observer) {
	e.bus.Subscribe(name, fn)
}

// SetDebtScore updates a component's debt score and raw counters ahead
// of the next telemetry arrival
func (e *Engine) SetDebtScore(componentID string, score float64, inputs types.DebtInputs) error {
	tc, ok := e.lookup(componentID)
	if !ok {
		return fmt.Errorf("unknown component %q", componentID)
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.state.DebtScore = math.Max(score, 0)
	tc.state.Inputs = inputs
	return nil
}

// SetHealthScore updates a component's health score (0-100)
func (e *Engine) SetHealthScore(componentID string, health float64) error {
	tc, ok := e.lookup(componentID)
	if !ok {
		return fmt.Errorf("unknown component %q", componentID)
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.state.HealthScore = clamp(health, 0, 100)
	return nil
}

// ProcessTelemetry runs the full mitigation pipeline for one telemetry
// arrival. Telemetry for an unregistered component is silently ignored.
//
// Pipeline order: record sample; always run the debt brake; run the
// pruning check (pruning skips balancing and regulation for the
// cycle); otherwise balance then regulate; quarantined components are
// checked for restoration. Every non-no-op result is returned and
// broadcast to observers.
func (e *Engine) ProcessTelemetry(componentID string, sample types.TelemetrySample) []types.MitigationResult {
	tc, ok := e.lookup(componentID)
	if !ok {
		return nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	c := tc.state
	c.AppendTelemetry(sample)

	var results []types.MitigationResult
	emit := func(result types.MitigationResult) {
		results = append(results, result)
		e.bus.Publish(events.NewMitigationEvent(result))
	}

	// The brake may set the quarantine flag itself when the score is
	// past the quarantine bound; remember the state before it ran so
	// the pruner still records the transition.
	wasQuarantined := c.IsQuarantined

	if brakeResult := e.brake.Apply(c, tc.thresholds); !brakeResult.IsNoOp() {
		emit(brakeResult)
	}

	shouldPrune, pruneReason := e.pruner.ShouldPrune(c, tc.thresholds, &sample)
	if shouldPrune && !wasQuarantined {
		e.logger.Warn("quarantining component", "component", c.ID, "reason", pruneReason)
		emit(e.pruner.Prune(c, pruneReason))
	}

	if !c.IsQuarantined {
		if balanceResult := e.balancer.Balance(c, sample); !balanceResult.IsNoOp() {
			emit(balanceResult)
		}

		newThrottle := e.regulator.AdjustedThrottle(c.ThrottleLevel, sample.CPUPercent)
		if math.Abs(newThrottle-c.ThrottleLevel) > e.cfg.HysteresisBand {
			c.ThrottleLevel = newThrottle
		}
	}

	if c.IsQuarantined {
		if ok, _ := e.pruner.CanRestore(c, tc.thresholds); ok {
			e.logger.Info("restoring component from quarantine", "component", c.ID)
			emit(e.pruner.Restore(c, tc.thresholds))
		}
	}

	return results
}

// SystemHealth is an aggregate summary of all tracked components
type SystemHealth struct {
	Status           string   `json:"status"`
	AverageHealth    float64  `json:"average_health"`
	TotalComponents  int      `json:"total_components"`
	HealthyCount     int      `json:"healthy_count"`
	WarningCount     int      `json:"warning_count"`
	QuarantinedCount int      `json:"quarantined_count"`
	QuarantinedIDs   []string `json:"quarantined_components"`
}

// Health computes the system-wide health summary on demand
func (e *Engine) Health() SystemHealth {
	e.mu.RLock()
	tracked := make([]*trackedComponent, 0, len(e.components))
	for _, tc := range e.components {
		tracked = append(tracked, tc)
	}
	e.mu.RUnlock()

	if len(tracked) == 0 {
		return SystemHealth{Status: "no_components"}
	}

	summary := SystemHealth{TotalComponents: len(tracked)}
	totalHealth := 0.0
	for _, tc := range tracked {
		tc.mu.Lock()
		totalHealth += tc.state.HealthScore
		switch {
		case tc.state.IsQuarantined:
			summary.QuarantinedCount++
			summary.QuarantinedIDs = append(summary.QuarantinedIDs, tc.state.ID)
		case tc.state.DebtScore >= tc.thresholds.Warning:
			summary.WarningCount++
		default:
			summary.HealthyCount++
		}
		tc.mu.Unlock()
	}

	summary.AverageHealth = math.Round(totalHealth/float64(len(tracked))*10) / 10
	sort.Strings(summary.QuarantinedIDs)

	switch {
	case summary.QuarantinedCount > 0:
		summary.Status = "critical"
	case summary.WarningCount > 0:
		summary.Status = "warning"
	default:
		summary.Status = "healthy"
	}
	return summary
}

// Component returns a snapshot copy of a tracked component's state
func (e *Engine) Component(componentID string) (types.ComponentState, bool) {
	tc, ok := e.lookup(componentID)
	if !ok {
		return types.ComponentState{}, false
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return snapshot(tc.state), true
}

// Components returns snapshot copies of all tracked components, sorted
// by id
func (e *Engine) Components() []types.ComponentState {
	e.mu.RLock()
	tracked := make([]*trackedComponent, 0, len(e.components))
	for _, tc := range e.components {
		tracked = append(tracked, tc)
	}
	e.mu.RUnlock()

	out := make([]types.ComponentState, 0, len(tracked))
	for _, tc := range tracked {
		tc.mu.Lock()
		out = append(out, snapshot(tc.state))
		tc.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// QuarantineRecord returns the quarantine record for a component, if
// one exists
func (e *Engine) QuarantineRecord(componentID string) (*types.QuarantineRecord, bool) {
	return e.pruner.Record(componentID)
}

// BrakeHistory returns the recorded brake decisions
func (e *Engine) BrakeHistory() []types.MitigationResult {
	return e.brake.History()
}

// PruningHistory returns the recorded pruning decisions
func (e *Engine) PruningHistory() []types.MitigationResult {
	return e.pruner.History()
}

// BalanceHistory returns the recorded balance observations
func (e *Engine) BalanceHistory() []BalanceEntry {
	return e.balancer.History()
}

func (e *Engine) lookup(componentID string) (*trackedComponent, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tc, ok := e.components[componentID]
	return tc, ok
}

func snapshot(c *types.ComponentState) types.ComponentState {
	copied := *c
	copied.Telemetry = make([]types.TelemetrySample, len(c.Telemetry))
	copy(copied.Telemetry, c.Telemetry)
	return copied
}
