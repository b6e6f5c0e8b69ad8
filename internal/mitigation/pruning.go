package mitigation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// Pruner isolates failing components and decides when they may return.
//
// Each component moves Active → Quarantined → Active; there are no
// other transitions. Quarantine is sticky: a component stays isolated
// until every restoration precondition holds, including a minimum dwell
// time that prevents flapping.
type Pruner struct {
	mu           sync.Mutex
	records      map[string]*types.QuarantineRecord
	history      []types.MitigationResult
	historyLimit int

	resources types.ResourceThresholds
	minDwell  time.Duration
	// now is stubbed in tests to control dwell-time checks
	now func() time.Time
}

// NewPruner creates a pruning controller from engine config
func NewPruner(cfg *Config) *Pruner {
	return &Pruner{
		records:      make(map[string]*types.QuarantineRecord),
		historyLimit: cfg.HistoryLimit,
		resources:    cfg.Resources,
		minDwell:     cfg.MinQuarantineDwell,
		now:          time.Now,
	}
}

// ShouldPrune reports whether the component must be isolated, and why.
// Any single trigger fires it; when several fire the reasons are
// semicolon-joined.
func (p *Pruner) ShouldPrune(c *types.ComponentState, t types.DebtThresholds, sample *types.TelemetrySample) (bool, string) {
	var reasons []string

	if c.DebtScore >= t.Quarantine {
		reasons = append(reasons, fmt.Sprintf("debt score (%g) >= %g", c.DebtScore, t.Quarantine))
	}

	if sample != nil {
		if sample.ErrorRate >= p.resources.ErrorRateCritical {
			reasons = append(reasons, fmt.Sprintf("error rate (%.1f%%) >= %.0f%%",
				sample.ErrorRate*100, p.resources.ErrorRateCritical*100))
		}
		if sample.TemperatureC != nil && *sample.TemperatureC >= p.resources.TemperatureShutdown {
			reasons = append(reasons, fmt.Sprintf("temperature (%g°C) >= %g°C",
				*sample.TemperatureC, p.resources.TemperatureShutdown))
		}
		if sample.CPUPercent >= p.resources.CPUEmergency && sample.MemoryPercent >= p.resources.MemoryCritical {
			reasons = append(reasons, "system resources critically exhausted")
		}
	}

	if c.HealthScore < 20 {
		reasons = append(reasons, fmt.Sprintf("health score (%g) critically low", c.HealthScore))
	}

	if len(reasons) > 0 {
		return true, strings.Join(reasons, "; ")
	}
	return false, "component is healthy"
}

// Prune transitions the component to quarantine: throttle forced to
// zero, a quarantine record created. The orchestrator guarantees this
// is never called on an already-quarantined component.
func (p *Pruner) Prune(c *types.ComponentState, reason string) types.MitigationResult {
	now := p.now()

	c.IsQuarantined = true
	c.ThrottleLevel = 0.0

	record := &types.QuarantineRecord{
		ComponentID:      c.ID,
		ComponentName:    c.Name,
		Reason:           reason,
		QuarantinedAt:    now,
		DebtAtQuarantine: c.DebtScore,
		HealthAtEntry:    c.HealthScore,
	}

	result := types.MitigationResult{
		Action:      types.ActionQuarantine,
		ComponentID: c.ID,
		Reason:      fmt.Sprintf("pruning: %s", reason),
		Details: map[string]interface{}{
			"component_name":     c.Name,
			"quarantined_at":     record.QuarantinedAt,
			"debt_at_quarantine": record.DebtAtQuarantine,
			"health_at_entry":    record.HealthAtEntry,
		},
		Timestamp: now,
	}

	p.mu.Lock()
	p.records[c.ID] = record
	p.history = append(p.history, result)
	if len(p.history) > p.historyLimit {
		p.history = p.history[len(p.history)-p.historyLimit:]
	}
	p.mu.Unlock()

	return result
}

// CanRestore reports whether a quarantined component is eligible to
// return to active duty. All conditions must hold: debt below the
// warning threshold, health recovered, and minimum dwell time served.
func (p *Pruner) CanRestore(c *types.ComponentState, t types.DebtThresholds) (bool, string) {
	p.mu.Lock()
	record, ok := p.records[c.ID]
	p.mu.Unlock()

	if !ok {
		return false, "component not in quarantine"
	}

	if c.DebtScore >= t.Warning {
		return false, fmt.Sprintf("debt score (%g) still too high", c.DebtScore)
	}
	if c.HealthScore < 70 {
		return false, fmt.Sprintf("health score (%g) still too low", c.HealthScore)
	}

	dwell := p.now().Sub(record.QuarantinedAt)
	if dwell < p.minDwell {
		return false, fmt.Sprintf("minimum quarantine time not met (%s of %s)", dwell, p.minDwell)
	}

	return true, "component can be restored"
}

// Restore returns the component to active duty at half speed. If the
// preconditions are unmet it returns an explanatory no-op and mutates
// nothing; "not yet eligible" is an expected steady state, not a fault.
func (p *Pruner) Restore(c *types.ComponentState, t types.DebtThresholds) types.MitigationResult {
	ok, reason := p.CanRestore(c, t)
	if !ok {
		return types.MitigationResult{
			Action:      types.ActionNone,
			ComponentID: c.ID,
			Reason:      fmt.Sprintf("cannot restore: %s", reason),
			Details:     map[string]interface{}{"status": "still_quarantined"},
			Timestamp:   p.now(),
		}
	}

	c.IsQuarantined = false
	// Half-speed ramp-up, not straight back to full throttle
	c.ThrottleLevel = 0.5

	p.mu.Lock()
	delete(p.records, c.ID)
	p.mu.Unlock()

	return types.MitigationResult{
		Action:      types.ActionAlert,
		ComponentID: c.ID,
		Reason:      "component restored from quarantine - starting at 50% throttle",
		Details:     map[string]interface{}{"new_throttle": 0.5, "status": "restored"},
		Timestamp:   p.now(),
	}
}

// Record returns the quarantine record for a component, if any
func (p *Pruner) Record(componentID string) (*types.QuarantineRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	record, ok := p.records[componentID]
	if !ok {
		return nil, false
	}
	copied := *record
	return &copied, true
}

// History returns a copy of the recorded pruning decisions
func (p *Pruner) History() []types.MitigationResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.MitigationResult, len(p.history))
	copy(out, p.history)
	return out
}
