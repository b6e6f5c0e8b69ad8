package mitigation

import (
	"fmt"
	"sync"
	"time"

	"github.com/rasim21-maker/synapse-framework/internal/debt"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// Brake slows a component down as its integration debt rises.
//
// The throttle curve is piecewise linear and continuous across tier
// boundaries: full speed below the healthy bound, 1.0→0.7 across the
// warning band, 0.7→0.3 across the critical band, 0.3→0.1 approaching
// the quarantine bound, and a hard 0.0 at or past it.
type Brake struct {
	mu           sync.Mutex
	history      []types.MitigationResult
	historyLimit int
}

// NewBrake creates a debt brake with a bounded history
func NewBrake(historyLimit int) *Brake {
	if historyLimit <= 0 {
		historyLimit = DefaultConfig().HistoryLimit
	}
	return &Brake{historyLimit: historyLimit}
}

// ThrottleForScore computes the throttle multiplier for a debt score
func (b *Brake) ThrottleForScore(score float64, t types.DebtThresholds) float64 {
	switch {
	case score < t.Healthy:
		return 1.0
	case score < t.Warning:
		ratio := (score - t.Healthy) / (t.Warning - t.Healthy)
		return 1.0 - ratio*0.3
	case score < t.Critical:
		ratio := (score - t.Warning) / (t.Critical - t.Warning)
		return 0.7 - ratio*0.4
	case score < t.Quarantine:
		ratio := (score - t.Critical) / (t.Quarantine - t.Critical)
		return 0.3 - ratio*0.2
	default:
		return 0.0
	}
}

// Apply evaluates the component's debt score and mutates its throttle
// level accordingly. At quarantine severity the component is flagged
// quarantined with throttle forced to zero.
//
// A component already in quarantine keeps throttle 0.0 even if its
// score has since dropped; only the pruning controller may raise it
// again through restoration.
func (b *Brake) Apply(c *types.ComponentState, t types.DebtThresholds) types.MitigationResult {
	score := c.DebtScore
	severity := debt.Classify(score, t)
	throttle := b.ThrottleForScore(score, t)

	var action types.MitigationAction
	var reason string

	switch severity {
	case types.SeverityQuarantine:
		action = types.ActionQuarantine
		reason = fmt.Sprintf("debt score (%g) exceeded quarantine threshold (%g)", score, t.Quarantine)
		c.IsQuarantined = true
		c.ThrottleLevel = 0.0

	case types.SeverityCritical:
		action = types.ActionBrake
		reason = fmt.Sprintf("debt score (%g) in critical zone - applying hard brake", score)
		if !c.IsQuarantined {
			c.ThrottleLevel = throttle
		}

	case types.SeverityWarning:
		action = types.ActionThrottle
		reason = fmt.Sprintf("debt score (%g) in warning zone - applying soft throttle", score)
		if !c.IsQuarantined {
			c.ThrottleLevel = throttle
		}

	default:
		action = types.ActionNone
		reason = "debt score healthy - no mitigation needed"
		if !c.IsQuarantined {
			c.ThrottleLevel = 1.0
		}
	}

	// Report the throttle actually applied, not the curve value: for a
	// quarantined component the two differ, and downstream enforcement
	// (the rate limiter observer) trusts this key.
	result := types.MitigationResult{
		Action:      action,
		ComponentID: c.ID,
		Reason:      reason,
		Details: map[string]interface{}{
			"debt_score":             score,
			"severity":               string(severity),
			"throttle_level":         c.ThrottleLevel,
			"curve_throttle":         throttle,
			"days_since_integration": c.Inputs.DaysSinceIntegration,
			"lines_changed":          c.Inputs.LinesChanged,
			"dependencies":           c.Inputs.Dependencies,
			"prediction_7_days":      debt.Predict(c.Flavor, c.Inputs, 7),
		},
		Timestamp: time.Now(),
	}

	b.mu.Lock()
	b.history = append(b.history, result)
	if len(b.history) > b.historyLimit {
		b.history = b.history[len(b.history)-b.historyLimit:]
	}
	b.mu.Unlock()

	return result
}

// History returns a copy of the recorded brake decisions, oldest first
func (b *Brake) History() []types.MitigationResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.MitigationResult, len(b.history))
	copy(out, b.history)
	return out
}
