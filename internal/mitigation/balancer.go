package mitigation

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// BalanceEntry is one recorded balance observation
type BalanceEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	ComponentID string    `json:"component_id"`
	Capacity    float64   `json:"capacity"`
	Demand      float64   `json:"demand"`
	Imbalance   float64   `json:"imbalance"`
}

// Balancer keeps hardware capacity and software demand in equilibrium.
//
// Capacity and demand are both scored 0-100 from telemetry; their
// normalized difference is the imbalance, negative when hardware is the
// constraint. Decisions are made on the mean imbalance over a rolling
// window shared across all components, so one noisy sample cannot
// trigger a correction.
type Balancer struct {
	mu           sync.Mutex
	history      []BalanceEntry
	window       int
	band         float64
	targetTput   float64
	resources    types.ResourceThresholds
	historyLimit int
}

// NewBalancer creates a balancer from engine config
func NewBalancer(cfg *Config) *Balancer {
	historyLimit := cfg.HistoryLimit
	if historyLimit < cfg.BalanceWindow {
		historyLimit = cfg.BalanceWindow
	}
	return &Balancer{
		window:       cfg.BalanceWindow,
		band:         cfg.ImbalanceBand,
		targetTput:   cfg.TargetThroughput,
		resources:    cfg.Resources,
		historyLimit: historyLimit,
	}
}

// HardwareCapacity scores available hardware headroom 0-100.
// Higher means more capacity to spare.
func (b *Balancer) HardwareCapacity(sample types.TelemetrySample) float64 {
	cpuCapacity := 100 - clamp(sample.CPUPercent, 0, 100)
	memCapacity := 100 - clamp(sample.MemoryPercent, 0, 100)

	tempFactor := 1.0
	if sample.TemperatureC != nil {
		switch temp := *sample.TemperatureC; {
		case temp >= b.resources.TemperatureCritical:
			tempFactor = 0.3
		case temp >= b.resources.TemperatureWarning:
			tempFactor = 0.7
		}
	}

	return round2(cpuCapacity*0.4 + memCapacity*0.4 + 100*tempFactor*0.2)
}

// SoftwareDemand scores how much resource the software side is asking
// for, 0-100. Higher means more demand.
func (b *Balancer) SoftwareDemand(sample types.TelemetrySample) float64 {
	throughputDemand := min(sample.Throughput/b.targetTput*100, 100)

	var latencyUrgency float64
	switch {
	case sample.IOLatencyMs > b.resources.LatencyCriticalMs:
		latencyUrgency = 100
	case sample.IOLatencyMs > b.resources.LatencyWarningMs:
		latencyUrgency = 70
	default:
		latencyUrgency = sample.IOLatencyMs / b.resources.LatencyWarningMs * 50
	}

	errorStress := min(clamp(sample.ErrorRate, 0, 1)*1000, 100)

	return round2(throughputDemand*0.5 + latencyUrgency*0.3 + errorStress*0.2)
}

// Imbalance computes the normalized capacity/demand gap in [-1, 1].
// Negative means hardware-constrained, positive means hardware idle.
func (b *Balancer) Imbalance(capacity, demand float64) float64 {
	if capacity+demand == 0 {
		return 0.0
	}
	return round3(clamp((capacity-demand)/100.0, -1, 1))
}

// Balance records a balance observation for the component and decides
// whether to slow the software down or flag idle hardware. The throttle
// branch mutates the component's throttle level; the alert branch is
// advisory only.
func (b *Balancer) Balance(c *types.ComponentState, sample types.TelemetrySample) types.MitigationResult {
	capacity := b.HardwareCapacity(sample)
	demand := b.SoftwareDemand(sample)
	imbalance := b.Imbalance(capacity, demand)

	b.mu.Lock()
	b.history = append(b.history, BalanceEntry{
		Timestamp:   time.Now(),
		ComponentID: c.ID,
		Capacity:    capacity,
		Demand:      demand,
		Imbalance:   imbalance,
	})
	if len(b.history) > b.historyLimit {
		b.history = b.history[len(b.history)-b.historyLimit:]
	}

	avgImbalance := imbalance
	if len(b.history) >= b.window {
		recent := b.history[len(b.history)-b.window:]
		sum := 0.0
		for _, entry := range recent {
			sum += entry.Imbalance
		}
		avgImbalance = sum / float64(len(recent))
	}
	b.mu.Unlock()

	return b.decide(avgImbalance, c)
}

func (b *Balancer) decide(imbalance float64, c *types.ComponentState) types.MitigationResult {
	now := time.Now()

	switch {
	case math.Abs(imbalance) < b.band:
		return types.MitigationResult{
			Action:      types.ActionNone,
			ComponentID: c.ID,
			Reason:      "system is balanced",
			Details:     map[string]interface{}{"imbalance": imbalance, "status": "balanced"},
			Timestamp:   now,
		}

	case imbalance < -b.band:
		// Hardware constrained: slow the software down
		reduction := min(math.Abs(imbalance), 0.5)
		newThrottle := max(c.ThrottleLevel-reduction, 0.2)
		c.ThrottleLevel = newThrottle

		return types.MitigationResult{
			Action:      types.ActionThrottle,
			ComponentID: c.ID,
			Reason:      fmt.Sprintf("hardware overloaded - throttling software by %.0f%%", reduction*100),
			Details: map[string]interface{}{
				"imbalance":          imbalance,
				"throttle_amount":    reduction,
				"new_throttle_level": newThrottle,
				"recommendation":     "consider scaling up hardware or optimizing software",
			},
			Timestamp: now,
		}

	default:
		// Hardware idle: advisory only, no mutation
		boost := min(imbalance, 0.3)

		return types.MitigationResult{
			Action:      types.ActionAlert,
			ComponentID: c.ID,
			Reason:      fmt.Sprintf("hardware underutilized - can boost software by %.0f%%", boost*100),
			Details: map[string]interface{}{
				"imbalance":       imbalance,
				"boost_potential": boost,
				"recommendation":  "consider increasing workload or scaling down hardware",
			},
			Timestamp: now,
		}
	}
}

// History returns a copy of the recorded balance observations
func (b *Balancer) History() []BalanceEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BalanceEntry, len(b.history))
	copy(out, b.history)
	return out
}
