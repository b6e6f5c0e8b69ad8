// Package limiter enforces engine throttle decisions as request rate
// limits. Each tracked component gets a token-bucket limiter whose
// rate is the component's base rate scaled by its current throttle
// level; a quarantined component admits nothing.
package limiter

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/rasim21-maker/synapse-framework/internal/events"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// Enforcer maps throttle levels onto per-component rate limiters
type Enforcer struct {
	mu       sync.RWMutex
	baseRate float64
	limiters map[string]*rate.Limiter
}

// NewEnforcer creates an enforcer. baseRate is the events-per-second a
// component is allowed at full throttle.
func NewEnforcer(baseRate float64) *Enforcer {
	if baseRate <= 0 {
		baseRate = 1
	}
	return &Enforcer{
		baseRate: baseRate,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Track starts enforcing for a component at full throttle
func (e *Enforcer) Track(componentID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.limiters[componentID]; !ok {
		e.limiters[componentID] = rate.NewLimiter(rate.Limit(e.baseRate), burstFor(e.baseRate))
	}
}

// Allow reports whether the component may admit one more request.
// Untracked components are not limited.
func (e *Enforcer) Allow(componentID string) bool {
	e.mu.RLock()
	lim, ok := e.limiters[componentID]
	e.mu.RUnlock()
	if !ok {
		return true
	}
	return lim.Allow()
}

// SetThrottle rescales a component's admission rate. A throttle of
// zero (quarantine) closes admission entirely.
func (e *Enforcer) SetThrottle(componentID string, throttle float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lim, ok := e.limiters[componentID]
	if !ok {
		return
	}

	if throttle <= 0 {
		lim.SetLimit(0)
		lim.SetBurst(0)
		return
	}
	if throttle > 1 {
		throttle = 1
	}

	newRate := e.baseRate * throttle
	lim.SetLimit(rate.Limit(newRate))
	lim.SetBurst(burstFor(newRate))
}

// Limit returns the component's current admission rate in events/sec
func (e *Enforcer) Limit(componentID string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	lim, ok := e.limiters[componentID]
	if !ok {
		return 0, false
	}
	return float64(lim.Limit()), true
}

// HandleEvent is an events.Observer that keeps limiter rates in sync
// with mitigation decisions
func (e *Enforcer) HandleEvent(evt *events.Event) error {
	result := evt.Result

	if result.Action == types.ActionQuarantine {
		e.SetThrottle(result.ComponentID, 0)
		return nil
	}

	if throttle, ok := throttleFromResult(result); ok {
		e.SetThrottle(result.ComponentID, throttle)
	}
	return nil
}

// throttleFromResult extracts the post-decision throttle level from the
// detail keys the brake, balancer, and pruner write
func throttleFromResult(result types.MitigationResult) (float64, bool) {
	for _, key := range []string{"new_throttle", "new_throttle_level", "throttle_level"} {
		if value, ok := result.Details[key].(float64); ok {
			return value, true
		}
	}
	return 0, false
}

func burstFor(r float64) int {
	burst := int(r)
	if burst < 1 {
		burst = 1
	}
	return burst
}
