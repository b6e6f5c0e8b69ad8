package mitigation

import "sync"

// integralLimit bounds the accumulated error to prevent windup
const integralLimit = 50.0

// adjustmentLimit bounds a single throttle correction
const adjustmentLimit = 0.3

// regulatorFloor is the lowest throttle the regulator will set. Only
// the pruning controller may take a component to 0.0.
const regulatorFloor = 0.1

// Regulator is a PID controller nudging throttle toward a target CPU
// utilization. The derivative term is stateful across calls, so one
// regulator instance must live as long as the control loop it serves.
type Regulator struct {
	mu sync.Mutex

	kp     float64
	ki     float64
	kd     float64
	target float64

	integral  float64
	prevError float64
}

// NewRegulator creates a regulator with the given PID tuning
func NewRegulator(cfg RegulatorConfig) *Regulator {
	return &Regulator{
		kp:     cfg.Kp,
		ki:     cfg.Ki,
		kd:     cfg.Kd,
		target: cfg.TargetUtilization,
	}
}

// Adjustment computes the throttle correction for the measured CPU
// utilization, clamped to ±0.3
func (r *Regulator) Adjustment(measuredUtilization float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.target - measuredUtilization

	pTerm := r.kp * err

	r.integral = clamp(r.integral+err, -integralLimit, integralLimit)
	iTerm := r.ki * r.integral

	dTerm := r.kd * (err - r.prevError)
	r.prevError = err

	return clamp((pTerm+iTerm+dTerm)/100.0, -adjustmentLimit, adjustmentLimit)
}

// AdjustedThrottle returns the new throttle level for a component given
// its current level and measured CPU utilization, floored at 0.1
func (r *Regulator) AdjustedThrottle(current, measuredUtilization float64) float64 {
	adjustment := r.Adjustment(measuredUtilization)
	return round2(clamp(current+adjustment, regulatorFloor, 1.0))
}

// Integral exposes the accumulated error term for diagnostics
func (r *Regulator) Integral() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.integral
}

// Reset clears the accumulated PID state
func (r *Regulator) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.integral = 0
	r.prevError = 0
}
