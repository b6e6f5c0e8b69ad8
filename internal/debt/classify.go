package debt

import "github.com/rasim21-maker/synapse-framework/internal/types"

// Classify maps a debt score to its severity tier.
//
// Crossing the healthy bound enters warning; crossing the warning bound
// enters critical; crossing the quarantine bound enters quarantine. The
// critical bound is not a classification boundary, it only marks where
// the brake switches to its steepest band. Boundaries are inclusive on
// the upper side: a score exactly at a bound lands in the worse tier.
//
// Pure function: no state, no error cases. Out-of-range scores clamp to
// the nearest tier rather than being rejected.
func Classify(score float64, t types.DebtThresholds) types.Severity {
	switch {
	case score < t.Healthy:
		return types.SeverityHealthy
	case score < t.Warning:
		return types.SeverityWarning
	case score < t.Quarantine:
		return types.SeverityCritical
	default:
		return types.SeverityQuarantine
	}
}
