// Package debt computes integration debt scores and classifies them
// into severity tiers.
//
// Each project flavor carries its own formula and threshold tuple. The
// mitigation engine never calls these calculators directly: it consumes
// scores that callers computed here (or elsewhere) and stored on the
// component. Keeping the formulas out of the engine lets projects swap
// in their own scoring without touching the control loops.
package debt

import (
	"math"

	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// MetricName returns the debt metric's display name for a flavor
// (IDI for code integration, CDI for configuration, SDI for schemas).
func MetricName(flavor types.FlavorType) string {
	switch flavor {
	case types.FlavorInfra:
		return "CDI"
	case types.FlavorData:
		return "SDI"
	}
	return "IDI"
}

// DefaultThresholds returns the canonical threshold tuple for a flavor.
// Unknown flavors fall back to the IoT tuple.
func DefaultThresholds(flavor types.FlavorType) types.DebtThresholds {
	switch flavor {
	case types.FlavorCloud:
		return types.DebtThresholds{Healthy: 2.0, Warning: 4.0, Critical: 6.0, Quarantine: 8.0}
	case types.FlavorEmbedded:
		return types.DebtThresholds{Healthy: 2.0, Warning: 3.5, Critical: 5.0, Quarantine: 7.0}
	case types.FlavorInfra:
		return types.DebtThresholds{Healthy: 5.0, Warning: 10.0, Critical: 20.0, Quarantine: 50.0}
	case types.FlavorData:
		return types.DebtThresholds{Healthy: 3.0, Warning: 6.0, Critical: 10.0, Quarantine: 15.0}
	case types.FlavorMobile:
		return types.DebtThresholds{Healthy: 3.0, Warning: 5.0, Critical: 8.0, Quarantine: 12.0}
	default:
		return types.DebtThresholds{Healthy: 3.0, Warning: 5.0, Critical: 7.0, Quarantine: 10.0}
	}
}

// Calculate computes the canonical integration debt index:
//
//	IDI = days × (lines changed / 1000) × (dependencies / 10)
//
// Negative inputs are clamped rather than rejected.
func Calculate(days, linesChanged, dependencies int) float64 {
	d := float64(maxInt(days, 0))
	l := float64(maxInt(linesChanged, 0)) / 1000.0
	dep := float64(maxInt(dependencies, 1)) / 10.0
	return round2(d * l * dep)
}

// CalculateForFlavor computes the debt score for a flavor from its raw
// counters. Counters are clamped at zero, multipliers at one.
func CalculateForFlavor(flavor types.FlavorType, in types.DebtInputs) float64 {
	switch flavor {
	case types.FlavorCloud:
		prAge := float64(maxInt(in.PRAgeDays, 0))
		files := float64(maxInt(in.ChangedFiles, 0))
		services := float64(maxInt(in.DependentServices, 1))
		return round2(prAge * files * services / 100.0)

	case types.FlavorEmbedded:
		days := float64(maxInt(in.DaysSinceIntegration, 0))
		loc := float64(maxInt(in.LinesChanged, 0)) / 500.0
		modules := float64(maxInt(in.Modules, 1))
		return round2(days * loc * modules / 10.0)

	case types.FlavorInfra:
		hours := float64(maxInt(in.HoursSinceApply, 0))
		resources := float64(maxInt(in.ChangedResources, 0))
		envs := float64(maxInt(in.Environments, 1))
		return round2(hours * resources * envs / 100.0)

	case types.FlavorData:
		days := float64(maxInt(in.DaysSinceSync, 0))
		changes := float64(maxInt(in.BreakingChanges, 0))
		consumers := float64(maxInt(in.DownstreamConsumers, 1))
		return round2(days * changes * consumers / 50.0)

	case types.FlavorMobile:
		days := float64(maxInt(in.DaysSinceIntegration, 0))
		screens := float64(maxInt(in.ChangedScreens, 0))
		pf := math.Max(in.PlatformFactor, 1.0)
		return round2(days * screens * pf / 100.0)

	case types.FlavorIoT:
		days := float64(maxInt(in.DaysSinceIntegration, 0))
		loc := float64(maxInt(in.LinesChanged, 0)) / 1000.0
		deps := float64(maxInt(in.Dependencies, 1)) / 10.0
		return round2(days * loc * deps / 10.0)
	}

	return Calculate(in.DaysSinceIntegration, in.LinesChanged, in.Dependencies)
}

// Predict projects the debt score daysAhead days into the future,
// extrapolating the component's historical daily change rate.
func Predict(flavor types.FlavorType, in types.DebtInputs, daysAhead int) float64 {
	switch flavor {
	case types.FlavorCloud:
		future := in
		future.PRAgeDays += daysAhead
		return CalculateForFlavor(flavor, future)

	case types.FlavorInfra:
		future := in
		future.HoursSinceApply += daysAhead * 24
		return CalculateForFlavor(flavor, future)

	case types.FlavorData:
		future := in
		future.DaysSinceSync += daysAhead
		return CalculateForFlavor(flavor, future)

	case types.FlavorMobile:
		future := in
		future.DaysSinceIntegration += daysAhead
		return CalculateForFlavor(flavor, future)

	default:
		// IoT and Embedded extrapolate lines changed at the observed
		// daily rate.
		days := maxInt(in.DaysSinceIntegration, 1)
		dailyRate := float64(in.LinesChanged) / float64(days)
		future := in
		future.DaysSinceIntegration += daysAhead
		future.LinesChanged += int(dailyRate * float64(daysAhead))
		return CalculateForFlavor(flavor, future)
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
