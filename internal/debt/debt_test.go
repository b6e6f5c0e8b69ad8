package debt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rasim21-maker/synapse-framework/internal/types"
)

func TestClassify_BoundaryTable(t *testing.T) {
	thresholds := DefaultThresholds(types.FlavorIoT) // 3 / 5 / 7 / 10

	tests := []struct {
		score float64
		want  types.Severity
	}{
		{0.0, types.SeverityHealthy},
		{2.99, types.SeverityHealthy},
		{3.0, types.SeverityWarning}, // boundary-inclusive on the upper side
		{4.99, types.SeverityWarning},
		{5.0, types.SeverityCritical},
		{7.0, types.SeverityCritical}, // critical bound is a brake band, not a tier change
		{9.99, types.SeverityCritical},
		{10.0, types.SeverityQuarantine},
		{500.0, types.SeverityQuarantine},
		{-5.0, types.SeverityHealthy}, // clamped, not rejected
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score, thresholds), "score %g", tt.score)
	}
}

func TestClassify_NonDecreasing(t *testing.T) {
	thresholds := DefaultThresholds(types.FlavorIoT)

	prev := Classify(-1, thresholds)
	for score := 0.0; score <= 15.0; score += 0.01 {
		current := Classify(score, thresholds)
		assert.GreaterOrEqual(t, current.Rank(), prev.Rank(), "severity regressed at score %g", score)
		prev = current
	}
}

func TestClassify_Pure(t *testing.T) {
	thresholds := DefaultThresholds(types.FlavorCloud)
	first := Classify(5.5, thresholds)
	second := Classify(5.5, thresholds)
	assert.Equal(t, first, second)
}

func TestCalculate(t *testing.T) {
	// 8 days, 3200 lines, 6 deps: 8 * 3.2 * 0.6 = 15.36
	assert.Equal(t, 15.36, Calculate(8, 3200, 6))

	// 3 days, 1500 lines, 4 deps: 3 * 1.5 * 0.4 = 1.8
	assert.Equal(t, 1.8, Calculate(3, 1500, 4))
}

func TestCalculate_ClampsNegativeInputs(t *testing.T) {
	assert.Equal(t, 0.0, Calculate(-5, 1000, 4))
	assert.Equal(t, 0.0, Calculate(5, -1000, 4))
	// dependency floor is 1, not 0
	assert.Equal(t, Calculate(5, 1000, 1), Calculate(5, 1000, -3))
}

func TestCalculateForFlavor(t *testing.T) {
	tests := []struct {
		name   string
		flavor types.FlavorType
		inputs types.DebtInputs
		want   float64
	}{
		{
			name:   "iot divides canonical formula by 10",
			flavor: types.FlavorIoT,
			inputs: types.DebtInputs{DaysSinceIntegration: 8, LinesChanged: 3200, Dependencies: 6},
			want:   1.54, // round(15.36 / 10, 2)
		},
		{
			name:   "cloud",
			flavor: types.FlavorCloud,
			inputs: types.DebtInputs{PRAgeDays: 12, ChangedFiles: 20, DependentServices: 3},
			want:   7.2, // 12*20*3 / 100
		},
		{
			name:   "embedded",
			flavor: types.FlavorEmbedded,
			inputs: types.DebtInputs{DaysSinceIntegration: 5, LinesChanged: 1000, Modules: 2},
			want:   2.0, // 5 * 2 * 2 / 10
		},
		{
			name:   "infra",
			flavor: types.FlavorInfra,
			inputs: types.DebtInputs{HoursSinceApply: 48, ChangedResources: 10, Environments: 2},
			want:   9.6, // 48*10*2 / 100
		},
		{
			name:   "data",
			flavor: types.FlavorData,
			inputs: types.DebtInputs{DaysSinceSync: 10, BreakingChanges: 2, DownstreamConsumers: 5},
			want:   2.0, // 10*2*5 / 50
		},
		{
			name:   "mobile",
			flavor: types.FlavorMobile,
			inputs: types.DebtInputs{DaysSinceIntegration: 10, ChangedScreens: 8, PlatformFactor: 1.5},
			want:   1.2, // 10*8*1.5 / 100
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateForFlavor(tt.flavor, tt.inputs))
		})
	}
}

func TestCalculateForFlavor_MultiplierFloors(t *testing.T) {
	// Zero-valued multipliers floor at 1 rather than zeroing the score
	score := CalculateForFlavor(types.FlavorCloud, types.DebtInputs{PRAgeDays: 10, ChangedFiles: 10})
	assert.Equal(t, 1.0, score) // 10*10*1 / 100

	score = CalculateForFlavor(types.FlavorMobile, types.DebtInputs{DaysSinceIntegration: 10, ChangedScreens: 10})
	assert.Equal(t, 1.0, score) // platform factor floors at 1.0
}

func TestPredict_GrowsWithHorizon(t *testing.T) {
	inputs := types.DebtInputs{DaysSinceIntegration: 8, LinesChanged: 3200, Dependencies: 6}

	now := CalculateForFlavor(types.FlavorIoT, inputs)
	week := Predict(types.FlavorIoT, inputs, 7)
	month := Predict(types.FlavorIoT, inputs, 30)

	assert.Greater(t, week, now)
	assert.Greater(t, month, week)
}

func TestPredict_CloudUsesPRAge(t *testing.T) {
	inputs := types.DebtInputs{PRAgeDays: 10, ChangedFiles: 10, DependentServices: 2}
	// (10+5)*10*2 / 100 = 3.0
	assert.Equal(t, 3.0, Predict(types.FlavorCloud, inputs, 5))
}

func TestMetricName(t *testing.T) {
	assert.Equal(t, "IDI", MetricName(types.FlavorIoT))
	assert.Equal(t, "IDI", MetricName(types.FlavorCloud))
	assert.Equal(t, "CDI", MetricName(types.FlavorInfra))
	assert.Equal(t, "SDI", MetricName(types.FlavorData))
}

func TestDefaultThresholds_AllValid(t *testing.T) {
	flavors := []types.FlavorType{
		types.FlavorIoT, types.FlavorCloud, types.FlavorEmbedded,
		types.FlavorInfra, types.FlavorData, types.FlavorMobile,
	}
	for _, flavor := range flavors {
		assert.NoError(t, DefaultThresholds(flavor).Validate(), "flavor %s", flavor)
	}
}
