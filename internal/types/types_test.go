package types

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlavorType_IsValid(t *testing.T) {
	for _, flavor := range []FlavorType{FlavorIoT, FlavorCloud, FlavorEmbedded, FlavorInfra, FlavorData, FlavorMobile} {
		assert.True(t, flavor.IsValid(), "flavor %s should be valid", flavor)
	}
	assert.False(t, FlavorType("mainframe").IsValid())
	assert.False(t, FlavorType("").IsValid())
}

func TestSeverity_Rank(t *testing.T) {
	ordered := []Severity{SeverityHealthy, SeverityWarning, SeverityCritical, SeverityQuarantine}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
	assert.Equal(t, -1, Severity("catastrophic").Rank())
	assert.False(t, Severity("catastrophic").IsValid())
}

func TestMitigationAction_IsValid(t *testing.T) {
	for _, action := range []MitigationAction{
		ActionNone, ActionThrottle, ActionBrake, ActionQuarantine,
		ActionRebalance, ActionAlert, ActionAutoIntegrate,
	} {
		assert.True(t, action.IsValid(), "action %s should be valid", action)
	}
	assert.False(t, MitigationAction("explode").IsValid())
}

func TestNewComponentState_Defaults(t *testing.T) {
	c := NewComponentState("comp-1", "Sensor Driver", KindHardware, FlavorIoT)

	assert.Equal(t, "comp-1", c.ID)
	assert.Equal(t, 1.0, c.ThrottleLevel)
	assert.Equal(t, 100.0, c.HealthScore)
	assert.False(t, c.IsQuarantined)
	assert.Equal(t, DefaultTelemetryWindow, c.TelemetryWindow)
	require.NoError(t, c.Validate())
}

func TestComponentState_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ComponentState)
		wantErr bool
	}{
		{"valid", func(c *ComponentState) {}, false},
		{"missing id", func(c *ComponentState) { c.ID = "" }, true},
		{"bad kind", func(c *ComponentState) { c.Kind = "gaseous" }, true},
		{"bad flavor", func(c *ComponentState) { c.Flavor = "mainframe" }, true},
		{"throttle above one", func(c *ComponentState) { c.ThrottleLevel = 1.2 }, true},
		{"negative throttle", func(c *ComponentState) { c.ThrottleLevel = -0.1 }, true},
		{"quarantined with positive throttle", func(c *ComponentState) {
			c.IsQuarantined = true
			c.ThrottleLevel = 0.5
		}, true},
		{"quarantined at zero throttle", func(c *ComponentState) {
			c.IsQuarantined = true
			c.ThrottleLevel = 0.0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComponentState("comp-1", "Component", KindSoftware, FlavorCloud)
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComponentState_AppendTelemetry_Bounded(t *testing.T) {
	c := NewComponentState("comp-1", "Component", KindSoftware, FlavorCloud)
	c.TelemetryWindow = 3

	for i := 0; i < 10; i++ {
		c.AppendTelemetry(TelemetrySample{
			ComponentID: "comp-1",
			Timestamp:   time.Now(),
			CPUPercent:  float64(i),
		})
	}

	require.Len(t, c.Telemetry, 3)
	// Oldest samples evicted, newest last
	assert.Equal(t, 7.0, c.Telemetry[0].CPUPercent)
	assert.Equal(t, 9.0, c.Telemetry[2].CPUPercent)
}

func TestComponentState_LatestTelemetry(t *testing.T) {
	c := NewComponentState("comp-1", "Component", KindSoftware, FlavorCloud)
	assert.Nil(t, c.LatestTelemetry())

	for i := 0; i < 3; i++ {
		c.AppendTelemetry(TelemetrySample{CPUPercent: float64(i * 10)})
	}
	latest := c.LatestTelemetry()
	require.NotNil(t, latest)
	assert.Equal(t, 20.0, latest.CPUPercent)
}

func TestMitigationResult_IsNoOp(t *testing.T) {
	noop := MitigationResult{Action: ActionNone, ComponentID: "comp-1"}
	assert.True(t, noop.IsNoOp())

	acted := MitigationResult{Action: ActionBrake, ComponentID: "comp-1"}
	assert.False(t, acted.IsNoOp())
}

func TestDebtThresholds_Validate(t *testing.T) {
	valid := DebtThresholds{Healthy: 3, Warning: 5, Critical: 7, Quarantine: 10}
	assert.NoError(t, valid.Validate())

	tests := []DebtThresholds{
		{Healthy: 5, Warning: 5, Critical: 7, Quarantine: 10},
		{Healthy: 5, Warning: 3, Critical: 7, Quarantine: 10},
		{Healthy: 3, Warning: 5, Critical: 10, Quarantine: 7},
		{},
	}
	for i, tuple := range tests {
		t.Run(fmt.Sprintf("invalid_%d", i), func(t *testing.T) {
			assert.Error(t, tuple.Validate())
		})
	}
}
