package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasim21-maker/synapse-framework/internal/events"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

func TestCollector_HandleEvent_CountsActions(t *testing.T) {
	c := NewCollector()

	for _, action := range []types.MitigationAction{
		types.ActionBrake, types.ActionBrake, types.ActionQuarantine,
	} {
		evt := events.NewMitigationEvent(types.MitigationResult{
			ComponentID: "comp-1",
			Action:      action,
		})
		require.NoError(t, c.HandleEvent(evt))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.actionsTotal.WithLabelValues("brake")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.actionsTotal.WithLabelValues("quarantine")))
}

func TestCollector_Sync_Gauges(t *testing.T) {
	c := NewCollector()

	c.Sync([]types.ComponentState{
		{ID: "comp-1", ThrottleLevel: 0.7, HealthScore: 80},
		{ID: "comp-2", ThrottleLevel: 0.0, HealthScore: 10, IsQuarantined: true},
	})

	assert.Equal(t, 0.7, testutil.ToFloat64(c.throttleLevel.WithLabelValues("comp-1")))
	assert.Equal(t, 80.0, testutil.ToFloat64(c.healthScore.WithLabelValues("comp-1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.throttleLevel.WithLabelValues("comp-2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quarantined))
}

func TestCollector_Sync_QuarantineGaugeFollowsRestore(t *testing.T) {
	c := NewCollector()

	c.Sync([]types.ComponentState{{ID: "comp-1", IsQuarantined: true}})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quarantined))

	c.Sync([]types.ComponentState{{ID: "comp-1", ThrottleLevel: 0.5}})
	assert.Equal(t, 0.0, testutil.ToFloat64(c.quarantined))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	evt := events.NewMitigationEvent(types.MitigationResult{
		ComponentID: "comp-1",
		Action:      types.ActionThrottle,
	})
	require.NoError(t, a.HandleEvent(evt))

	assert.Equal(t, 1.0, testutil.ToFloat64(a.actionsTotal.WithLabelValues("throttle")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.actionsTotal.WithLabelValues("throttle")))
}

func TestCollector_HandlerServesMetrics(t *testing.T) {
	c := NewCollector()
	c.Sync([]types.ComponentState{{ID: "comp-1", ThrottleLevel: 1.0, HealthScore: 100}})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
