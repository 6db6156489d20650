package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterRequests.WithLabelValues("GET", "200").Inc()
	m.CounterEventsIngested.Add(2)
	m.CounterPlans.WithLabelValues("strength").Inc()
	m.CounterUpstreamErrors.WithLabelValues("generate").Inc()
	m.HistPlanSlots.Observe(4)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["repcoach_test_server_request"])
	assert.True(t, names["repcoach_test_server_fatigue_events_ingested"])
	assert.True(t, names["repcoach_test_server_plan_slots"])

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterEventsIngested))
}
