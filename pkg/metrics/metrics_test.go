package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := NewPrometheus(reg, "app")

	recorder.EventCaptured("exception")
	recorder.EventCaptured("exception")
	recorder.EventCaptured("message")
	recorder.EventDropped(ReasonFilter)
	recorder.EventSent()
	recorder.EventFailed()
	recorder.BreadcrumbRecorded()
	recorder.BreadcrumbRecorded()

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.captured.WithLabelValues("exception")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.captured.WithLabelValues("message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.dropped.WithLabelValues(ReasonFilter)))
	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.dropped.WithLabelValues(ReasonSampled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.sent))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.failed))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.breadcrumbs))
}

func TestPrometheusRegistersNamespacedCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := NewPrometheus(reg, "app")
	recorder.EventSent()
	recorder.EventCaptured("event")
	recorder.EventDropped(ReasonClosed)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "app_shim_events_sent_total")
	assert.Contains(t, names, "app_shim_events_captured_total")
	assert.Contains(t, names, "app_shim_events_dropped_total")
}

func TestPrometheusDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "app")
	assert.Panics(t, func() { NewPrometheus(reg, "app") })
}

func TestNilRegistererUsesPrivateRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheus(nil, "app")
		NewPrometheus(nil, "app")
	})
}

func TestNoopSatisfiesRecorder(t *testing.T) {
	var recorder Recorder = Noop{}
	recorder.EventCaptured("exception")
	recorder.EventDropped(ReasonError)
	recorder.EventSent()
	recorder.EventFailed()
	recorder.BreadcrumbRecorded()
}
