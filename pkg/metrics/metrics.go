// Package metrics records client outcomes. Recorder is the contract the
// reference client reports through; Prometheus and Noop implement it.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Drop reasons passed to Recorder.EventDropped.
const (
	ReasonFilter  = "filter"
	ReasonSampled = "sampled"
	ReasonClosed  = "closed"
	ReasonError   = "error"
)

// Recorder receives client outcomes.
type Recorder interface {
	EventCaptured(kind string)
	EventDropped(reason string)
	EventSent()
	EventFailed()
	BreadcrumbRecorded()
}

// Noop discards everything.
type Noop struct{}

func (Noop) EventCaptured(string) {}
func (Noop) EventDropped(string)  {}
func (Noop) EventSent()           {}
func (Noop) EventFailed()         {}
func (Noop) BreadcrumbRecorded()  {}

// Prometheus backs Recorder with Prometheus collectors.
type Prometheus struct {
	captured    *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	sent        prometheus.Counter
	failed      prometheus.Counter
	breadcrumbs prometheus.Counter
}

// NewPrometheus registers the client collectors on reg. A nil reg uses a
// fresh registry so repeated construction in tests does not collide.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Prometheus{
		captured: newCounterVec(reg, namespace, "events_captured_total",
			"Count of events handed to the client, by capture kind.", []string{"kind"}),
		dropped: newCounterVec(reg, namespace, "events_dropped_total",
			"Count of events discarded before delivery, by reason.", []string{"reason"}),
		sent: newCounter(reg, namespace, "events_sent_total",
			"Count of events delivered by the transport."),
		failed: newCounter(reg, namespace, "events_failed_total",
			"Count of events the transport failed to deliver."),
		breadcrumbs: newCounter(reg, namespace, "breadcrumbs_recorded_total",
			"Count of breadcrumbs stored on a scope."),
	}
}

func (p *Prometheus) EventCaptured(kind string) {
	p.captured.WithLabelValues(kind).Inc()
}

func (p *Prometheus) EventDropped(reason string) {
	p.dropped.WithLabelValues(reason).Inc()
}

func (p *Prometheus) EventSent() {
	p.sent.Inc()
}

func (p *Prometheus) EventFailed() {
	p.failed.Inc()
}

func (p *Prometheus) BreadcrumbRecorded() {
	p.breadcrumbs.Inc()
}

func newCounterVec(reg prometheus.Registerer, namespace, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shim",
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	reg.MustRegister(counter)
	return counter
}

func newCounter(reg prometheus.Registerer, namespace, name, help string) prometheus.Counter {
	opts := prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shim",
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounter(opts)
	reg.MustRegister(counter)
	return counter
}
