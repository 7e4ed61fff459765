package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	WorkflowRuns     *prometheus.CounterVec
	WorkflowFailures *prometheus.CounterVec
	EventsPublished  prometheus.Counter
	StockDecrements  prometheus.Counter
	ArchiveWrites    prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipflow_workflow_runs_total",
	}, []string{"workflow", "outcome"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipflow_workflow_failures_total",
	}, []string{"workflow", "step"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "shipflow_events_published_total"})
	decrements := prometheus.NewCounter(prometheus.CounterOpts{Name: "shipflow_stock_decrements_total"})
	archived := prometheus.NewCounter(prometheus.CounterOpts{Name: "shipflow_archive_writes_total"})

	r.MustRegister(runs, failures, published, decrements, archived)
	return &Registry{
		reg:              r,
		WorkflowRuns:     runs,
		WorkflowFailures: failures,
		EventsPublished:  published,
		StockDecrements:  decrements,
		ArchiveWrites:    archived,
	}
}

// Observe is the workflow runner hook: it counts every finished run and
// attributes failures to the step that caused them.
func (r *Registry) Observe(workflow, step string, err error) {
	if err == nil {
		r.WorkflowRuns.WithLabelValues(workflow, "success").Inc()
		return
	}
	r.WorkflowRuns.WithLabelValues(workflow, "failure").Inc()
	r.WorkflowFailures.WithLabelValues(workflow, step).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
