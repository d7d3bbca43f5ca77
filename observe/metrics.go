package observe

import (
	"context"
	"reflect"
	"time"

	"github.com/danmuck/approuter"
	"github.com/prometheus/client_golang/prometheus"
)

var routeLabels = []string{"table", "source", "message", "status"}

// Metrics counts and times routes dispatched through approuter tables.
type Metrics struct {
	routes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the route collectors with reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		routes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "approuter",
				Name:      "routes_total",
				Help:      "Total routes dispatched through a route table.",
			},
			routeLabels,
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "approuter",
				Name:      "route_duration_seconds",
				Help:      "Route dispatch duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			routeLabels,
		),
	}
	for _, c := range []prometheus.Collector{m.routes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observer returns an approuter.Observer that feeds m.
func (m *Metrics) Observer() approuter.Observer {
	return metricsObserver{m: m}
}

func (m *Metrics) Record(table string, key approuter.RouteKey, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := []string{table, typeLabel(key.Source), typeLabel(key.Message), status}
	m.routes.WithLabelValues(labels...).Inc()
	m.duration.WithLabelValues(labels...).Observe(elapsed.Seconds())
}

type metricsObserver struct {
	m *Metrics
}

func (o metricsObserver) RouteStarted(ctx context.Context, _ string, _ approuter.RouteKey) context.Context {
	return ctx
}

func (o metricsObserver) RouteFinished(_ context.Context, table string, key approuter.RouteKey, elapsed time.Duration, err error) {
	o.m.Record(table, key, elapsed, err)
}

func typeLabel(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
