// Package prom records matchmaking activity as Prometheus metrics.
package prom

import (
	"net/http"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pairline"

// Recorder implements ports.Metrics on its own registry so several servers
// can live in one process (tests do).
type Recorder struct {
	registry *prometheus.Registry

	joins             *prometheus.CounterVec
	sessionsCreated   prometheus.Counter
	sessionsCompleted *prometheus.CounterVec
	sessionsSwept     prometheus.Counter
	connected         prometheus.Gauge
	waiting           prometheus.Gauge
	sessions          prometheus.Gauge
}

var _ ports.Metrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_total",
			Help:      "Join requests by outcome.",
		}, []string{"result"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created by pairing.",
		}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Sessions that reached the complete state, by reason.",
		}, []string{"reason"}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Complete sessions removed by the sweeper.",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_identities",
			Help:      "Identities currently registered.",
		}),
		waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "waiting_identities",
			Help:      "Identities in the waiting queue.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Sessions in the registry, active or awaiting sweep.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.joins,
		r.sessionsCreated,
		r.sessionsCompleted,
		r.sessionsSwept,
		r.connected,
		r.waiting,
		r.sessions,
	)
	return r
}

func (r *Recorder) Join(result ports.JoinResult) {
	r.joins.WithLabelValues(string(result)).Inc()
}

func (r *Recorder) SessionCreated() {
	r.sessionsCreated.Inc()
}

func (r *Recorder) SessionCompleted(reason domain.CompletionReason) {
	r.sessionsCompleted.WithLabelValues(string(reason)).Inc()
}

func (r *Recorder) SessionsSwept(n int) {
	r.sessionsSwept.Add(float64(n))
}

func (r *Recorder) Population(connected, waiting, sessions int) {
	r.connected.Set(float64(connected))
	r.waiting.Set(float64(waiting))
	r.sessions.Set(float64(sessions))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
