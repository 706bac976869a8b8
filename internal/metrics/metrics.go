package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors the trainer and HTTP layer report to.
type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	Answers           *prometheus.CounterVec
	StoreWrites       *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "endpoint"},
		),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizdrill_sessions_started_total",
			Help: "Drill sessions started",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizdrill_sessions_completed_total",
			Help: "Drill sessions whose queue was emptied",
		}),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdrill_answers_total",
				Help: "Submitted answers by result",
			},
			[]string{"result"},
		),
		StoreWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizdrill_store_writes_total",
				Help: "Question bank writes to the store by outcome",
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.RequestCounter,
			m.RequestDuration,
			m.SessionsStarted,
			m.SessionsCompleted,
			m.Answers,
			m.StoreWrites,
		)
	}
	return m
}
