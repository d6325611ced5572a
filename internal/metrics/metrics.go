package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MarkOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance", Name: "mark_outcomes_total",
		Help: "Attendance mark outcomes by result",
	}, []string{"outcome"})
	Registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance", Name: "registrations_total",
		Help: "Student registrations by description source",
	}, []string{"encoding"})
	VisionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "attendance", Name: "vision_call_seconds",
		Help: "Vision inference call latency", Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(MarkOutcomes, Registrations, VisionLatency)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
