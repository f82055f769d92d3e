package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendations HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommendation requests received
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total number of recommendation requests",
	})

	// Total number of behavior events ingested, labelled by event type
	BehaviorEventsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "behavior_events_ingested_total",
		Help: "Total number of behavior events ingested",
	}, []string{"event_type"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		BehaviorEventsIngested,
	)
}
