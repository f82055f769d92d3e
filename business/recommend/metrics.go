package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Count of recommendation results served, by mode (single_user or multi_user).",
		},
		[]string{"mode"},
	)

	IgnoredBehaviorIDsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_ignored_behavior_ids_total",
			Help: "Behavior product ids that did not resolve to a catalog entry.",
		},
	)

	ExplanationFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_explanation_fallbacks_total",
			Help: "Times the templated explanation was used instead of the text-generation service.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendationsServedTotal,
		IgnoredBehaviorIDsTotal,
		ExplanationFallbacksTotal,
	)
}
