package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlansTotal counts served plans by source (model or fallback kind).
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exrpg_plans_total",
		Help: "Total workout plans served, by source.",
	}, []string{"source"})

	// GenerationDuration tracks model latency, including time waiting for a slot.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exrpg_generation_duration_seconds",
		Help:    "Time spent generating a workout with the model.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})

	GenerationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exrpg_generation_errors_total",
		Help: "Model invocations that failed outright.",
	})

	ModelAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "exrpg_model_available",
		Help: "Whether a language model is loaded (1) or not (0).",
	})
)
