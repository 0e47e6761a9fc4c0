package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ParcelsProcessed  *prometheus.CounterVec
	ParcelsClassified *prometheus.CounterVec
	GeocodeAPIErrors  prometheus.Counter
	GeocodeSeconds    *prometheus.HistogramVec
	EvaluationSeconds prometheus.Histogram
	ActiveWorkers     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ParcelsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "proximity_parcels_geocoded_total",
			Help: "Total number of parcels processed by the geocoding stage.",
		}, []string{"status"}),
		ParcelsClassified: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "proximity_parcels_classified_total",
			Help: "Total number of parcels classified against the distance threshold.",
		}, []string{"verdict"}),
		GeocodeAPIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "proximity_geocoding_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proximity_geocoding_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		EvaluationSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "proximity_evaluation_duration_seconds",
			Help:    "Duration of a full nearest-antenna evaluation batch.",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "proximity_active_workers",
			Help: "Current number of active workers geocoding parcels.",
		}),
	}
}
