package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	FunnelsStarted       prometheus.Counter
	FunnelsCompleted     prometheus.Counter
	LeadsExported        prometheus.Counter
	ErrorsTotal          prometheus.Counter
}

// NewMetrics создает новые метрики
func NewMetrics() *Metrics {
	return &Metrics{
		UpdatesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "funnel_bot_updates_processed_total",
			Help: "Total number of Telegram updates processed",
		}),
		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "funnel_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
		FunnelsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "funnel_bot_funnels_started_total",
			Help: "Total number of questionnaires started",
		}),
		FunnelsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "funnel_bot_funnels_completed_total",
			Help: "Total number of questionnaires completed",
		}),
		LeadsExported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "funnel_bot_leads_exported_total",
			Help: "Total number of leads exported to xlsx",
		}),
		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "funnel_bot_errors_total",
			Help: "Total number of processing errors",
		}),
	}
}
