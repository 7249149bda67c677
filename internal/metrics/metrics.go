// Package metrics - счетчики пайплайнов и рассылки для Prometheus.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "agentic_news"
	job       = "agentic_news"
)

var (
	// Сколько элементов прошло через этап: fetched, kept, enriched
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Items seen per source and stage (fetched, kept, enriched)",
		},
		[]string{"source", "stage"},
	)

	// Ошибки по отдельным элементам, которые залогировали и пропустили
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Item level failures that were logged and skipped",
		},
		[]string{"source", "operation"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a pipeline run in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"source", "status"},
	)

	// Доставки выпуска: email и telegram
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_deliveries_total",
			Help:      "Digest deliveries per channel and status",
		},
		[]string{"channel", "status"},
	)
)

func RecordItems(source, stage string, n int) {
	ItemsTotal.WithLabelValues(source, stage).Add(float64(n))
}

func RecordFailure(source, operation string) {
	FailuresTotal.WithLabelValues(source, operation).Inc()
}

// RecordPipeline пишет длительность прогона, статус по err
func RecordPipeline(source string, err error, seconds float64) {
	PipelineDuration.WithLabelValues(source, status(err)).Observe(seconds)
}

func RecordDelivery(channel string, err error) {
	DeliveriesTotal.WithLabelValues(channel, status(err)).Inc()
}

// Push отправляет все метрики процесса в Pushgateway. Пустой url - ничего не делает
func Push(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}

	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}

	return nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
