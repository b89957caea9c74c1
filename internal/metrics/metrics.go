package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hamamukku/reviewtrust-backend/internal/aggregator"
	"github.com/hamamukku/reviewtrust-backend/internal/signals"
)

const namespace = "sakura_eval"

// Metrics exposes the outcome of one evaluation run in a form node_exporter's
// textfile collector can pick up.
type Metrics struct {
	registry *prometheus.Registry

	Batches   *prometheus.GaugeVec
	Accuracy  prometheus.Gauge
	Recall    *prometheus.GaugeVec
	Duration  prometheus.Gauge
	LastRunTS prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Batches: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batches",
			Help:      "Batches per confusion matrix cell",
		}, []string{"actual", "predicted"}),
		Accuracy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accuracy_ratio",
			Help:      "Share of batches whose predicted label matches the ground truth",
		}),
		Recall: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recall_ratio",
			Help:      "Per-label recall, only for labels present in the corpus",
		}, []string{"label"}),
		Duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Wall time of the evaluation run",
		}),
		LastRunTS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the evaluation finished",
		}),
	}
}

func (m *Metrics) Observe(matrix *aggregator.Matrix, elapsed time.Duration, finished time.Time) {
	for _, actual := range signals.Labels {
		for _, predicted := range signals.Labels {
			m.Batches.WithLabelValues(actual.String(), predicted.String()).
				Set(float64(matrix.Count(actual, predicted)))
		}
		if recall, ok := matrix.Recall(actual); ok {
			m.Recall.WithLabelValues(actual.String()).Set(recall)
		}
	}

	m.Accuracy.Set(matrix.Accuracy())
	m.Duration.Set(elapsed.Seconds())
	m.LastRunTS.Set(float64(finished.Unix()))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
