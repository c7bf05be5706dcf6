// Package metrics exports ingestion run results as Prometheus metrics.
// partflow is a batch job, so metrics are written in the text exposition
// format for node_exporter's textfile collector rather than served.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Veraticus/partflow/internal/ingest"
	"github.com/Veraticus/partflow/internal/model"
)

const namespace = "partflow"

// Recorder holds the metrics of one process on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	processed   prometheus.Counter
	malformed   prometheus.Counter
	collapsed   prometheus.Counter
	persisted   prometheus.Counter
	accepted    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	batches     *prometheus.CounterVec
	skipped     prometheus.Counter
	duration    prometheus.Gauge
	lastRun     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// New creates a recorder with every series registered.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	r := &Recorder{
		registry: registry,
		processed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Well-formed records classified.",
		}),
		malformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_malformed_total",
			Help:      "Records skipped because they could not be normalized.",
		}),
		collapsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_collapsed_total",
			Help:      "Accepted records replaced by a later record with the same key.",
		}),
		persisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_affected_total",
			Help:      "Rows inserted or updated in the catalog.",
		}),
		accepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_accepted_total",
			Help:      "Records accepted, by category.",
		}, []string{"category"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Records rejected, by reason.",
		}, []string{"reason"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Upsert batches applied, by outcome.",
		}, []string{"outcome"}),
		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Source files skipped as unreadable or malformed.",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last ingestion run.",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last ingestion run finished.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run with no failed batches finished.",
		}),
	}

	// Pre-create the reason series so dashboards see zeros.
	for _, reason := range model.AllRejectReasons() {
		r.rejected.WithLabelValues(string(reason))
	}
	r.batches.WithLabelValues("committed")
	r.batches.WithLabelValues("rolled_back")

	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe adds one run's report. success marks a run that completed
// without interruption.
func (r *Recorder) Observe(report *ingest.Report, success bool) {
	s := report.Stats
	r.processed.Add(float64(s.Processed))
	r.malformed.Add(float64(s.MalformedRecords))
	r.collapsed.Add(float64(s.Collapsed))
	r.persisted.Add(float64(s.Persisted))
	r.skipped.Add(float64(len(s.SkippedFiles)))

	for category, n := range s.AcceptedBy {
		r.accepted.WithLabelValues(string(category)).Add(float64(n))
	}
	for reason, n := range s.RejectedBy {
		r.rejected.WithLabelValues(string(reason)).Add(float64(n))
	}
	for _, b := range report.Batches {
		outcome := "committed"
		if b.Error != "" {
			outcome = "rolled_back"
		}
		r.batches.WithLabelValues(outcome).Inc()
	}

	r.duration.Set(report.Duration().Seconds())
	if !report.FinishedAt.IsZero() {
		r.lastRun.Set(float64(report.FinishedAt.Unix()))
		if success && s.FailedBatches == 0 {
			r.lastSuccess.Set(float64(report.FinishedAt.Unix()))
		}
	}
}

// WriteTextfile atomically writes every metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
