package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ppiankov/ubkifeat/internal/model"
)

// Metrics provides observability for feature extraction.
type Metrics struct {
	// Suppressed extraction failures by extractor, section and kind
	IssuesTotal *prometheus.CounterVec

	// Subjects processed by outcome: "ok" or "error"
	ExtractionsTotal *prometheus.CounterVec

	// Duration of one subject's extraction, parsing included
	ExtractDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the metrics on reg and exports them from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IssuesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ubkifeat_extraction_issues_total",
			Help: "Extraction failures that were suppressed and left features unknown",
		}, []string{"extractor", "section", "kind"}),

		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ubkifeat_extractions_total",
			Help: "Subjects processed by outcome",
		}, []string{"outcome"}),

		ExtractDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ubkifeat_extract_duration_seconds",
			Help:    "Duration of feature extraction for one subject",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		gatherer: gatherer,
	}
}

// Record counts a suppressed extraction issue.
func (m *Metrics) Record(issue model.Issue) {
	if m != nil {
		m.IssuesTotal.WithLabelValues(issue.Extractor, issue.Section, string(issue.Kind)).Inc()
	}
}

// ObserveExtraction records one subject's outcome and duration.
func (m *Metrics) ObserveExtraction(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	m.ExtractDuration.Observe(d.Seconds())
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format read by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
