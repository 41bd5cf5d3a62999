// Package metrics exposes Prometheus collectors for meal analysis.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics counts analyses and records their scores.
type AnalysisMetrics struct {
	analysesTotal            *prometheus.CounterVec
	recognitionFailuresTotal prometheus.Counter
	unresolvedLabelsTotal    prometheus.Counter
	deficienciesTotal        *prometheus.CounterVec
	balancedPlateScore       prometheus.Histogram
}

// NewAnalysisMetrics creates the collectors and registers them with registry.
func NewAnalysisMetrics(registry prometheus.Registerer) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutrisnap_analyses_total",
				Help: "Total number of meal analyses",
			},
			[]string{"source"}, // source: image, recognized
		),
		recognitionFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutrisnap_recognition_failures_total",
			Help: "Total number of failed recognition calls",
		}),
		unresolvedLabelsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nutrisnap_unresolved_labels_total",
			Help: "Total number of recognized labels without a reference food",
		}),
		deficienciesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutrisnap_deficiencies_total",
				Help: "Total number of deficiencies flagged, by nutrient",
			},
			[]string{"nutrient"},
		),
		balancedPlateScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nutrisnap_balanced_plate_score",
			Help:    "Distribution of balanced-plate scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *AnalysisMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.analysesTotal.Describe(ch)
	m.recognitionFailuresTotal.Describe(ch)
	m.unresolvedLabelsTotal.Describe(ch)
	m.deficienciesTotal.Describe(ch)
	m.balancedPlateScore.Describe(ch)
}

// Collect implements the Collector interface
func (m *AnalysisMetrics) Collect(ch chan<- prometheus.Metric) {
	m.analysesTotal.Collect(ch)
	m.recognitionFailuresTotal.Collect(ch)
	m.unresolvedLabelsTotal.Collect(ch)
	m.deficienciesTotal.Collect(ch)
	m.balancedPlateScore.Collect(ch)
}

// RecordAnalysis records a completed analysis. A nil receiver is a no-op.
func (m *AnalysisMetrics) RecordAnalysis(source string, score int, deficiencies []string, unresolved int) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(source).Inc()
	m.balancedPlateScore.Observe(float64(score))
	m.unresolvedLabelsTotal.Add(float64(unresolved))
	for _, d := range deficiencies {
		m.deficienciesTotal.WithLabelValues(d).Inc()
	}
}

// RecordRecognitionFailure counts a failed recognition call.
func (m *AnalysisMetrics) RecordRecognitionFailure() {
	if m == nil {
		return
	}
	m.recognitionFailuresTotal.Inc()
}
