package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/ubkifeat/internal/model"
)

func TestMetrics_Record(t *testing.T) {
	m := New()
	issue := model.Issue{Extractor: model.ExtractorReport, Section: "contacts", Kind: model.IssueMalformedValue}

	m.Record(issue)
	m.Record(issue)

	got := testutil.ToFloat64(m.IssuesTotal.WithLabelValues("report", "contacts", "malformed_value"))
	assert.Equal(t, 2.0, got)
}

func TestMetrics_ObserveExtraction(t *testing.T) {
	m := New()
	m.ObserveExtraction(10*time.Millisecond, nil)
	m.ObserveExtraction(time.Millisecond, errors.New("boom"))
	m.ObserveExtraction(time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExtractDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Record(model.Issue{})
		m.ObserveExtraction(time.Second, nil)
		assert.NoError(t, m.WriteTextfile("/nonexistent/metrics.prom"))
	})
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.Record(model.Issue{Extractor: model.ExtractorScore, Section: "rating", Kind: model.IssueStructuralMiss})

	path := filepath.Join(t.TempDir(), "ubkifeat.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ubkifeat_extraction_issues_total{extractor="score",kind="structural_miss",section="rating"} 1`)
}
