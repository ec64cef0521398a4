package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/ubkifeat/internal/extract"
	"github.com/ppiankov/ubkifeat/internal/model"
)

const reportXML = `<ubkidata>
	<comp id="1"><cki><ident cgrag="804" sstate="2"/><work wdohod="12000"/></cki></comp>
	<comp id="4"><reestrtime wk="3"/></comp>
	<comp id="10"><cont cval="+380501112233" vdate="2023-02-01"/></comp>
</ubkidata>`

const scoreXML = `<ubkidata><comp id="8"><urating score="612" scorelast="598" scorelevel="4">
	<dinfo all="5" open="2" close="3" expyear="Нет" maxnowexp="нет"/>
</urating></comp></ubkidata>`

var fixedClock = func() time.Time {
	return time.Date(2023, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func get(t *testing.T, f *model.Features, key string) *float64 {
	t.Helper()
	require.True(t, f.Has(key), "expected key %s", key)
	v, ok := f.Get(key)
	if !ok {
		return nil
	}
	return &v
}

func TestReport_PassThrough(t *testing.T) {
	r := New(reportXML, scoreXML, "+380501112233", "a@b.c")
	assert.Equal(t, reportXML, r.ReportText())
	assert.Equal(t, scoreXML, r.ScoreText())
	assert.Equal(t, "+380501112233", r.Phone())
	assert.Equal(t, "a@b.c", r.Email())
}

func TestReport_Features(t *testing.T) {
	r := New(reportXML, scoreXML, "+380501112233", "", WithClock(fixedClock))

	res, issues, err := r.Features(context.Background())
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, model.MergedSchema(), res.Keys())

	assert.Equal(t, 804.0, *get(t, res, model.Citizenship))
	assert.Equal(t, 12000.0, *get(t, res, model.MaxIncome))
	assert.Equal(t, 612.0, *get(t, res, model.Score))
	assert.Equal(t, 0.0, *get(t, res, model.MaxNowOverdue))
}

func TestReport_ScoreMappingWinsSharedKeys(t *testing.T) {
	r := New(reportXML, scoreXML, "+380501112233", "", WithClock(fixedClock))

	res, _, err := r.Features(context.Background())
	require.NoError(t, err)

	// The report computed these, but the score mapping declares them as unknown
	assert.Nil(t, get(t, res, model.WeekQueries))
	assert.Nil(t, get(t, res, model.PhoneDeltaTime))
}

func TestReport_KnownValuesOnlyMerge(t *testing.T) {
	r := New(reportXML, scoreXML, "+380501112233", "",
		WithClock(fixedClock), WithScorePrecedence(false))

	res, _, err := r.Features(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, *get(t, res, model.WeekQueries))
	assert.Equal(t, 28.0, *get(t, res, model.PhoneDeltaTime))
	assert.Equal(t, 612.0, *get(t, res, model.Score))
}

func TestReport_IgnoredKeysAreRemoved(t *testing.T) {
	r := New(reportXML, scoreXML, "", "", WithClock(fixedClock))

	res, _, err := r.Features(context.Background(), model.Citizenship, "not_a_feature")
	require.NoError(t, err)
	assert.False(t, res.Has(model.Citizenship))
	assert.Equal(t, len(model.MergedSchema())-1, res.Len())
}

func TestReport_UnparsableDocumentsAreAbsent(t *testing.T) {
	r := New("<ubkidata>", "<ubkidata><comp", "", "", WithClock(fixedClock))

	res, issues, err := r.Features(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.MergedSchema(), res.Keys())
	assert.Equal(t, 0, res.Known())

	require.Len(t, issues, 3)
	assert.Equal(t, model.ExtractorReport, issues[0].Extractor)
	assert.Equal(t, model.IssueDocumentAbsent, issues[0].Kind)
	assert.Equal(t, model.ExtractorReport, issues[1].Extractor)
	assert.Equal(t, model.ExtractorScore, issues[2].Extractor)
	assert.Equal(t, model.IssueDocumentAbsent, issues[2].Kind)
}

func TestReport_EmptyScoreIsSilent(t *testing.T) {
	r := New(reportXML, "", "", "", WithClock(fixedClock))

	res, issues, err := r.Features(context.Background())
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Nil(t, get(t, res, model.Score))
	assert.Equal(t, 804.0, *get(t, res, model.Citizenship))
}

func TestReport_IssuesReachRecorders(t *testing.T) {
	var got []model.Issue
	rec := extract.RecorderFunc(func(i model.Issue) { got = append(got, i) })

	r := New(`<ubkidata><comp id="4"/></ubkidata>`, "", "", "",
		WithClock(fixedClock), WithRecorders(rec))

	_, issues, err := r.Features(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, issues, got)
}

func TestReport_Idempotent(t *testing.T) {
	r := New(reportXML, scoreXML, "+380501112233", "", WithClock(fixedClock))

	a, _, err := r.Features(context.Background())
	require.NoError(t, err)
	b, _, err := r.Features(context.Background())
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestReport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(reportXML, scoreXML, "", "").Features(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
