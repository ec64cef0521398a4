package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/model"
)

var refDate = time.Date(2023, time.March, 1, 12, 0, 0, 0, time.UTC)

func loadDoc(t *testing.T, name string) *document.Node {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := document.Parse(string(data))
	require.NoError(t, err)
	return doc
}

func parseDoc(t *testing.T, text string) *document.Node {
	t.Helper()
	doc, err := document.Parse(text)
	require.NoError(t, err)
	return doc
}

func assertValue(t *testing.T, f *model.Features, key string, want float64) {
	t.Helper()
	got, ok := f.Get(key)
	if assert.True(t, ok, "expected %s to be set", key) {
		assert.Equal(t, want, got, key)
	}
}

func assertUnknown(t *testing.T, f *model.Features, key string) {
	t.Helper()
	require.True(t, f.Has(key), "expected key %s", key)
	_, ok := f.Get(key)
	assert.False(t, ok, "expected %s to be nil", key)
}

func issueKinds(issues []model.Issue) []model.IssueKind {
	kinds := make([]model.IssueKind, 0, len(issues))
	for _, i := range issues {
		kinds = append(kinds, i.Kind)
	}
	return kinds
}

func TestReportExtractor_FullDocument(t *testing.T) {
	doc := loadDoc(t, "report.xml")

	res, issues := NewReportExtractor().Extract(doc, "+380111656411", "email@gmail.com", refDate)
	assert.Empty(t, issues)

	assertValue(t, res, model.BalanceValue, 1234)

	// Last occurrence wins, sentinels keep earlier values
	assertValue(t, res, model.Citizenship, 804)
	assertValue(t, res, model.SocialStatus, 4)
	assertValue(t, res, model.FamilyStatus, 1)
	assertValue(t, res, model.Education, 3)
	assertValue(t, res, model.Position, 7)
	assertValue(t, res, model.Income, 9000)
	assertValue(t, res, model.WorkExperience, 3)
	assertValue(t, res, model.MaxIncome, 12000)

	assertValue(t, res, model.MeanCreditSum, 1500)
	assertValue(t, res, model.MeanCreditDebt, 200)
	assertValue(t, res, model.MedianDayCredit, 0)

	assertValue(t, res, model.WeekQueries, 3)
	assertValue(t, res, model.CreditPurposeQuery, 2)

	assertValue(t, res, model.PhoneDeltaTime, 2372)
	assertValue(t, res, model.EmailDeltaTime, 1156)

	assert.Equal(t, 16, res.Len())
}

func TestReportExtractor_EmptyDocumentIsFullyKeyed(t *testing.T) {
	for name, doc := range map[string]*document.Node{
		"nil":         nil,
		"no ubkidata": parseDoc(t, `<other/>`),
	} {
		t.Run(name, func(t *testing.T) {
			res, issues := NewReportExtractor().Extract(doc, "+380111656411", "a@b.c", refDate)
			assert.Equal(t, model.ReportSchema, res.Keys())
			assert.Equal(t, 0, res.Known())
			assert.Equal(t, []model.IssueKind{model.IssueDocumentAbsent}, issueKinds(issues))
		})
	}
}

func TestReportExtractor_EnvelopeWrappedDocument(t *testing.T) {
	doc := parseDoc(t, `<doc><ubkidata><comp id="4"><reestrtime wk="5"/></comp></ubkidata></doc>`)
	res, _ := NewReportExtractor().Extract(doc, "", "", refDate)
	assertValue(t, res, model.WeekQueries, 5)
}

func TestReportExtractor_SingleComponent(t *testing.T) {
	doc := parseDoc(t, `<ubkidata><comp id="1"><cki><ident cgrag="804"/><work wdohod="500"/></cki></comp></ubkidata>`)
	res, issues := NewReportExtractor().Extract(doc, "", "", refDate)
	assert.Empty(t, issues)
	assertValue(t, res, model.Citizenship, 804)
	assertValue(t, res, model.Income, 500)
	assertValue(t, res, model.MaxIncome, 500)
}

func TestReportExtractor_BlocksAreIndependent(t *testing.T) {
	doc := parseDoc(t, `<ubkidata>
		<tech><billing><balance value="oops"/></billing></tech>
		<comp><cki/></comp>
		<comp id="2"><crdeal dlamt="NA"><deallife dlds="2020-01-01" dlamtcur="0"/></crdeal></comp>
		<comp id="4"><reestrtime wk="2"/></comp>
	</ubkidata>`)

	res, issues := NewReportExtractor().Extract(doc, "", "", refDate)

	assertUnknown(t, res, model.BalanceValue)
	assertUnknown(t, res, model.MeanCreditSum)
	assertUnknown(t, res, model.MedianDayCredit)
	assertValue(t, res, model.WeekQueries, 2)

	assert.Equal(t, []model.IssueKind{
		model.IssueMalformedValue, // balance
		model.IssueStructuralMiss, // component without id
		model.IssueMalformedValue, // dlamt NA
	}, issueKinds(issues))
}

func TestReportExtractor_MalformedPersonalFieldIsSkipped(t *testing.T) {
	doc := parseDoc(t, `<ubkidata><comp id="1"><cki>
		<ident cgrag="804" sstate="abc"/>
		<work wdohod="x" wstag="4"/>
	</cki></comp></ubkidata>`)

	res, issues := NewReportExtractor().Extract(doc, "", "", refDate)
	assertValue(t, res, model.Citizenship, 804)
	assertUnknown(t, res, model.SocialStatus)
	assertUnknown(t, res, model.Income)
	assertUnknown(t, res, model.MaxIncome)
	assertValue(t, res, model.WorkExperience, 4)
	require.Len(t, issues, 2)
	assert.Equal(t, model.SocialStatus, issues[0].Field)
	assert.Equal(t, model.Income, issues[1].Field)
}

func TestReportExtractor_Inquiries(t *testing.T) {
	t.Run("no registry entries leaves auxiliary count unset", func(t *testing.T) {
		doc := parseDoc(t, `<ubkidata><comp id="4"><reestrtime wk="0"/></comp></ubkidata>`)
		res, _ := NewReportExtractor().Extract(doc, "", "", refDate)
		assertValue(t, res, model.WeekQueries, 0)
		assert.False(t, res.Has(model.CreditPurposeQuery))
	})

	t.Run("missing weekly counter", func(t *testing.T) {
		doc := parseDoc(t, `<ubkidata><comp id="4"><credres reqreason="4"/></comp></ubkidata>`)
		res, issues := NewReportExtractor().Extract(doc, "", "", refDate)
		assertUnknown(t, res, model.WeekQueries)
		assertValue(t, res, model.CreditPurposeQuery, 1)
		assert.Equal(t, []model.IssueKind{model.IssueStructuralMiss}, issueKinds(issues))
	})
}

func TestReportExtractor_Idempotent(t *testing.T) {
	doc := loadDoc(t, "report.xml")
	e := NewReportExtractor()

	a, _ := e.Extract(doc, "+380111656411", "email@gmail.com", refDate)
	b, _ := e.Extract(doc, "+380111656411", "email@gmail.com", refDate)
	assert.True(t, a.Equal(b))

	ja, err := a.MarshalJSON()
	require.NoError(t, err)
	jb, err := b.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, ja, jb)
}
