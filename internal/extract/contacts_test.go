package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/ubkifeat/internal/model"
)

func contactsDoc(entries string) string {
	return `<ubkidata><comp id="10">` + entries + `</comp></ubkidata>`
}

func TestContacts_EarliestMatchWins(t *testing.T) {
	doc := parseDoc(t, contactsDoc(`
		<cont cval="380501112233" vdate="2023-02-20"/>
		<cont cval="+380501112233" vdate="2023-02-01"/>
		<cont cval="me@example.com" vdate="2023-02-27"/>`))

	res, issues := NewReportExtractor().Extract(doc, "+380501112233", "ME@example.com", refDate)
	assert.Empty(t, issues)
	assertValue(t, res, model.PhoneDeltaTime, 28)
	assertValue(t, res, model.EmailDeltaTime, 2)
}

func TestContacts_NoMatch(t *testing.T) {
	doc := parseDoc(t, contactsDoc(`<cont cval="380000000000" vdate="2020-01-01"/>`))

	res, issues := NewReportExtractor().Extract(doc, "+380501112233", "me@example.com", refDate)
	assert.Empty(t, issues)
	assertUnknown(t, res, model.PhoneDeltaTime)
	assertUnknown(t, res, model.EmailDeltaTime)
}

func TestContacts_EmptyIdentifiersNeverMatch(t *testing.T) {
	doc := parseDoc(t, contactsDoc(`<cont cval="" vdate="2020-01-01"/>`))

	res, _ := NewReportExtractor().Extract(doc, "", "", refDate)
	assertUnknown(t, res, model.PhoneDeltaTime)
	assertUnknown(t, res, model.EmailDeltaTime)
}

func TestContacts_MalformedEntryIsSkipped(t *testing.T) {
	doc := parseDoc(t, contactsDoc(`
		<cont vdate="2020-01-01"/>
		<cont cval="380501112233" vdate="yesterday"/>
		<cont cval="380501112233" vdate="2023-01-30"/>`))

	res, issues := NewReportExtractor().Extract(doc, "380501112233", "", refDate)
	assertValue(t, res, model.PhoneDeltaTime, 30)
	assert.Equal(t, []model.IssueKind{
		model.IssueStructuralMiss,
		model.IssueMalformedValue,
	}, issueKinds(issues))
}

func TestContacts_ReferenceTimeZoneIgnored(t *testing.T) {
	kyiv := time.FixedZone("EET", 2*60*60)
	ref := time.Date(2023, time.March, 1, 0, 30, 0, 0, kyiv)
	doc := parseDoc(t, contactsDoc(`<cont cval="380501112233" vdate="2023-02-28"/>`))

	res, _ := NewReportExtractor().Extract(doc, "380501112233", "", ref)
	assertValue(t, res, model.PhoneDeltaTime, 1)
}

func TestContacts_NoEntries(t *testing.T) {
	doc := parseDoc(t, contactsDoc(""))
	res, issues := NewReportExtractor().Extract(doc, "380501112233", "", refDate)
	assertUnknown(t, res, model.PhoneDeltaTime)
	assert.Equal(t, []model.IssueKind{model.IssueStructuralMiss}, issueKinds(issues))
}
