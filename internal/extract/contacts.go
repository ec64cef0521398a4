package extract

import (
	"math"
	"strings"
	"time"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/model"
)

// contactMatcher finds the earliest date a phone and an email were recorded
type contactMatcher struct {
	phone    string
	email    string
	notFound time.Time
	phoneAt  time.Time
	emailAt  time.Time
}

func newContactMatcher(phone, email string, ref time.Time) *contactMatcher {
	notFound := time.Date(ref.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &contactMatcher{
		phone:    stripPlus(phone),
		email:    strings.ToLower(email),
		notFound: notFound,
		phoneAt:  notFound,
		emailAt:  notFound,
	}
}

func stripPlus(s string) string {
	return strings.ReplaceAll(s, "+", "")
}

// observe checks one contact entry. A value matching the phone is never
// compared with the email.
func (m *contactMatcher) observe(entry *document.Node) error {
	cval, err := requireAttr(entry, "@cval")
	if err != nil {
		return err
	}

	var target *time.Time
	switch {
	case m.phone != "" && stripPlus(cval) == m.phone:
		target = &m.phoneAt
	case m.email != "" && strings.ToLower(cval) == m.email:
		target = &m.emailAt
	default:
		return nil
	}

	raw, err := requireAttr(entry, "@vdate")
	if err != nil {
		return err
	}
	recorded, err := parseDate(raw)
	if err != nil {
		return err
	}
	if recorded.Before(*target) {
		*target = recorded
	}
	return nil
}

// daysSince returns whole days from first to ref, or false if nothing matched
func (m *contactMatcher) daysSince(first, ref time.Time) (float64, bool) {
	if first.Equal(m.notFound) {
		return 0, false
	}
	return math.Floor(wallClock(ref).Sub(first).Hours() / 24), true
}

// contacts computes how long the subject's phone and email have been known
// to the bureau. Malformed entries are skipped.
func (e *ReportExtractor) contacts(comp *document.Node, phone, email string, ref time.Time, res *model.Features, log *issueLog) {
	entries := comp.Children("cont")
	if len(entries) == 0 {
		log.add(SectionContacts, "", model.IssueStructuralMiss, "<cont>: missing")
		return
	}

	m := newContactMatcher(phone, email, ref)
	for _, entry := range entries {
		if err := m.observe(entry); err != nil {
			log.fail(SectionContacts, "", err)
		}
	}

	if days, ok := m.daysSince(m.phoneAt, ref); ok {
		res.Set(model.PhoneDeltaTime, days)
	}
	if days, ok := m.daysSince(m.emailAt, ref); ok {
		res.Set(model.EmailDeltaTime, days)
	}
}
