package extract

import (
	"fmt"
	"time"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/model"
)

// Component identifiers in a credit report
const (
	CompPersonal   = "1"
	CompAgreements = "2"
	CompInquiries  = "4"
	CompContacts   = "10"
)

// Section names used in issues
const (
	SectionDocument   = "document"
	SectionComponents = "components"
	SectionBilling    = "billing"
	SectionPersonal   = "personal"
	SectionAgreements = "credit_agreements"
	SectionInquiries  = "inquiries"
	SectionContacts   = "contacts"
	SectionRating     = "rating"
)

// attrField maps a source attribute to a feature key
type attrField struct {
	attr string
	key  string
}

var identFields = []attrField{
	{"@cgrag", model.Citizenship},
	{"@sstate", model.SocialStatus},
	{"@family", model.FamilyStatus},
	{"@ceduc", model.Education},
}

var workFields = []attrField{
	{"@cdolgn", model.Position},
	{"@wdohod", model.Income},
	{"@wstag", model.WorkExperience},
}

// ReportExtractor extracts scoring features from a credit report document
type ReportExtractor struct{}

// NewReportExtractor creates a new report extractor
func NewReportExtractor() *ReportExtractor {
	return &ReportExtractor{}
}

// Extract walks the report and returns a fully-keyed feature mapping.
// It never fails: every block is best-effort and problems are returned as
// issues. ref is the date the report was received.
func (e *ReportExtractor) Extract(doc *document.Node, phone, email string, ref time.Time) (*model.Features, []model.Issue) {
	res := model.NewFeatures(model.ReportSchema)
	log := newIssueLog(model.ExtractorReport)

	data := dataNode(doc)
	if data == nil {
		log.fail(SectionDocument, "", errNoData)
		return res, log.issues
	}

	e.billing(data, res, log)

	for i, comp := range data.Children("comp") {
		id, ok := comp.Attr("@id")
		if !ok {
			log.add(SectionComponents, "@id", model.IssueStructuralMiss, "component %d has no id", i)
			continue
		}

		switch id {
		case CompPersonal:
			e.personal(comp, res, log)
		case CompAgreements:
			e.agreements(comp, res, log)
		case CompInquiries:
			e.inquiries(comp, res, log)
		case CompContacts:
			e.contacts(comp, phone, email, ref, res, log)
		}
	}

	return res, log.issues
}

// billing reads the partner balance from the technical block
func (e *ReportExtractor) billing(data *document.Node, res *model.Features, log *issueLog) {
	billing := data.Path("tech", "billing")
	if billing == nil {
		return
	}

	balance := billing.Child("balance")
	if balance == nil {
		log.fail(SectionBilling, model.BalanceValue, fmt.Errorf("<balance>: %w", errMissing))
		return
	}

	v, ok, err := requiredInt(balance, "@value")
	if err != nil {
		log.fail(SectionBilling, model.BalanceValue, err)
		return
	}
	if ok {
		res.Set(model.BalanceValue, v)
	}
}

// personal copies demographic and employment attributes. When the block
// repeats, the last occurrence of each attribute wins.
func (e *ReportExtractor) personal(comp *document.Node, res *model.Features, log *issueLog) {
	cki := comp.Child("cki")
	if cki == nil {
		log.fail(SectionPersonal, "", fmt.Errorf("<cki>: %w", errMissing))
		return
	}

	for _, ident := range cki.Children("ident") {
		copyFields(ident, identFields, res, log)
	}

	maxIncome, seen := 0.0, false
	for _, work := range cki.Children("work") {
		copyFields(work, workFields, res, log)

		income, ok, err := optionalNumber(work, "@wdohod")
		if err != nil || !ok {
			continue
		}
		if !seen || income > maxIncome {
			maxIncome, seen = income, true
		}
	}
	if seen {
		res.Set(model.MaxIncome, maxIncome)
	}
}

func copyFields(n *document.Node, fields []attrField, res *model.Features, log *issueLog) {
	for _, f := range fields {
		v, ok, err := optionalNumber(n, f.attr)
		if err != nil {
			log.fail(SectionPersonal, f.key, err)
			continue
		}
		if ok {
			res.Set(f.key, v)
		}
	}
}

// inquiries reads the weekly inquiry count and counts credit-purpose inquiries
func (e *ReportExtractor) inquiries(comp *document.Node, res *model.Features, log *issueLog) {
	weekly, err := requireChild(comp, "reestrtime")
	if err != nil {
		log.fail(SectionInquiries, model.WeekQueries, err)
	} else if v, ok, err := requiredInt(weekly, "@wk"); err != nil {
		log.fail(SectionInquiries, model.WeekQueries, err)
	} else if ok {
		res.Set(model.WeekQueries, v)
	}

	registry := comp.Children("credres")
	if len(registry) == 0 {
		return
	}

	count := 0
	for _, r := range registry {
		switch reason, _ := r.Attr("@reqreason"); reason {
		case "2", "4":
			count++
		}
	}
	res.Set(model.CreditPurposeQuery, float64(count))
}

func requireChild(n *document.Node, name string) (*document.Node, error) {
	child := n.Child(name)
	if child == nil {
		return nil, fmt.Errorf("<%s>: %w", name, errMissing)
	}
	return child, nil
}
