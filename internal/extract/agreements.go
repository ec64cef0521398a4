package extract

import (
	"fmt"
	"time"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/model"
	"github.com/ppiankov/ubkifeat/internal/normalize"
)

// lateMonthDay is the first day counted in the late-month bucket
const lateMonthDay = 15

// agreement is one credit deal reduced to what the aggregation needs
type agreement struct {
	amount float64   // principal
	debt   float64   // max outstanding debt over the repayment history
	due    time.Time // due date of the first repayment entry
}

// bucket returns 0 for the first half of the month and 1 for the rest
func (a agreement) bucket() int {
	if a.due.Day() < lateMonthDay {
		return 0
	}
	return 1
}

func parseAgreement(deal *document.Node) (agreement, error) {
	var a agreement

	raw, err := requireAttr(deal, "@dlamt")
	if err != nil {
		return a, err
	}
	if a.amount, err = normalize.ToNumber(raw); err != nil {
		return a, fmt.Errorf("@dlamt: %w", err)
	}

	history := deal.Children("deallife")
	if len(history) == 0 {
		return a, fmt.Errorf("<deallife>: %w", errMissing)
	}

	rawDate, err := requireAttr(history[0], "@dlds")
	if err != nil {
		return a, err
	}
	if a.due, err = parseDate(rawDate); err != nil {
		return a, err
	}

	for i, entry := range history {
		raw, err := requireAttr(entry, "@dlamtcur")
		if err != nil {
			return a, err
		}
		debt, err := normalize.ToNumber(raw)
		if err != nil {
			return a, fmt.Errorf("@dlamtcur: %w", err)
		}
		if i == 0 || debt > a.debt {
			a.debt = debt
		}
	}

	return a, nil
}

// agreementStats accumulates over every agreement of a report
type agreementStats struct {
	principal float64
	credits   int // agreements with principal > 0
	debt      float64
	debts     int // agreements with debt > 0
	days      [2]int
}

func (s *agreementStats) add(a agreement) {
	if a.amount > 0 {
		s.principal += a.amount
		s.credits++
	}
	if a.debt > 0 {
		s.debt += a.debt
		s.debts++
	}
	s.days[a.bucket()]++
}

// medianDay is the index of the busier bucket; ties go to the early half
func (s *agreementStats) medianDay() float64 {
	if s.days[1] > s.days[0] {
		return 1
	}
	return 0
}

// agreements aggregates the credit-agreement block. Any malformed agreement
// aborts the block; features assigned before a failure keep their values.
func (e *ReportExtractor) agreements(comp *document.Node, res *model.Features, log *issueLog) {
	deals := comp.Children("crdeal")
	if len(deals) == 0 {
		log.fail(SectionAgreements, "", fmt.Errorf("<crdeal>: %w", errMissing))
		return
	}

	var stats agreementStats
	for i, deal := range deals {
		a, err := parseAgreement(deal)
		if err != nil {
			log.fail(SectionAgreements, "", fmt.Errorf("agreement %d: %w", i, err))
			return
		}
		stats.add(a)
	}

	res.Set(model.MedianDayCredit, stats.medianDay())

	if stats.credits == 0 {
		log.add(SectionAgreements, model.MeanCreditSum, model.IssueAggregationFailed,
			"no agreement with a positive principal")
		return
	}
	res.Set(model.MeanCreditSum, normalize.Truncate(stats.principal/float64(stats.credits)))

	if stats.debts == 0 {
		log.add(SectionAgreements, model.MeanCreditDebt, model.IssueAggregationFailed,
			"no agreement with outstanding debt")
		return
	}
	res.Set(model.MeanCreditDebt, normalize.Truncate(stats.debt/float64(stats.debts)))
}
