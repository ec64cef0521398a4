// Package report combines the credit report and credit score extractors
// into one feature mapping for a subject.
package report

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/extract"
	"github.com/ppiankov/ubkifeat/internal/model"
)

// Report holds the two bureau documents for one subject. It is immutable;
// every call to Features re-parses the texts.
type Report struct {
	reportText string
	scoreText  string
	phone      string
	email      string

	clock           func() time.Time
	recorders       []extract.IssueRecorder
	scorePrecedence bool
	reportExtractor *extract.ReportExtractor
	scoreExtractor  *extract.ScoreExtractor
}

// Option configures a Report
type Option func(*Report)

// WithClock sets the source of the reference date used for contact ages
func WithClock(clock func() time.Time) Option {
	return func(r *Report) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithRecorders adds receivers for suppressed extraction issues
func WithRecorders(recorders ...extract.IssueRecorder) Option {
	return func(r *Report) {
		r.recorders = append(r.recorders, recorders...)
	}
}

// WithScorePrecedence chooses how the two mappings are merged. With true (the
// default) the score mapping wins every shared key even when its value is
// unknown. With false only known score values override the report.
func WithScorePrecedence(enabled bool) Option {
	return func(r *Report) {
		r.scorePrecedence = enabled
	}
}

// New creates a report context
func New(reportText, scoreText, phone, email string, opts ...Option) *Report {
	r := &Report{
		reportText:      reportText,
		scoreText:       scoreText,
		phone:           phone,
		email:           email,
		clock:           time.Now,
		scorePrecedence: true,
		reportExtractor: extract.NewReportExtractor(),
		scoreExtractor:  extract.NewScoreExtractor(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReportText returns the raw credit report document
func (r *Report) ReportText() string { return r.reportText }

// ScoreText returns the raw credit score document
func (r *Report) ScoreText() string { return r.scoreText }

// Phone returns the subject's phone number
func (r *Report) Phone() string { return r.phone }

// Email returns the subject's email address
func (r *Report) Email() string { return r.email }

// Features extracts both documents and returns the merged mapping with the
// ignored keys removed. Extraction itself never fails; the only error is
// cancellation of ctx.
func (r *Report) Features(ctx context.Context, ignore ...string) (*model.Features, []model.Issue, error) {
	ref := r.clock()

	var (
		reportRes, scoreRes       *model.Features
		reportIssues, scoreIssues []model.Issue
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, issue := parse(r.reportText, model.ExtractorReport)
		reportRes, reportIssues = r.reportExtractor.Extract(doc, r.phone, r.email, ref)
		reportIssues = prepend(issue, reportIssues)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, issue := parse(r.scoreText, model.ExtractorScore)
		scoreRes, scoreIssues = r.scoreExtractor.Extract(doc)
		scoreIssues = prepend(issue, scoreIssues)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var merged *model.Features
	if r.scorePrecedence {
		merged = reportRes.Merge(scoreRes)
	} else {
		merged = reportRes.MergeKnown(scoreRes)
	}

	issues := append(reportIssues, scoreIssues...)
	extract.Dispatch(issues, r.recorders...)

	return merged.Without(ignore...), issues, nil
}

// parse turns a raw document into a tree. Blank input is an absent document;
// unparsable input is reported and then treated the same way.
func parse(text, extractor string) (*document.Node, *model.Issue) {
	doc, err := document.Parse(text)
	if err == nil {
		return doc, nil
	}
	if errors.Is(err, document.ErrEmptyDocument) {
		return nil, nil
	}
	return nil, &model.Issue{
		Extractor: extractor,
		Section:   extract.SectionDocument,
		Kind:      model.IssueDocumentAbsent,
		Message:   err.Error(),
	}
}

func prepend(issue *model.Issue, issues []model.Issue) []model.Issue {
	if issue == nil {
		return issues
	}
	return append([]model.Issue{*issue}, issues...)
}
