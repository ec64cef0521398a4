package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ppiankov/ubkifeat/internal/model"
)

var (
	errMissing = errors.New("missing")
	errNoData  = errors.New("no ubkidata node")
)

// IssueRecorder receives failures that extraction suppressed
type IssueRecorder interface {
	Record(issue model.Issue)
}

// RecorderFunc adapts a function to IssueRecorder
type RecorderFunc func(model.Issue)

// Record calls f
func (f RecorderFunc) Record(issue model.Issue) { f(issue) }

// LogRecorder writes issues to a structured logger at debug level
type LogRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder creates a LogRecorder; a nil logger uses slog.Default
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRecorder{logger: logger}
}

// Record logs the issue
func (r *LogRecorder) Record(issue model.Issue) {
	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "extraction issue suppressed",
		slog.String("extractor", issue.Extractor),
		slog.String("section", issue.Section),
		slog.String("field", issue.Field),
		slog.String("kind", string(issue.Kind)),
		slog.String("message", issue.Message),
	)
}

// issueLog collects issues for one extraction call
type issueLog struct {
	extractor string
	issues    []model.Issue
}

func newIssueLog(extractor string) *issueLog {
	return &issueLog{extractor: extractor}
}

func (l *issueLog) add(section, field string, kind model.IssueKind, format string, args ...any) {
	l.issues = append(l.issues, model.Issue{
		Extractor: l.extractor,
		Section:   section,
		Field:     field,
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
	})
}

// fail records err with a kind derived from its cause
func (l *issueLog) fail(section, field string, err error) {
	l.add(section, field, kindOf(err), "%v", err)
}

func kindOf(err error) model.IssueKind {
	switch {
	case errors.Is(err, errNoData):
		return model.IssueDocumentAbsent
	case errors.Is(err, errMissing):
		return model.IssueStructuralMiss
	default:
		return model.IssueMalformedValue
	}
}

// Dispatch sends every issue to every recorder
func Dispatch(issues []model.Issue, recorders ...IssueRecorder) {
	for _, issue := range issues {
		for _, r := range recorders {
			if r != nil {
				r.Record(issue)
			}
		}
	}
}
