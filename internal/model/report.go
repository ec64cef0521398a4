package model

import "time"

// Result is the extraction output for one subject
type Result struct {
	ID          string    `json:"id" yaml:"id"`
	Phone       string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email       string    `json:"email,omitempty" yaml:"email,omitempty"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
	Features    *Features `json:"features" yaml:"features"`
	Issues      []Issue   `json:"issues,omitempty" yaml:"issues,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"` // set when the case could not be processed
}

// Issue records a failure that extraction suppressed
type Issue struct {
	Extractor string    `json:"extractor" yaml:"extractor"` // report or score
	Section   string    `json:"section" yaml:"section"`     // e.g. "credit_agreements"
	Field     string    `json:"field,omitempty" yaml:"field,omitempty"`
	Kind      IssueKind `json:"kind" yaml:"kind"`
	Message   string    `json:"message" yaml:"message"`
}

// IssueKind classifies suppressed failures
type IssueKind string

const (
	IssueStructuralMiss    IssueKind = "structural_miss"    // expected node or attribute absent
	IssueMalformedValue    IssueKind = "malformed_value"    // present but not coercible
	IssueDocumentAbsent    IssueKind = "document_absent"    // no top-level data node
	IssueAggregationFailed IssueKind = "aggregation_failed" // e.g. no agreement to average over
)

// Extractor names used in issues and metrics
const (
	ExtractorReport = "report"
	ExtractorScore  = "score"
)
