package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/ubkifeat/internal/extract"
	"github.com/ppiankov/ubkifeat/internal/metrics"
	"github.com/ppiankov/ubkifeat/internal/model"
	"github.com/ppiankov/ubkifeat/internal/report"
)

// Pipeline loads a case's documents and extracts its features
type Pipeline struct {
	loader  *Loader
	config  *model.Config
	metrics *metrics.Metrics // nil if disabled
	logger  *slog.Logger
	clock   func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMetrics counts issues and extraction outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger that receives suppressed issues
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the reference date source
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader: NewLoader(cfg.Input.MaxBytes),
		config: cfg,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractCase extracts one case. Errors come from loading the documents or
// from cancellation; problems inside the documents are returned as issues.
func (p *Pipeline) ExtractCase(ctx context.Context, c model.Case) (*model.Result, error) {
	start := time.Now()
	res, err := p.extractCase(ctx, c)
	p.metrics.ObserveExtraction(time.Since(start), err)
	if err != nil {
		p.logger.Warn("case failed", "case", c.ID, "error", err)
	}
	return res, err
}

func (p *Pipeline) extractCase(ctx context.Context, c model.Case) (*model.Result, error) {
	// 1. Load documents
	reportText, err := p.loader.Load(ctx, c.Report)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	scoreText, err := p.loader.Load(ctx, c.Score)
	if err != nil {
		return nil, fmt.Errorf("load score: %w", err)
	}

	// 2. Extract and merge
	r := report.New(reportText, scoreText, c.Phone, c.Email,
		report.WithClock(p.clock),
		report.WithScorePrecedence(p.config.Extraction.ScorePrecedence),
		report.WithRecorders(extract.NewLogRecorder(p.logger.With("case", c.ID)), p.metrics),
	)
	features, issues, err := r.Features(ctx, p.config.Extraction.IgnoreFields...)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	return &model.Result{
		ID:          c.ID,
		Phone:       c.Phone,
		Email:       c.Email,
		ExtractedAt: p.clock().UTC(),
		Features:    features,
		Issues:      issues,
	}, nil
}

// Finish writes the metrics textfile if one is configured
func (p *Pipeline) Finish() error {
	return p.metrics.WriteTextfile(p.config.Metrics.TextfilePath)
}
