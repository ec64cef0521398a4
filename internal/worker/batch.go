package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ubkifeat/internal/model"
)

// CaseExtractor extracts features for one case
type CaseExtractor interface {
	ExtractCase(ctx context.Context, c model.Case) (*model.Result, error)
}

// ExtractJob runs one case through an extractor
type ExtractJob struct {
	Index     int
	Case      model.Case
	Extractor CaseExtractor
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	result, err := j.Extractor.ExtractCase(ctx, j.Case)
	return &CaseResult{
		Index:  j.Index,
		Case:   j.Case,
		Result: result,
		Error:  err,
	}
}

// CaseResult is the outcome of one case
type CaseResult struct {
	Index  int
	Case   model.Case
	Result *model.Result
	Error  error
}

// GetError returns the case error
func (r *CaseResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many cases concurrently
type BatchProcessor struct {
	extractor   CaseExtractor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor CaseExtractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessCases extracts every case and returns the results in manifest order.
// Cases not started before ctx was cancelled are reported with ctx's error.
func (b *BatchProcessor) ProcessCases(ctx context.Context, cases []model.Case) []*CaseResult {
	if len(cases) == 0 {
		return []*CaseResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, c := range cases {
		pool.Submit(&ExtractJob{
			Index:     i,
			Case:      c,
			Extractor: b.extractor,
		})
	}

	out := make([]*CaseResult, len(cases))
	for _, result := range pool.Wait() {
		r := result.(*CaseResult)
		out[r.Index] = r
	}

	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("case %s was not processed", cases[i].ID)
			}
			out[i] = &CaseResult{Index: i, Case: cases[i], Error: err}
		}
	}

	return out
}

// ProcessManifest reads a manifest file and processes its cases
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*CaseResult, error) {
	cases, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessCases(ctx, cases), nil
}

// ReadManifest loads cases from a YAML manifest. Document paths are resolved
// against the manifest's directory and cases without an id get a random one.
func ReadManifest(path string) ([]model.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	var manifest model.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool, len(manifest.Cases))
	cases := make([]model.Case, 0, len(manifest.Cases))

	for i, c := range manifest.Cases {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("case %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true

		if strings.TrimSpace(c.Report) == "" {
			return nil, fmt.Errorf("case %s: report path is required", c.ID)
		}
		c.Report = resolve(base, c.Report)
		c.Score = resolve(base, c.Score)

		cases = append(cases, c)
	}

	return cases, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
