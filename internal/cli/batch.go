package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ubkifeat/internal/metrics"
	"github.com/ppiankov/ubkifeat/internal/model"
	"github.com/ppiankov/ubkifeat/internal/pipeline"
	"github.com/ppiankov/ubkifeat/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	xlsxPath     string
	batchFormat  string
	batchTimeout time.Duration
	batchDate    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Extract features for many subjects in parallel",
	Long: `Batch reads a YAML manifest of cases and extracts each one on a worker
pool. Every case is written to its own file; all cases are also collected in
one XLSX table.

Manifest format:
  cases:
    - id: case-001
      report: reports/case-001.xml
      score: scores/case-001.xml
      phone: "+380501112233"
      email: subject@example.com

Relative paths are resolved against the manifest's directory.

Example:
  ubkifeat batch cases.yaml
  ubkifeat batch cases.yaml --concurrency 8 --output-dir ./features --xlsx features.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./ubkifeat-features", "output directory for per-case files")
	batchCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "feature table path (default: <output-dir>/features.xlsx)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "per-case format: json or yaml (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchDate, "date", "", "reference date YYYY-MM-DD (default: today)")
	batchCmd.Flags().StringSliceVar(&ignoreFields, "ignore", nil, "features to drop from the output")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if batchFormat != "" {
		cfg.Output.Format = batchFormat
	}
	if len(ignoreFields) > 0 {
		cfg.Extraction.IgnoreFields = append(cfg.Extraction.IgnoreFields, ignoreFields...)
	}
	if xlsxPath == "" {
		xlsxPath = filepath.Join(outputDir, "features.xlsx")
	}

	renderer, err := pipeline.NewRenderer(cfg.Output.Format)
	if err != nil {
		return err
	}
	clock, err := referenceClock(batchDate)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ubkifeat Batch Extraction\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", manifest)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Table:        %s\n", xlsxPath)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	m := metrics.New()
	p := pipeline.NewPipeline(cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logger), pipeline.WithClock(clock))
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Processing cases...\n\n")
	caseResults, err := processor.ProcessManifest(ctx, manifest)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	results := make([]*model.Result, 0, len(caseResults))
	failureCount := 0
	for _, cr := range caseResults {
		res := cr.Result
		if cr.Error != nil {
			failureCount++
			res = &model.Result{ID: cr.Case.ID, Phone: cr.Case.Phone, Email: cr.Case.Email, Error: cr.Error.Error()}
		} else {
			path := filepath.Join(outputDir, sanitizeFilename(cr.Case.ID)+renderer.Ext())
			if err := renderer.RenderFile(path, res); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write output: %v\n", cr.Case.ID, err)
			}
		}
		results = append(results, res)
	}

	pipeline.RenderSummary(os.Stderr, results)

	if err := pipeline.WriteXLSX(xlsxPath, results); err != nil {
		return fmt.Errorf("write feature table: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d cases\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(results)-failureCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return p.Finish()
}

// sanitizeFilename makes a case id safe to use as a file name
func sanitizeFilename(s string) string {
	s = strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	).Replace(strings.TrimSpace(s))

	if s == "" || s == "." || s == ".." {
		s = "case"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
