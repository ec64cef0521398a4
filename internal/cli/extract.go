package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ubkifeat/internal/metrics"
	"github.com/ppiankov/ubkifeat/internal/model"
	"github.com/ppiankov/ubkifeat/internal/pipeline"
)

var (
	reportPath   string
	scorePath    string
	phone        string
	email        string
	ignoreFields []string
	outFormat    string
	outPath      string
	refDate      string
	featuresOnly bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract features for one subject",
	Long: `Extract reads a credit report and, optionally, a credit score document
and prints the merged feature mapping.

Example:
  ubkifeat extract --report report.xml --score score.xml --phone +380501112233
  ubkifeat extract --report report.xml --email a@b.c --format yaml --out features.yaml
  cat report.xml | ubkifeat extract --report - --features-only`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Input flags
	extractCmd.Flags().StringVar(&reportPath, "report", "", "credit report XML path (- for stdin)")
	extractCmd.Flags().StringVar(&scorePath, "score", "", "credit score XML path (optional)")
	extractCmd.Flags().StringVar(&phone, "phone", "", "subject phone number")
	extractCmd.Flags().StringVar(&email, "email", "", "subject email address")
	extractCmd.Flags().StringVar(&refDate, "date", "", "reference date YYYY-MM-DD (default: today)")
	_ = extractCmd.MarkFlagRequired("report")

	// Output flags
	extractCmd.Flags().StringSliceVar(&ignoreFields, "ignore", nil, "features to drop from the output")
	extractCmd.Flags().StringVar(&outFormat, "format", "", "output format: json or yaml (default from config)")
	extractCmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")
	extractCmd.Flags().BoolVar(&featuresOnly, "features-only", false, "print only the feature mapping")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if len(ignoreFields) > 0 {
		cfg.Extraction.IgnoreFields = append(cfg.Extraction.IgnoreFields, ignoreFields...)
	}
	if outFormat != "" {
		cfg.Output.Format = outFormat
	}

	renderer, err := pipeline.NewRenderer(cfg.Output.Format)
	if err != nil {
		return err
	}

	clock, err := referenceClock(refDate)
	if err != nil {
		return err
	}

	m := metrics.New()
	p := pipeline.NewPipeline(cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logger), pipeline.WithClock(clock))

	res, err := p.ExtractCase(context.Background(), model.Case{
		ID:     "subject",
		Report: reportPath,
		Score:  scorePath,
		Phone:  phone,
		Email:  email,
	})
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d/%d features known\n", res.Features.Known(), res.Features.Len())
		for _, issue := range res.Issues {
			fmt.Fprintf(os.Stderr, "  ! %s/%s: %s\n", issue.Extractor, issue.Section, issue.Message)
		}
	}

	var out any = res
	if featuresOnly {
		out = res.Features
	}
	if outPath != "" {
		if err := renderer.RenderFile(outPath, out); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outPath)
		}
	} else if err := renderer.Render(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return p.Finish()
}

// referenceClock returns a clock fixed at date, or time.Now when date is empty
func referenceClock(date string) (func() time.Time, error) {
	if date == "" {
		return time.Now, nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --date %q: %w", date, err)
	}
	return func() time.Time { return t }, nil
}
