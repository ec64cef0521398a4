package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ubkifeat/internal/model"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SheetName is the worksheet holding the batch feature table
const SheetName = "features"

// Renderer writes extraction results
type Renderer struct {
	format string
}

// NewRenderer creates a renderer for format ("json" or "yaml")
func NewRenderer(format string) (*Renderer, error) {
	switch f := strings.ToLower(format); f {
	case FormatJSON, FormatYAML:
		return &Renderer{format: f}, nil
	case "yml":
		return &Renderer{format: FormatYAML}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use json or yaml)", format)
	}
}

// Ext returns the file extension for the renderer's format
func (r *Renderer) Ext() string {
	return "." + r.format
}

// Render writes v to w
func (r *Renderer) Render(w io.Writer, v any) error {
	if r.format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// RenderFile writes v to path, creating parent directories
func (r *Renderer) RenderFile(path string, v any) error {
	return writeFile(path, func(w io.Writer) error { return r.Render(w, v) })
}

// RenderXLSX writes one row per result and one column per feature. Columns
// follow the first-seen order of feature keys across results.
func RenderXLSX(w io.Writer, results []*model.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	keys := featureColumns(results)

	header := []any{"id", "phone", "email"}
	for _, k := range keys {
		header = append(header, k)
	}
	header = append(header, "issues", "error")
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, res := range results {
		row := []any{res.ID, res.Phone, res.Email}
		for _, k := range keys {
			row = append(row, cellValue(res.Features, k))
		}
		row = append(row, len(res.Issues), res.Error)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// WriteXLSX writes the feature table to path
func WriteXLSX(path string, results []*model.Result) error {
	return writeFile(path, func(w io.Writer) error { return RenderXLSX(w, results) })
}

// RenderSummary prints one line per result
func RenderSummary(w io.Writer, results []*model.Result) {
	for _, res := range results {
		if res.Error != "" || res.Features == nil {
			_, _ = fmt.Fprintf(w, "✗ %s: %s\n", res.ID, res.Error)
			continue
		}
		_, _ = fmt.Fprintf(w, "✓ %s: %d/%d features known, %d issues\n",
			res.ID, res.Features.Known(), res.Features.Len(), len(res.Issues))
	}
}

// cellValue leaves unknown features as empty cells
func cellValue(f *model.Features, key string) any {
	if f == nil {
		return nil
	}
	if v, ok := f.Get(key); ok {
		return v
	}
	return nil
}

func featureColumns(results []*model.Result) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, res := range results {
		if res.Features == nil {
			continue
		}
		for _, k := range res.Features.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func writeFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
