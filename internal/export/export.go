// Package export renders a task snapshot as CSV, JSON, YAML or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatYAML, FormatPDF}
}

// ParseFormat resolves a format name case-insensitively. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", errors.NewInvalidInputError("format", name, "unsupported format")
	}
}

// Exporter writes tasks in one of the supported formats.
type Exporter struct {
	mapper     *domain.TaskMapper
	dateFormat string
	title      string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithDateFormat sets the Go time layout used for dates in CSV and PDF output.
// JSON and YAML always use the stored YYYY-MM-DD form.
func WithDateFormat(layout string) Option {
	return func(e *Exporter) {
		if layout != "" {
			e.dateFormat = layout
		}
	}
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		mapper:     domain.NewTaskMapper(),
		dateFormat: domain.DateLayout,
		title:      "Fastodo tasks",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Write encodes tasks to w in the given format, in the order given.
func (e *Exporter) Write(w io.Writer, format Format, tasks []domain.Task) error {
	switch format {
	case FormatCSV:
		return e.writeCSV(w, tasks)
	case FormatJSON:
		return e.writeJSON(w, tasks)
	case FormatYAML:
		return e.writeYAML(w, tasks)
	case FormatPDF:
		return e.writePDF(w, tasks)
	default:
		return errors.NewInvalidInputError("format", string(format), "unsupported format")
	}
}

func (e *Exporter) formatDate(task domain.Task) string {
	if !task.HasDueDate() {
		return ""
	}
	return task.DueDate.Format(e.dateFormat)
}

func (e *Exporter) writeCSV(w io.Writer, tasks []domain.Task) error {
	writer := csv.NewWriter(w)

	header := []string{"ID", "Name", "Difficulty", "Due Date"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, task := range tasks {
		row := []string{
			task.ID,
			task.Name,
			string(task.Difficulty),
			e.formatDate(task),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (e *Exporter) writeJSON(w io.Writer, tasks []domain.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e.mapper.ToRecordSlice(tasks))
}

func (e *Exporter) writeYAML(w io.Writer, tasks []domain.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e.mapper.ToRecordSlice(tasks)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func (e *Exporter) writePDF(w io.Writer, tasks []domain.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(e.title))
	pdf.Ln(12)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(40, 6, "No tasks.")
	} else {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(110, 7, "Name", "B", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, "Difficulty", "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Due", "B", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, task := range tasks {
			difficulty := ""
			if task.Difficulty.IsSet() {
				difficulty = task.Difficulty.String()
			}
			pdf.CellFormat(110, 6, tr(task.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, difficulty, "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, e.formatDate(task), "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}
