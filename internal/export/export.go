// Package export renders task lists in interchange formats.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/ent0n29/taskctl/internal/tasks"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatPDF  = "pdf"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatCSV, FormatYAML, FormatPDF}

func Export(list []tasks.Task, format string) ([]byte, error) {
	if list == nil {
		list = []tasks.Task{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		b, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatCSV:
		return exportCSV(list)
	case FormatYAML, "yml":
		return yaml.Marshal(list)
	case FormatPDF:
		return exportPDF(list)
	default:
		return nil, fmt.Errorf("unknown format %q (expected %s)", format, strings.Join(Formats, "|"))
	}
}

func exportCSV(list []tasks.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "description", "priority", "created_at"})
	for _, t := range list {
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Description,
			strconv.Itoa(t.Priority),
			formatTime(t.CreatedAt),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(list []tasks.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(list) == 0 {
		pdf.MultiCell(0, 6, "No tasks.", "0", "L", false)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range list {
		line := fmt.Sprintf("#%d [p%d] %s", t.ID, t.Priority, tr(t.Description))
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
