// Package export renders a task collection into shareable documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/josephgoksu/TaskNest/models"
	"github.com/jung-kurt/gofpdf"
)

// Format names an export document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatPDF}

// ParseFormat accepts a format name or a common alias ("md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (supported: json, csv, markdown, pdf)", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// Write renders tasks to w in the given format.
func Write(w io.Writer, format Format, title string, tasks []models.Task) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if tasks == nil {
			tasks = []models.Task{}
		}
		return enc.Encode(tasks)
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(title, tasks))
		return err
	case FormatPDF:
		return writePDF(w, title, tasks)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var csvHeader = []string{"task_id", "subtask_id", "title", "completed", "due_date"}

// writeCSV emits one row per task followed by one row per subtask; subtask
// rows carry their parent id in task_id.
func writeCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{strconv.Itoa(t.ID), "", t.Title, strconv.FormatBool(t.Completed), t.DueDate}
		if err := cw.Write(row); err != nil {
			return err
		}
		for _, st := range t.Subtasks {
			row := []string{strconv.Itoa(t.ID), strconv.Itoa(st.ID), st.Title, strconv.FormatBool(st.Completed), ""}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders a GitHub-style checklist.
func Markdown(title string, tasks []models.Task) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	if len(tasks) == 0 {
		b.WriteString("_No tasks._\n")
		return b.String()
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "- [%s] %s", checkMark(t.Completed), t.Title)
		if t.DueDate != "" {
			fmt.Fprintf(&b, " (due %s)", t.DueDate)
		}
		fmt.Fprintf(&b, " `#%d`\n", t.ID)
		for _, st := range t.Subtasks {
			fmt.Fprintf(&b, "  - [%s] %s `#%d`\n", checkMark(st.Completed), st.Title, st.ID)
		}
	}
	return b.String()
}

func checkMark(done bool) string {
	if done {
		return "x"
	}
	return " "
}

func writePDF(w io.Writer, title string, tasks []models.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(title))
	pdf.Ln(12)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(40, 6, "No tasks.")
	}
	for _, t := range tasks {
		pdf.SetFont("Arial", "B", 11)
		line := fmt.Sprintf("[%s] %d  %s", checkMark(t.Completed), t.ID, t.Title)
		if t.DueDate != "" {
			line += "  (due " + t.DueDate + ")"
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)

		pdf.SetFont("Arial", "", 10)
		for _, st := range t.Subtasks {
			pdf.SetX(pdf.GetX() + 8)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("[%s] %d  %s", checkMark(st.Completed), st.ID, st.Title)), "0", "L", false)
		}
		pdf.Ln(2)
	}
	return pdf.Output(w)
}
