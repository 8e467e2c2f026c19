// Package pdf renders timesheet reports as PDF documents.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/timesheet"
)

// column is one table column: header text, width in mm, alignment.
type column struct {
	header string
	width  float64
	align  string
}

var (
	projectColumns = []column{
		{"Project", 110, "L"},
		{"Logged", 35, "R"},
		{"Approved", 35, "R"},
	}
	employeeColumns = []column{
		{"Employee", 55, "L"},
		{"Project", 55, "L"},
		{"Logged", 22, "R"},
		{"Approved", 22, "R"},
		{"Total", 26, "R"},
	}
)

// Render writes the report to w as a single A4 document.
func Render(w io.Writer, r timesheet.Report, generatedAt time.Time) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(Title(r), true)
	doc.SetCreationDate(generatedAt)
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.Cell(0, 10, Title(r))
	doc.Ln(10)

	doc.SetFont("Arial", "", 11)
	period := r.DateRange
	if period == "" {
		period = r.Range.Label()
	}
	doc.Cell(0, 8, "Period: "+period)
	doc.Ln(12)

	if r.Kind.ByEmployee() {
		writeHeader(doc, employeeColumns)
		if len(r.Employees) == 0 {
			writeEmpty(doc)
		}
		for _, row := range r.Employees {
			writeRow(doc, employeeColumns, []string{
				row.EmployeeName, row.ProjectName,
				hours(row.LoggedHours), hours(row.ApprovedHours),
				hours(row.TotalLogged),
			})
		}
	} else {
		writeHeader(doc, projectColumns)
		if len(r.Projects) == 0 {
			writeEmpty(doc)
		}
		for _, row := range r.Projects {
			writeRow(doc, projectColumns, []string{
				row.ProjectName, hours(row.LoggedHours), hours(row.ApprovedHours),
			})
		}
	}

	// Summary
	doc.Ln(6)
	doc.SetFont("Arial", "B", 12)
	doc.Cell(0, 8, fmt.Sprintf("Total logged: %s h", hours(r.TotalLogged)))
	doc.Ln(7)
	doc.Cell(0, 8, fmt.Sprintf("Total approved: %s h", hours(r.TotalApproved)))
	doc.Ln(7)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return doc.Output(w)
}

// Title is the heading of a report kind.
func Title(r timesheet.Report) string {
	switch r.Kind {
	case timesheet.ReportProjectDetail:
		return "Project Detail Report"
	case timesheet.ReportEmployeeSummary:
		return "Employee Summary Report"
	case timesheet.ReportEmployeeDetail:
		return "Employee Detail Report"
	default:
		return "Project Summary Report"
	}
}

func writeHeader(doc *fpdf.Fpdf, cols []column) {
	doc.SetFont("Arial", "B", 11)
	doc.SetFillColor(230, 230, 230)
	for _, c := range cols {
		doc.CellFormat(c.width, 8, c.header, "1", 0, c.align, true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Arial", "", 10)
}

func writeRow(doc *fpdf.Fpdf, cols []column, values []string) {
	tr := doc.UnicodeTranslatorFromDescriptor("")
	for i, c := range cols {
		doc.CellFormat(c.width, 7, tr(values[i]), "1", 0, c.align, false, 0, "")
	}
	doc.Ln(-1)
}

func writeEmpty(doc *fpdf.Fpdf) {
	doc.SetFont("Arial", "I", 10)
	doc.Cell(0, 8, "  - No hours logged in this period.")
	doc.Ln(8)
	doc.SetFont("Arial", "", 10)
}

func hours(d decimal.Decimal) string {
	return d.StringFixed(2)
}
