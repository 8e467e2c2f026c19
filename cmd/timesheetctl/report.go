package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/report/pdf"
	"github.com/warp/timesheet-engine/timesheet"
)

var (
	reportKind     string
	reportYear     int
	reportMonth    int
	reportStart    string
	reportEnd      string
	reportFormat   string
	reportOut      string
	reportProjects []string
	reportUsers    []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Project or employee hours report",
	Long: `Aggregates logged and approved hours per project or per employee.
Without --start/--end the report covers --year/--month (default: this month).`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportKind, "kind", string(timesheet.ReportProjectSummary),
		"Report type: project_summary, project_detail, employee_summary, employee_detail")
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "Report year")
	reportCmd.Flags().IntVar(&reportMonth, "month", 0, "Report month (1-12)")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Range start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "Range end (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, pdf")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output file (default stdout)")
	reportCmd.Flags().StringSliceVar(&reportProjects, "project", nil, "Only these project ids")
	reportCmd.Flags().StringSliceVar(&reportUsers, "user", nil, "Only these user ids")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req := timesheet.ReportRequest{
		Kind:       reportKind,
		Year:       reportYear,
		Month:      reportMonth,
		ProjectIDs: reportProjects,
		UserIDs:    reportUsers,
	}
	if reportStart != "" {
		if req.StartDate, err = generic.ParseDate("start", reportStart); err != nil {
			return err
		}
	}
	if reportEnd != "" {
		if req.EndDate, err = generic.ParseDate("end", reportEnd); err != nil {
			return err
		}
	}

	store, svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := svc.Report(cmd.Context(), operator(cfg), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch reportFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewReportDTO(report))
	case "pdf":
		if reportOut == "" {
			return fmt.Errorf("--format pdf needs --out")
		}
		return pdf.Render(out, *report, time.Now())
	case "table":
		return writeTable(out, report)
	default:
		return fmt.Errorf("unknown format %q (want table, json or pdf)", reportFormat)
	}
}

func writeTable(w io.Writer, r *timesheet.Report) error {
	fmt.Fprintf(w, "%s\n", pdf.Title(*r))
	period := r.DateRange
	if period == "" {
		period = r.Range.Label()
	}
	fmt.Fprintf(w, "Period: %s\n\n", period)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if r.Kind.ByEmployee() {
		fmt.Fprintln(tw, "Employee\tProject\tLogged\tApproved\t")
		for _, e := range r.Employees {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", e.EmployeeName, e.ProjectName,
				e.LoggedHours.StringFixed(2), e.ApprovedHours.StringFixed(2))
		}
	} else {
		fmt.Fprintln(tw, "Project\tLogged\tApproved\t")
		for _, p := range r.Projects {
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", p.ProjectName,
				p.LoggedHours.StringFixed(2), p.ApprovedHours.StringFixed(2))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal logged: %s  approved: %s\n",
		r.TotalLogged.StringFixed(2), r.TotalApproved.StringFixed(2))
	return err
}
