/*
report.go - Reporting aggregator

PURPOSE:
  Reduces day-level report lines into the four report shapes. Every shape
  uses the same grouping primitive: sum hours by project and/or user, with
  logged = all hours and approved = hours whose status passes the
  configured ApprovalPredicate.

SHAPES:
  project_summary   one row per project
  project_detail    project_summary plus the date range label
  employee_summary  one row per (employee, project) with employee totals
  employee_detail   employee_summary plus the date range label
*/
package timesheet

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/generic"
)

type ReportKind string

const (
	ReportProjectSummary  ReportKind = "project_summary"
	ReportProjectDetail   ReportKind = "project_detail"
	ReportEmployeeSummary ReportKind = "employee_summary"
	ReportEmployeeDetail  ReportKind = "employee_detail"
)

var ReportKinds = []ReportKind{ReportProjectSummary, ReportProjectDetail, ReportEmployeeSummary, ReportEmployeeDetail}

func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return "", generic.NewFieldError("tabKey", "report type is required")
	}
	for _, known := range ReportKinds {
		if k == known {
			return k, nil
		}
	}
	return "", &UnknownReportError{Kind: s}
}

func (k ReportKind) ByEmployee() bool {
	return k == ReportEmployeeSummary || k == ReportEmployeeDetail
}

func (k ReportKind) Detailed() bool {
	return k == ReportProjectDetail || k == ReportEmployeeDetail
}

// ReportQuery filters report lines. Empty id lists mean "all".
type ReportQuery struct {
	Range      generic.Period
	ProjectIDs []string
	UserIDs    []string
}

// ReportLine is one stored day joined with its entry, project and user.
type ReportLine struct {
	EntryID     string
	ProjectID   string
	ProjectName string
	UserID      string
	UserName    string
	Status      Status
	Date        generic.TimePoint
	Hours       Hours
}

// =============================================================================
// REPORT SHAPES
// =============================================================================

type ProjectRow struct {
	ProjectID     string
	ProjectName   string
	LoggedHours   decimal.Decimal
	ApprovedHours decimal.Decimal
}

// EmployeeGroup is one employee with per-project sums.
type EmployeeGroup struct {
	EmployeeID    string
	EmployeeName  string
	Projects      []ProjectRow
	TotalLogged   decimal.Decimal
	TotalApproved decimal.Decimal
}

// EmployeeRow is the flattened (employee, project) row.
type EmployeeRow struct {
	EmployeeID    string
	EmployeeName  string
	ProjectID     string
	ProjectName   string
	LoggedHours   decimal.Decimal
	ApprovedHours decimal.Decimal
	TotalLogged   decimal.Decimal
	TotalApproved decimal.Decimal
}

type Report struct {
	Kind          ReportKind
	Range         generic.Period
	DateRange     string // set for detail shapes only
	Projects      []ProjectRow
	Employees     []EmployeeRow
	TotalLogged   decimal.Decimal
	TotalApproved decimal.Decimal
}

// Aggregate builds the requested report shape from report lines.
func Aggregate(kind ReportKind, rng generic.Period, lines []ReportLine, approved ApprovalPredicate) Report {
	r := Report{Kind: kind, Range: rng, TotalLogged: decimal.Zero, TotalApproved: decimal.Zero}
	if kind.Detailed() {
		r.DateRange = rng.Label()
	}
	if kind.ByEmployee() {
		for _, g := range GroupByEmployee(lines, approved) {
			r.Employees = append(r.Employees, g.Flatten()...)
			r.TotalLogged = r.TotalLogged.Add(g.TotalLogged)
			r.TotalApproved = r.TotalApproved.Add(g.TotalApproved)
		}
		return r
	}
	r.Projects = GroupByProject(lines, approved)
	for _, p := range r.Projects {
		r.TotalLogged = r.TotalLogged.Add(p.LoggedHours)
		r.TotalApproved = r.TotalApproved.Add(p.ApprovedHours)
	}
	return r
}

// GroupByProject sums lines per project, ordered by project name.
func GroupByProject(lines []ReportLine, approved ApprovalPredicate) []ProjectRow {
	index := make(map[string]int)
	var rows []ProjectRow
	for _, l := range lines {
		i, ok := index[l.ProjectID]
		if !ok {
			i = len(rows)
			index[l.ProjectID] = i
			rows = append(rows, ProjectRow{
				ProjectID:     l.ProjectID,
				ProjectName:   l.ProjectName,
				LoggedHours:   decimal.Zero,
				ApprovedHours: decimal.Zero,
			})
		}
		h := l.Hours.Decimal()
		rows[i].LoggedHours = rows[i].LoggedHours.Add(h)
		if approved.Approved(l.Status) {
			rows[i].ApprovedHours = rows[i].ApprovedHours.Add(h)
		}
	}
	sortProjects(rows)
	return rows
}

// GroupByEmployee groups lines by user, then by project within the user.
func GroupByEmployee(lines []ReportLine, approved ApprovalPredicate) []EmployeeGroup {
	byUser := make(map[string][]ReportLine)
	names := make(map[string]string)
	var order []string
	for _, l := range lines {
		if _, ok := byUser[l.UserID]; !ok {
			order = append(order, l.UserID)
			names[l.UserID] = l.UserName
		}
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	groups := make([]EmployeeGroup, 0, len(order))
	for _, userID := range order {
		g := EmployeeGroup{
			EmployeeID:    userID,
			EmployeeName:  names[userID],
			Projects:      GroupByProject(byUser[userID], approved),
			TotalLogged:   decimal.Zero,
			TotalApproved: decimal.Zero,
		}
		for _, p := range g.Projects {
			g.TotalLogged = g.TotalLogged.Add(p.LoggedHours)
			g.TotalApproved = g.TotalApproved.Add(p.ApprovedHours)
		}
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].EmployeeName != groups[j].EmployeeName {
			return groups[i].EmployeeName < groups[j].EmployeeName
		}
		return groups[i].EmployeeID < groups[j].EmployeeID
	})
	return groups
}

// Flatten emits one row per project, each carrying the employee totals.
func (g EmployeeGroup) Flatten() []EmployeeRow {
	rows := make([]EmployeeRow, 0, len(g.Projects))
	for _, p := range g.Projects {
		rows = append(rows, EmployeeRow{
			EmployeeID:    g.EmployeeID,
			EmployeeName:  g.EmployeeName,
			ProjectID:     p.ProjectID,
			ProjectName:   p.ProjectName,
			LoggedHours:   p.LoggedHours,
			ApprovedHours: p.ApprovedHours,
			TotalLogged:   g.TotalLogged,
			TotalApproved: g.TotalApproved,
		})
	}
	return rows
}

func sortProjects(rows []ProjectRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProjectName != rows[j].ProjectName {
			return rows[i].ProjectName < rows[j].ProjectName
		}
		return rows[i].ProjectID < rows[j].ProjectID
	})
}
