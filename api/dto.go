/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract:
  - Field names follow the established client contract (project_id,
    data_sheet, timesheetId, startDate, tabKey, ...)
  - Dates travel as "YYYY-MM-DD" strings (RFC3339 accepted on input)
  - Hours travel as the client sent them (string or number)

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry `validate` tags checked by go-playground/validator.
  The custom "day" tag accepts a date the domain can parse. Business rules
  (window membership, state transitions) stay in the timesheet package.

SEE ALSO:
  - handlers.go: Uses these types
  - timesheet/types.go: Domain types
*/
package api

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// ENVELOPE
// =============================================================================

// Envelope is the shape of every JSON response.
type Envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// =============================================================================
// TIMESHEET REQUESTS
// =============================================================================

type DayEntryDTO struct {
	Date      string          `json:"date" validate:"required,day"`
	Hours     timesheet.Hours `json:"hours"`
	IsHoliday bool            `json:"isHoliday,omitempty"`
}

type SaveTimesheetDTO struct {
	TimesheetID    string        `json:"timesheetId"`
	ProjectID      string        `json:"project_id" validate:"required_without=TimesheetID"`
	TaskCategoryID string        `json:"task_category_id" validate:"required_without=TimesheetID"`
	TaskDetail     string        `json:"task_detail" validate:"max=500"`
	DataSheet      []DayEntryDTO `json:"data_sheet" validate:"dive"`
	Status         string        `json:"status" validate:"omitempty,oneof=saved in_progress"`
	PassedDate     string        `json:"passedDate" validate:"omitempty,day"`
}

type SaveTimesheetsRequest struct {
	Timesheets []SaveTimesheetDTO `json:"timesheets" validate:"required,min=1,dive"`
}

type SubmitTimesheetsRequest struct {
	Timesheets []string `json:"timesheets" validate:"required,min=1,dive,required"`
}

// RangeRequest is the body of the weekly and due operations.
type RangeRequest struct {
	StartDate string `json:"startDate" validate:"omitempty,day"`
	EndDate   string `json:"endDate" validate:"omitempty,day"`
}

type ManageRequest struct {
	TimesheetID string `json:"timesheetid" validate:"required"`
	State       string `json:"state" validate:"required,oneof=accepted rejected"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type ManageAllRequest struct {
	TimesheetID string `json:"timesheetid" validate:"required"`
	UserID      string `json:"userid" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=accepted rejected"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type ReportRequest struct {
	TabKey     string   `json:"tabKey"`
	Year       int      `json:"year" validate:"omitempty,min=1970,max=9999"`
	Month      int      `json:"month" validate:"omitempty,min=1,max=12"`
	StartDate  string   `json:"startDate" validate:"omitempty,day"`
	EndDate    string   `json:"endDate" validate:"omitempty,day"`
	ProjectIDs []string `json:"projectIds" validate:"dive,required"`
	UserIDs    []string `json:"userIds" validate:"dive,required"`
}

type SnapshotRequest struct {
	Year  int `json:"year" validate:"omitempty,min=1970,max=9999"`
	Month int `json:"month" validate:"omitempty,min=1,max=12"`
}

// =============================================================================
// TIMESHEET RESPONSES
// =============================================================================

type DayDTO struct {
	Date      string          `json:"date"`
	Hours     timesheet.Hours `json:"hours"`
	IsHoliday bool            `json:"isHoliday"`
}

type EntryDTO struct {
	ID             string   `json:"id"`
	ProjectID      string   `json:"project_id"`
	UserID         string   `json:"user_id"`
	TaskCategoryID string   `json:"task_category_id"`
	TaskDetail     string   `json:"task_detail"`
	WeekStart      string   `json:"weekStart"`
	WeekEnd        string   `json:"weekEnd"`
	DataSheet      []DayDTO `json:"data_sheet"`
	Status         string   `json:"status"`
	Version        int      `json:"version"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

type CalendarDayDTO struct {
	Date           string          `json:"date"`
	Hours          timesheet.Hours `json:"hours"`
	NormalizedDate string          `json:"normalizedDate"`
	DayOfWeek      string          `json:"dayOfWeek"`
	IsHoliday      bool            `json:"isHoliday"`
	IsDisabled     bool            `json:"isDisabled"`
}

// WeeklyEntryDTO is an entry with its densified day sheet.
type WeeklyEntryDTO struct {
	ID             string           `json:"id"`
	ProjectID      string           `json:"project_id"`
	TaskCategoryID string           `json:"task_category_id"`
	TaskDetail     string           `json:"task_detail"`
	Status         string           `json:"status"`
	Version        int              `json:"version"`
	WeekStart      string           `json:"weekStart"`
	WeekEnd        string           `json:"weekEnd"`
	DataSheet      []CalendarDayDTO `json:"data_sheet"`
	TotalHours     decimal.Decimal  `json:"totalHours"`
}

type WindowDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label"`
}

type NoteDTO struct {
	ID        string    `json:"id"`
	Window    WindowDTO `json:"window"`
	Message   string    `json:"message"`
	UpdatedAt string    `json:"updated_at"`
}

type WeeklyResponse struct {
	Data          []WeeklyEntryDTO `json:"data"`
	WeekDates     []CalendarDayDTO `json:"weekDates"`
	DateRange     WindowDTO        `json:"date_range"`
	Display       WindowDTO        `json:"display"`
	Previous      WindowDTO        `json:"previous"`
	Next          WindowDTO        `json:"next"`
	RejectionNote *NoteDTO         `json:"rejectionNote,omitempty"`
}

type DueRowDTO struct {
	Date      string          `json:"date"`
	DayOfWeek string          `json:"dayOfWeek,omitempty"`
	Hours     decimal.Decimal `json:"hours"`
	IsHoliday bool            `json:"isHoliday"`
}

type DueResponse struct {
	DateRange WindowDTO   `json:"date_range"`
	Rows      []DueRowDTO `json:"data"`
}

type ManageAllResponse struct {
	Window  WindowDTO  `json:"window"`
	Updated []EntryDTO `json:"updated"`
}

type ProjectRowDTO struct {
	ProjectID     string          `json:"projectId"`
	ProjectName   string          `json:"projectName"`
	LoggedHours   decimal.Decimal `json:"loggedHours"`
	ApprovedHours decimal.Decimal `json:"approvedHours"`
}

type EmployeeRowDTO struct {
	EmployeeID    string          `json:"employeeId"`
	EmployeeName  string          `json:"employeeName"`
	ProjectID     string          `json:"projectId"`
	ProjectName   string          `json:"projectName"`
	LoggedHours   decimal.Decimal `json:"loggedHours"`
	ApprovedHours decimal.Decimal `json:"approvedHours"`
	TotalLogged   decimal.Decimal `json:"totalLogged"`
	TotalApproved decimal.Decimal `json:"totalApproved"`
}

type ReportDTO struct {
	TabKey        string           `json:"tabKey"`
	Range         WindowDTO        `json:"range"`
	DateRange     string           `json:"date_range,omitempty"`
	Projects      []ProjectRowDTO  `json:"projects,omitempty"`
	Employees     []EmployeeRowDTO `json:"employees,omitempty"`
	TotalLogged   decimal.Decimal  `json:"totalLogged"`
	TotalApproved decimal.Decimal  `json:"totalApproved"`
}

type StatusCountsDTO struct {
	InProgress int `json:"in_progress"`
	Saved      int `json:"saved"`
	Submitted  int `json:"submitted"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

type SnapshotDTO struct {
	Month      WindowDTO       `json:"month"`
	Counts     StatusCountsDTO `json:"counts"`
	Week       WindowDTO       `json:"week"`
	WeekCounts StatusCountsDTO `json:"weekCounts"`
}

type WeekDTO struct {
	Date     string    `json:"date"`
	Window   WindowDTO `json:"window"`
	FullWeek WindowDTO `json:"fullWeek"`
	Previous WindowDTO `json:"previous"`
	Next     WindowDTO `json:"next"`
}

// =============================================================================
// DIRECTORY, HOLIDAYS, NOTIFICATIONS
// =============================================================================

type EmployeeDTO struct {
	ID       string `json:"id" validate:"required,max=64"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Location string `json:"location"`
	Role     string `json:"role" validate:"omitempty,oneof=employee approver admin"`
}

type ProjectDTO struct {
	ID     string `json:"id" validate:"required,max=64"`
	Name   string `json:"name" validate:"required"`
	Client string `json:"client,omitempty"`
	Status string `json:"status" validate:"omitempty,oneof=active closed"`
}

type TaskCategoryDTO struct {
	ID   string `json:"id" validate:"required,max=64"`
	Name string `json:"name" validate:"required"`
}

type HolidayDTO struct {
	ID        string `json:"id,omitempty"`
	Location  string `json:"location"`
	Date      string `json:"date" validate:"required,day"`
	Name      string `json:"name" validate:"required"`
	Recurring bool   `json:"recurring"`
}

type NotificationDTO struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Level     string `json:"level"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toWindowDTO(p generic.Period) WindowDTO {
	return WindowDTO{StartDate: p.Start.String(), EndDate: p.End.String(), Label: p.Label()}
}

func toEntryDTO(e timesheet.Entry) EntryDTO {
	days := make([]DayDTO, 0, len(e.DaySheet))
	for _, d := range e.DaySheet {
		days = append(days, DayDTO{Date: d.Date.String(), Hours: d.Hours, IsHoliday: d.IsHoliday})
	}
	return EntryDTO{
		ID:             e.ID,
		ProjectID:      e.ProjectID,
		UserID:         e.UserID,
		TaskCategoryID: e.TaskCategoryID,
		TaskDetail:     e.TaskDetail,
		WeekStart:      e.Window.Start.String(),
		WeekEnd:        e.Window.End.String(),
		DataSheet:      days,
		Status:         string(e.Status),
		Version:        e.Version,
		CreatedAt:      formatTimestamp(e.CreatedAt),
		UpdatedAt:      formatTimestamp(e.UpdatedAt),
	}
}

func toEntryDTOs(entries []timesheet.Entry) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out
}

func toCalendarDTOs(days []timesheet.CalendarDay) []CalendarDayDTO {
	out := make([]CalendarDayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, CalendarDayDTO{
			Date:           d.Date.String(),
			Hours:          d.Hours,
			NormalizedDate: d.NormalizedDate,
			DayOfWeek:      d.DayOfWeek,
			IsHoliday:      d.IsHoliday,
			IsDisabled:     d.IsDisabled,
		})
	}
	return out
}

func toWeeklyResponse(v *timesheet.WeeklyView) WeeklyResponse {
	resp := WeeklyResponse{
		Data:      make([]WeeklyEntryDTO, 0, len(v.Entries)),
		WeekDates: toCalendarDTOs(v.WeekDates),
		DateRange: toWindowDTO(v.Window),
		Display:   toWindowDTO(v.Display),
		Previous:  toWindowDTO(v.Previous),
		Next:      toWindowDTO(v.Next),
	}
	for _, e := range v.Entries {
		resp.Data = append(resp.Data, WeeklyEntryDTO{
			ID:             e.ID,
			ProjectID:      e.ProjectID,
			TaskCategoryID: e.TaskCategoryID,
			TaskDetail:     e.TaskDetail,
			Status:         string(e.Status),
			Version:        e.Version,
			WeekStart:      e.Window.Start.String(),
			WeekEnd:        e.Window.End.String(),
			DataSheet:      toCalendarDTOs(e.Days),
			TotalHours:     e.TotalHours,
		})
	}
	if n := v.RejectionNote; n != nil {
		resp.RejectionNote = &NoteDTO{
			ID:        n.ID,
			Window:    toWindowDTO(n.Window),
			Message:   n.Message,
			UpdatedAt: formatTimestamp(n.UpdatedAt),
		}
	}
	return resp
}

func toDueResponse(v *timesheet.DueView) DueResponse {
	rows := make([]DueRowDTO, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, DueRowDTO{Date: r.Date, DayOfWeek: r.DayOfWeek, Hours: r.Hours, IsHoliday: r.IsHoliday})
	}
	return DueResponse{DateRange: toWindowDTO(v.Range), Rows: rows}
}

// NewReportDTO is the wire shape of a report, shared with the CLI.
func NewReportDTO(r *timesheet.Report) ReportDTO {
	dto := ReportDTO{
		TabKey:        string(r.Kind),
		Range:         toWindowDTO(r.Range),
		DateRange:     r.DateRange,
		TotalLogged:   r.TotalLogged,
		TotalApproved: r.TotalApproved,
	}
	if r.Kind.ByEmployee() {
		dto.Employees = make([]EmployeeRowDTO, 0, len(r.Employees))
		for _, e := range r.Employees {
			dto.Employees = append(dto.Employees, EmployeeRowDTO(e))
		}
		return dto
	}
	dto.Projects = make([]ProjectRowDTO, 0, len(r.Projects))
	for _, p := range r.Projects {
		dto.Projects = append(dto.Projects, ProjectRowDTO(p))
	}
	return dto
}

func toCountsDTO(c timesheet.StatusCounts) StatusCountsDTO {
	return StatusCountsDTO(c)
}

func toEmployeeDTO(e timesheet.Employee) EmployeeDTO {
	return EmployeeDTO{ID: e.ID, Name: e.Name, Email: e.Email, Location: e.Location, Role: string(e.Role)}
}

func toProjectDTO(p timesheet.Project) ProjectDTO {
	return ProjectDTO{ID: p.ID, Name: p.Name, Client: p.Client, Status: string(p.Status)}
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Location: h.Location, Date: h.Date.String(), Name: h.Name, Recurring: h.Recurring}
}

func toNotificationDTO(n timesheet.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Message:   n.Message,
		Level:     string(n.Level),
		Read:      n.Read,
		CreatedAt: formatTimestamp(n.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// =============================================================================
// REQUEST PARSING
// =============================================================================

// optionalDate parses raw when present; the zero TimePoint means absent.
func optionalDate(field, raw string) (generic.TimePoint, error) {
	if strings.TrimSpace(raw) == "" {
		return generic.TimePoint{}, nil
	}
	return generic.ParseDate(field, raw)
}

func (r RangeRequest) toDomain() (timesheet.RangeRequest, error) {
	var errs generic.ValidationErrors
	start, err := optionalDate("startDate", r.StartDate)
	errs = collect(errs, err)
	end, err := optionalDate("endDate", r.EndDate)
	errs = collect(errs, err)
	if err := errs.OrNil(); err != nil {
		return timesheet.RangeRequest{}, err
	}
	return timesheet.RangeRequest{StartDate: start, EndDate: end}, nil
}

func (r SaveTimesheetsRequest) toDomain() ([]timesheet.SaveItem, error) {
	items := make([]timesheet.SaveItem, 0, len(r.Timesheets))
	for _, t := range r.Timesheets {
		passed, err := optionalDate("passedDate", t.PassedDate)
		if err != nil {
			return nil, err
		}
		days := make([]timesheet.DayEntry, 0, len(t.DataSheet))
		for _, d := range t.DataSheet {
			date, err := generic.ParseDate("data_sheet.date", d.Date)
			if err != nil {
				return nil, err
			}
			days = append(days, timesheet.DayEntry{Date: date, Hours: d.Hours, IsHoliday: d.IsHoliday})
		}
		items = append(items, timesheet.SaveItem{
			TimesheetID:    strings.TrimSpace(t.TimesheetID),
			ProjectID:      strings.TrimSpace(t.ProjectID),
			TaskCategoryID: strings.TrimSpace(t.TaskCategoryID),
			TaskDetail:     strings.TrimSpace(t.TaskDetail),
			DaySheet:       days,
			Status:         timesheet.Status(t.Status),
			PassedDate:     passed,
		})
	}
	return items, nil
}

func (r ReportRequest) toDomain() (timesheet.ReportRequest, error) {
	var errs generic.ValidationErrors
	start, err := optionalDate("startDate", r.StartDate)
	errs = collect(errs, err)
	end, err := optionalDate("endDate", r.EndDate)
	errs = collect(errs, err)
	if err := errs.OrNil(); err != nil {
		return timesheet.ReportRequest{}, err
	}
	return timesheet.ReportRequest{
		Kind:       r.TabKey,
		Year:       r.Year,
		Month:      r.Month,
		StartDate:  start,
		EndDate:    end,
		ProjectIDs: r.ProjectIDs,
		UserIDs:    r.UserIDs,
	}, nil
}

func collect(errs generic.ValidationErrors, err error) generic.ValidationErrors {
	var fe *generic.FieldError
	if errors.As(err, &fe) {
		return append(errs, fe)
	}
	return errs
}

// =============================================================================
// VALIDATOR
// =============================================================================

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := generic.ParseDate("", fl.Field().String())
		return err == nil
	})
	return v
}

// validationErrors converts validator output into field errors keyed by the
// JSON path below the request root, e.g. "timesheets[0].project_id".
func validationErrors(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return generic.NewFieldError("body", err.Error())
	}
	var out generic.ValidationErrors
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = out.Add(field, describe(fe))
	}
	return out.OrNil()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "day":
		return "must be a date (YYYY-MM-DD)"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
