/*
Package timesheet implements weekly timesheet entries and their approval workflow.

KEY CONCEPTS:
  - Entry: one user's hours against a project/category/task for one week window
  - DaySheet: the sparse per-day rows stored on an entry
  - CalendarDay: the dense per-day view produced by the reconciler
  - Status: in_progress -> saved -> submitted -> accepted | rejected
  - RejectionNote: the approver's message for a user's week, one per window

DATA FLOW:
  caller -> generic.WeekRange -> EntryStore -> Reconciler (HolidayOracle per day)
         -> ApprovalService (status changes, notes, notifications)
         -> Aggregate (reports)

SEE ALSO:
  - generic/week.go: Window derivation shared by read and write paths
  - records.go: Update guard and day-sheet merge
  - approval.go: State machine
*/
package timesheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// STATUS - Approval state of an entry
// =============================================================================

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSaved      Status = "saved"
	StatusSubmitted  Status = "submitted"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusInProgress, StatusSaved, StatusSubmitted, StatusAccepted, StatusRejected}

func (s Status) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Open reports whether hours in this status still count as due.
func (s Status) Open() bool {
	return s != StatusSubmitted && s != StatusAccepted
}

// =============================================================================
// ENTRY - One week of hours for a project/category/task
// =============================================================================

// DayEntry is one stored day-sheet row.
type DayEntry struct {
	Date      generic.TimePoint
	Hours     Hours
	IsHoliday bool
}

// Entry is the central timesheet record.
// Window is always a canonical generic.WeekRange window.
type Entry struct {
	ID             string
	ProjectID      string
	UserID         string
	TaskCategoryID string
	TaskDetail     string
	Window         generic.Period
	DaySheet       []DayEntry
	Status         Status
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a copy with its own day sheet.
func (e Entry) Clone() Entry {
	out := e
	out.DaySheet = append([]DayEntry(nil), e.DaySheet...)
	return out
}

// RejectionNote is the approver's message for a user's week.
type RejectionNote struct {
	ID        string
	UserID    string
	Window    generic.Period
	Message   string
	UpdatedAt time.Time
}

// CalendarDay is one reconciled day of an entry or of a week header.
type CalendarDay struct {
	Date           generic.TimePoint
	Hours          Hours
	NormalizedDate string
	DayOfWeek      string
	IsHoliday      bool
	IsDisabled     bool
}

// =============================================================================
// ACTORS AND DIRECTORY
// =============================================================================

type Role string

const (
	RoleEmployee Role = "employee"
	RoleApprover Role = "approver"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleEmployee, nil
	case RoleEmployee, RoleApprover, RoleAdmin:
		return r, nil
	default:
		return "", generic.NewFieldError("role", fmt.Sprintf("invalid role %q", s))
	}
}

// ActingUser is the caller of every core operation.
type ActingUser struct {
	ID       string
	Location string
	Role     Role
	Timezone *time.Location
}

func (u ActingUser) IsAdmin() bool { return u.Role == RoleAdmin }

// CanApprove reports whether the user may accept or reject submitted entries.
func (u ActingUser) CanApprove() bool { return u.Role == RoleApprover || u.Role == RoleAdmin }

// Today is the current calendar day in the user's timezone.
func (u ActingUser) Today() generic.TimePoint { return generic.TodayIn(u.Timezone) }

type ProjectStatus string

const (
	ProjectActive ProjectStatus = "active"
	ProjectClosed ProjectStatus = "closed"
)

type Project struct {
	ID     string
	Name   string
	Client string
	Status ProjectStatus
}

// AcceptsTime reports whether entries against the project may be submitted.
func (p Project) AcceptsTime() bool { return p.Status != ProjectClosed }

type Employee struct {
	ID       string
	Name     string
	Email    string
	Location string
	Role     Role
}

type TaskCategory struct {
	ID   string
	Name string
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Level     NotificationLevel
	Read      bool
	CreatedAt time.Time
}
