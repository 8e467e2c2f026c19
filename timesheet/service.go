package timesheet

import (
	"context"
	"time"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// SERVICE - Read paths and wiring of the timesheet domain
// =============================================================================

// Deps are the collaborators of a Service.
type Deps struct {
	Entries   EntryStore
	Notes     NoteStore
	Directory Directory
	Notifier  Notifier
	Holidays  generic.HolidayCalendar
	Reminders ReminderLog
	Policy    Policy
}

// Service runs the weekly, due, report and snapshot flows and exposes the
// approval workflow through Approvals.
type Service struct {
	Records    *Records
	Approvals  *ApprovalService
	Reconciler *Reconciler
	Holidays   *HolidayOracle
	Reminders  *Reminders

	entries EntryStore
	notes   NoteStore
	policy  Policy
}

func NewService(d Deps) *Service {
	if d.Policy.Approved == "" {
		d.Policy.Approved = ApprovedStrict
	}
	records := NewRecords(d.Entries, d.Policy)
	holidays := NewHolidayOracle(d.Holidays)
	svc := &Service{
		Records:    records,
		Approvals:  NewApprovalService(records, d.Notes, d.Directory, d.Notifier),
		Reconciler: NewReconciler(holidays),
		Holidays:   holidays,
		entries:    d.Entries,
		notes:      d.Notes,
		policy:     d.Policy,
	}
	if d.Reminders != nil {
		svc.Reminders = NewReminders(d.Entries, d.Reminders, d.Notifier)
	}
	return svc
}

func (s *Service) Policy() Policy { return s.policy }

// RangeRequest is an optional date range. Zero bounds are absent.
type RangeRequest struct {
	StartDate generic.TimePoint
	EndDate   generic.TimePoint
}

func (r RangeRequest) validate() error {
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return generic.NewFieldError("endDate", "end date must not be before start date")
	}
	return nil
}

// =============================================================================
// WEEKLY VIEW
// =============================================================================

type WeeklyView struct {
	Window        generic.Period // canonical, month-clipped
	Display       generic.Period // full Sunday-Saturday week
	Entries       []ReconciledEntry
	WeekDates     []CalendarDay
	Previous      generic.Period
	Next          generic.Period
	RejectionNote *RejectionNote
}

// Weekly returns the actor's entries for the week containing the start date
// (or today), densified over the full week.
func (s *Service) Weekly(ctx context.Context, actor ActingUser, req RangeRequest) (*WeeklyView, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	ref := req.StartDate
	if ref.IsZero() {
		ref = req.EndDate
	}
	if ref.IsZero() {
		ref = actor.Today()
	}

	window := generic.WeekRange(ref)
	enabled := window
	if !req.StartDate.IsZero() && req.StartDate.After(enabled.Start) {
		enabled.Start = req.StartDate.Midnight()
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(enabled.End) && !req.EndDate.Before(enabled.Start) {
		enabled.End = req.EndDate.Midnight()
	}

	entries, err := s.Records.FindByWindow(ctx, actor.ID, window)
	if err != nil {
		return nil, err
	}
	display := generic.FullWeek(ref)
	reconciled, calendar, err := s.Reconciler.Reconcile(ctx, entries, ReconcileWindow{
		Window:   display,
		Enabled:  enabled,
		Location: actor.Location,
	})
	if err != nil {
		return nil, err
	}
	note, err := s.notes.FindNote(ctx, actor.ID, window)
	if err != nil {
		return nil, generic.Internal("load rejection note", err)
	}

	return &WeeklyView{
		Window:        window,
		Display:       display,
		Entries:       reconciled,
		WeekDates:     calendar,
		Previous:      generic.ShiftWeek(window, generic.DirectionPrev),
		Next:          generic.ShiftWeek(window, generic.DirectionNext),
		RejectionNote: note,
	}, nil
}

// =============================================================================
// DUE VIEW
// =============================================================================

// maxDueDays bounds the due range.
const maxDueDays = 366

type DueView struct {
	Range generic.Period
	Rows  []DueRow
}

// Due sums still-open hours per date. The default range runs from the start
// of the current month to the end of the current week.
func (s *Service) Due(ctx context.Context, actor ActingUser, req RangeRequest) (*DueView, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	today := actor.Today()
	start, end := req.StartDate, req.EndDate
	if start.IsZero() {
		ref := today
		if !end.IsZero() {
			ref = end
		}
		start = generic.StartOfMonth(ref.Year(), ref.Month())
	}
	if end.IsZero() {
		end = generic.WeekEnd(today)
		if end.Before(start) {
			end = generic.WeekEnd(start)
		}
	}
	rng, err := generic.NewPeriod(start, end)
	if err != nil {
		return nil, err
	}
	if rng.Length() > maxDueDays {
		return nil, generic.NewFieldError("endDate", "range is longer than one year")
	}

	entries, err := s.Records.FindOverlapping(ctx, actor.ID, rng)
	if err != nil {
		return nil, err
	}
	rows, err := s.Reconciler.Due(ctx, entries, ReconcileWindow{Window: rng, Enabled: rng, Location: actor.Location})
	if err != nil {
		return nil, err
	}
	return &DueView{Range: rng, Rows: rows}, nil
}

// =============================================================================
// REPORTS
// =============================================================================

type ReportRequest struct {
	Kind       string
	Year       int
	Month      int
	StartDate  generic.TimePoint
	EndDate    generic.TimePoint
	ProjectIDs []string
	UserIDs    []string
}

// Report runs one of the four report shapes. Actors who cannot approve only
// see their own hours.
func (s *Service) Report(ctx context.Context, actor ActingUser, req ReportRequest) (*Report, error) {
	kind, err := ParseReportKind(req.Kind)
	if err != nil {
		return nil, err
	}
	rng, err := resolveReportRange(req, actor.Today())
	if err != nil {
		return nil, err
	}

	q := ReportQuery{Range: rng, ProjectIDs: req.ProjectIDs, UserIDs: req.UserIDs}
	if !actor.CanApprove() {
		q.UserIDs = []string{actor.ID}
	}
	lines, err := s.entries.ReportLines(ctx, q)
	if err != nil {
		return nil, generic.Internal("report lines", err)
	}
	r := Aggregate(kind, rng, lines, s.policy.Approved)
	return &r, nil
}

func resolveReportRange(req ReportRequest, today generic.TimePoint) (generic.Period, error) {
	hasStart, hasEnd := !req.StartDate.IsZero(), !req.EndDate.IsZero()
	switch {
	case hasStart && hasEnd:
		return generic.NewPeriod(req.StartDate, req.EndDate)
	case hasStart:
		return generic.Period{}, generic.NewFieldError("endDate", "end date is required with a start date")
	case hasEnd:
		return generic.Period{}, generic.NewFieldError("startDate", "start date is required with an end date")
	}
	return generic.ResolveMonth(req.Year, req.Month, today)
}

// =============================================================================
// SNAPSHOT
// =============================================================================

type StatusCounts struct {
	InProgress int
	Saved      int
	Submitted  int
	Approved   int
	Rejected   int
}

func countsFrom(m map[Status]int) StatusCounts {
	return StatusCounts{
		InProgress: m[StatusInProgress],
		Saved:      m[StatusSaved],
		Submitted:  m[StatusSubmitted],
		Approved:   m[StatusAccepted],
		Rejected:   m[StatusRejected],
	}
}

type Snapshot struct {
	Month      generic.Period
	Counts     StatusCounts
	Week       generic.Period
	WeekCounts StatusCounts
}

// Snapshot counts the actor's entries per status for a month and for the
// current week.
func (s *Service) Snapshot(ctx context.Context, actor ActingUser, year, month int) (*Snapshot, error) {
	today := actor.Today()
	rng, err := generic.ResolveMonth(year, month, today)
	if err != nil {
		return nil, err
	}
	monthCounts, err := s.Records.CountByStatus(ctx, actor.ID, rng)
	if err != nil {
		return nil, err
	}
	week := generic.WeekRange(today)
	weekCounts, err := s.Records.CountByStatus(ctx, actor.ID, week)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Month:      rng,
		Counts:     countsFrom(monthCounts),
		Week:       week,
		WeekCounts: countsFrom(weekCounts),
	}, nil
}

// RunReminders sends due-hours reminders as of today in loc.
func (s *Service) RunReminders(ctx context.Context, loc *time.Location) (ReminderResult, error) {
	if s.Reminders == nil {
		return ReminderResult{}, nil
	}
	return s.Reminders.Run(ctx, generic.TodayIn(loc))
}
