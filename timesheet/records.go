/*
records.go - Timesheet record store with the update guard

PURPOSE:
  Wraps an EntryStore with the rules every write must respect.

INVARIANTS:
  1. weekStart/weekEnd are stored at UTC midnight.
  2. Dates inside one entry's day sheet are pairwise unique.
  3. Every day-sheet date lies inside [weekStart, weekEnd].
  4. Entries in submitted or accepted status never change their day sheet.
     Rejected entries follow Policy.RejectedEditable.

MERGE:
  UpdateDaySheet overwrites hours/isHoliday of an existing row with the same
  calendar date and appends rows for new dates. Rows are kept in date order.

CONCURRENCY:
  Every write carries the version that was read. A concurrent writer makes the
  second write fail with generic.ErrConcurrentModification.

SEE ALSO:
  - store.go: EntryStore contract
  - approval.go: Status transitions built on SetStatus
*/
package timesheet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/generic"
)

// NewEntry holds the fields of an entry being created.
type NewEntry struct {
	ProjectID      string
	UserID         string
	TaskCategoryID string
	TaskDetail     string
	Window         generic.Period
	DaySheet       []DayEntry
	Status         Status
}

// Records is the record store used by every domain operation.
type Records struct {
	store  EntryStore
	policy Policy
	now    func() time.Time
}

func NewRecords(store EntryStore, policy Policy) *Records {
	return &Records{store: store, policy: policy, now: func() time.Time { return time.Now().UTC() }}
}

// Policy returns the update guard policy in effect.
func (r *Records) Policy() Policy { return r.policy }

// =============================================================================
// WRITES
// =============================================================================

// Create persists a new entry. It does not look for an existing entry with the
// same project/category/task and window; callers resolve that first.
func (r *Records) Create(ctx context.Context, in NewEntry) (*Entry, error) {
	var errs generic.ValidationErrors
	if strings.TrimSpace(in.ProjectID) == "" {
		errs = errs.Add("project_id", "project is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		errs = errs.Add("user", "user is required")
	}
	if strings.TrimSpace(in.TaskCategoryID) == "" {
		errs = errs.Add("task_category_id", "task category is required")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	window, err := generic.NewPeriod(in.Window.Start, in.Window.End)
	if err != nil {
		return nil, err
	}
	if err := validateDays(window, in.DaySheet); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusInProgress
	}
	if !status.Valid() {
		return nil, generic.NewFieldError("status", fmt.Sprintf("invalid status %q", status))
	}

	now := r.now()
	e := Entry{
		ID:             uuid.NewString(),
		ProjectID:      in.ProjectID,
		UserID:         in.UserID,
		TaskCategoryID: in.TaskCategoryID,
		TaskDetail:     strings.TrimSpace(in.TaskDetail),
		Window:         window,
		DaySheet:       MergeDaySheet(nil, in.DaySheet),
		Status:         status,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.store.CreateEntry(ctx, e); err != nil {
		return nil, generic.Internal("create timesheet", err)
	}
	return &e, nil
}

// UpdateDaySheet merges days into the stored sheet and sets status.
// Locked entries fail with ImmutableEntryError and are left unchanged.
func (r *Records) UpdateDaySheet(ctx context.Context, id string, days []DayEntry, status Status) (*Entry, error) {
	if !status.Valid() {
		return nil, generic.NewFieldError("status", fmt.Sprintf("invalid status %q", status))
	}
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.policy.Editable(current.Status) {
		return nil, &ImmutableEntryError{EntryID: current.ID, Status: current.Status}
	}
	if err := validateDays(current.Window, days); err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.DaySheet = MergeDaySheet(current.DaySheet, days)
	updated.Status = status
	return r.write(ctx, *current, updated)
}

// SetStatus moves the entry to a new status without touching its day sheet.
// Transition rules live in ApprovalService.
func (r *Records) SetStatus(ctx context.Context, current Entry, to Status) (*Entry, error) {
	updated := current.Clone()
	updated.Status = to
	return r.write(ctx, current, updated)
}

func (r *Records) write(ctx context.Context, current, updated Entry) (*Entry, error) {
	updated.UpdatedAt = r.now()
	if err := r.store.UpdateEntry(ctx, updated, current.Version); err != nil {
		return nil, generic.Internal("update timesheet", err)
	}
	updated.Version = current.Version + 1
	return &updated, nil
}

// Delete removes an entry owned by actorID while it is still editable.
func (r *Records) Delete(ctx context.Context, actorID, id string) error {
	e, err := r.GetOwned(ctx, actorID, id)
	if err != nil {
		return err
	}
	if !r.policy.Editable(e.Status) {
		return &ImmutableEntryError{EntryID: e.ID, Status: e.Status}
	}
	if err := r.store.DeleteEntry(ctx, e.ID, e.Version); err != nil {
		return generic.Internal("delete timesheet", err)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

func (r *Records) Get(ctx context.Context, id string) (*Entry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, generic.NewFieldError("timesheetId", "timesheet id is required")
	}
	e, err := r.store.GetEntry(ctx, id)
	if err != nil {
		return nil, generic.Internal("load timesheet", err)
	}
	if e == nil {
		return nil, notFound("timesheet", id)
	}
	return e, nil
}

// GetOwned loads an entry and checks that actorID owns it.
func (r *Records) GetOwned(ctx context.Context, actorID, id string) (*Entry, error) {
	e, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != actorID {
		return nil, &OwnershipError{EntryID: id, ActorID: actorID}
	}
	return e, nil
}

func (r *Records) FindByOwner(ctx context.Context, userID string) ([]Entry, error) {
	out, err := r.store.FindByOwner(ctx, userID)
	return out, generic.Internal("find timesheets", err)
}

// FindByWindow matches the window exactly. Pass a generic.WeekRange window.
func (r *Records) FindByWindow(ctx context.Context, userID string, window generic.Period) ([]Entry, error) {
	out, err := r.store.FindByWindow(ctx, userID, window)
	return out, generic.Internal("find timesheets", err)
}

// FindOverlapping returns every entry whose window shares a day with rng.
func (r *Records) FindOverlapping(ctx context.Context, userID string, rng generic.Period) ([]Entry, error) {
	out, err := r.store.FindOverlapping(ctx, userID, rng)
	return out, generic.Internal("find timesheets", err)
}

func (r *Records) CountByStatus(ctx context.Context, userID string, rng generic.Period) (map[Status]int, error) {
	out, err := r.store.CountByStatus(ctx, userID, rng)
	return out, generic.Internal("count timesheets", err)
}

// =============================================================================
// DAY SHEET HELPERS
// =============================================================================

// MergeDaySheet overwrites rows with a matching calendar date and appends the
// rest. The result is sorted by date and has unique dates.
func MergeDaySheet(existing, incoming []DayEntry) []DayEntry {
	byDate := make(map[string]int, len(existing)+len(incoming))
	out := make([]DayEntry, 0, len(existing)+len(incoming))
	add := func(d DayEntry) {
		d.Date = d.Date.Midnight()
		key := d.Date.String()
		if i, ok := byDate[key]; ok {
			out[i].Hours = d.Hours
			out[i].IsHoliday = d.IsHoliday
			return
		}
		byDate[key] = len(out)
		out = append(out, d)
	}
	for _, d := range existing {
		add(d)
	}
	for _, d := range incoming {
		add(d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func validateDays(window generic.Period, days []DayEntry) error {
	var errs generic.ValidationErrors
	for i, d := range days {
		field := fmt.Sprintf("data_sheet[%d]", i)
		if d.Date.IsZero() {
			errs = errs.Add(field+".date", "date is required")
			continue
		}
		if d.Hours == "" {
			errs = errs.Add(field+".hours", "hours is required")
			continue
		}
		if msg := d.Hours.check(); msg != "" {
			errs = errs.Add(field+".hours", msg)
		}
		if !window.Contains(d.Date.Midnight()) {
			errs = errs.Add(field+".date", fmt.Sprintf("%s is outside week %s", d.Date, window.Label()))
		}
	}
	return errs.OrNil()
}
