/*
approval.go - Timesheet approval state machine

STATES:
  in_progress -> saved -> submitted -> accepted
                                    -> rejected -> saved -> submitted ...

TRANSITIONS:
  save:    any editable status -> saved (owner; guard in Records)
  submit:  saved -> submitted (owner; project must accept time)
  accept:  submitted -> accepted (approver); notify owner, drop the week's note
  reject:  submitted -> rejected (approver, notes required); upsert the week's
           note, notify owner

BATCHES:
  Save, Submit and ManageAll check every item before writing any. The first
  failing item aborts the whole batch; there is no partial success.

DECISION ORDER:
  Manage and ManageAll write the rejection note first, then the status, then
  notify. A note failure leaves the entries submitted. A notification failure
  is logged; the decision stands.

SEE ALSO:
  - records.go: Update guard and optimistic concurrency
  - policy.go: RejectedEditable switch
*/
package timesheet

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/generic"
)

// SaveItem is one timesheet in a save request.
type SaveItem struct {
	TimesheetID    string
	ProjectID      string
	TaskCategoryID string
	TaskDetail     string
	DaySheet       []DayEntry
	Status         Status
	// PassedDate selects the week when creating. Zero means the first
	// day-sheet date, or today for an empty sheet.
	PassedDate generic.TimePoint
}

// ManageAllRequest applies one decision to a user's whole week.
type ManageAllRequest struct {
	TimesheetID string
	UserID      string
	Status      Status
	Notes       string
}

// ManageAllResult reports the resolved window and the entries that changed.
type ManageAllResult struct {
	Window  generic.Period
	Updated []Entry
}

type ApprovalService struct {
	records   *Records
	notes     NoteStore
	directory Directory
	notifier  Notifier
	now       func() time.Time
}

func NewApprovalService(records *Records, notes NoteStore, directory Directory, notifier Notifier) *ApprovalService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &ApprovalService{
		records:   records,
		notes:     notes,
		directory: directory,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// =============================================================================
// SAVE
// =============================================================================

type plannedSave struct {
	item   SaveItem
	id     string
	window generic.Period
	status Status
}

// Save writes each item's day sheet and moves it to saved (or the requested
// editable status). Unknown entries are created in in_progress first.
func (a *ApprovalService) Save(ctx context.Context, actor ActingUser, items []SaveItem) ([]Entry, error) {
	if len(items) == 0 {
		return nil, generic.NewFieldError("timesheets", "at least one timesheet is required")
	}

	plans := make([]plannedSave, 0, len(items))
	for i, item := range items {
		p, err := a.planSave(ctx, actor, i, item)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	out := make([]Entry, 0, len(plans))
	for _, p := range plans {
		id := p.id
		if id == "" {
			// an earlier item of this batch may have created it
			existing, err := a.findSameTask(ctx, actor.ID, p.item, p.window)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				id = existing.ID
			} else {
				created, err := a.records.Create(ctx, NewEntry{
					ProjectID:      p.item.ProjectID,
					UserID:         actor.ID,
					TaskCategoryID: p.item.TaskCategoryID,
					TaskDetail:     p.item.TaskDetail,
					Window:         p.window,
					Status:         StatusInProgress,
				})
				if err != nil {
					return nil, err
				}
				id = created.ID
			}
		}
		updated, err := a.records.UpdateDaySheet(ctx, id, p.item.DaySheet, p.status)
		if err != nil {
			return nil, err
		}
		out = append(out, *updated)
	}
	return out, nil
}

func (a *ApprovalService) planSave(ctx context.Context, actor ActingUser, i int, item SaveItem) (plannedSave, error) {
	field := fmt.Sprintf("timesheets[%d]", i)
	status := item.Status
	if status == "" {
		status = StatusSaved
	}
	if status != StatusSaved && status != StatusInProgress {
		return plannedSave{}, generic.NewFieldError(field+".status", fmt.Sprintf("status %q cannot be set by saving", status))
	}
	p := plannedSave{item: item, status: status}

	if item.TimesheetID != "" {
		e, err := a.records.GetOwned(ctx, actor.ID, item.TimesheetID)
		if err != nil {
			return plannedSave{}, err
		}
		if !a.records.Policy().Editable(e.Status) {
			return plannedSave{}, &ImmutableEntryError{EntryID: e.ID, Status: e.Status}
		}
		p.id, p.window = e.ID, e.Window
		return p, validateDays(p.window, item.DaySheet)
	}

	if err := a.checkReferences(ctx, field, item); err != nil {
		return plannedSave{}, err
	}
	ref := item.PassedDate
	if ref.IsZero() && len(item.DaySheet) > 0 {
		ref = item.DaySheet[0].Date
	}
	if ref.IsZero() {
		ref = actor.Today()
	}
	p.window = generic.WeekRange(ref)
	if err := validateDays(p.window, item.DaySheet); err != nil {
		return plannedSave{}, err
	}

	existing, err := a.findSameTask(ctx, actor.ID, item, p.window)
	if err != nil {
		return plannedSave{}, err
	}
	if existing != nil {
		if !a.records.Policy().Editable(existing.Status) {
			return plannedSave{}, &ImmutableEntryError{EntryID: existing.ID, Status: existing.Status}
		}
		p.id = existing.ID
	}
	return p, nil
}

func (a *ApprovalService) checkReferences(ctx context.Context, field string, item SaveItem) error {
	var errs generic.ValidationErrors
	if strings.TrimSpace(item.ProjectID) == "" {
		errs = errs.Add(field+".project_id", "project is required")
	}
	if strings.TrimSpace(item.TaskCategoryID) == "" {
		errs = errs.Add(field+".task_category_id", "task category is required")
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	project, err := a.directory.GetProject(ctx, item.ProjectID)
	if err != nil {
		return generic.Internal("load project", err)
	}
	if project == nil {
		return notFound("project", item.ProjectID)
	}
	category, err := a.directory.GetTaskCategory(ctx, item.TaskCategoryID)
	if err != nil {
		return generic.Internal("load task category", err)
	}
	if category == nil {
		return notFound("task category", item.TaskCategoryID)
	}
	return nil
}

// findSameTask resolves an existing entry for project/category/task in window.
func (a *ApprovalService) findSameTask(ctx context.Context, userID string, item SaveItem, window generic.Period) (*Entry, error) {
	entries, err := a.records.FindByWindow(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	detail := strings.TrimSpace(item.TaskDetail)
	for i := range entries {
		e := entries[i]
		if e.ProjectID == item.ProjectID && e.TaskCategoryID == item.TaskCategoryID && e.TaskDetail == detail {
			return &e, nil
		}
	}
	return nil, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit moves the owner's saved entries to submitted.
func (a *ApprovalService) Submit(ctx context.Context, actor ActingUser, ids []string) ([]Entry, error) {
	if len(ids) == 0 {
		return nil, generic.NewFieldError("timesheets", "at least one timesheet id is required")
	}

	seen := make(map[string]bool, len(ids))
	pending := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		e, err := a.records.GetOwned(ctx, actor.ID, id)
		if err != nil {
			return nil, err
		}
		if e.Status != StatusSaved {
			return nil, &TransitionError{EntryID: e.ID, From: e.Status, To: StatusSubmitted}
		}
		project, err := a.directory.GetProject(ctx, e.ProjectID)
		if err != nil {
			return nil, generic.Internal("load project", err)
		}
		if project == nil {
			return nil, notFound("project", e.ProjectID)
		}
		if !project.AcceptsTime() {
			return nil, &ProjectClosedError{ProjectID: project.ID}
		}
		pending = append(pending, *e)
	}

	out := make([]Entry, 0, len(pending))
	for _, e := range pending {
		updated, err := a.records.SetStatus(ctx, e, StatusSubmitted)
		if err != nil {
			return nil, err
		}
		out = append(out, *updated)
	}
	return out, nil
}

// =============================================================================
// MANAGE (approver decisions)
// =============================================================================

// Manage accepts or rejects one submitted entry.
func (a *ApprovalService) Manage(ctx context.Context, actor ActingUser, id string, to Status, notes string) (*Entry, error) {
	if err := checkDecision(actor, to, notes); err != nil {
		return nil, err
	}
	e, err := a.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusSubmitted {
		return nil, &TransitionError{EntryID: e.ID, From: e.Status, To: to}
	}
	if err := a.recordDecision(ctx, e.UserID, e.Window, to, notes); err != nil {
		return nil, err
	}
	updated, err := a.records.SetStatus(ctx, *e, to)
	if err != nil {
		return nil, err
	}
	a.notifyDecision(ctx, e.UserID, e.Window, to, notes)
	return updated, nil
}

// ManageAll applies one decision to every submitted entry of the user's week.
// The week is the window of the referenced timesheet.
func (a *ApprovalService) ManageAll(ctx context.Context, actor ActingUser, req ManageAllRequest) (*ManageAllResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, generic.NewFieldError("userid", "user id is required")
	}
	if err := checkDecision(actor, req.Status, req.Notes); err != nil {
		return nil, err
	}
	ref, err := a.records.Get(ctx, req.TimesheetID)
	if err != nil {
		return nil, err
	}
	if ref.UserID != req.UserID {
		return nil, &OwnershipError{EntryID: ref.ID, ActorID: req.UserID}
	}

	entries, err := a.records.FindByWindow(ctx, req.UserID, ref.Window)
	if err != nil {
		return nil, err
	}
	var submitted []Entry
	for _, e := range entries {
		if e.Status == StatusSubmitted {
			submitted = append(submitted, e)
		}
	}
	if len(submitted) == 0 {
		return nil, &TransitionError{EntryID: ref.ID, From: ref.Status, To: req.Status}
	}

	if err := a.recordDecision(ctx, req.UserID, ref.Window, req.Status, req.Notes); err != nil {
		return nil, err
	}
	result := &ManageAllResult{Window: ref.Window}
	for _, e := range submitted {
		updated, err := a.records.SetStatus(ctx, e, req.Status)
		if err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, *updated)
	}
	a.notifyDecision(ctx, req.UserID, ref.Window, req.Status, req.Notes)
	return result, nil
}

// Delete removes the actor's own editable entry.
func (a *ApprovalService) Delete(ctx context.Context, actor ActingUser, id string) error {
	return a.records.Delete(ctx, actor.ID, id)
}

func checkDecision(actor ActingUser, to Status, notes string) error {
	if !actor.CanApprove() {
		return &PermissionError{ActorID: actor.ID, Action: "approve or reject timesheets"}
	}
	if to != StatusAccepted && to != StatusRejected {
		return generic.NewFieldError("status", fmt.Sprintf("status must be %q or %q", StatusAccepted, StatusRejected))
	}
	if to == StatusRejected && strings.TrimSpace(notes) == "" {
		return generic.NewFieldError("notes", "notes are required when rejecting")
	}
	return nil
}

// recordDecision keeps the week's rejection note in step with the decision.
// It runs before any status write so a failed note leaves the entries submitted.
func (a *ApprovalService) recordDecision(ctx context.Context, ownerID string, window generic.Period, to Status, notes string) error {
	if to == StatusAccepted {
		if err := a.notes.DeleteNotes(ctx, ownerID, window); err != nil {
			return generic.Internal("delete rejection note", err)
		}
		return nil
	}
	note, err := a.notes.FindNote(ctx, ownerID, window)
	if err != nil {
		return generic.Internal("load rejection note", err)
	}
	if note == nil {
		note = &RejectionNote{ID: uuid.NewString(), UserID: ownerID, Window: window}
	}
	note.Message = strings.TrimSpace(notes)
	note.UpdatedAt = a.now()
	if err := a.notes.SaveNote(ctx, *note); err != nil {
		return generic.Internal("save rejection note", err)
	}
	return nil
}

// notifyDecision tells the owner. The decision is already stored, so a
// failing sink is logged rather than returned.
func (a *ApprovalService) notifyDecision(ctx context.Context, ownerID string, window generic.Period, to Status, notes string) {
	msg := fmt.Sprintf("Your timesheet for %s has been approved.", window.Label())
	level := LevelSuccess
	if to == StatusRejected {
		msg = fmt.Sprintf("Your timesheet for %s has been rejected: %s", window.Label(), strings.TrimSpace(notes))
		level = LevelWarning
	}
	if err := a.notifier.Notify(ctx, ownerID, msg, level); err != nil {
		log.Printf("[Approvals] notify %s about %s: %v", ownerID, window.Label(), err)
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string, string, NotificationLevel) error { return nil }
