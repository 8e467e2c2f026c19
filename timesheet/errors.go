package timesheet

import (
	"fmt"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// DOMAIN ERRORS - Each unwraps to a generic taxonomy sentinel
// =============================================================================

// ImmutableEntryError is returned when a locked entry would be modified.
type ImmutableEntryError struct {
	EntryID string
	Status  Status
}

func (e *ImmutableEntryError) Error() string {
	return fmt.Sprintf("timesheet %s is %s and cannot be modified", e.EntryID, e.Status)
}

func (e *ImmutableEntryError) Unwrap() error { return generic.ErrConflict }

// TransitionError is returned for a status change the state machine does not allow.
type TransitionError struct {
	EntryID string
	From    Status
	To      Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("timesheet %s cannot move from %s to %s", e.EntryID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return generic.ErrConflict }

// OwnershipError is returned when the actor does not own the entry.
type OwnershipError struct {
	EntryID string
	ActorID string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("timesheet %s does not belong to user %s", e.EntryID, e.ActorID)
}

func (e *OwnershipError) Unwrap() error { return generic.ErrUnauthorized }

// PermissionError is returned when the actor's role does not allow the action.
type PermissionError struct {
	ActorID string
	Action  string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s is not allowed to %s", e.ActorID, e.Action)
}

func (e *PermissionError) Unwrap() error { return generic.ErrUnauthorized }

// ProjectClosedError is returned when submitting against a closed project.
type ProjectClosedError struct {
	ProjectID string
}

func (e *ProjectClosedError) Error() string {
	return fmt.Sprintf("project %s is closed for time entry", e.ProjectID)
}

func (e *ProjectClosedError) Unwrap() error { return generic.ErrConflict }

// UnknownReportError is returned for a report kind that does not exist.
type UnknownReportError struct {
	Kind string
}

func (e *UnknownReportError) Error() string {
	return fmt.Sprintf("unknown report type %q", e.Kind)
}

func (e *UnknownReportError) Unwrap() error { return generic.ErrValidation }

func notFound(kind, id string) error {
	return &generic.NotFoundError{Kind: kind, ID: id}
}
