/*
store.go - Persistence interfaces used by the timesheet domain

PURPOSE:
  Defines what the domain needs from storage. The SQLite store implements
  every interface here; the in-memory store implements them for tests.

WINDOW QUERIES:
  FindByWindow matches weekStart/weekEnd by equality, never by overlap.
  Callers derive the window with generic.WeekRange first.
  FindOverlapping matches any window sharing a day with the range:
  weekStart <= end AND weekEnd >= start.
  FindNote uses containment: weekStart >= start AND weekEnd <= end.

OPTIMISTIC CONCURRENCY:
  UpdateEntry and DeleteEntry take the version the caller read. If the stored
  version moved on, they return generic.ErrConcurrentModification and change nothing.

MISSING ROWS:
  Get* methods return (nil, nil) when nothing matches.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for testing
*/
package timesheet

import (
	"context"
	"time"

	"github.com/warp/timesheet-engine/generic"
)

// EntryStore persists timesheet entries.
type EntryStore interface {
	CreateEntry(ctx context.Context, e Entry) error
	GetEntry(ctx context.Context, id string) (*Entry, error)

	// UpdateEntry replaces the stored entry if its version is still expectedVersion.
	// The stored version becomes expectedVersion+1.
	UpdateEntry(ctx context.Context, e Entry, expectedVersion int) error
	DeleteEntry(ctx context.Context, id string, expectedVersion int) error

	FindByOwner(ctx context.Context, userID string) ([]Entry, error)
	FindByWindow(ctx context.Context, userID string, window generic.Period) ([]Entry, error)
	FindOverlapping(ctx context.Context, userID string, r generic.Period) ([]Entry, error)

	// FindOpenBefore returns entries of any user whose window ended before day
	// and whose status is still open.
	FindOpenBefore(ctx context.Context, day generic.TimePoint) ([]Entry, error)

	// CountByStatus groups the user's entries whose weekEnd falls in r.
	CountByStatus(ctx context.Context, userID string, r generic.Period) (map[Status]int, error)

	// ReportLines returns one joined row per stored day inside q.Range.
	ReportLines(ctx context.Context, q ReportQuery) ([]ReportLine, error)
}

// NoteStore persists rejection notes, one per user and window.
type NoteStore interface {
	FindNote(ctx context.Context, userID string, r generic.Period) (*RejectionNote, error)
	SaveNote(ctx context.Context, n RejectionNote) error
	DeleteNotes(ctx context.Context, userID string, r generic.Period) error
}

// Directory resolves the references an entry points at.
type Directory interface {
	GetProject(ctx context.Context, id string) (*Project, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	GetTaskCategory(ctx context.Context, id string) (*TaskCategory, error)
}

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks . Notifier

// Notifier is the notification sink.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, level NotificationLevel) error
}

// ReminderLog records which user/window pairs already got a due-hours reminder.
type ReminderLog interface {
	Reminded(ctx context.Context, userID string, window generic.Period) (bool, error)
	MarkReminded(ctx context.Context, userID string, window generic.Period, at time.Time) error
}
