/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface of the timesheet domain using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  timesheet.EntryStore:    Entries, day sheets, status counts, report lines
  timesheet.NoteStore:     Rejection notes (one per user and window)
  timesheet.Directory:     Projects, employees, task categories
  timesheet.Notifier:      Persisted notifications
  timesheet.ReminderLog:   Due-hours reminder runs
  generic.HolidayCalendar: Location-scoped and recurring holidays

KEY TABLES:
  entries:         One row per timesheet entry, with its week window and version
  timesheet_days:  Sparse day sheet rows, unique per (entry, date)
  rejection_notes: Unique per (user, week_start, week_end)
  holidays:        location = '' means global
  reminder_runs:   Which user/window pairs were reminded

DATES:
  Calendar days are stored as "2006-01-02" text so range comparisons are
  plain string comparisons. Hours are stored as the raw text the client sent.

OPTIMISTIC CONCURRENCY:
  UpdateEntry and DeleteEntry match on (id, version). Zero affected rows
  means another writer got there first: generic.ErrConcurrentModification.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/timesheets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timesheet/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: ":memory:" databases are per-connection
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Timesheet entries
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		task_category_id TEXT NOT NULL,
		task_detail TEXT NOT NULL DEFAULT '',
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'in_progress',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Exact-match window lookups (hot path)
	CREATE INDEX IF NOT EXISTS idx_entries_user_window
		ON entries(user_id, week_start, week_end);
	CREATE INDEX IF NOT EXISTS idx_entries_status_end
		ON entries(status, week_end);

	-- Sparse day sheets
	CREATE TABLE IF NOT EXISTS timesheet_days (
		entry_id TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		is_holiday BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (entry_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_timesheet_days_date
		ON timesheet_days(date);

	-- Rejection notes, one per user and window
	CREATE TABLE IF NOT EXISTS rejection_notes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		message TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, week_start, week_end)
	);

	-- Directory
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		location TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'employee',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Holidays (location-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		location TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_location_date
		ON holidays(location, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(location, date, name);

	-- Notifications
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		message TEXT NOT NULL,
		level TEXT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user
		ON notifications(user_id, created_at);

	-- Due-hours reminder runs
	CREATE TABLE IF NOT EXISTS reminder_runs (
		user_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		sent_at TEXT NOT NULL,
		PRIMARY KEY (user_id, week_start, week_end)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY STORE (timesheet.EntryStore interface)
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const entryColumns = `id, project_id, user_id, task_category_id, task_detail,
	week_start, week_end, status, version, created_at, updated_at`

// CreateEntry inserts an entry and its day sheet atomically.
func (s *Store) CreateEntry(ctx context.Context, e timesheet.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.ProjectID, e.UserID, e.TaskCategoryID, e.TaskDetail,
		formatDay(e.Window.Start), formatDay(e.Window.End),
		string(e.Status), e.Version,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	if err := insertDays(ctx, tx, e.ID, e.DaySheet); err != nil {
		return err
	}
	return tx.Commit()
}

// GetEntry loads one entry with its day sheet. Returns (nil, nil) if missing.
func (s *Store) GetEntry(ctx context.Context, id string) (*timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.queryEntries(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// UpdateEntry replaces the entry and its day sheet if the version still matches.
func (s *Store) UpdateEntry(ctx context.Context, e timesheet.Entry, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE entries SET
			project_id = ?, task_category_id = ?, task_detail = ?,
			status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`,
		e.ProjectID, e.TaskCategoryID, e.TaskDetail,
		string(e.Status), formatTime(e.UpdatedAt),
		e.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrConcurrentModification
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM timesheet_days WHERE entry_id = ?", e.ID); err != nil {
		return fmt.Errorf("failed to clear day sheet: %w", err)
	}
	if err := insertDays(ctx, tx, e.ID, e.DaySheet); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEntry removes the entry if the version still matches.
func (s *Store) DeleteEntry(ctx context.Context, id string, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE id = ? AND version = ?", id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrConcurrentModification
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM timesheet_days WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete day sheet: %w", err)
	}
	return tx.Commit()
}

func (s *Store) FindByOwner(ctx context.Context, userID string) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEntries(ctx, "user_id = ?", userID)
}

// FindByWindow matches week_start and week_end exactly.
func (s *Store) FindByWindow(ctx context.Context, userID string, window generic.Period) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEntries(ctx, "user_id = ? AND week_start = ? AND week_end = ?",
		userID, formatDay(window.Start), formatDay(window.End))
}

// FindOverlapping returns entries whose window shares at least one day with r.
func (s *Store) FindOverlapping(ctx context.Context, userID string, r generic.Period) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEntries(ctx, "user_id = ? AND week_start <= ? AND week_end >= ?",
		userID, formatDay(r.End), formatDay(r.Start))
}

func (s *Store) FindOpenBefore(ctx context.Context, day generic.TimePoint) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryEntries(ctx, "week_end < ? AND status NOT IN (?, ?)",
		formatDay(day), string(timesheet.StatusSubmitted), string(timesheet.StatusAccepted))
}

// CountByStatus groups entries whose week_end falls in r.
func (s *Store) CountByStatus(ctx context.Context, userID string, r generic.Period) (map[timesheet.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM entries
		WHERE user_id = ? AND week_end BETWEEN ? AND ?
		GROUP BY status
	`, userID, formatDay(r.Start), formatDay(r.End))
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[timesheet.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[timesheet.Status(status)] = n
	}
	return counts, rows.Err()
}

// ReportLines joins stored days with their entry, project and employee.
func (s *Store) ReportLines(ctx context.Context, q timesheet.ReportQuery) ([]timesheet.ReportLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT e.id, e.project_id, COALESCE(p.name, ''), e.user_id, COALESCE(emp.name, ''),
		       e.status, d.date, d.hours
		FROM timesheet_days d
		JOIN entries e ON e.id = d.entry_id
		LEFT JOIN projects p ON p.id = e.project_id
		LEFT JOIN employees emp ON emp.id = e.user_id
		WHERE d.date BETWEEN ? AND ?
	`
	args := []any{formatDay(q.Range.Start), formatDay(q.Range.End)}
	if len(q.ProjectIDs) > 0 {
		query += " AND e.project_id IN (" + placeholders(len(q.ProjectIDs)) + ")"
		args = appendStrings(args, q.ProjectIDs)
	}
	if len(q.UserIDs) > 0 {
		query += " AND e.user_id IN (" + placeholders(len(q.UserIDs)) + ")"
		args = appendStrings(args, q.UserIDs)
	}
	query += " ORDER BY d.date ASC, e.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report lines: %w", err)
	}
	defer rows.Close()

	var lines []timesheet.ReportLine
	for rows.Next() {
		var l timesheet.ReportLine
		var status, date, hours string
		if err := rows.Scan(&l.EntryID, &l.ProjectID, &l.ProjectName, &l.UserID, &l.UserName, &status, &date, &hours); err != nil {
			return nil, err
		}
		l.Status = timesheet.Status(status)
		l.Date = parseDay(date)
		l.Hours = timesheet.Hours(hours)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// queryEntries loads entries matching where, then attaches their day sheets.
// Callers hold the lock.
func (s *Store) queryEntries(ctx context.Context, where string, args ...any) ([]timesheet.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE "+where+" ORDER BY week_start ASC, created_at ASC, id ASC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	var entries []timesheet.Entry
	index := make(map[string]int)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(entries) == 0 {
		return entries, nil
	}
	if err := attachDays(ctx, s.db, entries, index); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (timesheet.Entry, error) {
	var (
		e                    timesheet.Entry
		weekStart, weekEnd   string
		status               string
		createdAt, updatedAt string
	)
	err := rows.Scan(
		&e.ID, &e.ProjectID, &e.UserID, &e.TaskCategoryID, &e.TaskDetail,
		&weekStart, &weekEnd, &status, &e.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.Window = generic.Period{Start: parseDay(weekStart), End: parseDay(weekEnd)}
	e.Status = timesheet.Status(status)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return e, nil
}

func attachDays(ctx context.Context, db querier, entries []timesheet.Entry, index map[string]int) error {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	rows, err := db.QueryContext(ctx,
		"SELECT entry_id, date, hours, is_holiday FROM timesheet_days WHERE entry_id IN ("+placeholders(len(ids))+") ORDER BY date ASC",
		appendStrings(nil, ids)...)
	if err != nil {
		return fmt.Errorf("failed to query day sheets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, date, hours string
		var holiday bool
		if err := rows.Scan(&entryID, &date, &hours, &holiday); err != nil {
			return err
		}
		i := index[entryID]
		entries[i].DaySheet = append(entries[i].DaySheet, timesheet.DayEntry{
			Date:      parseDay(date),
			Hours:     timesheet.Hours(hours),
			IsHoliday: holiday,
		})
	}
	return rows.Err()
}

func insertDays(ctx context.Context, db execer, entryID string, days []timesheet.DayEntry) error {
	for _, d := range days {
		_, err := db.ExecContext(ctx,
			"INSERT INTO timesheet_days (entry_id, date, hours, is_holiday) VALUES (?, ?, ?, ?)",
			entryID, formatDay(d.Date), string(d.Hours), d.IsHoliday,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return generic.NewFieldError("data_sheet", fmt.Sprintf("duplicate day %s", formatDay(d.Date)))
			}
			return fmt.Errorf("failed to insert day: %w", err)
		}
	}
	return nil
}

// =============================================================================
// REJECTION NOTES (timesheet.NoteStore interface)
// =============================================================================

// FindNote returns the user's note whose window lies inside r.
func (s *Store) FindNote(ctx context.Context, userID string, r generic.Period) (*timesheet.RejectionNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n timesheet.RejectionNote
	var start, end, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, week_start, week_end, message, updated_at
		FROM rejection_notes
		WHERE user_id = ? AND week_start >= ? AND week_end <= ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID, formatDay(r.Start), formatDay(r.End)).Scan(&n.ID, &n.UserID, &start, &end, &n.Message, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.Window = generic.Period{Start: parseDay(start), End: parseDay(end)}
	n.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &n, nil
}

// SaveNote upserts on (user, window); the message is replaced.
func (s *Store) SaveNote(ctx context.Context, n timesheet.RejectionNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rejection_notes (id, user_id, week_start, week_end, message, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start, week_end) DO UPDATE SET
			message = excluded.message,
			updated_at = excluded.updated_at
	`, n.ID, n.UserID, formatDay(n.Window.Start), formatDay(n.Window.End), n.Message, formatTime(n.UpdatedAt))
	return err
}

// DeleteNotes removes the user's notes whose window lies inside r.
func (s *Store) DeleteNotes(ctx context.Context, userID string, r generic.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM rejection_notes WHERE user_id = ? AND week_start >= ? AND week_end <= ?",
		userID, formatDay(r.Start), formatDay(r.End))
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"timesheet_days", "entries", "rejection_notes", "notifications",
		"reminder_runs", "holidays", "task_categories", "projects", "employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func formatDay(tp generic.TimePoint) string {
	return tp.Time.Format(generic.DateLayout)
}

func parseDay(s string) generic.TimePoint {
	t, _ := time.Parse(generic.DateLayout, s)
	return generic.DayOf(t)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendStrings(args []any, values []string) []any {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
