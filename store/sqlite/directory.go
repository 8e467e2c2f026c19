package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// DIRECTORY (timesheet.Directory interface)
// =============================================================================

// SaveEmployee creates or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, e timesheet.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role := e.Role
	if role == "" {
		role = timesheet.RoleEmployee
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, location, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			location = excluded.location,
			role = excluded.role
	`, e.ID, e.Name, nullString(e.Email), e.Location, string(role), formatTime(time.Now()))
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*timesheet.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e timesheet.Employee
	var email sql.NullString
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, location, role FROM employees WHERE id = ?", id,
	).Scan(&e.ID, &e.Name, &email, &e.Location, &role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Email = email.String
	e.Role = timesheet.Role(role)
	return &e, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]timesheet.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, email, location, role FROM employees ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []timesheet.Employee
	for rows.Next() {
		var e timesheet.Employee
		var email sql.NullString
		var role string
		if err := rows.Scan(&e.ID, &e.Name, &email, &e.Location, &role); err != nil {
			return nil, err
		}
		e.Email = email.String
		e.Role = timesheet.Role(role)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// SaveProject creates or updates a project. An empty status means active.
func (s *Store) SaveProject(ctx context.Context, p timesheet.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := p.Status
	if status == "" {
		status = timesheet.ProjectActive
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, client, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			client = excluded.client,
			status = excluded.status
	`, p.ID, p.Name, nullString(p.Client), string(status), formatTime(time.Now()))
	return err
}

func (s *Store) GetProject(ctx context.Context, id string) (*timesheet.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p timesheet.Project
	var client sql.NullString
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, client, status FROM projects WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &client, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Client = client.String
	p.Status = timesheet.ProjectStatus(status)
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]timesheet.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, client, status FROM projects ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []timesheet.Project
	for rows.Next() {
		var p timesheet.Project
		var client sql.NullString
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &client, &status); err != nil {
			return nil, err
		}
		p.Client = client.String
		p.Status = timesheet.ProjectStatus(status)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) SaveTaskCategory(ctx context.Context, c timesheet.TaskCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_categories (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, c.ID, c.Name, formatTime(time.Now()))
	return err
}

func (s *Store) GetTaskCategory(ctx context.Context, id string) (*timesheet.TaskCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c timesheet.TaskCategory
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM task_categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListTaskCategories(ctx context.Context) ([]timesheet.TaskCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM task_categories ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []timesheet.TaskCategory
	for rows.Next() {
		var c timesheet.TaskCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// =============================================================================
// HOLIDAY CALENDAR (generic.HolidayCalendar interface)
// =============================================================================

// SaveHoliday creates or updates a holiday.
// Location "" means the holiday applies everywhere.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, location, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			location = excluded.location,
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring
	`, h.ID, h.Location, formatDay(h.Date), h.Name, h.Recurring, formatTime(time.Now()))
	if isUniqueConstraintError(err) {
		return fmt.Errorf("holiday %q on %s already exists: %w", h.Name, formatDay(h.Date), generic.ErrConflict)
	}
	return err
}

// ListHolidays returns holidays for a location, including global ones.
func (s *Store) ListHolidays(ctx context.Context, location string) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location, date, name, recurring
		FROM holidays
		WHERE location = ? OR location = ''
		ORDER BY date ASC
	`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var date string
		if err := rows.Scan(&h.ID, &h.Location, &date, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date = parseDay(date)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// DeleteHoliday removes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &generic.NotFoundError{Kind: "holiday", ID: id}
	}
	return nil
}

// IsHoliday checks exact dates, then recurring holidays by month and day.
func (s *Store) IsHoliday(ctx context.Context, location string, date generic.TimePoint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := formatDay(date)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM holidays
		WHERE (location = ? OR location = '')
		AND (date = ? OR (recurring = TRUE AND strftime('%m-%d', date) = strftime('%m-%d', ?)))
	`, location, day, day).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// NOTIFICATIONS (timesheet.Notifier interface)
// =============================================================================

// Notify persists a notification for the user.
func (s *Store) Notify(ctx context.Context, userID, message string, level timesheet.NotificationLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, message, level, read, created_at)
		VALUES (?, ?, ?, ?, FALSE, ?)
	`, uuid.New().String(), userID, message, string(level), formatTime(time.Now()))
	return err
}

// ListNotifications returns the user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]timesheet.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, user_id, message, level, read, created_at FROM notifications WHERE user_id = ?"
	if unreadOnly {
		query += " AND read = FALSE"
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []timesheet.Notification
	for rows.Next() {
		var n timesheet.Notification
		var level, createdAt string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &level, &n.Read, &createdAt); err != nil {
			return nil, err
		}
		n.Level = timesheet.NotificationLevel(level)
		n.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = TRUE WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &generic.NotFoundError{Kind: "notification", ID: id}
	}
	return nil
}

// =============================================================================
// REMINDER RUNS (timesheet.ReminderLog interface)
// =============================================================================

func (s *Store) Reminded(ctx context.Context, userID string, window generic.Period) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reminder_runs WHERE user_id = ? AND week_start = ? AND week_end = ?",
		userID, formatDay(window.Start), formatDay(window.End),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) MarkReminded(ctx context.Context, userID string, window generic.Period, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_runs (user_id, week_start, week_end, sent_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, week_start, week_end) DO UPDATE SET sent_at = excluded.sent_at
	`, userID, formatDay(window.Start), formatDay(window.End), formatTime(at))
	return err
}

// Compile-time interface checks.
var (
	_ timesheet.EntryStore    = (*Store)(nil)
	_ timesheet.NoteStore     = (*Store)(nil)
	_ timesheet.Directory     = (*Store)(nil)
	_ timesheet.Notifier      = (*Store)(nil)
	_ timesheet.ReminderLog   = (*Store)(nil)
	_ generic.HolidayCalendar = (*Store)(nil)
)
