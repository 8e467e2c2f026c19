// Package memory provides an in-memory implementation of the timesheet stores.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	entries       map[string]timesheet.Entry
	notes         map[string]timesheet.RejectionNote
	projects      map[string]timesheet.Project
	employees     map[string]timesheet.Employee
	categories    map[string]timesheet.TaskCategory
	holidays      []generic.Holiday
	notifications []timesheet.Notification
	reminded      map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]timesheet.Entry),
		notes:      make(map[string]timesheet.RejectionNote),
		projects:   make(map[string]timesheet.Project),
		employees:  make(map[string]timesheet.Employee),
		categories: make(map[string]timesheet.TaskCategory),
		reminded:   make(map[string]time.Time),
	}
}

// =============================================================================
// ENTRIES (timesheet.EntryStore)
// =============================================================================

func (m *Memory) CreateEntry(_ context.Context, e timesheet.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[e.ID]; ok {
		return fmt.Errorf("entry %s already exists", e.ID)
	}
	m.entries[e.ID] = e.Clone()
	return nil
}

func (m *Memory) GetEntry(_ context.Context, id string) (*timesheet.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	out := e.Clone()
	return &out, nil
}

func (m *Memory) UpdateEntry(_ context.Context, e timesheet.Entry, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.entries[e.ID]
	if !ok || cur.Version != expectedVersion {
		return generic.ErrConcurrentModification
	}
	next := e.Clone()
	next.Version = expectedVersion + 1
	m.entries[e.ID] = next
	return nil
}

func (m *Memory) DeleteEntry(_ context.Context, id string, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.entries[id]
	if !ok || cur.Version != expectedVersion {
		return generic.ErrConcurrentModification
	}
	delete(m.entries, id)
	return nil
}

func (m *Memory) FindByOwner(_ context.Context, userID string) ([]timesheet.Entry, error) {
	return m.filter(func(e timesheet.Entry) bool { return e.UserID == userID }), nil
}

func (m *Memory) FindByWindow(_ context.Context, userID string, window generic.Period) ([]timesheet.Entry, error) {
	return m.filter(func(e timesheet.Entry) bool {
		return e.UserID == userID && e.Window.Equal(window)
	}), nil
}

func (m *Memory) FindOverlapping(_ context.Context, userID string, r generic.Period) ([]timesheet.Entry, error) {
	return m.filter(func(e timesheet.Entry) bool {
		return e.UserID == userID && r.Overlaps(e.Window)
	}), nil
}

func (m *Memory) FindOpenBefore(_ context.Context, day generic.TimePoint) ([]timesheet.Entry, error) {
	return m.filter(func(e timesheet.Entry) bool {
		return e.Window.End.Before(day) && e.Status.Open()
	}), nil
}

func (m *Memory) CountByStatus(_ context.Context, userID string, r generic.Period) (map[timesheet.Status]int, error) {
	counts := make(map[timesheet.Status]int)
	for _, e := range m.filter(func(e timesheet.Entry) bool {
		return e.UserID == userID && r.Contains(e.Window.End)
	}) {
		counts[e.Status]++
	}
	return counts, nil
}

func (m *Memory) ReportLines(_ context.Context, q timesheet.ReportQuery) ([]timesheet.ReportLine, error) {
	projects := toSet(q.ProjectIDs)
	users := toSet(q.UserIDs)
	entries := m.filter(func(e timesheet.Entry) bool {
		return (len(projects) == 0 || projects[e.ProjectID]) && (len(users) == 0 || users[e.UserID])
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []timesheet.ReportLine
	for _, e := range entries {
		for _, d := range e.DaySheet {
			if !q.Range.Contains(d.Date) {
				continue
			}
			lines = append(lines, timesheet.ReportLine{
				EntryID:     e.ID,
				ProjectID:   e.ProjectID,
				ProjectName: m.projects[e.ProjectID].Name,
				UserID:      e.UserID,
				UserName:    m.employees[e.UserID].Name,
				Status:      e.Status,
				Date:        d.Date,
				Hours:       d.Hours,
			})
		}
	}
	return lines, nil
}

// filter returns matching entries ordered by window start then creation.
func (m *Memory) filter(keep func(timesheet.Entry) bool) []timesheet.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []timesheet.Entry
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Window.Start.Equal(out[j].Window.Start) {
			return out[i].Window.Start.Before(out[j].Window.Start)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// =============================================================================
// REJECTION NOTES (timesheet.NoteStore)
// =============================================================================

func (m *Memory) FindNote(_ context.Context, userID string, r generic.Period) (*timesheet.RejectionNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.notes {
		if n.UserID == userID && r.Covers(n.Window) {
			out := n
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) SaveNote(_ context.Context, n timesheet.RejectionNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[n.ID] = n
	return nil
}

func (m *Memory) DeleteNotes(_ context.Context, userID string, r generic.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, n := range m.notes {
		if n.UserID == userID && r.Covers(n.Window) {
			delete(m.notes, id)
		}
	}
	return nil
}

// Notes returns every note of a user.
func (m *Memory) Notes(userID string) []timesheet.RejectionNote {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []timesheet.RejectionNote
	for _, n := range m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// DIRECTORY (timesheet.Directory)
// =============================================================================

func (m *Memory) SaveProject(p timesheet.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Status == "" {
		p.Status = timesheet.ProjectActive
	}
	m.projects[p.ID] = p
}

func (m *Memory) SaveEmployee(e timesheet.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

func (m *Memory) SaveTaskCategory(c timesheet.TaskCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
}

func (m *Memory) GetProject(_ context.Context, id string) (*timesheet.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*timesheet.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) GetTaskCategory(_ context.Context, id string) (*timesheet.TaskCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// =============================================================================
// HOLIDAYS (generic.HolidayCalendar)
// =============================================================================

func (m *Memory) SaveHoliday(h generic.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	m.holidays = append(m.holidays, h)
}

func (m *Memory) IsHoliday(_ context.Context, location string, date generic.TimePoint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.holidays {
		if h.Location != "" && h.Location != location {
			continue
		}
		if h.Date.Equal(date) {
			return true, nil
		}
		if h.Recurring && h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// NOTIFICATIONS (timesheet.Notifier) AND REMINDERS (timesheet.ReminderLog)
// =============================================================================

func (m *Memory) Notify(_ context.Context, userID, message string, level timesheet.NotificationLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, timesheet.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// Notifications returns a user's notifications, oldest first.
func (m *Memory) Notifications(userID string) []timesheet.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []timesheet.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (m *Memory) Reminded(_ context.Context, userID string, window generic.Period) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.reminded[userID+"|"+window.String()]
	return ok, nil
}

func (m *Memory) MarkReminded(_ context.Context, userID string, window generic.Period, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminded[userID+"|"+window.String()] = at
	return nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
