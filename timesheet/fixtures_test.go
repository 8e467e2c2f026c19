package timesheet_test

import (
	"testing"
	"time"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/store/memory"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	alice = timesheet.ActingUser{ID: "emp-alice", Location: "dubai", Role: timesheet.RoleEmployee, Timezone: time.UTC}
	bob   = timesheet.ActingUser{ID: "emp-bob", Location: "london", Role: timesheet.RoleEmployee, Timezone: time.UTC}
	lead  = timesheet.ActingUser{ID: "emp-lead", Location: "dubai", Role: timesheet.RoleApprover, Timezone: time.UTC}
)

func day(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

func newTestService(t *testing.T, policy timesheet.Policy) (*timesheet.Service, *memory.Memory) {
	t.Helper()
	mem := memory.NewMemory()
	mem.SaveEmployee(timesheet.Employee{ID: alice.ID, Name: "Alice Smith", Location: alice.Location, Role: alice.Role})
	mem.SaveEmployee(timesheet.Employee{ID: bob.ID, Name: "Bob Jones", Location: bob.Location, Role: bob.Role})
	mem.SaveEmployee(timesheet.Employee{ID: lead.ID, Name: "Lena Lead", Location: lead.Location, Role: lead.Role})
	mem.SaveProject(timesheet.Project{ID: "proj-apollo", Name: "Apollo", Client: "Acme"})
	mem.SaveProject(timesheet.Project{ID: "proj-zephyr", Name: "Zephyr", Client: "Globex"})
	mem.SaveProject(timesheet.Project{ID: "proj-legacy", Name: "Legacy", Status: timesheet.ProjectClosed})
	mem.SaveTaskCategory(timesheet.TaskCategory{ID: "cat-dev", Name: "Development"})
	mem.SaveTaskCategory(timesheet.TaskCategory{ID: "cat-meet", Name: "Meetings"})

	svc := timesheet.NewService(timesheet.Deps{
		Entries:   mem,
		Notes:     mem,
		Directory: mem,
		Notifier:  mem,
		Holidays:  mem,
		Reminders: mem,
		Policy:    policy,
	})
	return svc, mem
}

func dayEntry(d generic.TimePoint, hours string) timesheet.DayEntry {
	return timesheet.DayEntry{Date: d, Hours: timesheet.Hours(hours)}
}

func saveItem(project string, days ...timesheet.DayEntry) timesheet.SaveItem {
	return timesheet.SaveItem{
		ProjectID:      project,
		TaskCategoryID: "cat-dev",
		TaskDetail:     "feature work",
		DaySheet:       days,
	}
}

// hoursByDate indexes reconciled days by date.
func hoursByDate(days []timesheet.CalendarDay) map[string]timesheet.Hours {
	out := make(map[string]timesheet.Hours, len(days))
	for _, d := range days {
		out[d.NormalizedDate] = d.Hours
	}
	return out
}
