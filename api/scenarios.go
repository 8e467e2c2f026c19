/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates employees, projects,
	task categories, holidays and timesheets, then drives them through the
	approval workflow so every status is visible.

AVAILABLE SCENARIOS:

	small-team:      Three people, two weeks: one accepted week, one
	                 rejected week with a note, one week still open
	month-boundary:  Entries around March 1 2025 (a Saturday), showing the
	                 one-day window and month-clipped weeks

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create directory data and holidays
 3. Save timesheets through the approval service
 4. Submit and decide some of them

The small-team weeks are placed relative to a reference day (today when
loaded through the API) so the data shows up in the current views.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "small-team"}

USAGE VIA CLI:

	timesheetctl seed small-team --db ./timesheets.db

NOTE:

	Scenarios reset the database. Only use in development/demo environments.
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var Scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "Two employees and an approver: accepted, rejected and open weeks",
	},
	{
		ID:          "month-boundary",
		Name:        "Month Boundary",
		Description: "Weeks clipped at the February/March 2025 boundary",
	},
}

// Demo people, shared by the scenarios.
var (
	demoAlice = timesheet.ActingUser{ID: "emp-alice", Location: "dubai", Role: timesheet.RoleEmployee, Timezone: time.UTC}
	demoBob   = timesheet.ActingUser{ID: "emp-bob", Location: "london", Role: timesheet.RoleEmployee, Timezone: time.UTC}
	demoLena  = timesheet.ActingUser{ID: "emp-lena", Location: "dubai", Role: timesheet.RoleApprover, Timezone: time.UTC}
)

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, "Scenarios", Scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range Scenarios {
		if s.ID == current {
			ok(w, http.StatusOK, "Current scenario", s)
			return
		}
	}
	ok(w, http.StatusOK, "No scenario loaded", nil)
}

// LoadScenario loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	if err := LoadScenario(r.Context(), h.Store, h.Service, req.ScenarioID, generic.TodayIn(h.DefaultLocation)); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	ok(w, http.StatusOK, "Scenario loaded", map[string]string{"scenario_id": req.ScenarioID})
}

// ResetDatabase clears all data.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, generic.Internal("reset database", err), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	ok(w, http.StatusOK, "Database reset", map[string]string{"status": "ok"})
}

// LoadScenario resets the store and loads the named scenario. ref anchors
// the relative weeks of small-team.
func LoadScenario(ctx context.Context, store *sqlite.Store, svc *timesheet.Service, id string, ref generic.TimePoint) error {
	var load func(context.Context, *sqlite.Store, *timesheet.Service, generic.TimePoint) error
	switch id {
	case "small-team":
		load = loadSmallTeamScenario
	case "month-boundary":
		load = loadMonthBoundaryScenario
	default:
		return &generic.NotFoundError{Kind: "scenario", ID: id}
	}

	if err := store.Reset(ctx); err != nil {
		return generic.Internal("reset database", err)
	}
	if err := seedDirectory(ctx, store); err != nil {
		return generic.Internal("seed directory", err)
	}
	if err := load(ctx, store, svc, ref); err != nil {
		return fmt.Errorf("failed to load scenario %s: %w", id, err)
	}
	return nil
}

// =============================================================================
// SHARED SEED DATA
// =============================================================================

func seedDirectory(ctx context.Context, store *sqlite.Store) error {
	employees := []timesheet.Employee{
		{ID: demoAlice.ID, Name: "Alice Smith", Email: "alice@example.com", Location: demoAlice.Location, Role: demoAlice.Role},
		{ID: demoBob.ID, Name: "Bob Jones", Email: "bob@example.com", Location: demoBob.Location, Role: demoBob.Role},
		{ID: demoLena.ID, Name: "Lena Lead", Email: "lena@example.com", Location: demoLena.Location, Role: demoLena.Role},
	}
	for _, e := range employees {
		if err := store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	projects := []timesheet.Project{
		{ID: "proj-apollo", Name: "Apollo", Client: "Acme Corp", Status: timesheet.ProjectActive},
		{ID: "proj-zephyr", Name: "Zephyr", Client: "Globex", Status: timesheet.ProjectActive},
		{ID: "proj-legacy", Name: "Legacy Support", Client: "Initech", Status: timesheet.ProjectClosed},
	}
	for _, p := range projects {
		if err := store.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	categories := []timesheet.TaskCategory{
		{ID: "cat-dev", Name: "Development"},
		{ID: "cat-meet", Name: "Meetings"},
		{ID: "cat-support", Name: "Support"},
	}
	for _, c := range categories {
		if err := store.SaveTaskCategory(ctx, c); err != nil {
			return err
		}
	}

	// Recurring holidays match every year
	holidays := []generic.Holiday{
		{ID: "hol-new-year", Date: generic.NewTimePoint(2024, time.January, 1), Name: "New Year's Day", Recurring: true},
		{ID: "hol-christmas", Date: generic.NewTimePoint(2024, time.December, 25), Name: "Christmas Day", Recurring: true},
		{ID: "hol-uae-national", Location: "dubai", Date: generic.NewTimePoint(2024, time.December, 2), Name: "National Day", Recurring: true},
		{ID: "hol-uk-bank", Location: "london", Date: generic.NewTimePoint(2025, time.May, 26), Name: "Spring Bank Holiday"},
	}
	for _, hol := range holidays {
		if err := store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}
	return nil
}

func daysOf(window generic.Period, hours ...string) []timesheet.DayEntry {
	var days []timesheet.DayEntry
	for i, h := range hours {
		d := window.Start.AddDays(i)
		if d.After(window.End) {
			break
		}
		if h == "" {
			continue
		}
		days = append(days, timesheet.DayEntry{Date: d, Hours: timesheet.Hours(h)})
	}
	return days
}

// =============================================================================
// SCENARIO: small-team
// =============================================================================

func loadSmallTeamScenario(ctx context.Context, _ *sqlite.Store, svc *timesheet.Service, ref generic.TimePoint) error {
	current := generic.WeekRange(ref)
	last := generic.ShiftWeek(current, generic.DirectionPrev)

	// Last week: Alice logs Apollo development and a meeting, submits, Lena accepts.
	alice, err := svc.Approvals.Save(ctx, demoAlice, []timesheet.SaveItem{
		{ProjectID: "proj-apollo", TaskCategoryID: "cat-dev", TaskDetail: "Checkout API", DaySheet: daysOf(last, "", "8", "7.5", "8", "6"), PassedDate: last.Start},
		{ProjectID: "proj-apollo", TaskCategoryID: "cat-meet", TaskDetail: "Sprint planning", DaySheet: daysOf(last, "", "1"), PassedDate: last.Start},
	})
	if err != nil {
		return err
	}
	if _, err := svc.Approvals.Submit(ctx, demoAlice, []string{alice[0].ID, alice[1].ID}); err != nil {
		return err
	}
	if _, err := svc.Approvals.ManageAll(ctx, demoLena, timesheet.ManageAllRequest{
		TimesheetID: alice[0].ID,
		UserID:      demoAlice.ID,
		Status:      timesheet.StatusAccepted,
	}); err != nil {
		return err
	}

	// Last week: Bob submits a thin Zephyr week, Lena rejects it.
	bob, err := svc.Approvals.Save(ctx, demoBob, []timesheet.SaveItem{
		{ProjectID: "proj-zephyr", TaskCategoryID: "cat-support", TaskDetail: "Ticket triage", DaySheet: daysOf(last, "", "6", "04:30"), PassedDate: last.Start},
	})
	if err != nil {
		return err
	}
	if _, err := svc.Approvals.Submit(ctx, demoBob, []string{bob[0].ID}); err != nil {
		return err
	}
	if _, err := svc.Approvals.Manage(ctx, demoLena, bob[0].ID, timesheet.StatusRejected, "Please log the rest of the week."); err != nil {
		return err
	}

	// Current week: Alice has work saved but not submitted.
	_, err = svc.Approvals.Save(ctx, demoAlice, []timesheet.SaveItem{
		{ProjectID: "proj-zephyr", TaskCategoryID: "cat-dev", TaskDetail: "Search indexing", DaySheet: daysOf(current, "", "4"), PassedDate: current.Start},
	})
	return err
}

// =============================================================================
// SCENARIO: month-boundary
// =============================================================================

func loadMonthBoundaryScenario(ctx context.Context, _ *sqlite.Store, svc *timesheet.Service, _ generic.TimePoint) error {
	feb := generic.WeekRange(generic.NewTimePoint(2025, time.February, 27)) // Feb 23 - Feb 28
	sat := generic.WeekRange(generic.NewTimePoint(2025, time.March, 1))     // Mar 1 only
	mar := generic.WeekRange(generic.NewTimePoint(2025, time.March, 3))     // Mar 2 - Mar 8

	saved, err := svc.Approvals.Save(ctx, demoAlice, []timesheet.SaveItem{
		{ProjectID: "proj-apollo", TaskCategoryID: "cat-dev", TaskDetail: "Release prep", DaySheet: daysOf(feb, "", "8", "8", "8", "8", "8"), PassedDate: feb.Start},
		{ProjectID: "proj-apollo", TaskCategoryID: "cat-dev", TaskDetail: "Release prep", DaySheet: daysOf(sat, "4"), PassedDate: sat.Start},
		{ProjectID: "proj-apollo", TaskCategoryID: "cat-dev", TaskDetail: "Release prep", DaySheet: daysOf(mar, "", "8", "8"), PassedDate: mar.Start},
	})
	if err != nil {
		return err
	}

	// February is done and accepted; the Saturday window is submitted; March stays saved.
	if _, err := svc.Approvals.Submit(ctx, demoAlice, []string{saved[0].ID, saved[1].ID}); err != nil {
		return err
	}
	_, err = svc.Approvals.Manage(ctx, demoLena, saved[0].ID, timesheet.StatusAccepted, "")
	return err
}
