/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Directory data and holidays are created
	- Timesheets end in the expected statuses
	- Rejection notes and notifications exist where a week was rejected

These tests double as integration tests of the approval workflow on SQLite.
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// a Wednesday mid-month, so last week and this week are both full windows
var scenarioRef = generic.NewTimePoint(2025, time.March, 12)

func statusesOf(entries []timesheet.Entry) map[timesheet.Status]int {
	out := make(map[timesheet.Status]int)
	for _, e := range entries {
		out[e.Status]++
	}
	return out
}

func TestScenario_SmallTeam(t *testing.T) {
	// GIVEN: An empty store
	h, _ := newTestServer(t)
	ctx := context.Background()

	// WHEN: Loading the small-team scenario
	require.NoError(t, LoadScenario(ctx, h.Store, h.Service, "small-team", scenarioRef))

	// THEN: Directory data is replaced by the scenario's
	employees, err := h.Store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 3)
	projects, err := h.Store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 3)

	// AND: Alice has two accepted entries last week and one saved this week
	aliceEntries, err := h.Store.FindByOwner(ctx, "emp-alice")
	require.NoError(t, err)
	assert.Equal(t, map[timesheet.Status]int{
		timesheet.StatusAccepted: 2,
		timesheet.StatusSaved:    1,
	}, statusesOf(aliceEntries))

	// AND: Bob's week was rejected with a note and a warning
	bobEntries, err := h.Store.FindByOwner(ctx, "emp-bob")
	require.NoError(t, err)
	require.Len(t, bobEntries, 1)
	assert.Equal(t, timesheet.StatusRejected, bobEntries[0].Status)
	assert.Equal(t, generic.Period{
		Start: generic.NewTimePoint(2025, time.March, 2),
		End:   generic.NewTimePoint(2025, time.March, 8),
	}.Label(), bobEntries[0].Window.Label())

	note, err := h.Store.FindNote(ctx, "emp-bob", bobEntries[0].Window)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "Please log the rest of the week.", note.Message)

	notifications, err := h.Store.ListNotifications(ctx, "emp-bob", true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, timesheet.LevelWarning, notifications[0].Level)

	// AND: The dubai holiday applies to Alice but not Bob
	isHoliday, err := h.Store.IsHoliday(ctx, "dubai", generic.NewTimePoint(2026, time.December, 2))
	require.NoError(t, err)
	assert.True(t, isHoliday)
	isHoliday, err = h.Store.IsHoliday(ctx, "london", generic.NewTimePoint(2026, time.December, 2))
	require.NoError(t, err)
	assert.False(t, isHoliday)
}

func TestScenario_MonthBoundary(t *testing.T) {
	h, _ := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, LoadScenario(ctx, h.Store, h.Service, "month-boundary", scenarioRef))

	entries, err := h.Store.FindByOwner(ctx, "emp-alice")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byStart := make(map[string]timesheet.Entry)
	for _, e := range entries {
		byStart[e.Window.Start.String()] = e
	}

	feb := byStart["2025-02-23"]
	assert.Equal(t, "2025-02-28", feb.Window.End.String())
	assert.Equal(t, timesheet.StatusAccepted, feb.Status)

	sat := byStart["2025-03-01"]
	assert.Equal(t, "2025-03-01", sat.Window.End.String())
	assert.Equal(t, timesheet.StatusSubmitted, sat.Status)
	assert.Len(t, sat.DaySheet, 1)

	mar := byStart["2025-03-02"]
	assert.Equal(t, "2025-03-08", mar.Window.End.String())
	assert.Equal(t, timesheet.StatusSaved, mar.Status)
}

func TestScenario_ReloadResets(t *testing.T) {
	h, _ := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, LoadScenario(ctx, h.Store, h.Service, "small-team", scenarioRef))
	require.NoError(t, LoadScenario(ctx, h.Store, h.Service, "small-team", scenarioRef))

	entries, err := h.Store.FindByOwner(ctx, "emp-alice")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestScenario_Unknown(t *testing.T) {
	h, _ := newTestServer(t)

	err := LoadScenario(context.Background(), h.Store, h.Service, "nope", scenarioRef)

	assert.True(t, errors.Is(err, generic.ErrNotFound))
}

func TestScenarioEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	rec, env := call(t, router, anon, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]ScenarioDTO](t, env), len(Scenarios))

	rec, env = call(t, router, anon, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No scenario loaded", env.Message)

	rec, env = call(t, router, root, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "month-boundary"})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	_, env = call(t, router, anon, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "month-boundary", decodeData[ScenarioDTO](t, env).ID)

	rec, _ = call(t, router, root, http.MethodPost, "/api/scenarios/load", map[string]any{"scenario_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = call(t, router, root, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, env = call(t, router, anon, http.MethodGet, "/api/employees", nil)
	assert.Empty(t, decodeData[[]EmployeeDTO](t, env))
}

func TestReminderScheduler_RunNow(t *testing.T) {
	// GIVEN: Alice's saved week in the scenario sits before the reference week
	h, _ := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, LoadScenario(ctx, h.Store, h.Service, "month-boundary", scenarioRef))

	rs := NewReminderScheduler(h.Service, time.UTC)

	// WHEN: Running the check twice
	first, err := rs.RunNow(ctx)
	require.NoError(t, err)
	second, err := rs.RunNow(ctx)
	require.NoError(t, err)

	// THEN: The open March week is reminded once
	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.Skipped)

	last, res := rs.LastRun()
	assert.False(t, last.IsZero())
	assert.Equal(t, second, res)

	// one success for the accepted February week, one reminder
	notifications, err := h.Store.ListNotifications(ctx, "emp-alice", true)
	require.NoError(t, err)
	levels := make(map[timesheet.NotificationLevel]int)
	for _, n := range notifications {
		levels[n.Level]++
	}
	assert.Equal(t, map[timesheet.NotificationLevel]int{
		timesheet.LevelSuccess: 1,
		timesheet.LevelWarning: 1,
	}, levels)
}
