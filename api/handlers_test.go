/*
handlers_test.go - HTTP tests for the timesheet API

Tests drive the full router (middleware included) against an in-memory
SQLite store:
- Acting user headers (401 / 400)
- Save -> weekly -> submit -> manage flow
- Error mapping (403, 404, 409, 400 vs 422)
- Reports (JSON and PDF), week calculator, holidays, notifications
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type testEnvelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type caller struct {
	id, role, location string
}

var (
	alice = caller{id: "emp-alice", role: "employee", location: "dubai"}
	bob   = caller{id: "emp-bob", role: "employee", location: "london"}
	lena  = caller{id: "emp-lena", role: "approver", location: "dubai"}
	root  = caller{id: "ops-root", role: "admin"}
	anon  = caller{}
)

func newTestServer(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveProject(ctx, timesheet.Project{ID: "proj-apollo", Name: "Apollo", Status: timesheet.ProjectActive}))
	require.NoError(t, store.SaveProject(ctx, timesheet.Project{ID: "proj-legacy", Name: "Legacy", Status: timesheet.ProjectClosed}))
	require.NoError(t, store.SaveTaskCategory(ctx, timesheet.TaskCategory{ID: "cat-dev", Name: "Development"}))
	require.NoError(t, store.SaveEmployee(ctx, timesheet.Employee{ID: alice.id, Name: "Alice Smith", Location: alice.location}))

	h := NewHandler(store, timesheet.DefaultPolicy(), time.UTC)
	return h, NewRouter(h, nil)
}

func call(t *testing.T, router http.Handler, c caller, method, path string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.id != "" {
		req.Header.Set(HeaderUserID, c.id)
		req.Header.Set(HeaderRole, c.role)
		req.Header.Set(HeaderLocation, c.location)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// saveMarchWeek saves alice's Apollo hours for the 2025-03-02 .. 2025-03-08 window.
func saveMarchWeek(t *testing.T, router http.Handler) EntryDTO {
	t.Helper()
	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/save", map[string]any{
		"timesheets": []map[string]any{{
			"project_id":       "proj-apollo",
			"task_category_id": "cat-dev",
			"task_detail":      "Checkout API",
			"passedDate":       "2025-03-05",
			"data_sheet": []map[string]any{
				{"date": "2025-03-03", "hours": "8"},
				{"date": "2025-03-04", "hours": 7.5},
			},
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	saved := decodeData[[]EntryDTO](t, env)
	require.Len(t, saved, 1)
	return saved[0]
}

func submit(t *testing.T, router http.Handler, ids ...string) {
	t.Helper()
	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/submit", map[string]any{"timesheets": ids})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
}

// =============================================================================
// ACTING USER
// =============================================================================

func TestTimesheets_RequireActor(t *testing.T) {
	// GIVEN: A request without X-User-ID
	_, router := newTestServer(t)

	// WHEN: Calling a timesheet endpoint
	rec, env := call(t, router, anon, http.MethodPost, "/api/timesheets/weekly", nil)

	// THEN: 401 with a failed envelope
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestWithActor_InvalidRole(t *testing.T) {
	_, router := newTestServer(t)

	rec, env := call(t, router, caller{id: "emp-x", role: "boss"}, http.MethodPost, "/api/timesheets/weekly", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, HeaderRole)
}

func TestWithActor_InvalidTimezone(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/timesheets/weekly", nil)
	req.Header.Set(HeaderUserID, alice.id)
	req.Header.Set(HeaderTimezone, "Mars/Olympus_Mons")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SAVE / WEEKLY / SUBMIT / MANAGE
// =============================================================================

func TestSave_DerivesCanonicalWindow(t *testing.T) {
	_, router := newTestServer(t)

	saved := saveMarchWeek(t, router)

	assert.Equal(t, "2025-03-02", saved.WeekStart)
	assert.Equal(t, "2025-03-08", saved.WeekEnd)
	assert.Equal(t, string(timesheet.StatusSaved), saved.Status)
	assert.Len(t, saved.DataSheet, 2)
}

func TestSave_ValidationIs400(t *testing.T) {
	_, router := newTestServer(t)

	// missing project and category without a timesheet id
	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/save", map[string]any{
		"timesheets": []map[string]any{{"task_detail": "nothing"}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Status)
	assert.NotEmpty(t, env.Errors)
}

func TestSave_UnknownProjectIs404(t *testing.T) {
	_, router := newTestServer(t)

	rec, _ := call(t, router, alice, http.MethodPost, "/api/timesheets/save", map[string]any{
		"timesheets": []map[string]any{{
			"project_id":       "proj-missing",
			"task_category_id": "cat-dev",
			"passedDate":       "2025-03-05",
		}},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWeekly_DensifiesFullWeek(t *testing.T) {
	_, router := newTestServer(t)
	saveMarchWeek(t, router)

	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/weekly", map[string]any{
		"startDate": "2025-03-02",
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	view := decodeData[WeeklyResponse](t, env)
	require.Len(t, view.Data, 1)
	assert.Len(t, view.Data[0].DataSheet, 7)
	assert.Len(t, view.WeekDates, 7)
	assert.Equal(t, "2025-03-02", view.DateRange.StartDate)
	assert.Equal(t, "2025-03-08", view.DateRange.EndDate)
	// the previous window is the one-day Saturday at the start of March
	assert.Equal(t, "2025-03-01", view.Previous.StartDate)
	assert.Equal(t, "2025-03-01", view.Previous.EndDate)
	assert.Equal(t, "15.5", view.Data[0].TotalHours.String())
	assert.Nil(t, view.RejectionNote)
}

func TestWeekly_BadDateIs422(t *testing.T) {
	_, router := newTestServer(t)

	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/weekly", map[string]any{
		"startDate": "not-a-date",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "startDate")
}

func TestSubmitThenReject_StoresNoteAndNotifies(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)
	submit(t, router, saved.ID)

	// WHEN: An approver rejects without notes
	rec, env := call(t, router, lena, http.MethodPost, "/api/timesheets/manage", map[string]any{
		"timesheetid": saved.ID, "state": "rejected",
	})
	// THEN: 422 on notes
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "notes")

	// WHEN: Rejecting with notes
	rec, env = call(t, router, lena, http.MethodPost, "/api/timesheets/manage", map[string]any{
		"timesheetid": saved.ID, "state": "rejected", "notes": "Missing Friday",
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.Equal(t, string(timesheet.StatusRejected), decodeData[EntryDTO](t, env).Status)

	// THEN: The weekly view carries the note
	_, env = call(t, router, alice, http.MethodPost, "/api/timesheets/weekly", map[string]any{"startDate": "2025-03-04"})
	view := decodeData[WeeklyResponse](t, env)
	require.NotNil(t, view.RejectionNote)
	assert.Equal(t, "Missing Friday", view.RejectionNote.Message)

	// AND: Alice got a warning notification
	rec, env = call(t, router, alice, http.MethodGet, "/api/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decodeData[[]NotificationDTO](t, env)
	require.Len(t, notes, 1)
	assert.Equal(t, string(timesheet.LevelWarning), notes[0].Level)

	// AND: Marking it read empties the unread list
	rec, _ = call(t, router, alice, http.MethodPost, "/api/notifications/"+notes[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, env = call(t, router, alice, http.MethodGet, "/api/notifications?unread=true", nil)
	assert.Empty(t, decodeData[[]NotificationDTO](t, env))
}

func TestManage_EmployeeIsForbidden(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)
	submit(t, router, saved.ID)

	rec, env := call(t, router, bob, http.MethodPost, "/api/timesheets/manage", map[string]any{
		"timesheetid": saved.ID, "state": "accepted",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Status)
}

func TestManage_NotSubmittedIsConflict(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)

	rec, _ := call(t, router, lena, http.MethodPost, "/api/timesheets/manage", map[string]any{
		"timesheetid": saved.ID, "state": "accepted",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestManageAll_AcceptsWeek(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)
	submit(t, router, saved.ID)

	rec, env := call(t, router, lena, http.MethodPost, "/api/timesheets/manage-all", map[string]any{
		"timesheetid": saved.ID, "userid": alice.id, "status": "accepted",
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	res := decodeData[ManageAllResponse](t, env)
	assert.Equal(t, "2025-03-02", res.Window.StartDate)
	require.Len(t, res.Updated, 1)
	assert.Equal(t, string(timesheet.StatusAccepted), res.Updated[0].Status)

	// a second pass has nothing submitted left
	rec, _ = call(t, router, lena, http.MethodPost, "/api/timesheets/manage-all", map[string]any{
		"timesheetid": saved.ID, "userid": alice.id, "status": "accepted",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSave_SubmittedEntryIsConflict(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)
	submit(t, router, saved.ID)

	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/save", map[string]any{
		"timesheets": []map[string]any{{
			"timesheetId": saved.ID,
			"data_sheet":  []map[string]any{{"date": "2025-03-05", "hours": "2"}},
		}},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Status)
}

func TestSubmit_ClosedProjectIsConflict(t *testing.T) {
	h, router := newTestServer(t)
	saved := saveMarchWeek(t, router)

	require.NoError(t, h.Store.SaveProject(context.Background(), timesheet.Project{
		ID: "proj-apollo", Name: "Apollo", Status: timesheet.ProjectClosed,
	}))
	rec, _ := call(t, router, alice, http.MethodPost, "/api/timesheets/submit", map[string]any{"timesheets": []string{saved.ID}})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteTimesheet(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)

	// someone else's entry
	rec, _ := call(t, router, bob, http.MethodDelete, "/api/timesheets/"+saved.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = call(t, router, alice, http.MethodDelete, "/api/timesheets/"+saved.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, router, alice, http.MethodDelete, "/api/timesheets/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// DUE / REPORTS / SNAPSHOT
// =============================================================================

func TestDue_RowsPerDatePlusTotal(t *testing.T) {
	_, router := newTestServer(t)
	saveMarchWeek(t, router)

	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/due", map[string]any{
		"startDate": "2025-03-02", "endDate": "2025-03-08",
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	due := decodeData[DueResponse](t, env)
	require.Len(t, due.Rows, 8)
	last := due.Rows[len(due.Rows)-1]
	assert.Equal(t, timesheet.TotalLabel, last.Date)
	assert.Equal(t, "15.5", last.Hours.String())
	assert.Equal(t, "8", due.Rows[1].Hours.String())
}

func TestReport_TabKeyErrors(t *testing.T) {
	_, router := newTestServer(t)

	rec, _ := call(t, router, lena, http.MethodPost, "/api/timesheets/report", map[string]any{"tabKey": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := call(t, router, lena, http.MethodPost, "/api/timesheets/report", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "tabKey")
}

func TestReport_ProjectSummary(t *testing.T) {
	_, router := newTestServer(t)
	saved := saveMarchWeek(t, router)
	submit(t, router, saved.ID)
	_, env := call(t, router, lena, http.MethodPost, "/api/timesheets/manage", map[string]any{
		"timesheetid": saved.ID, "state": "accepted",
	})
	require.True(t, env.Status, env.Message)

	rec, env := call(t, router, lena, http.MethodPost, "/api/timesheets/report", map[string]any{
		"tabKey": "project_summary", "year": 2025, "month": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	rep := decodeData[ReportDTO](t, env)
	require.Len(t, rep.Projects, 1)
	assert.Equal(t, "Apollo", rep.Projects[0].ProjectName)
	assert.Equal(t, "15.5", rep.TotalLogged.String())
	assert.Equal(t, "15.5", rep.TotalApproved.String())
}

func TestReport_EmployeeSeesOnlyOwnHours(t *testing.T) {
	_, router := newTestServer(t)
	saveMarchWeek(t, router)

	rec, env := call(t, router, bob, http.MethodPost, "/api/timesheets/report", map[string]any{
		"tabKey": "project_summary", "startDate": "2025-03-01", "endDate": "2025-03-31",
		"userIds": []string{alice.id},
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	rep := decodeData[ReportDTO](t, env)
	assert.Empty(t, rep.Projects)
	assert.True(t, rep.TotalLogged.IsZero())
}

func TestReportPDF(t *testing.T) {
	_, router := newTestServer(t)
	saveMarchWeek(t, router)

	rec, _ := call(t, router, lena, http.MethodPost, "/api/timesheets/report.pdf", map[string]any{
		"tabKey": "employee_detail", "startDate": "2025-03-01", "endDate": "2025-03-31",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestSnapshot_CountsStatuses(t *testing.T) {
	_, router := newTestServer(t)
	saveMarchWeek(t, router)

	rec, env := call(t, router, alice, http.MethodPost, "/api/timesheets/snapshot", map[string]any{"year": 2025, "month": 3})
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	snap := decodeData[SnapshotDTO](t, env)
	assert.Equal(t, "2025-03-01", snap.Month.StartDate)
	assert.Equal(t, "2025-03-31", snap.Month.EndDate)
	assert.Equal(t, 1, snap.Counts.Saved)
	assert.Equal(t, 0, snap.Counts.Submitted)
}

// =============================================================================
// CATALOG
// =============================================================================

func TestGetWeek(t *testing.T) {
	_, router := newTestServer(t)

	// GIVEN: Saturday 2025-03-01, first of the month
	rec, env := call(t, router, anon, http.MethodGet, "/api/weeks?date=2025-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	// THEN: One-day window, full week runs back into February
	week := decodeData[WeekDTO](t, env)
	assert.Equal(t, WindowDTO{StartDate: "2025-03-01", EndDate: "2025-03-01", Label: "2025-03-01 - 2025-03-01"}, week.Window)
	assert.Equal(t, "2025-02-23", week.FullWeek.StartDate)
	assert.Equal(t, "2025-03-01", week.FullWeek.EndDate)
	assert.Equal(t, "2025-02-23", week.Previous.StartDate)
	assert.Equal(t, "2025-02-28", week.Previous.EndDate)
	assert.Equal(t, "2025-03-02", week.Next.StartDate)
	assert.Equal(t, "2025-03-08", week.Next.EndDate)

	// WHEN: Paging forward
	_, env = call(t, router, anon, http.MethodGet, "/api/weeks?date=2025-03-01&dir=next", nil)
	week = decodeData[WeekDTO](t, env)
	assert.Equal(t, "2025-03-02", week.Window.StartDate)
	assert.Equal(t, "2025-03-08", week.Window.EndDate)

	rec, _ = call(t, router, anon, http.MethodGet, "/api/weeks?dir=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHolidays_CRUD(t *testing.T) {
	_, router := newTestServer(t)

	rec, env := call(t, router, root, http.MethodPost, "/api/holidays", map[string]any{
		"location": "dubai", "date": "2024-12-02", "name": "National Day", "recurring": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	created := decodeData[HolidayDTO](t, env)
	require.NotEmpty(t, created.ID)

	_, env = call(t, router, anon, http.MethodGet, "/api/holidays?location=dubai", nil)
	assert.Len(t, decodeData[[]HolidayDTO](t, env), 1)
	_, env = call(t, router, anon, http.MethodGet, "/api/holidays?location=london", nil)
	assert.Empty(t, decodeData[[]HolidayDTO](t, env))

	rec, _ = call(t, router, root, http.MethodDelete, "/api/holidays/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, router, root, http.MethodDelete, "/api/holidays/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDirectoryWrites_NeedAdmin(t *testing.T) {
	_, router := newTestServer(t)
	employee := map[string]any{"id": "emp-eve", "name": "Eve", "location": "dubai"}

	// GIVEN: no acting user, then an approver
	rec, _ := call(t, router, anon, http.MethodPost, "/api/employees", employee)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, env := call(t, router, lena, http.MethodPost, "/api/employees", employee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin role required", env.Message)

	rec, _ = call(t, router, alice, http.MethodPost, "/api/projects", map[string]any{"id": "proj-apollo", "name": "Apollo", "status": "closed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = call(t, router, bob, http.MethodPost, "/api/holidays", map[string]any{"date": "2025-03-04", "name": "Day off"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = call(t, router, anon, http.MethodPost, "/api/scenarios/reset", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// THEN: nothing changed, reads stay open
	rec, env = call(t, router, anon, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]EmployeeDTO](t, env), 1)
	_, env = call(t, router, anon, http.MethodGet, "/api/projects", nil)
	for _, p := range decodeData[[]ProjectDTO](t, env) {
		if p.ID == "proj-apollo" {
			assert.Equal(t, "active", p.Status)
		}
	}
}

func TestHolidays_MarkWeeklyDays(t *testing.T) {
	_, router := newTestServer(t)
	rec, _ := call(t, router, root, http.MethodPost, "/api/holidays", map[string]any{
		"location": "dubai", "date": "2025-03-04", "name": "Company Day",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env := call(t, router, alice, http.MethodPost, "/api/timesheets/weekly", map[string]any{"startDate": "2025-03-02"})
	view := decodeData[WeeklyResponse](t, env)

	require.Len(t, view.WeekDates, 7)
	assert.True(t, view.WeekDates[2].IsHoliday)
	assert.False(t, view.WeekDates[1].IsHoliday)
}

func TestDirectory_CreateAndList(t *testing.T) {
	_, router := newTestServer(t)

	rec, _ := call(t, router, root, http.MethodPost, "/api/employees", map[string]any{
		"id": "emp-bob", "name": "Bob Jones", "location": "london", "role": "approver",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, env := call(t, router, anon, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]EmployeeDTO](t, env), 2)

	rec, env = call(t, router, root, http.MethodPost, "/api/projects", map[string]any{"id": "p1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "name")

	rec, _ = call(t, router, root, http.MethodPost, "/api/task-categories", map[string]any{"id": "cat-qa", "name": "QA"})
	require.Equal(t, http.StatusCreated, rec.Code)
	_, env = call(t, router, anon, http.MethodGet, "/api/task-categories", nil)
	assert.Len(t, decodeData[[]TaskCategoryDTO](t, env), 2)
}
