/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the timesheet domain via a JSON API. Handles HTTP request and
  response, JSON serialization, and delegates to the timesheet.Service.

ENDPOINTS:
  Timesheets (acting user required):
    POST   /api/timesheets/save         Save day sheets (create or update)
    POST   /api/timesheets/submit       Submit saved timesheets
    POST   /api/timesheets/weekly       Weekly view with densified days
    POST   /api/timesheets/due          Open hours per date + TOTAL row
    POST   /api/timesheets/manage       Accept/reject one timesheet
    POST   /api/timesheets/manage-all   Accept/reject a user's week
    POST   /api/timesheets/report       Project/employee reports (JSON)
    POST   /api/timesheets/report.pdf   Same report as PDF
    POST   /api/timesheets/snapshot     Status counts for a month
    DELETE /api/timesheets/{id}         Delete own editable timesheet

  Catalog (see catalog.go):
    /api/employees, /api/projects, /api/task-categories, /api/holidays,
    /api/notifications, /api/weeks

  Scenarios (see scenarios.go):
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario

REQUEST FLOW:
  1. Decode JSON body
  2. Validate tags (validator/v10)
  3. Convert to domain request
  4. Call timesheet.Service
  5. Write envelope

ERROR HANDLING:
  Every response is {status, message, data, errors?}. Errors map by category:
  - validation:   400 or 422 depending on the operation
  - unauthorized: 403
  - not found:    404
  - conflict:     409 (immutable entry, closed project, lost update)
  - anything else 500, logged with the request id

SEE ALSO:
  - dto.go: Request/response data structures
  - middleware.go: Acting user headers
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/report/pdf"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	Service         *timesheet.Service
	DefaultLocation *time.Location

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler wires the timesheet service on top of the store.
func NewHandler(store *sqlite.Store, policy timesheet.Policy, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Store:           store,
		Service:         NewService(store, policy),
		DefaultLocation: loc,
		validate:        newValidator(),
	}
}

// NewService builds a timesheet.Service backed entirely by the store.
func NewService(store *sqlite.Store, policy timesheet.Policy) *timesheet.Service {
	return timesheet.NewService(timesheet.Deps{
		Entries:   store,
		Notes:     store,
		Directory: store,
		Notifier:  store,
		Holidays:  store,
		Reminders: store,
		Policy:    policy,
	})
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// SaveTimesheets saves a batch of day sheets.
// POST /api/timesheets/save
func (h *Handler) SaveTimesheets(w http.ResponseWriter, r *http.Request) {
	var req SaveTimesheetsRequest
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	items, err := req.toDomain()
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	saved, err := h.Service.Approvals.Save(r.Context(), actor(r), items)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	ok(w, http.StatusOK, "Timesheets saved", toEntryDTOs(saved))
}

// SubmitTimesheets submits saved timesheets for approval.
// POST /api/timesheets/submit
func (h *Handler) SubmitTimesheets(w http.ResponseWriter, r *http.Request) {
	var req SubmitTimesheetsRequest
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	submitted, err := h.Service.Approvals.Submit(r.Context(), actor(r), req.Timesheets)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	ok(w, http.StatusOK, "Timesheets submitted", toEntryDTOs(submitted))
}

// WeeklyTimesheets returns the caller's week.
// POST /api/timesheets/weekly
func (h *Handler) WeeklyTimesheets(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if err := h.decode(r, &req, true); err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	rng, err := req.toDomain()
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	view, err := h.Service.Weekly(r.Context(), actor(r), rng)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	ok(w, http.StatusOK, "Weekly timesheets", toWeeklyResponse(view))
}

// DueTimesheets returns hours not yet submitted, per date.
// POST /api/timesheets/due
func (h *Handler) DueTimesheets(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if err := h.decode(r, &req, true); err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	rng, err := req.toDomain()
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	due, err := h.Service.Due(r.Context(), actor(r), rng)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	ok(w, http.StatusOK, "Due timesheets", toDueResponse(due))
}

// ManageTimesheet accepts or rejects one submitted timesheet.
// POST /api/timesheets/manage
func (h *Handler) ManageTimesheet(w http.ResponseWriter, r *http.Request) {
	var req ManageRequest
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	updated, err := h.Service.Approvals.Manage(r.Context(), actor(r), req.TimesheetID, timesheet.Status(req.State), req.Notes)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	ok(w, http.StatusOK, fmt.Sprintf("Timesheet %s", updated.Status), toEntryDTO(*updated))
}

// ManageAllTimesheets applies one decision to a user's whole week.
// POST /api/timesheets/manage-all
func (h *Handler) ManageAllTimesheets(w http.ResponseWriter, r *http.Request) {
	var req ManageAllRequest
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	res, err := h.Service.Approvals.ManageAll(r.Context(), actor(r), timesheet.ManageAllRequest{
		TimesheetID: req.TimesheetID,
		UserID:      req.UserID,
		Status:      timesheet.Status(req.Status),
		Notes:       req.Notes,
	})
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	ok(w, http.StatusOK, fmt.Sprintf("%d timesheets %s", len(res.Updated), req.Status), ManageAllResponse{
		Window:  toWindowDTO(res.Window),
		Updated: toEntryDTOs(res.Updated),
	})
}

// TimesheetReport runs a project or employee report.
// POST /api/timesheets/report
func (h *Handler) TimesheetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.runReport(r)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	ok(w, http.StatusOK, "Timesheet report", NewReportDTO(report))
}

// TimesheetReportPDF renders the same report as a PDF download.
// POST /api/timesheets/report.pdf
func (h *Handler) TimesheetReportPDF(w http.ResponseWriter, r *http.Request) {
	report, err := h.runReport(r)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		fmt.Sprintf("%s_%s_%s.pdf", report.Kind, report.Range.Start, report.Range.End)))
	if err := pdf.Render(w, *report, time.Now()); err != nil {
		log.Printf("[API] %s: render pdf: %v", middleware.GetReqID(r.Context()), err)
	}
}

func (h *Handler) runReport(r *http.Request) (*timesheet.Report, error) {
	var req ReportRequest
	if err := h.decode(r, &req, false); err != nil {
		return nil, err
	}
	q, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	return h.Service.Report(r.Context(), actor(r), q)
}

// TimesheetSnapshot counts the caller's timesheets per status.
// POST /api/timesheets/snapshot
func (h *Handler) TimesheetSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := h.decode(r, &req, true); err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	snap, err := h.Service.Snapshot(r.Context(), actor(r), req.Year, req.Month)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	ok(w, http.StatusOK, "Timesheet snapshot", SnapshotDTO{
		Month:      toWindowDTO(snap.Month),
		Counts:     toCountsDTO(snap.Counts),
		Week:       toWindowDTO(snap.Week),
		WeekCounts: toCountsDTO(snap.WeekCounts),
	})
}

// DeleteTimesheet removes the caller's own editable timesheet.
// DELETE /api/timesheets/{id}
func (h *Handler) DeleteTimesheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Approvals.Delete(r.Context(), actor(r), id); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	ok(w, http.StatusOK, "Timesheet deleted", map[string]string{"id": id})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads the JSON body into dst and runs tag validation.
// With allowEmpty, an empty body is the zero request.
func (h *Handler) decode(r *http.Request, dst any, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return generic.NewFieldError("body", "request body is required")
		}
		return generic.NewFieldError("body", "invalid JSON: "+err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		return validationErrors(err)
	}
	return nil
}

// statusFor maps an error category to an HTTP status. validationStatus is
// the operation's status for malformed input.
func statusFor(err error, validationStatus int) int {
	var unknown *timesheet.UnknownReportError
	switch {
	case errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.Is(err, generic.ErrValidation):
		return validationStatus
	case errors.Is(err, generic.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, generic.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, validationStatus int) {
	status := statusFor(err, validationStatus)
	env := Envelope{Message: err.Error(), Data: []any{}}
	if generic.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	if !generic.IsClientError(err) {
		log.Printf("[API] %s %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		env.Message = "internal error"
	}
	if fields := generic.Fields(err); len(fields) > 0 {
		env.Errors = fields
	}
	writeEnvelope(w, status, env)
}

func ok(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, Envelope{Status: true, Message: message, Data: data})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
