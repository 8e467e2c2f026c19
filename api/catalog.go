package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// DIRECTORY ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, generic.Internal("list employees", err), http.StatusBadRequest)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	ok(w, http.StatusOK, "Employees", dtos)
}

// CreateEmployee creates or updates an employee.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeDTO
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	role, _ := timesheet.ParseRole(req.Role)
	emp := timesheet.Employee{
		ID:       strings.TrimSpace(req.ID),
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Location: strings.TrimSpace(req.Location),
		Role:     role,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, r, generic.Internal("save employee", err), http.StatusBadRequest)
		return
	}
	ok(w, http.StatusCreated, "Employee saved", toEmployeeDTO(emp))
}

// ListProjects returns all projects.
// GET /api/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		h.fail(w, r, generic.Internal("list projects", err), http.StatusBadRequest)
		return
	}
	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, toProjectDTO(p))
	}
	ok(w, http.StatusOK, "Projects", dtos)
}

// CreateProject creates or updates a project. Closing a project blocks
// further submissions against it.
// POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectDTO
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	p := timesheet.Project{
		ID:     strings.TrimSpace(req.ID),
		Name:   strings.TrimSpace(req.Name),
		Client: strings.TrimSpace(req.Client),
		Status: timesheet.ProjectStatus(req.Status),
	}
	if p.Status == "" {
		p.Status = timesheet.ProjectActive
	}
	if err := h.Store.SaveProject(r.Context(), p); err != nil {
		h.fail(w, r, generic.Internal("save project", err), http.StatusBadRequest)
		return
	}
	ok(w, http.StatusCreated, "Project saved", toProjectDTO(p))
}

// ListTaskCategories returns all task categories.
// GET /api/task-categories
func (h *Handler) ListTaskCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListTaskCategories(r.Context())
	if err != nil {
		h.fail(w, r, generic.Internal("list task categories", err), http.StatusBadRequest)
		return
	}
	dtos := make([]TaskCategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, TaskCategoryDTO{ID: c.ID, Name: c.Name})
	}
	ok(w, http.StatusOK, "Task categories", dtos)
}

// CreateTaskCategory creates or updates a task category.
// POST /api/task-categories
func (h *Handler) CreateTaskCategory(w http.ResponseWriter, r *http.Request) {
	var req TaskCategoryDTO
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	c := timesheet.TaskCategory{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name)}
	if err := h.Store.SaveTaskCategory(r.Context(), c); err != nil {
		h.fail(w, r, generic.Internal("save task category", err), http.StatusBadRequest)
		return
	}
	ok(w, http.StatusCreated, "Task category saved", TaskCategoryDTO{ID: c.ID, Name: c.Name})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns holidays for a location plus global ones.
// GET /api/holidays?location=dubai
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	holidays, err := h.Store.ListHolidays(r.Context(), location)
	if err != nil {
		h.fail(w, r, generic.Internal("list holidays", err), http.StatusBadRequest)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	ok(w, http.StatusOK, "Holidays", dtos)
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := h.decode(r, &req, false); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	date, err := generic.ParseDate("date", req.Date)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	holiday := generic.Holiday{
		ID:        strings.TrimSpace(req.ID),
		Location:  strings.TrimSpace(req.Location),
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	}
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		h.fail(w, r, generic.Internal("save holiday", err), http.StatusBadRequest)
		return
	}
	ok(w, http.StatusCreated, "Holiday saved", toHolidayDTO(holiday))
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		h.fail(w, r, generic.Internal("delete holiday", err), http.StatusBadRequest)
		return
	}
	ok(w, http.StatusOK, "Holiday deleted", map[string]string{"id": id})
}

// =============================================================================
// NOTIFICATION ENDPOINTS
// =============================================================================

// ListNotifications returns the caller's notifications, newest first.
// GET /api/notifications?unread=true
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unread := r.URL.Query().Get("unread") == "true"

	notifications, err := h.Store.ListNotifications(r.Context(), actor(r).ID, unread)
	if err != nil {
		h.fail(w, r, generic.Internal("list notifications", err), http.StatusBadRequest)
		return
	}
	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, toNotificationDTO(n))
	}
	ok(w, http.StatusOK, "Notifications", dtos)
}

// MarkNotificationRead flags one of the caller's notifications as read.
// POST /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.MarkNotificationRead(r.Context(), actor(r).ID, id); err != nil {
		h.fail(w, r, generic.Internal("mark notification read", err), http.StatusBadRequest)
		return
	}
	ok(w, http.StatusOK, "Notification marked read", map[string]string{"id": id})
}

// =============================================================================
// WEEK CALCULATOR ENDPOINT
// =============================================================================

// GetWeek returns the canonical window, full week and neighbours of a date.
// With dir=prev|next it pages to the adjacent canonical window first.
// GET /api/weeks?date=2025-03-01&dir=next
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	day := generic.TodayIn(h.DefaultLocation)
	if a, found := ActorFrom(r.Context()); found {
		day = a.Today()
	}
	if raw != "" {
		var err error
		if day, err = generic.ParseDate("date", raw); err != nil {
			h.fail(w, r, err, http.StatusBadRequest)
			return
		}
	}

	window := generic.WeekRange(day)
	if raw := r.URL.Query().Get("dir"); raw != "" {
		dir, err := generic.ParseDirection(raw)
		if err != nil {
			h.fail(w, r, err, http.StatusBadRequest)
			return
		}
		window = generic.ShiftWeek(window, dir)
		day = window.Start
	}
	ok(w, http.StatusOK, "Week", WeekDTO{
		Date:     day.String(),
		Window:   toWindowDTO(window),
		FullWeek: toWindowDTO(generic.FullWeek(day)),
		Previous: toWindowDTO(generic.ShiftWeek(window, generic.DirectionPrev)),
		Next:     toWindowDTO(generic.ShiftWeek(window, generic.DirectionNext)),
	})
}
