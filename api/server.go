/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. WithActor:  X-User-* headers -> acting user

ROUTE GROUPS:
  /api/timesheets/*     Timesheet workflow (acting user required)
  /api/weeks            Week calculator
  /api/employees        Directory
  /api/projects         Directory
  /api/task-categories  Directory
  /api/holidays/*       Holiday calendar
  /api/notifications/*  Caller's notifications (acting user required)
  /api/scenarios/*      Demo scenarios
  /*                    Static files (frontend), or an endpoint index

SECURITY NOTE:
  The acting user is taken from headers set by an upstream gateway.
  Nothing here verifies them.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Acting user headers
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. An empty
// origins list allows any origin.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type",
			HeaderUserID, HeaderRole, HeaderLocation, HeaderTimezone,
		},
		ExposedHeaders: []string{"Content-Disposition"},
	}))
	r.Use(h.WithActor)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Timesheet routes
		r.Route("/timesheets", func(r chi.Router) {
			r.Use(RequireActor)
			r.Post("/save", h.SaveTimesheets)
			r.Post("/submit", h.SubmitTimesheets)
			r.Post("/weekly", h.WeeklyTimesheets)
			r.Post("/due", h.DueTimesheets)
			r.Post("/manage", h.ManageTimesheet)
			r.Post("/manage-all", h.ManageAllTimesheets)
			r.Post("/report", h.TimesheetReport)
			r.Post("/report.pdf", h.TimesheetReportPDF)
			r.Post("/snapshot", h.TimesheetSnapshot)
			r.Delete("/{id}", h.DeleteTimesheet)
		})

		r.Get("/weeks", h.GetWeek)

		// Directory routes. Reads are open, writes need an admin.
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.With(RequireAdmin).Post("/", h.CreateEmployee)
		})
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.With(RequireAdmin).Post("/", h.CreateProject)
		})
		r.Route("/task-categories", func(r chi.Router) {
			r.Get("/", h.ListTaskCategories)
			r.With(RequireAdmin).Post("/", h.CreateTaskCategory)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.With(RequireAdmin).Post("/", h.CreateHoliday)
			r.With(RequireAdmin).Delete("/{id}", h.DeleteHoliday)
		})

		// Notification routes
		r.Route("/notifications", func(r chi.Router) {
			r.Use(RequireActor)
			r.Get("/", h.ListNotifications)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.With(RequireAdmin).Post("/load", h.LoadScenario)
			r.With(RequireAdmin).Post("/reset", h.ResetDatabase)
		})
	})

	// Serve static files
	// First try ./web/dist (development), then next to the executable
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Timesheet Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Timesheet Engine API</h1>
<p>Timesheet endpoints need an <code>X-User-ID</code> header.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/weeks">/api/weeks</a> - Current week window</li>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/projects">/api/projects</a> - List projects</li>
<li><a href="/api/holidays">/api/holidays</a> - List holidays</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
