package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// ACTING USER
// =============================================================================

// Request headers describing the caller. Authentication happens upstream;
// the gateway forwards who the caller is.
const (
	HeaderUserID   = "X-User-ID"
	HeaderRole     = "X-User-Role"
	HeaderLocation = "X-User-Location"
	HeaderTimezone = "X-Timezone"
)

type actorKey struct{}

// WithActor parses the caller headers into a timesheet.ActingUser.
// A missing X-User-ID leaves the context without an actor; RequireActor
// rejects those requests on routes that need one.
func (h *Handler) WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		var errs generic.ValidationErrors
		role, err := timesheet.ParseRole(r.Header.Get(HeaderRole))
		if err != nil {
			errs = errs.Add(HeaderRole, "role must be employee, approver or admin")
		}
		loc := h.DefaultLocation
		if tz := strings.TrimSpace(r.Header.Get(HeaderTimezone)); tz != "" {
			if loc, err = time.LoadLocation(tz); err != nil {
				errs = errs.Add(HeaderTimezone, "unknown timezone "+tz)
			}
		}
		if err := errs.OrNil(); err != nil {
			h.fail(w, r, err, http.StatusBadRequest)
			return
		}

		actor := timesheet.ActingUser{
			ID:       id,
			Role:     role,
			Location: strings.TrimSpace(r.Header.Get(HeaderLocation)),
			Timezone: loc,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

// RequireActor answers 401 when the request carries no acting user.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r.Context()); !ok {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{
				Message: "missing " + HeaderUserID + " header",
				Data:    []any{},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 401 without an acting user and 403 for anyone but an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireActor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a := actor(r); !a.IsAdmin() {
			writeEnvelope(w, http.StatusForbidden, Envelope{
				Message: "admin role required",
				Data:    []any{},
			})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// ActorFrom returns the acting user stored by WithActor.
func ActorFrom(ctx context.Context) (timesheet.ActingUser, bool) {
	a, ok := ctx.Value(actorKey{}).(timesheet.ActingUser)
	return a, ok
}

func actor(r *http.Request) timesheet.ActingUser {
	a, _ := ActorFrom(r.Context())
	return a
}
