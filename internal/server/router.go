package server

import (
	"context"
	"strings"

	"github.com/example/court-reservation/internal/httpwire"
)

// HandlerFunc processes one framed request and produces the response to
// serialize back onto the connection.
type HandlerFunc func(ctx context.Context, req *httpwire.Request) *httpwire.Response

type route struct {
	method       string
	segments     []string
	requiresAuth bool
	handler      HandlerFunc
}

// Router resolves (method, path) pairs against the fixed endpoint table,
// distinguishing unknown paths from known paths hit with the wrong method.
type Router struct {
	routes []route
}

// NewRouter builds the endpoint table for the reservation protocol.
func NewRouter(h *Handlers) *Router {
	return &Router{routes: []route{
		{method: "POST", segments: []string{"login"}, handler: h.Login},
		{method: "POST", segments: []string{"logout"}, requiresAuth: true, handler: h.Logout},
		{method: "GET", segments: []string{"schedule"}, requiresAuth: true, handler: h.WeekSchedule},
		{method: "GET", segments: []string{"schedule", "{day}"}, requiresAuth: true, handler: h.DaySchedule},
		{method: "GET", segments: []string{"reservations"}, requiresAuth: true, handler: h.MyReservations},
		{method: "POST", segments: []string{"reservations"}, requiresAuth: true, handler: h.MakeReservation},
		{method: "DELETE", segments: []string{"reservations", "{day}"}, requiresAuth: true, handler: h.CancelReservation},
	}}
}

// Resolution is the outcome of matching a request against the route table.
type Resolution struct {
	Handler      HandlerFunc
	RequiresAuth bool
	DayParam     string
	Allowed      []string
	NotFound     bool
}

// Resolve matches a method and path. When only the method differs from an
// existing route, Allowed lists the acceptable methods for a 405.
func (r *Router) Resolve(method, path string) Resolution {
	segments := splitPath(path)

	var allowed []string
	for _, candidate := range r.routes {
		day, ok := matchSegments(candidate.segments, segments)
		if !ok {
			continue
		}
		if candidate.method != method {
			allowed = append(allowed, candidate.method)
			continue
		}
		return Resolution{
			Handler:      candidate.handler,
			RequiresAuth: candidate.requiresAuth,
			DayParam:     day,
		}
	}

	if len(allowed) > 0 {
		return Resolution{Allowed: allowed}
	}
	return Resolution{NotFound: true}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern, segments []string) (day string, ok bool) {
	if len(pattern) != len(segments) {
		return "", false
	}
	for i, part := range pattern {
		if part == "{day}" {
			if segments[i] == "" {
				return "", false
			}
			day = segments[i]
			continue
		}
		if part != segments[i] {
			return "", false
		}
	}
	return day, true
}
