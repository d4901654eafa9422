package server

import (
	"context"

	"github.com/example/court-reservation/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	dayParamContextKey  contextKey = "day_param"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithDayParam injects the raw day segment resolved from the request path.
func ContextWithDayParam(ctx context.Context, day string) context.Context {
	return context.WithValue(ctx, dayParamContextKey, day)
}

// DayParamFromContext extracts a day segment previously associated with the context.
func DayParamFromContext(ctx context.Context) (string, bool) {
	day, ok := ctx.Value(dayParamContextKey).(string)
	return day, ok
}
