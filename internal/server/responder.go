package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/court-reservation/internal/application"
	"github.com/example/court-reservation/internal/httpwire"
	"github.com/example/court-reservation/internal/logging"
)

// Stable machine-readable reason codes carried in every error body.
const (
	codeBadRequest         = "BAD_REQUEST"
	codeMalformedRequest   = "MALFORMED_REQUEST"
	codeUnauthorized       = "UNAUTHORIZED"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	codeDayLimit           = "DAY_LIMIT"
	codeSlotTaken          = "SLOT_TAKEN"
	codeNoReservation      = "NO_RESERVATION"
	codeInternal           = "INTERNAL"
)

type errorResponse struct {
	ErrorCode string            `json:"error_code"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) json(ctx context.Context, status int, payload any) *httpwire.Response {
	resp, err := httpwire.NewJSONResponse(status, payload)
	if err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
		resp, _ = httpwire.NewJSONResponse(500, errorResponse{ErrorCode: codeInternal, Message: "internal server error"})
	}
	return resp
}

func (r responder) error(ctx context.Context, status int, code, message string) *httpwire.Response {
	return r.json(ctx, status, errorResponse{ErrorCode: code, Message: message})
}

// serviceError maps application sentinels and validation errors to protocol
// status codes and reason codes.
func (r responder) serviceError(ctx context.Context, err error) *httpwire.Response {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return r.error(ctx, 401, codeInvalidCredentials, "invalid username or password")
	case errors.Is(err, application.ErrUnauthorized),
		errors.Is(err, application.ErrSessionExpired),
		errors.Is(err, application.ErrSessionRevoked):
		return r.error(ctx, 401, codeUnauthorized, "invalid or expired token, please login again")
	case errors.Is(err, application.ErrAlreadyBookedToday):
		return r.error(ctx, 409, codeDayLimit, "you already hold a reservation on that day")
	case errors.Is(err, application.ErrSlotTaken):
		return r.error(ctx, 409, codeSlotTaken, "that slot is already reserved")
	case errors.Is(err, application.ErrNoReservation):
		return r.error(ctx, 404, codeNoReservation, "you have no reservation on that day")
	case errors.Is(err, application.ErrNotFound):
		return r.error(ctx, 404, codeNotFound, "resource not found")
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		return r.json(ctx, 400, errorResponse{
			ErrorCode: codeBadRequest,
			Message:   "request validation failed",
			Errors:    vErr.FieldErrors,
		})
	}

	r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
	return r.error(ctx, 500, codeInternal, "internal server error")
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}
