package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/example/court-reservation/internal/application"
	"github.com/example/court-reservation/internal/httpwire"
	"github.com/example/court-reservation/internal/logging"
)

type authService interface {
	Login(ctx context.Context, username, password string) (application.Session, error)
	ValidateToken(ctx context.Context, token string) (application.Principal, error)
	RevokeToken(ctx context.Context, token string) error
}

type reservationService interface {
	MakeReservation(ctx context.Context, username, day string, hour int) (application.Reservation, error)
	CancelReservation(ctx context.Context, username, day string) (application.Reservation, error)
	ListWeek(ctx context.Context) application.WeekSchedule
	ListDay(ctx context.Context, day string) (application.DaySchedule, error)
	ListMine(ctx context.Context, username string) []application.Reservation
}

// Handlers implements the protocol endpoints over the application services.
type Handlers struct {
	auth         authService
	reservations reservationService
	responder    responder
	logger       *slog.Logger
}

// NewHandlers constructs the endpoint handlers.
func NewHandlers(auth authService, reservations reservationService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		auth:         auth,
		reservations: reservations,
		responder:    newResponder(logger),
		logger:       logger,
	}
}

func (h *Handlers) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = h.logger
	}
	pairs := append([]any{"operation", operation}, attrs...)
	return logger.With(pairs...)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login handles POST /login.
func (h *Handlers) Login(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	var body loginRequest
	if err := json.Unmarshal(req.Body, &body); err != nil || body.Username == "" || body.Password == "" {
		h.log(ctx, "Login").ErrorContext(ctx, "malformed login body")
		return h.responder.error(ctx, 400, codeBadRequest, "body must be a JSON object with username and password")
	}

	session, err := h.auth.Login(ctx, body.Username, body.Password)
	if err != nil {
		return h.responder.serviceError(ctx, err)
	}

	return h.responder.json(ctx, 200, loginResponse{Token: session.Token, Username: session.Username})
}

// Logout handles POST /logout, revoking the presented token.
func (h *Handlers) Logout(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	if err := h.auth.RevokeToken(ctx, req.BearerToken()); err != nil {
		return h.responder.serviceError(ctx, err)
	}
	return h.responder.json(ctx, 204, nil)
}

type slotDTO struct {
	Hour       int    `json:"hour"`
	TimeSlot   string `json:"time_slot"`
	Available  bool   `json:"available"`
	ReservedBy string `json:"reserved_by,omitempty"`
}

type dayScheduleDTO struct {
	Day   string    `json:"day"`
	Slots []slotDTO `json:"slots"`
}

func toDayScheduleDTO(day application.DaySchedule) dayScheduleDTO {
	slots := make([]slotDTO, 0, len(day.Slots))
	for _, slot := range day.Slots {
		slots = append(slots, slotDTO{
			Hour:       int(slot.Hour),
			TimeSlot:   slot.Hour.TimeSlot(),
			Available:  slot.Available(),
			ReservedBy: slot.ReservedBy,
		})
	}
	return dayScheduleDTO{Day: string(day.Day), Slots: slots}
}

// WeekSchedule handles GET /schedule.
func (h *Handlers) WeekSchedule(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	week := h.reservations.ListWeek(ctx)
	days := make([]dayScheduleDTO, 0, len(week))
	for _, day := range week {
		days = append(days, toDayScheduleDTO(day))
	}
	return h.responder.json(ctx, 200, map[string]any{"days": days})
}

// DaySchedule handles GET /schedule/{day}.
func (h *Handlers) DaySchedule(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	day, _ := DayParamFromContext(ctx)
	row, err := h.reservations.ListDay(ctx, day)
	if err != nil {
		return h.responder.serviceError(ctx, err)
	}
	return h.responder.json(ctx, 200, toDayScheduleDTO(row))
}

type reservationDTO struct {
	Username string `json:"username"`
	Day      string `json:"day"`
	Hour     int    `json:"hour"`
	TimeSlot string `json:"time_slot"`
}

func toReservationDTO(res application.Reservation) reservationDTO {
	return reservationDTO{
		Username: res.Username,
		Day:      string(res.Day),
		Hour:     int(res.Hour),
		TimeSlot: res.TimeSlot(),
	}
}

// MyReservations handles GET /reservations.
func (h *Handlers) MyReservations(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return h.responder.error(ctx, 401, codeUnauthorized, "authentication required")
	}

	mine := h.reservations.ListMine(ctx, principal.Username)
	dtos := make([]reservationDTO, 0, len(mine))
	for _, res := range mine {
		dtos = append(dtos, toReservationDTO(res))
	}
	return h.responder.json(ctx, 200, map[string]any{"reservations": dtos})
}

type makeReservationRequest struct {
	Day  string `json:"day"`
	Hour *int   `json:"hour"`
}

// MakeReservation handles POST /reservations.
func (h *Handlers) MakeReservation(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return h.responder.error(ctx, 401, codeUnauthorized, "authentication required")
	}

	var body makeReservationRequest
	if err := json.Unmarshal(req.Body, &body); err != nil || body.Day == "" || body.Hour == nil {
		h.log(ctx, "MakeReservation", "username", principal.Username).ErrorContext(ctx, "malformed reservation body")
		return h.responder.error(ctx, 400, codeBadRequest, "body must be a JSON object with day and hour")
	}

	reservation, err := h.reservations.MakeReservation(ctx, principal.Username, body.Day, *body.Hour)
	if err != nil {
		return h.responder.serviceError(ctx, err)
	}
	return h.responder.json(ctx, 201, toReservationDTO(reservation))
}

// CancelReservation handles DELETE /reservations/{day}.
func (h *Handlers) CancelReservation(ctx context.Context, req *httpwire.Request) *httpwire.Response {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return h.responder.error(ctx, 401, codeUnauthorized, "authentication required")
	}

	day, _ := DayParamFromContext(ctx)
	reservation, err := h.reservations.CancelReservation(ctx, principal.Username, day)
	if err != nil {
		return h.responder.serviceError(ctx, err)
	}
	return h.responder.json(ctx, 200, toReservationDTO(reservation))
}
