package application

import (
	"context"
	"fmt"
	"log/slog"
)

// SlotGrid captures the schedule store operations the reservation service
// composes its business rules on.
type SlotGrid interface {
	Reserve(day Day, hour Hour, username string) error
	Release(day Day, username string) (Hour, error)
	SnapshotWeek() WeekSnapshot
	SnapshotDay(day Day) (DaySchedule, error)
	SnapshotUser(username string) []Reservation
}

// ReservationService layers the booking rules on top of the slot grid:
// shape validation first, then the one-per-day rule, then slot occupancy.
// The grid enforces the latter two atomically, so the service never caches
// slot state of its own.
type ReservationService struct {
	grid   SlotGrid
	logger *slog.Logger
}

// NewReservationService constructs a ReservationService.
func NewReservationService(grid SlotGrid) *ReservationService {
	return NewReservationServiceWithLogger(grid, nil)
}

// NewReservationServiceWithLogger constructs a ReservationService with a specified logger.
func NewReservationServiceWithLogger(grid SlotGrid, logger *slog.Logger) *ReservationService {
	return &ReservationService{grid: grid, logger: defaultLogger(logger)}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// MakeReservation books one slot for the user. Day and hour arrive as raw
// request values and are validated before any rule check so error reporting
// stays deterministic when several violations apply at once.
func (s *ReservationService) MakeReservation(ctx context.Context, username, day string, hour int) (reservation Reservation, err error) {
	if s == nil || s.grid == nil {
		err = fmt.Errorf("reservation service grid not configured")
		return
	}

	logger := s.loggerWith(ctx, "MakeReservation", "username", username, "day", day, "hour", hour)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "reservation rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation created", "time_slot", reservation.TimeSlot())
	}()

	vErr := &ValidationError{}
	parsedDay, dayErr := ParseDay(day)
	if dayErr != nil {
		vErr.add("day", fmt.Sprintf("unknown day code %q", day))
	}
	if !ValidHour(Hour(hour)) {
		vErr.add("hour", "hour must be between 9 and 22")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.grid.Reserve(parsedDay, Hour(hour), username); err != nil {
		return
	}

	reservation = Reservation{Username: username, Day: parsedDay, Hour: Hour(hour)}
	return reservation, nil
}

// CancelReservation frees the slot the user holds on the given day.
func (s *ReservationService) CancelReservation(ctx context.Context, username, day string) (reservation Reservation, err error) {
	if s == nil || s.grid == nil {
		err = fmt.Errorf("reservation service grid not configured")
		return
	}

	logger := s.loggerWith(ctx, "CancelReservation", "username", username, "day", day)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "cancellation rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled", "time_slot", reservation.TimeSlot())
	}()

	parsedDay, dayErr := ParseDay(day)
	if dayErr != nil {
		err = dayErr
		return
	}

	hour, relErr := s.grid.Release(parsedDay, username)
	if relErr != nil {
		err = relErr
		return
	}

	reservation = Reservation{Username: username, Day: parsedDay, Hour: hour}
	return reservation, nil
}

// ListWeek returns the full schedule as ordered day rows.
func (s *ReservationService) ListWeek(ctx context.Context) WeekSchedule {
	snapshot := s.grid.SnapshotWeek()
	week := make(WeekSchedule, 0, len(weekDays))
	for _, day := range weekDays {
		slots := make([]SlotStatus, 0, HoursPerDay)
		for hour := FirstHour; hour <= LastHour; hour++ {
			slots = append(slots, SlotStatus{Hour: hour, ReservedBy: snapshot[day][hour]})
		}
		week = append(week, DaySchedule{Day: day, Slots: slots})
	}
	return week
}

// ListDay returns the slot row for one day.
func (s *ReservationService) ListDay(ctx context.Context, day string) (DaySchedule, error) {
	parsedDay, err := ParseDay(day)
	if err != nil {
		return DaySchedule{}, err
	}
	return s.grid.SnapshotDay(parsedDay)
}

// ListMine returns the user's reservations ordered by day then hour.
func (s *ReservationService) ListMine(ctx context.Context, username string) []Reservation {
	return s.grid.SnapshotUser(username)
}
