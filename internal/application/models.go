package application

import (
	"fmt"
	"strings"
	"time"
)

// Day identifies one axis of the weekly court grid using the three letter
// codes the wire protocol exchanges.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
	Sunday    Day = "SUN"
)

// Hour is the starting hour of a one hour slot. The court is bookable from
// 09:00 through the slot starting at 22:00.
type Hour int

const (
	FirstHour Hour = 9
	LastHour  Hour = 22
	HoursPerDay    = int(LastHour-FirstHour) + 1
)

var weekDays = [...]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekDays returns the seven days in display order.
func WeekDays() []Day {
	days := make([]Day, len(weekDays))
	copy(days, weekDays[:])
	return days
}

// ParseDay normalizes and validates a day code.
func ParseDay(value string) (Day, error) {
	candidate := Day(strings.ToUpper(strings.TrimSpace(value)))
	for _, day := range weekDays {
		if day == candidate {
			return day, nil
		}
	}
	vErr := &ValidationError{}
	vErr.add("day", fmt.Sprintf("unknown day code %q", value))
	return "", vErr
}

// ValidHour reports whether the hour falls inside the bookable window.
func ValidHour(hour Hour) bool {
	return hour >= FirstHour && hour <= LastHour
}

// TimeSlot renders an hour as the interval string clients display,
// e.g. "14:00-15:00".
func (h Hour) TimeSlot() string {
	return fmt.Sprintf("%02d:00-%02d:00", int(h), int(h)+1)
}

// Reservation is a user's ownership of one slot.
type Reservation struct {
	Username string
	Day      Day
	Hour     Hour
}

// TimeSlot returns the interval string for the reservation's hour.
func (r Reservation) TimeSlot() string {
	return r.Hour.TimeSlot()
}

// SlotStatus is one cell of a day snapshot. An empty ReservedBy means the
// slot is free.
type SlotStatus struct {
	Hour       Hour
	ReservedBy string
}

// Available reports whether the slot is free.
func (s SlotStatus) Available() bool {
	return s.ReservedBy == ""
}

// DaySchedule is the ordered row of slots for one day.
type DaySchedule struct {
	Day   Day
	Slots []SlotStatus
}

// WeekSchedule holds the seven day rows in display order.
type WeekSchedule []DaySchedule

// WeekSnapshot is a point in time copy of the whole grid keyed by day then
// hour. Absent hours are free.
type WeekSnapshot map[Day]map[Hour]string

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	Username string
}

// Session represents an issued token bound to one user. A zero ExpiresAt
// means the token never expires within the process lifetime.
type Session struct {
	Username  string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
