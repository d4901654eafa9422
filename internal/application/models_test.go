package application

import (
	"errors"
	"testing"
)

func TestParseDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Day
		ok    bool
	}{
		{input: "MON", want: Monday, ok: true},
		{input: "sun", want: Sunday, ok: true},
		{input: " wed ", want: Wednesday, ok: true},
		{input: "WEDNESDAY", ok: false},
		{input: "XXX", ok: false},
		{input: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			day, err := ParseDay(tc.input)
			if tc.ok {
				if err != nil {
					t.Fatalf("ParseDay(%q) failed: %v", tc.input, err)
				}
				if day != tc.want {
					t.Fatalf("ParseDay(%q) = %s, want %s", tc.input, day, tc.want)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ParseDay(%q): expected ValidationError, got %v", tc.input, err)
			}
		})
	}
}

func TestValidHour(t *testing.T) {
	t.Parallel()

	for hour := FirstHour; hour <= LastHour; hour++ {
		if !ValidHour(hour) {
			t.Fatalf("expected hour %d to be valid", hour)
		}
	}
	for _, hour := range []Hour{0, 8, 23, -1, 100} {
		if ValidHour(hour) {
			t.Fatalf("expected hour %d to be invalid", hour)
		}
	}
}

func TestHourTimeSlot(t *testing.T) {
	t.Parallel()

	if got := Hour(9).TimeSlot(); got != "09:00-10:00" {
		t.Fatalf("expected 09:00-10:00, got %q", got)
	}
	if got := Hour(22).TimeSlot(); got != "22:00-23:00" {
		t.Fatalf("expected 22:00-23:00, got %q", got)
	}
}

func TestWeekDaysOrder(t *testing.T) {
	t.Parallel()

	days := WeekDays()
	want := []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i, day := range want {
		if days[i] != day {
			t.Fatalf("day %d: expected %s, got %s", i, day, days[i])
		}
	}

	// Callers get a copy they can mangle freely.
	days[0] = "XXX"
	if WeekDays()[0] != Monday {
		t.Fatal("WeekDays shares its backing array with callers")
	}
}
