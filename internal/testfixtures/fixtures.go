// Package testfixtures provides deterministic clocks, token generators and
// roster fixtures shared by the reservation service tests.
package testfixtures

import (
	"fmt"
	"time"

	"github.com/example/court-reservation/internal/application"
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// CheapArgon2idParams keeps password hashing fast enough for tests while
// staying on the production code path.
var CheapArgon2idParams = application.Argon2idParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  8,
	KeyLength:   16,
}

// Roster builds the standard ten user roster (user1..user10, passwords
// "1".."10") with cheap hashing parameters.
func Roster(t interface{ Fatalf(string, ...any) }) *application.Roster {
	roster, err := application.DefaultRoster(CheapArgon2idParams)
	if err != nil {
		t.Fatalf("build test roster: %v", err)
	}
	return roster
}

// AuthService wires an auth service with a deterministic clock and token
// sequence on top of the standard roster.
func AuthService(t interface{ Fatalf(string, ...any) }) (*application.AuthService, *Clock, *IDGenerator) {
	clock := NewClock(time.Time{})
	tokens := NewIDGenerator("token")
	svc := application.NewAuthService(Roster(t), nil, tokens.NextFunc(), clock.NowFunc(), 0)
	return svc, clock, tokens
}

// SeededStore builds a schedule store holding the provided reservations.
func SeededStore(t interface{ Fatalf(string, ...any) }, reservations ...application.Reservation) *application.ScheduleStore {
	store := application.NewScheduleStore(nil)
	for _, res := range reservations {
		if err := store.Reserve(res.Day, res.Hour, res.Username); err != nil {
			t.Fatalf("seed reservation %s %s %d: %v", res.Username, res.Day, res.Hour, err)
		}
	}
	return store
}

// Username returns the fixture username for a roster index (1-based).
func Username(i int) string {
	return fmt.Sprintf("user%d", i)
}
