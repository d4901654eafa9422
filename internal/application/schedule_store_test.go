package application

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestScheduleStore_ReserveAndGet(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	if err := store.Reserve(Wednesday, 14, "user1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	owner, err := store.Get(Wednesday, 14)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if owner != "user1" {
		t.Fatalf("expected owner user1, got %q", owner)
	}

	hour, err := store.Release(Wednesday, "user1")
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if hour != 14 {
		t.Fatalf("expected freed hour 14, got %d", hour)
	}

	owner, err = store.Get(Wednesday, 14)
	if err != nil {
		t.Fatalf("Get after release failed: %v", err)
	}
	if owner != "" {
		t.Fatalf("expected free slot, got owner %q", owner)
	}
}

func TestScheduleStore_NormalizesDayCasing(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)

	// Accessors must address the same cells regardless of input casing.
	if !store.TrySet(Day("mon"), 10, "user1") {
		t.Fatal("expected TrySet with lowercase day to succeed")
	}
	if owner, err := store.Get(Monday, 10); err != nil || owner != "user1" {
		t.Fatalf("expected MON 10 owned by user1, got %q, %v", owner, err)
	}
	if store.TrySet(Monday, 10, "user2") {
		t.Fatal("expected canonical-day TrySet to see the occupied slot")
	}
	if !store.Clear(Day(" mon "), 10, "user1") {
		t.Fatal("expected Clear with padded lowercase day to succeed")
	}

	if err := store.Reserve(Wednesday, 14, "user3"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := store.Reserve(Day("wed"), 15, "user3"); !errors.Is(err, ErrAlreadyBookedToday) {
		t.Fatalf("expected ErrAlreadyBookedToday via lowercase day, got %v", err)
	}
	hour, err := store.Release(Day("wed"), "user3")
	if err != nil {
		t.Fatalf("Release with lowercase day failed: %v", err)
	}
	if hour != 14 {
		t.Fatalf("expected freed hour 14, got %d", hour)
	}
}

func TestScheduleStore_GetRejectsInvalidSlot(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	var vErr *ValidationError

	if _, err := store.Get("XXX", 14); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad day, got %v", err)
	}
	if _, err := store.Get(Monday, 23); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad hour, got %v", err)
	}
}

func TestScheduleStore_TrySetRejectsOccupiedSlot(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	if !store.TrySet(Monday, 10, "user1") {
		t.Fatal("expected TrySet on free slot to succeed")
	}
	if store.TrySet(Monday, 10, "user2") {
		t.Fatal("expected TrySet on occupied slot to fail")
	}
	// Even the current owner cannot book the same slot twice.
	if store.TrySet(Monday, 10, "user1") {
		t.Fatal("expected TrySet by owner on occupied slot to fail")
	}
}

func TestScheduleStore_ClearRequiresOwnership(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	if !store.TrySet(Friday, 18, "user3") {
		t.Fatal("seed TrySet failed")
	}

	if store.Clear(Friday, 18, "user4") {
		t.Fatal("expected Clear by non-owner to fail")
	}
	if owner, _ := store.Get(Friday, 18); owner != "user3" {
		t.Fatalf("slot mutated by failed clear, owner %q", owner)
	}
	if !store.Clear(Friday, 18, "user3") {
		t.Fatal("expected Clear by owner to succeed")
	}
	if store.Clear(Friday, 18, "user3") {
		t.Fatal("expected Clear on free slot to fail")
	}
}

func TestScheduleStore_OnePerDayUnderContention(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	start := make(chan struct{})
	results := make(chan error, HoursPerDay)

	var wg sync.WaitGroup
	for hour := FirstHour; hour <= LastHour; hour++ {
		wg.Add(1)
		go func(hour Hour) {
			defer wg.Done()
			<-start
			results <- store.Reserve(Tuesday, hour, "user5")
		}(hour)
	}
	close(start)
	wg.Wait()
	close(results)

	successes, dayLimit := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyBookedToday):
			dayLimit++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}
	if dayLimit != HoursPerDay-1 {
		t.Fatalf("expected %d day-limit rejections, got %d", HoursPerDay-1, dayLimit)
	}
	if got := len(store.SnapshotUser("user5")); got != 1 {
		t.Fatalf("expected one owned slot, got %d", got)
	}
}

func TestScheduleStore_ContestedSlotHasSingleWinner(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	const contenders = 8

	start := make(chan struct{})
	results := make(chan error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results <- store.Reserve(Saturday, 11, fmt.Sprintf("user%d", i+1))
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken, got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one winner, got %d", successes)
	}
}

func TestScheduleStore_SnapshotWeekIsExact(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	seeded := []Reservation{
		{Username: "user1", Day: Monday, Hour: 9},
		{Username: "user2", Day: Monday, Hour: 10},
		{Username: "user1", Day: Thursday, Hour: 22},
		{Username: "user3", Day: Sunday, Hour: 15},
	}
	for _, res := range seeded {
		if err := store.Reserve(res.Day, res.Hour, res.Username); err != nil {
			t.Fatalf("seed %v failed: %v", res, err)
		}
	}

	snapshot := store.SnapshotWeek()
	occupied := 0
	for _, day := range WeekDays() {
		for hour := FirstHour; hour <= LastHour; hour++ {
			if snapshot[day][hour] != "" {
				occupied++
			}
		}
	}
	if occupied != len(seeded) {
		t.Fatalf("expected %d occupied cells, got %d", len(seeded), occupied)
	}
	for _, res := range seeded {
		if got := snapshot[res.Day][res.Hour]; got != res.Username {
			t.Fatalf("cell %s %d: expected %s, got %q", res.Day, res.Hour, res.Username, got)
		}
	}

	// The snapshot is a copy: mutating it must not touch the store.
	snapshot[Monday][11] = "intruder"
	if owner, _ := store.Get(Monday, 11); owner != "" {
		t.Fatalf("snapshot mutation leaked into store: %q", owner)
	}
}

func TestScheduleStore_ReleaseWithoutReservation(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	if _, err := store.Release(Monday, "user1"); !errors.Is(err, ErrNoReservation) {
		t.Fatalf("expected ErrNoReservation, got %v", err)
	}

	if err := store.Reserve(Monday, 12, "user1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if _, err := store.Release(Monday, "user1"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	// A second release on the now-free day reports NotFound again.
	if _, err := store.Release(Monday, "user1"); !errors.Is(err, ErrNoReservation) {
		t.Fatalf("expected ErrNoReservation on double release, got %v", err)
	}
}

func TestScheduleStore_SnapshotDayOrdering(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	if err := store.Reserve(Wednesday, 14, "user2"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	day, err := store.SnapshotDay(Wednesday)
	if err != nil {
		t.Fatalf("SnapshotDay failed: %v", err)
	}
	if len(day.Slots) != HoursPerDay {
		t.Fatalf("expected %d slots, got %d", HoursPerDay, len(day.Slots))
	}
	for i, slot := range day.Slots {
		if want := FirstHour + Hour(i); slot.Hour != want {
			t.Fatalf("slot %d: expected hour %d, got %d", i, want, slot.Hour)
		}
	}
	if day.Slots[14-int(FirstHour)].ReservedBy != "user2" {
		t.Fatalf("expected 14:00 slot owned by user2, got %+v", day.Slots[14-int(FirstHour)])
	}
}

func TestScheduleStore_LoadSkipsInvalidCells(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	store.Load(WeekSnapshot{
		Monday:    {10: "user1", 23: "user2"},
		Day("???"): {11: "user3"},
	})

	if owner, _ := store.Get(Monday, 10); owner != "user1" {
		t.Fatalf("expected valid cell loaded, got %q", owner)
	}
	snapshot := store.SnapshotWeek()
	occupied := 0
	for _, row := range snapshot {
		for _, owner := range row {
			if owner != "" {
				occupied++
			}
		}
	}
	if occupied != 1 {
		t.Fatalf("expected only the valid cell, got %d occupied", occupied)
	}
}

func TestScheduleStore_OnChangeConvergesToLatest(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	var mu sync.Mutex
	var occupied []int
	store.SetOnChange(func(snapshot WeekSnapshot) {
		count := 0
		for _, row := range snapshot {
			count += len(row)
		}
		mu.Lock()
		occupied = append(occupied, count)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for _, day := range WeekDays() {
		wg.Add(1)
		go func(day Day) {
			defer wg.Done()
			if err := store.Reserve(day, 12, "user1"+string(day)); err != nil {
				t.Errorf("Reserve %s failed: %v", day, err)
			}
		}(day)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(occupied) == 0 {
		t.Fatal("expected at least one snapshot delivery")
	}
	// Deliveries never regress: each snapshot is newer than the last, and
	// the final one reflects all seven reservations.
	for i := 1; i < len(occupied); i++ {
		if occupied[i] <= occupied[i-1] {
			t.Fatalf("snapshot deliveries regressed: %v", occupied)
		}
	}
	if occupied[len(occupied)-1] != len(WeekDays()) {
		t.Fatalf("final snapshot incomplete: %v", occupied)
	}
}

func TestScheduleStore_OnChangeReceivesSnapshots(t *testing.T) {
	t.Parallel()

	store := NewScheduleStore(nil)
	var mu sync.Mutex
	var snapshots []WeekSnapshot
	store.SetOnChange(func(snapshot WeekSnapshot) {
		mu.Lock()
		snapshots = append(snapshots, snapshot)
		mu.Unlock()
	})

	if err := store.Reserve(Monday, 9, "user1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if _, err := store.Release(Monday, "user1"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	store.Reset()

	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}
	if snapshots[0][Monday][9] != "user1" {
		t.Fatalf("first snapshot missing reservation: %+v", snapshots[0][Monday])
	}
	if snapshots[1][Monday][9] != "" {
		t.Fatalf("second snapshot still holds reservation: %+v", snapshots[1][Monday])
	}
}
