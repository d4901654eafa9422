package application

import (
	"log/slog"
	"sync"
)

// ScheduleStore owns the 7x14 grid of court slots. Every read and mutation
// goes through one store-wide mutex so compound check-then-act sequences
// (one reservation per user per day, first writer wins on a slot) stay
// linearizable across connection goroutines.
//
// The optional onChange hook receives a fresh snapshot after each mutation;
// it runs outside the critical section so callbacks may perform I/O.
type ScheduleStore struct {
	mu       sync.RWMutex
	grid     map[Day]map[Hour]string
	onChange func(WeekSnapshot)
	logger   *slog.Logger

	// changeSeq stamps each mutation under mu; hookMu and deliveredSeq
	// keep hook deliveries in mutation order, dropping superseded ones.
	changeSeq    uint64
	hookMu       sync.Mutex
	deliveredSeq uint64
}

// NewScheduleStore constructs an empty grid.
func NewScheduleStore(logger *slog.Logger) *ScheduleStore {
	store := &ScheduleStore{
		grid:   make(map[Day]map[Hour]string, len(weekDays)),
		logger: defaultLogger(logger),
	}
	store.resetLocked()
	return store
}

// SetOnChange installs a snapshot hook invoked after every successful
// mutation. Intended for the backup collaborator; must be set before the
// store is shared across goroutines. Snapshots arrive in mutation order;
// a snapshot superseded by a newer mutation before its delivery turn is
// dropped, so the hook never observes state regressing.
func (s *ScheduleStore) SetOnChange(hook func(WeekSnapshot)) {
	s.onChange = hook
}

func (s *ScheduleStore) resetLocked() {
	for _, day := range weekDays {
		row := make(map[Hour]string, HoursPerDay)
		s.grid[day] = row
	}
}

// validateSlot checks a slot address and returns the canonical day. The
// grid is keyed by the canonical codes only, so every accessor must index
// with the returned value, never the raw input.
func validateSlot(day Day, hour Hour) (Day, error) {
	vErr := &ValidationError{}
	parsed, err := ParseDay(string(day))
	if err != nil {
		vErr.add("day", "unknown day code")
	}
	if !ValidHour(hour) {
		vErr.add("hour", "hour must be between 9 and 22")
	}
	if vErr.HasErrors() {
		return "", vErr
	}
	return parsed, nil
}

// Get returns the username occupying a slot, or the empty string when free.
func (s *ScheduleStore) Get(day Day, hour Hour) (string, error) {
	parsed, err := validateSlot(day, hour)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid[parsed][hour], nil
}

// TrySet atomically transitions a free slot to reserved-by(username).
// It returns false without mutating when the slot is occupied by anyone,
// including username itself.
func (s *ScheduleStore) TrySet(day Day, hour Hour, username string) bool {
	parsed, err := validateSlot(day, hour)
	if err != nil || username == "" {
		return false
	}
	s.mu.Lock()
	if s.grid[parsed][hour] != "" {
		s.mu.Unlock()
		return false
	}
	s.grid[parsed][hour] = username
	seq, snapshot := s.stampLocked()
	s.mu.Unlock()
	s.changed(seq, snapshot)
	return true
}

// Clear atomically frees a slot only when currently owned by username.
func (s *ScheduleStore) Clear(day Day, hour Hour, username string) bool {
	parsed, err := validateSlot(day, hour)
	if err != nil {
		return false
	}
	s.mu.Lock()
	if s.grid[parsed][hour] != username || username == "" {
		s.mu.Unlock()
		return false
	}
	delete(s.grid[parsed], hour)
	seq, snapshot := s.stampLocked()
	s.mu.Unlock()
	s.changed(seq, snapshot)
	return true
}

// Reserve performs the whole make-reservation check-then-act under one lock
// acquisition: slot shape, the one-per-day rule, then occupancy, in that
// order. Two concurrent calls for the same user+day, or for the same slot,
// can never both succeed.
func (s *ScheduleStore) Reserve(day Day, hour Hour, username string) error {
	parsed, err := validateSlot(day, hour)
	if err != nil {
		return err
	}

	s.mu.Lock()
	row := s.grid[parsed]
	for _, owner := range row {
		if owner == username {
			s.mu.Unlock()
			return ErrAlreadyBookedToday
		}
	}
	if row[hour] != "" {
		s.mu.Unlock()
		return ErrSlotTaken
	}
	row[hour] = username
	seq, snapshot := s.stampLocked()
	s.mu.Unlock()

	s.changed(seq, snapshot)
	return nil
}

// Release finds and frees the slot owned by username on the given day,
// returning the freed hour. ErrNoReservation is returned when the user
// holds nothing that day.
func (s *ScheduleStore) Release(day Day, username string) (Hour, error) {
	parsed, err := ParseDay(string(day))
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	row := s.grid[parsed]
	for hour, owner := range row {
		if owner == username {
			delete(row, hour)
			seq, snapshot := s.stampLocked()
			s.mu.Unlock()
			s.changed(seq, snapshot)
			return hour, nil
		}
	}
	s.mu.Unlock()
	return 0, ErrNoReservation
}

// SnapshotWeek returns a consistent copy of the whole grid.
func (s *ScheduleStore) SnapshotWeek() WeekSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotWeekLocked()
}

func (s *ScheduleStore) snapshotWeekLocked() WeekSnapshot {
	snapshot := make(WeekSnapshot, len(weekDays))
	for _, day := range weekDays {
		row := make(map[Hour]string, len(s.grid[day]))
		for hour, owner := range s.grid[day] {
			row[hour] = owner
		}
		snapshot[day] = row
	}
	return snapshot
}

// SnapshotDay returns the ordered slot row for one day.
func (s *ScheduleStore) SnapshotDay(day Day) (DaySchedule, error) {
	parsed, err := ParseDay(string(day))
	if err != nil {
		return DaySchedule{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.grid[parsed]
	slots := make([]SlotStatus, 0, HoursPerDay)
	for hour := FirstHour; hour <= LastHour; hour++ {
		slots = append(slots, SlotStatus{Hour: hour, ReservedBy: row[hour]})
	}
	return DaySchedule{Day: parsed, Slots: slots}, nil
}

// SnapshotUser returns every slot owned by username, ordered by day then hour.
func (s *ScheduleStore) SnapshotUser(username string) []Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reservations []Reservation
	for _, day := range weekDays {
		for hour := FirstHour; hour <= LastHour; hour++ {
			if s.grid[day][hour] == username && username != "" {
				reservations = append(reservations, Reservation{Username: username, Day: day, Hour: hour})
			}
		}
	}
	return reservations
}

// Load replaces the grid with the provided snapshot, used to seed the store
// from a backup at startup. Cells with invalid days or hours are skipped
// with a warning rather than aborting the load.
func (s *ScheduleStore) Load(snapshot WeekSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	for day, row := range snapshot {
		parsed, err := ParseDay(string(day))
		if err != nil {
			s.logger.Warn("skipping backup row with unknown day", "day", string(day))
			continue
		}
		for hour, owner := range row {
			if !ValidHour(hour) || owner == "" {
				if owner != "" {
					s.logger.Warn("skipping backup cell with invalid hour", "day", string(parsed), "hour", int(hour))
				}
				continue
			}
			s.grid[parsed][hour] = owner
		}
	}
}

// Reset clears every slot, implementing the weekly schedule refresh.
func (s *ScheduleStore) Reset() {
	s.mu.Lock()
	s.resetLocked()
	seq, snapshot := s.stampLocked()
	s.mu.Unlock()
	s.changed(seq, snapshot)
}

// stampLocked assigns the next change sequence number and captures the
// matching snapshot. Callers must hold mu.
func (s *ScheduleStore) stampLocked() (uint64, WeekSnapshot) {
	s.changeSeq++
	return s.changeSeq, s.snapshotWeekLocked()
}

// changed hands a snapshot to the onChange hook. Deliveries are serialized
// and stale snapshots (overtaken between unlock and delivery) are dropped,
// so the hook always converges on the newest state.
func (s *ScheduleStore) changed(seq uint64, snapshot WeekSnapshot) {
	if s.onChange == nil {
		return
	}
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	if seq <= s.deliveredSeq {
		return
	}
	s.deliveredSeq = seq
	s.onChange(snapshot)
}
