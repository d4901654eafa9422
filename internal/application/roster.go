package application

import (
	"fmt"
	"sort"
)

// RosterSize is the fixed number of accounts the service knows about.
const RosterSize = 10

// Roster is the immutable closed set of users allowed to authenticate.
// It is built once at process start and never mutated afterwards.
type Roster struct {
	hashes map[string]string
}

// NewRoster builds a roster from username to password hash pairs.
func NewRoster(hashes map[string]string) *Roster {
	copied := make(map[string]string, len(hashes))
	for username, hash := range hashes {
		copied[username] = hash
	}
	return &Roster{hashes: copied}
}

// DefaultRoster builds the ten predefined accounts user1..user10 whose
// passwords are the digits "1".."10", hashed with the provided parameters.
func DefaultRoster(params Argon2idParams) (*Roster, error) {
	hashes := make(map[string]string, RosterSize)
	for i := 1; i <= RosterSize; i++ {
		username := fmt.Sprintf("user%d", i)
		hash, err := CreatePasswordHash(fmt.Sprintf("%d", i), params)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", username, err)
		}
		hashes[username] = hash
	}
	return NewRoster(hashes), nil
}

// Lookup returns the stored password hash for a username.
func (r *Roster) Lookup(username string) (string, bool) {
	if r == nil {
		return "", false
	}
	hash, ok := r.hashes[username]
	return hash, ok
}

// Contains reports whether the username belongs to the roster.
func (r *Roster) Contains(username string) bool {
	_, ok := r.Lookup(username)
	return ok
}

// Usernames returns the roster members in sorted order.
func (r *Roster) Usernames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.hashes))
	for username := range r.hashes {
		names = append(names, username)
	}
	sort.Strings(names)
	return names
}
