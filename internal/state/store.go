package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/playercard/internal/profile"
)

// Snapshot represents the latest profile data available to the UI.
type Snapshot struct {
	Record              profile.Record
	HasRecord           bool
	Revision            uint64 // bumped on every accepted record
	Epoch               uint64 // epoch the record was fetched in
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
//
// Fetches are bracketed by Begin and Update. Publish starts a new epoch;
// fetches begun in an older epoch are dropped so a poll that raced a save can
// never republish the data the save replaced.
type Store struct {
	mu       sync.RWMutex
	epoch    uint64
	snapshot Snapshot
}

// Begin returns the ticket a fetch must hand back to Update.
func (s *Store) Begin() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Publish records data known to be current, typically what a save just
// persisted, and starts a new epoch. It returns the new epoch.
func (s *Store) Publish(rec profile.Record) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.snapshot.Record = rec
	s.snapshot.HasRecord = true
	s.snapshot.Revision++
	s.snapshot.Epoch = s.epoch
	s.snapshot.LastUpdated = time.Now()
	return s.epoch
}

// Update records the outcome of a fetch begun with ticket. When err is non-nil
// the previous record is kept but the error is recorded for visibility. It
// reports false when the ticket belongs to an older epoch and nothing changed.
func (s *Store) Update(ticket uint64, rec *profile.Record, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket < s.epoch {
		return false
	}

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	if rec != nil {
		s.snapshot.Record = *rec
		s.snapshot.HasRecord = true
		s.snapshot.Revision++
		s.snapshot.Epoch = ticket
	}
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
