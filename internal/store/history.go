package store

import (
	"errors"
	"sync"
	"time"

	"github.com/skycast-dev/skycast/internal/weather"
)

// ErrNoHistory is returned when no snapshots exist for a location.
var ErrNoHistory = errors.New("no weather history for location")

// snapshotHistory holds a time-ordered list of snapshots for one location.
type snapshotHistory struct {
	snapshots []weather.Snapshot
}

// SnapshotLog is a concurrency-safe in-memory log of live (non-fallback)
// snapshots, keyed by location, with retention by count and age.
type SnapshotLog struct {
	mu sync.RWMutex

	data map[string]*snapshotHistory

	maxHistory int           // max snapshots per location (<=0 = unlimited)
	maxAge     time.Duration // max snapshot age (0 = unlimited)
}

// NewSnapshotLog creates a SnapshotLog with optional limits.
func NewSnapshotLog(maxHistory int, maxAge time.Duration) *SnapshotLog {
	return &SnapshotLog{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Append records a snapshot under its location key and enforces retention.
// Fallback snapshots are ignored; demo data never enters the history.
func (s *SnapshotLog) Append(snapshot weather.Snapshot) {
	if snapshot.IsFallback {
		return
	}
	key := snapshot.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &snapshotHistory{}
		s.data[key] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].CapturedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// Latest returns the most recent snapshot for a location key.
func (s *SnapshotLog) Latest(locKey string) (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[locKey]
	if !ok || len(history.snapshots) == 0 {
		return weather.Snapshot{}, ErrNoHistory
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// Range returns all snapshots for a location key between from and to
// (inclusive).
func (s *SnapshotLog) Range(locKey string, from, to time.Time) ([]weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[locKey]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNoHistory
	}

	var result []weather.Snapshot
	for _, snap := range history.snapshots {
		if !snap.CapturedAt.Before(from) && !snap.CapturedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoHistory
	}

	return result, nil
}
