// Package favorites manages user-pinned locations and the recent-search
// ring, both persisted as JSON arrays in the key-value store.
package favorites

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
)

const keyFavorites = "favorites"

// ErrNotFound is returned when a favorite id does not exist.
var ErrNotFound = errors.New("favorite not found")

// Favorite is a pinned location with its last-known temperature.
type Favorite struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Coords      string    `json:"coords"` // "lat,lon"
	LastTempC   float64   `json:"lastTemp"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Manager performs CRUD over the favorites list. Every mutation rewrites
// the whole list atomically (read-modify-write under the mutex).
type Manager struct {
	mu sync.Mutex
	kv store.KV

	now   func() time.Time
	newID func() string
}

func NewManager(kv store.KV) *Manager {
	return &Manager{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns the stored favorites in insertion order. Corrupt stored JSON
// yields an empty list; the next write repairs it.
func (m *Manager) List() []Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() []Favorite {
	raw, ok, err := m.kv.Get(keyFavorites)
	if err != nil || !ok {
		if err != nil {
			log.Printf("favorites: read failed, treating as empty: %v", err)
		}
		return nil
	}
	var favs []Favorite
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		log.Printf("favorites: stored list is corrupt, resetting: %v", err)
		return nil
	}
	return favs
}

func (m *Manager) save(favs []Favorite) error {
	raw, err := json.Marshal(favs)
	if err != nil {
		return err
	}
	return m.kv.Set(keyFavorites, string(raw))
}

// Add pins a location with its current temperature. Duplicate favorites for
// the same coordinates are permitted; each gets a fresh id.
func (m *Manager) Add(loc weather.Location, currentTempC float64) (Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fav := Favorite{
		ID:          m.newID(),
		Name:        loc.Label(),
		Coords:      loc.Coords(),
		LastTempC:   currentTempC,
		LastUpdated: m.now().UTC(),
	}

	favs := append(m.load(), fav)
	if err := m.save(favs); err != nil {
		return Favorite{}, err
	}
	return fav, nil
}

// Remove deletes a favorite by id. Removing an absent id is a no-op, not an
// error.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	favs := m.load()
	kept := favs[:0]
	for _, f := range favs {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(favs) {
		return nil
	}
	return m.save(kept)
}

// Refresh updates the last-known reading of an existing favorite from a
// fresh snapshot. Returns ErrNotFound for an absent id.
func (m *Manager) Refresh(id string, snap weather.Snapshot) (Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	favs := m.load()
	for i := range favs {
		if favs[i].ID == id {
			favs[i].LastTempC = snap.Current.TemperatureC
			favs[i].LastUpdated = m.now().UTC()
			if err := m.save(favs); err != nil {
				return Favorite{}, err
			}
			return favs[i], nil
		}
	}
	return Favorite{}, ErrNotFound
}
