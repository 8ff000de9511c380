// Package prefs persists user display preferences, replacing the browser's
// localStorage keys with the same names and string encodings.
package prefs

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
)

// Storage keys. Stable, they live in user databases.
const (
	keyTempUnit = "tempUnit"
	keyWindUnit = "windUnit"
	keyDarkMode = "darkMode"
)

// Preferences is the resolved user settings snapshot. Every field always
// holds a valid value; unknown or missing stored values resolve to
// defaults.
type Preferences struct {
	TempUnit weather.TempUnit `json:"tempUnit"`
	WindUnit weather.WindUnit `json:"windUnit"`
	DarkMode bool             `json:"darkMode"`
}

// Defaults returns the out-of-the-box preferences: Celsius, kph, light mode.
func Defaults() Preferences {
	return Preferences{
		TempUnit: weather.TempCelsius,
		WindUnit: weather.WindKph,
		DarkMode: false,
	}
}

// darkTheme is the process-wide presentation flag consumed by the UI root.
var darkTheme atomic.Bool

// DarkThemeActive reports the current process-wide theme flag.
func DarkThemeActive() bool {
	return darkTheme.Load()
}

// Store reads and writes preferences through the key-value store. Each
// field lives under its own key so partial corruption never invalidates the
// whole set.
type Store struct {
	mu sync.Mutex
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	s := &Store{kv: kv}
	// Restore the theme flag across restarts.
	darkTheme.Store(s.Get().DarkMode)
	return s
}

// Get resolves the full preference set, repairing each corrupt or missing
// field to its default independently of the others.
func (s *Store) Get() Preferences {
	p := Defaults()

	if v, ok := s.read(keyTempUnit); ok {
		p.TempUnit = weather.ParseTempUnit(v)
	}
	if v, ok := s.read(keyWindUnit); ok {
		p.WindUnit = weather.ParseWindUnit(v)
	}
	if v, ok := s.read(keyDarkMode); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.DarkMode = b
		}
	}

	return p
}

func (s *Store) read(key string) (string, bool) {
	v, ok, err := s.kv.Get(key)
	if err != nil {
		// Treat unreadable values like missing ones; defaults apply.
		log.Printf("prefs: reading %s failed, using default: %v", key, err)
		return "", false
	}
	return v, ok
}

// SetTempUnit persists the temperature unit and returns the new snapshot.
func (s *Store) SetTempUnit(unit weather.TempUnit) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if unit != weather.TempCelsius && unit != weather.TempFahrenheit {
		return s.Get(), fmt.Errorf("invalid temperature unit %q", unit)
	}
	if err := s.kv.Set(keyTempUnit, string(unit)); err != nil {
		return s.Get(), err
	}
	return s.Get(), nil
}

// SetWindUnit persists the wind unit and returns the new snapshot.
func (s *Store) SetWindUnit(unit weather.WindUnit) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if unit != weather.WindKph && unit != weather.WindMph {
		return s.Get(), fmt.Errorf("invalid wind unit %q", unit)
	}
	if err := s.kv.Set(keyWindUnit, string(unit)); err != nil {
		return s.Get(), err
	}
	return s.Get(), nil
}

// SetDarkMode persists dark mode and flips the process-wide theme flag.
func (s *Store) SetDarkMode(on bool) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyDarkMode, strconv.FormatBool(on)); err != nil {
		return s.Get(), err
	}
	darkTheme.Store(on)
	return s.Get(), nil
}
