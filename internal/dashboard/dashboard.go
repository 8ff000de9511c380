// Package dashboard orchestrates fetches, loading/error state, and the
// last-write-wins rule for concurrent requests.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skycast-dev/skycast/internal/favorites"
	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle     State = "idle"     // before the first fetch
	StateLoading  State = "loading"  // fetch in flight
	StateReady    State = "ready"    // live snapshot displayed
	StateFallback State = "fallback" // demo snapshot displayed with a banner
	StateError    State = "error"    // no snapshot at all, retry affordance
)

// Fetcher is the adapter surface the orchestrator depends on.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (weather.Snapshot, *weather.FetchReport)
	Suggest(ctx context.Context, query string) []weather.Location
}

// Locator resolves the user's current coordinates, or fails with a
// permission/unavailability error. Consulted once per UseCurrentLocation
// call, never polled.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// ReverseGeocoder turns coordinates into a display name. Optional; a nil
// geocoder falls back to a coordinate label.
type ReverseGeocoder interface {
	PlaceName(lat, lon float64) (string, error)
}

// Status is an immutable view of the orchestrator for presentation.
type Status struct {
	State       State             `json:"state"`
	Query       string            `json:"query"`
	DisplayName string            `json:"displayName"`
	Snapshot    *weather.Snapshot `json:"snapshot,omitempty"`
	Message     string            `json:"message,omitempty"`
	Cause       string            `json:"cause,omitempty"`
}

// Dashboard composes the adapter, recent searches, snapshot history and
// geolocation into the dashboard state machine.
type Dashboard struct {
	fetcher       Fetcher
	recents       *favorites.Recents
	history       *store.SnapshotLog
	locator       Locator
	geocoder      ReverseGeocoder
	locateTimeout time.Duration

	// seq tags each issued fetch; completions with a stale tag are
	// discarded so the last issued fetch always wins.
	seq atomic.Uint64

	mu          sync.Mutex
	state       State
	query       string
	displayName string
	snapshot    *weather.Snapshot
	report      *weather.FetchReport
	errMsg      string
}

func New(fetcher Fetcher, recents *favorites.Recents, history *store.SnapshotLog, locator Locator, geocoder ReverseGeocoder, locateTimeout time.Duration) *Dashboard {
	return &Dashboard{
		fetcher:       fetcher,
		recents:       recents,
		history:       history,
		locator:       locator,
		geocoder:      geocoder,
		locateTimeout: locateTimeout,
		state:         StateIdle,
	}
}

// Status returns a copy of the current view.
func (d *Dashboard) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := Status{
		State:       d.state,
		Query:       d.query,
		DisplayName: d.displayName,
	}
	if d.snapshot != nil {
		snap := *d.snapshot
		st.Snapshot = &snap
	}
	if d.report != nil {
		st.Message = d.report.Message
		st.Cause = string(d.report.Cause)
	}
	if d.errMsg != "" {
		st.Message = d.errMsg
	}
	return st
}

// Search fetches weather for a free-text or "lat,lon" query and replaces
// the current snapshot unless a newer request completed first.
func (d *Dashboard) Search(ctx context.Context, query string) Status {
	return d.run(ctx, query, query)
}

// UseCurrentLocation resolves coordinates through the locator and fetches
// for them. Geolocation failure never touches the adapter: with nothing on
// screen it moves to the Error state, otherwise the displayed snapshot
// stays and only the permission message surfaces.
func (d *Dashboard) UseCurrentLocation(ctx context.Context) Status {
	locCtx, cancel := context.WithTimeout(ctx, d.locateTimeout)
	defer cancel()

	lat, lon, err := d.locator.Locate(locCtx)
	if err != nil {
		log.Printf("geolocation failed: %v", err)
		d.mu.Lock()
		if d.snapshot == nil {
			d.state = StateError
		}
		d.errMsg = "Could not access your location. Please check permissions."
		d.mu.Unlock()
		return d.Status()
	}

	query := fmt.Sprintf("%g,%g", lat, lon)
	display := fmt.Sprintf("Current Location (%.2f, %.2f)", lat, lon)
	if d.geocoder != nil {
		if name, err := d.geocoder.PlaceName(lat, lon); err == nil && name != "" {
			display = name
		}
	}

	return d.run(ctx, query, display)
}

// Suggest proxies autocomplete through the adapter.
func (d *Dashboard) Suggest(ctx context.Context, query string) []weather.Location {
	return d.fetcher.Suggest(ctx, query)
}

func (d *Dashboard) run(ctx context.Context, query, display string) Status {
	seq := d.begin(query, display)
	snap, report := d.fetcher.Fetch(ctx, query)
	if d.finish(seq, snap, report) {
		// Every applied search is remembered, demo results included.
		// History takes live weather only.
		if err := d.recents.Record(query); err != nil {
			log.Printf("recording recent search failed: %v", err)
		}
		if report == nil {
			d.history.Append(snap)
		}
	}
	return d.Status()
}

// begin marks a new in-flight fetch and returns its sequence tag.
func (d *Dashboard) begin(query, display string) uint64 {
	seq := d.seq.Add(1)
	d.mu.Lock()
	d.state = StateLoading
	d.query = query
	d.displayName = display
	d.errMsg = ""
	d.mu.Unlock()
	return seq
}

// finish applies a completed fetch. A completion whose tag is not the
// latest issued is stale and discarded; the snapshot it carries must not
// overwrite a newer request's result.
func (d *Dashboard) finish(seq uint64, snap weather.Snapshot, report *weather.FetchReport) bool {
	if seq != d.seq.Load() {
		log.Printf("DEBUG: discarding stale fetch completion (seq %d)", seq)
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq.Load() {
		return false
	}

	d.snapshot = &snap
	d.report = report
	if snap.IsFallback {
		d.state = StateFallback
	} else {
		d.state = StateReady
	}
	return true
}
