// Package scheduler keeps favorite locations' cached readings fresh.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/skycast-dev/skycast/internal/dashboard"
	"github.com/skycast-dev/skycast/internal/favorites"
)

// Scheduler periodically refreshes the last-known temperature of every
// favorite through the adapter.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   dashboard.Fetcher
	favorites *favorites.Manager
	interval  time.Duration
}

// New creates a Scheduler.
func New(fetcher dashboard.Fetcher, favs *favorites.Manager, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		fetcher:   fetcher,
		favorites: favs,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refreshAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// refreshAll fetches each favorite by its stored coordinates and updates
// its cached reading. Fallback results are skipped so demo temperatures
// never masquerade as live readings.
func (s *Scheduler) refreshAll() {
	favs := s.favorites.List()
	if len(favs) == 0 {
		return
	}
	log.Printf("scheduler: refreshing %d favorites", len(favs))

	for _, fav := range favs {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		snap, report := s.fetcher.Fetch(ctx, fav.Coords)
		cancel()

		if report != nil {
			log.Printf("scheduler: skipping %s, provider unavailable: %s", fav.Name, report.Message)
			continue
		}
		if _, err := s.favorites.Refresh(fav.ID, snap); err != nil {
			// Favorite may have been deleted while the fetch was in flight.
			if !errors.Is(err, favorites.ErrNotFound) {
				log.Printf("scheduler: refresh failed for %s: %v", fav.Name, err)
			}
		}
	}
	log.Println("scheduler: completed favorites refresh")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
