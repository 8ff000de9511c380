package weather

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// minSuggestLen is the autocomplete threshold; shorter queries never reach
// the network.
const minSuggestLen = 2

// Adapter fronts the external provider with the fallback-never-fails
// contract: Fetch always returns a renderable snapshot, substituting the
// demo fixture on any failure and reporting the cause separately.
type Adapter struct {
	provider   Provider
	suggester  Suggester
	fixture    Fixture
	demoPlaces []Location

	suggestions *gocache.Cache
	now         func() time.Time
}

// AdapterOption customizes an Adapter.
type AdapterOption func(*Adapter)

// WithFixture swaps the demo snapshot fixture.
func WithFixture(f Fixture) AdapterOption {
	return func(a *Adapter) { a.fixture = f }
}

// WithDemoLocations swaps the static autocomplete fallback list.
func WithDemoLocations(locs []Location) AdapterOption {
	return func(a *Adapter) { a.demoPlaces = locs }
}

// WithClock swaps the time source, for tests.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates an Adapter over the given provider and suggester.
// Successful autocomplete results are cached for suggestTTL per query.
func NewAdapter(provider Provider, suggester Suggester, suggestTTL time.Duration, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		provider:    provider,
		suggester:   suggester,
		fixture:     DemoSnapshot,
		demoPlaces:  DemoLocations,
		suggestions: gocache.New(suggestTTL, 2*suggestTTL),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch resolves a location query into a snapshot. The realtime and
// forecast calls are issued concurrently and joined; if either fails the
// whole fetch is treated as failed and the demo fixture is returned with
// IsFallback=true. Fetch never returns an error: a non-nil report carries
// the failure cause and user-facing message.
func (a *Adapter) Fetch(ctx context.Context, query string) (Snapshot, *FetchReport) {
	query = strings.TrimSpace(query)
	if query == "" {
		return a.fallback(ErrEmptyQuery)
	}

	var (
		wg          sync.WaitGroup
		loc         Location
		current     CurrentConditions
		forecast    []DailyForecast
		realtimeErr error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		loc, current, realtimeErr = a.provider.Realtime(ctx, query)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = a.provider.Forecast(ctx, query)
	}()
	wg.Wait()

	if realtimeErr != nil {
		log.Printf("provider %s realtime fetch failed for %q: %v", a.provider.Name(), query, realtimeErr)
		return a.fallback(realtimeErr)
	}
	if forecastErr != nil {
		log.Printf("provider %s forecast fetch failed for %q: %v", a.provider.Name(), query, forecastErr)
		return a.fallback(forecastErr)
	}

	if len(forecast) > MaxForecastDays {
		forecast = forecast[:MaxForecastDays]
	}

	return Snapshot{
		Location:   loc,
		CapturedAt: a.now().UTC(),
		Current:    current,
		Forecast:   forecast,
		IsFallback: false,
	}, nil
}

func (a *Adapter) fallback(err error) (Snapshot, *FetchReport) {
	return a.fixture(a.now()), NewFetchReport(err)
}

// Suggest returns autocomplete candidates for a partial query. Queries
// shorter than two characters return an empty list without touching the
// network. On provider error the static demo list is filtered by
// case-insensitive substring match on name or country. Never fails.
func (a *Adapter) Suggest(ctx context.Context, query string) []Location {
	query = strings.TrimSpace(query)
	if len(query) < minSuggestLen {
		return nil
	}

	key := strings.ToLower(query)
	if cached, ok := a.suggestions.Get(key); ok {
		return cached.([]Location)
	}

	locs, err := a.suggester.Suggest(ctx, query)
	if err != nil {
		log.Printf("autocomplete failed for %q, serving demo list: %v", query, err)
		return filterLocations(a.demoPlaces, key)
	}

	a.suggestions.Set(key, locs, gocache.DefaultExpiration)
	return locs
}

func filterLocations(locs []Location, loweredQuery string) []Location {
	var out []Location
	for _, l := range locs {
		if strings.Contains(strings.ToLower(l.Name), loweredQuery) ||
			strings.Contains(strings.ToLower(l.Country), loweredQuery) {
			out = append(out, l)
		}
	}
	return out
}
