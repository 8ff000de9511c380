package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-dev/skycast/internal/favorites"
	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
)

type stubFetcher struct {
	tempC    float64
	fallback bool
}

func (s stubFetcher) Fetch(ctx context.Context, query string) (weather.Snapshot, *weather.FetchReport) {
	if s.fallback {
		return weather.DemoSnapshot(time.Now()), weather.NewFetchReport(weather.ErrRateLimited)
	}
	return weather.Snapshot{
		Location:   weather.Location{Name: "London", Lat: 51.5074, Lon: -0.1278},
		CapturedAt: time.Now().UTC(),
		Current:    weather.CurrentConditions{TemperatureC: s.tempC},
	}, nil
}

func (s stubFetcher) Suggest(ctx context.Context, query string) []weather.Location {
	return nil
}

func TestRefreshAllUpdatesFavorites(t *testing.T) {
	favs := favorites.NewManager(store.NewMemoryKV())
	fav, err := favs.Add(weather.Location{Name: "London", Lat: 51.5074, Lon: -0.1278}, 20)
	require.NoError(t, err)

	s := New(stubFetcher{tempC: 7}, favs, time.Hour)
	s.refreshAll()

	updated := favs.List()
	require.Len(t, updated, 1)
	assert.Equal(t, fav.ID, updated[0].ID)
	assert.Equal(t, 7.0, updated[0].LastTempC)
	assert.True(t, updated[0].LastUpdated.After(fav.LastUpdated) || updated[0].LastUpdated.Equal(fav.LastUpdated))
}

func TestRefreshAllSkipsFallbackResults(t *testing.T) {
	favs := favorites.NewManager(store.NewMemoryKV())
	fav, err := favs.Add(weather.Location{Name: "London", Lat: 51.5074, Lon: -0.1278}, 20)
	require.NoError(t, err)

	s := New(stubFetcher{fallback: true}, favs, time.Hour)
	s.refreshAll()

	updated := favs.List()
	require.Len(t, updated, 1)
	assert.Equal(t, 20.0, updated[0].LastTempC, "demo temperature must not overwrite a favorite")
	assert.Equal(t, fav.LastUpdated, updated[0].LastUpdated)
}
