package weather

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	loc      Location
	current  CurrentConditions
	forecast []DailyForecast

	realtimeErr error
	forecastErr error

	calls atomic.Int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Realtime(ctx context.Context, query string) (Location, CurrentConditions, error) {
	f.calls.Add(1)
	return f.loc, f.current, f.realtimeErr
}

func (f *fakeProvider) Forecast(ctx context.Context, query string) ([]DailyForecast, error) {
	f.calls.Add(1)
	return f.forecast, f.forecastErr
}

type fakeSuggester struct {
	locs  []Location
	err   error
	calls atomic.Int32
}

func (f *fakeSuggester) Suggest(ctx context.Context, query string) ([]Location, error) {
	f.calls.Add(1)
	return f.locs, f.err
}

func newTestAdapter(p Provider, s Suggester) *Adapter {
	return NewAdapter(p, s, time.Minute)
}

func TestFetchSuccess(t *testing.T) {
	p := &fakeProvider{
		loc:     Location{Name: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522},
		current: CurrentConditions{TemperatureC: 18, ConditionCode: 1000},
		forecast: []DailyForecast{
			{Date: time.Now().UTC().Truncate(24 * time.Hour), MaxTempC: 21, MinTempC: 12},
		},
	}
	a := newTestAdapter(p, &fakeSuggester{})

	snap, report := a.Fetch(context.Background(), "Paris")
	require.Nil(t, report)
	assert.False(t, snap.IsFallback)
	assert.Equal(t, "Paris", snap.Location.Name)
	assert.Len(t, snap.Forecast, 1)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestFetchEmptyQueryShortCircuits(t *testing.T) {
	p := &fakeProvider{}
	a := newTestAdapter(p, &fakeSuggester{})

	snap, report := a.Fetch(context.Background(), "   ")
	require.NotNil(t, report)
	assert.Equal(t, CauseEmptyQuery, report.Cause)
	assert.True(t, snap.IsFallback)
	assert.Equal(t, int32(0), p.calls.Load(), "no network call for an empty query")
}

func TestFetchFallbackSnapshotIsStructurallyValid(t *testing.T) {
	// A provider body missing its current payload fails the whole fetch;
	// the fallback snapshot must still be complete and renderable.
	p := &fakeProvider{realtimeErr: ErrMalformedResponse}
	a := newTestAdapter(p, &fakeSuggester{})

	snap, report := a.Fetch(context.Background(), "London")
	require.NotNil(t, report)
	assert.Equal(t, CauseTransport, report.Cause)
	assert.True(t, snap.IsFallback)

	assert.Equal(t, "London", snap.Location.Name)
	require.Len(t, snap.Forecast, 7)
	for _, day := range snap.Forecast {
		assert.Len(t, day.Hours, 24)
		assert.GreaterOrEqual(t, day.AvgHumidityPct, 0)
		assert.LessOrEqual(t, day.AvgHumidityPct, 100)
		for _, h := range day.Hours {
			assert.GreaterOrEqual(t, h.ChanceOfRainPct, 0)
			assert.LessOrEqual(t, h.ChanceOfRainPct, 100)
		}
	}
	assert.GreaterOrEqual(t, snap.Current.HumidityPct, 0)
	assert.LessOrEqual(t, snap.Current.HumidityPct, 100)
}

func TestFetchFailsWhenEitherCallFails(t *testing.T) {
	p := &fakeProvider{
		loc:         Location{Name: "Oslo"},
		forecastErr: ErrRateLimited,
	}
	a := newTestAdapter(p, &fakeSuggester{})

	snap, report := a.Fetch(context.Background(), "Oslo")
	require.NotNil(t, report)
	assert.Equal(t, CauseRateLimit, report.Cause)
	assert.True(t, snap.IsFallback, "partial success must not produce a live snapshot")
}

func TestFetchReportCauses(t *testing.T) {
	cases := []struct {
		err  error
		want FailureCause
	}{
		{ErrMissingCredential, CauseMissingKey},
		{ErrNotFound, CauseNotFound},
		{ErrRateLimited, CauseRateLimit},
		{ErrUpstreamStatus, CauseHTTP},
		{ErrMalformedResponse, CauseTransport},
		{context.DeadlineExceeded, CauseTransport},
	}
	for _, tc := range cases {
		p := &fakeProvider{realtimeErr: tc.err}
		a := newTestAdapter(p, &fakeSuggester{})

		_, report := a.Fetch(context.Background(), "anywhere")
		require.NotNil(t, report, "%v", tc.err)
		assert.Equal(t, tc.want, report.Cause, "%v", tc.err)
		assert.NotEmpty(t, report.Message)
	}

	// Each cause carries a distinct user-facing message.
	seen := make(map[string]FailureCause)
	for _, tc := range cases[:5] {
		report := NewFetchReport(tc.err)
		if prev, dup := seen[report.Message]; dup {
			t.Fatalf("causes %s and %s share message %q", prev, report.Cause, report.Message)
		}
		seen[report.Message] = report.Cause
	}
}

func TestSuggestBelowThreshold(t *testing.T) {
	s := &fakeSuggester{locs: []Location{{Name: "London"}}}
	a := newTestAdapter(&fakeProvider{}, s)

	assert.Empty(t, a.Suggest(context.Background(), "L"))
	assert.Empty(t, a.Suggest(context.Background(), "  a  "))
	assert.Equal(t, int32(0), s.calls.Load(), "no network call below the threshold")
}

func TestSuggestFallsBackToDemoList(t *testing.T) {
	s := &fakeSuggester{err: ErrUpstreamStatus}
	a := newTestAdapter(&fakeProvider{}, s)

	locs := a.Suggest(context.Background(), "Lond")
	require.Len(t, locs, 1)
	assert.Equal(t, "London", locs[0].Name)

	// Country matches count too.
	locs = a.Suggest(context.Background(), "states")
	require.Len(t, locs, 1)
	assert.Equal(t, "New York", locs[0].Name)

	assert.Empty(t, a.Suggest(context.Background(), "zzz"))
}

func TestSuggestCachesLiveResults(t *testing.T) {
	s := &fakeSuggester{locs: []Location{{Name: "Lisbon", Country: "Portugal"}}}
	a := newTestAdapter(&fakeProvider{}, s)

	first := a.Suggest(context.Background(), "Lisb")
	second := a.Suggest(context.Background(), "lisb") // cache key is case-insensitive

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), s.calls.Load(), "second lookup must hit the cache")
}

func TestDemoSnapshotDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, DemoSnapshot(now), DemoSnapshot(now))
}

func TestIsCoordinates(t *testing.T) {
	assert.True(t, IsCoordinates("51.5074,-0.1278"))
	assert.True(t, IsCoordinates("-33,151"))
	assert.False(t, IsCoordinates("London"))
	assert.False(t, IsCoordinates("51.5,"))
}
