package favorites

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
)

var london = weather.Location{Name: "London", Country: "United Kingdom", Lat: 51.5074, Lon: -0.1278}
var tokyo = weather.Location{Name: "Tokyo", Country: "Japan", Lat: 35.6762, Lon: 139.6503}

func TestAddThenRemoveRestoresList(t *testing.T) {
	m := NewManager(store.NewMemoryKV())

	_, err := m.Add(london, 20)
	require.NoError(t, err)
	_, err = m.Add(tokyo, 26)
	require.NoError(t, err)
	before := m.List()

	fav, err := m.Add(weather.Location{Name: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522}, 18)
	require.NoError(t, err)
	require.NoError(t, m.Remove(fav.ID))

	assert.Equal(t, before, m.List(), "add then remove leaves the list exactly as before")
}

func TestAddAllowsDuplicateCoordinates(t *testing.T) {
	m := NewManager(store.NewMemoryKV())

	a, err := m.Add(london, 20)
	require.NoError(t, err)
	b, err := m.Add(london, 21)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "each favorite gets a unique id")
	assert.Len(t, m.List(), 2)
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	m := NewManager(store.NewMemoryKV())

	_, err := m.Add(london, 20)
	require.NoError(t, err)

	assert.NoError(t, m.Remove("no-such-id"))
	assert.Len(t, m.List(), 1)
}

func TestRefresh(t *testing.T) {
	m := NewManager(store.NewMemoryKV())
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	fav, err := m.Add(london, 20)
	require.NoError(t, err)

	snap := weather.Snapshot{
		Location: london,
		Current:  weather.CurrentConditions{TemperatureC: 3.5},
	}
	updated, err := m.Refresh(fav.ID, snap)
	require.NoError(t, err)
	assert.Equal(t, 3.5, updated.LastTempC)
	assert.Equal(t, m.now(), updated.LastUpdated)

	_, err = m.Refresh("no-such-id", snap)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorruptStoredListResets(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set("favorites", "{not json"))

	m := NewManager(kv)
	assert.Empty(t, m.List())

	// The next write repairs the stored value.
	_, err := m.Add(london, 20)
	require.NoError(t, err)
	assert.Len(t, m.List(), 1)
}

func TestRecentsRingDedupesAndCaps(t *testing.T) {
	r := NewRecents(store.NewMemoryKV())

	for _, q := range []string{"London", "Tokyo", "Paris", "London", "Oslo", "Berlin", "Madrid"} {
		require.NoError(t, r.Record(q))
	}

	searches := r.List()
	require.Len(t, searches, 5, "ring holds at most five entries")
	assert.Equal(t, "Madrid", searches[0].Query, "most recent first")

	queries := make([]string, 0, len(searches))
	for _, s := range searches {
		queries = append(queries, s.Query)
	}
	assert.Equal(t, []string{"Madrid", "Berlin", "Oslo", "London", "Paris"}, queries)
}

func TestRecentsCorruptStoredListResets(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set("recentSearches", "42"))

	r := NewRecents(kv)
	assert.Empty(t, r.List())
}
