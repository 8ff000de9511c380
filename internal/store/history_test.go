package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-dev/skycast/internal/weather"
)

func snapshotAt(ts time.Time, tempC float64) weather.Snapshot {
	return weather.Snapshot{
		Location:   weather.Location{Name: "London", Lat: 51.5074, Lon: -0.1278},
		CapturedAt: ts,
		Current:    weather.CurrentConditions{TemperatureC: tempC},
	}
}

func TestSnapshotLogLatestAndRange(t *testing.T) {
	log := NewSnapshotLog(10, 0)
	now := time.Now().UTC()

	log.Append(snapshotAt(now.Add(-2*time.Hour), 10))
	log.Append(snapshotAt(now.Add(-1*time.Hour), 12))
	log.Append(snapshotAt(now, 14))

	key := weather.Location{Lat: 51.5074, Lon: -0.1278}.Key()

	latest, err := log.Latest(key)
	require.NoError(t, err)
	assert.Equal(t, 14.0, latest.Current.TemperatureC)

	snaps, err := log.Range(key, now.Add(-90*time.Minute), now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 12.0, snaps[0].Current.TemperatureC)

	_, err = log.Latest("0.0000,0.0000")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestSnapshotLogRetentionByCount(t *testing.T) {
	log := NewSnapshotLog(2, 0)
	now := time.Now().UTC()

	log.Append(snapshotAt(now.Add(-3*time.Minute), 1))
	log.Append(snapshotAt(now.Add(-2*time.Minute), 2))
	log.Append(snapshotAt(now.Add(-1*time.Minute), 3))

	key := weather.Location{Lat: 51.5074, Lon: -0.1278}.Key()
	snaps, err := log.Range(key, now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.Equal(t, 2.0, snaps[0].Current.TemperatureC)
}

func TestSnapshotLogIgnoresFallback(t *testing.T) {
	log := NewSnapshotLog(10, 0)

	snap := snapshotAt(time.Now().UTC(), 20)
	snap.IsFallback = true
	log.Append(snap)

	_, err := log.Latest(snap.Location.Key())
	assert.ErrorIs(t, err, ErrNoHistory)
}
