package weather

import (
	"math"
	"time"
)

// Fixture produces the deterministic snapshot used when the live provider is
// unavailable. It is injected at adapter construction so tests can swap it.
type Fixture func(now time.Time) Snapshot

// DemoLocations is the static list backing autocomplete when the provider
// is unreachable.
var DemoLocations = []Location{
	{Name: "New York", Country: "United States", Lat: 40.7128, Lon: -74.006},
	{Name: "London", Country: "United Kingdom", Lat: 51.5074, Lon: -0.1278},
	{Name: "Tokyo", Country: "Japan", Lat: 35.6762, Lon: 139.6503},
	{Name: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522},
}

// DemoSnapshot is the default fixture: a fixed London payload with a seven
// day forecast. All values are deterministic functions of now, so two calls
// in the same instant yield identical snapshots.
func DemoSnapshot(now time.Time) Snapshot {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	forecast := make([]DailyForecast, 0, 7)
	for d := 0; d < 7; d++ {
		date := today.AddDate(0, 0, d)
		day := DailyForecast{
			Date: date,
			// Mild, reproducible spread across the week.
			MaxTempC:       22 + float64(d%3),
			MinTempC:       15 + float64(d%2),
			AvgHumidityPct: 70 + 2*(d%4),
			MaxWindKph:     20 + float64(d%5),
			TotalPrecipMm:  0.2 * float64(d%3),
			ConditionCode:  1101, // partly cloudy
			Hours:          demoHours(date),
		}
		forecast = append(forecast, day)
	}

	return Snapshot{
		Location: Location{
			Name:    "London",
			Country: "United Kingdom",
			Lat:     51.5074,
			Lon:     -0.1278,
		},
		CapturedAt: now,
		Current: CurrentConditions{
			TemperatureC:     20,
			FeelsLikeC:       21,
			HumidityPct:      65,
			WindKph:          15,
			WindDirectionDeg: 230,
			UVIndex:          4,
			PrecipitationMm:  0,
			ConditionCode:    1101,
			CloudCoverPct:    40,
		},
		Forecast:   forecast,
		IsFallback: true,
	}
}

func demoHours(date time.Time) []HourlyForecast {
	hours := make([]HourlyForecast, 0, 24)
	for i := 0; i < 24; i++ {
		code := 1000 // clear at night
		if i > 6 && i < 18 {
			code = 1101
		}
		rain := 0
		if i > 12 && i < 16 {
			rain = 30
		}
		hours = append(hours, HourlyForecast{
			Time:            date.Add(time.Duration(i) * time.Hour),
			TemperatureC:    18 + math.Sin(float64(i)/24*math.Pi)*4,
			ConditionCode:   code,
			WindKph:         15,
			HumidityPct:     65,
			ChanceOfRainPct: rain,
		})
	}
	return hours
}
