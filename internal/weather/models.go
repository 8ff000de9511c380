package weather

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Condition is a normalized high-level weather condition used for icon and
// copy selection.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloud   Condition = "cloud"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionFog     Condition = "fog"
	ConditionStorm   Condition = "storm"
)

// Location is a resolved place. Identity is the lat/lon pair; Name and
// Country are display metadata from the provider and are not guaranteed
// stable across providers.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}

// Coords returns the "lat,lon" query form accepted by providers.
func (l Location) Coords() string {
	return fmt.Sprintf("%g,%g", l.Lat, l.Lon)
}

// Label returns a human-readable "Name, Country" string.
func (l Location) Label() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// CurrentConditions holds the normalized current observation, always metric.
type CurrentConditions struct {
	TemperatureC     float64 `json:"temperatureC"`
	FeelsLikeC       float64 `json:"feelsLikeC"`
	HumidityPct      int     `json:"humidityPct"`
	WindKph          float64 `json:"windKph"`
	WindDirectionDeg int     `json:"windDirectionDeg"`
	UVIndex          float64 `json:"uvIndex"`
	PrecipitationMm  float64 `json:"precipitationMm"`
	ConditionCode    int     `json:"conditionCode"`
	CloudCoverPct    int     `json:"cloudCoverPct"`
}

// HourlyForecast is a single hourly forecast point.
type HourlyForecast struct {
	Time            time.Time `json:"time"`
	TemperatureC    float64   `json:"temperatureC"`
	ConditionCode   int       `json:"conditionCode"`
	WindKph         float64   `json:"windKph"`
	HumidityPct     int       `json:"humidityPct"`
	ChanceOfRainPct int       `json:"chanceOfRainPct"`
}

// DailyForecast is a single day of forecast with up to 24 hourly points.
type DailyForecast struct {
	Date           time.Time        `json:"date"`
	MaxTempC       float64          `json:"maxTempC"`
	MinTempC       float64          `json:"minTempC"`
	AvgHumidityPct int              `json:"avgHumidityPct"`
	MaxWindKph     float64          `json:"maxWindKph"`
	TotalPrecipMm  float64          `json:"totalPrecipMm"`
	ConditionCode  int              `json:"conditionCode"`
	Hours          []HourlyForecast `json:"hours,omitempty"`
}

// MaxForecastDays bounds the forecast to today plus seven days.
const MaxForecastDays = 8

// Snapshot is the fully-replacing weather payload for one location at one
// point in time. IsFallback marks demo data; it must never be presented as
// live data.
type Snapshot struct {
	Location   Location          `json:"location"`
	CapturedAt time.Time         `json:"capturedAt"` // always UTC
	Current    CurrentConditions `json:"current"`
	Forecast   []DailyForecast   `json:"forecast"`
	IsFallback bool              `json:"isFallback"`
}

var coordsRe = regexp.MustCompile(`^-?\d+(\.\d+)?,-?\d+(\.\d+)?$`)

// IsCoordinates reports whether the query looks like a "lat,lon" pair.
// Malformed coordinate-like strings are still valid free-text queries; the
// provider is the source of truth for resolvability.
func IsCoordinates(query string) bool {
	return coordsRe.MatchString(strings.TrimSpace(query))
}
