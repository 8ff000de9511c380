package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycast-dev/skycast/internal/weather"
)

// TomorrowProvider implements weather.Provider and weather.Suggester against
// the Tomorrow.io v4 API.
type TomorrowProvider struct {
	name         string
	apiKey       string
	baseURL      string
	locationsURL string
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewTomorrowProvider(client *http.Client, apiKey string) *TomorrowProvider {
	return &TomorrowProvider{
		name:         "tomorrowio",
		apiKey:       apiKey,
		baseURL:      "https://api.tomorrow.io/v4/weather",
		locationsURL: "https://api.tomorrow.io/v4/locations",
		httpCfg:      defaultBackoff(client),
		circuit:      newCircuit("tomorrowio"),
	}
}

func (p *TomorrowProvider) Name() string {
	return p.name
}

func (p *TomorrowProvider) get(ctx context.Context, rawURL string) (*http.Response, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL, nil)
	}
	return doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
}

func (p *TomorrowProvider) weatherURL(endpoint, query string) string {
	values := url.Values{}
	values.Set("location", query)
	values.Set("apikey", p.apiKey)
	values.Set("units", "metric")
	return fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
}

// tomorrowValues is the shared shape of a Tomorrow.io values object.
type tomorrowValues struct {
	Temperature              float64 `json:"temperature"`
	TemperatureApparent      float64 `json:"temperatureApparent"`
	TemperatureMax           float64 `json:"temperatureMax"`
	TemperatureMin           float64 `json:"temperatureMin"`
	Humidity                 float64 `json:"humidity"`
	HumidityAvg              float64 `json:"humidityAvg"`
	WindSpeed                float64 `json:"windSpeed"` // m/s in metric mode
	WindSpeedMax             float64 `json:"windSpeedMax"`
	WindDirection            float64 `json:"windDirection"`
	UVIndex                  float64 `json:"uvIndex"`
	PrecipitationIntensity   float64 `json:"precipitationIntensity"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
	RainAccumulationSum      float64 `json:"rainAccumulationSum"`
	WeatherCode              int     `json:"weatherCode"`
	WeatherCodeMax           int     `json:"weatherCodeMax"`
	CloudCover               float64 `json:"cloudCover"`
}

type tomorrowLocation struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

func (p *TomorrowProvider) Realtime(ctx context.Context, query string) (weather.Location, weather.CurrentConditions, error) {
	if p.apiKey == "" {
		return weather.Location{}, weather.CurrentConditions{}, weather.ErrMissingCredential
	}

	resp, err := p.get(ctx, p.weatherURL("realtime", query))
	if err != nil {
		return weather.Location{}, weather.CurrentConditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data *struct {
			Time   time.Time      `json:"time"`
			Values tomorrowValues `json:"values"`
		} `json:"data"`
		Location *tomorrowLocation `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Location{}, weather.CurrentConditions{}, fmt.Errorf("decode realtime response: %w", err)
	}
	if payload.Data == nil || payload.Location == nil {
		return weather.Location{}, weather.CurrentConditions{}, fmt.Errorf("%w: missing data or location field", weather.ErrMalformedResponse)
	}

	v := payload.Data.Values
	current := weather.CurrentConditions{
		TemperatureC:     v.Temperature,
		FeelsLikeC:       v.TemperatureApparent,
		HumidityPct:      clampPct(v.Humidity),
		WindKph:          v.WindSpeed * 3.6,
		WindDirectionDeg: normDegrees(v.WindDirection),
		UVIndex:          v.UVIndex,
		PrecipitationMm:  v.PrecipitationIntensity,
		ConditionCode:    v.WeatherCode,
		CloudCoverPct:    clampPct(v.CloudCover),
	}

	return placeFromTomorrow(*payload.Location), current, nil
}

func (p *TomorrowProvider) Forecast(ctx context.Context, query string) ([]weather.DailyForecast, error) {
	if p.apiKey == "" {
		return nil, weather.ErrMissingCredential
	}

	resp, err := p.get(ctx, p.weatherURL("forecast", query))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	type timelineEntry struct {
		Time   time.Time      `json:"time"`
		Values tomorrowValues `json:"values"`
	}
	var payload struct {
		Timelines *struct {
			Daily  []timelineEntry `json:"daily"`
			Hourly []timelineEntry `json:"hourly"`
		} `json:"timelines"`
		Location *tomorrowLocation `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if payload.Timelines == nil {
		return nil, fmt.Errorf("%w: missing timelines field", weather.ErrMalformedResponse)
	}

	// Bucket hourly points under their calendar day.
	hoursByDay := make(map[string][]weather.HourlyForecast)
	for _, h := range payload.Timelines.Hourly {
		ts := h.Time.UTC()
		k := ts.Format("2006-01-02")
		if len(hoursByDay[k]) >= 24 {
			continue
		}
		hoursByDay[k] = append(hoursByDay[k], weather.HourlyForecast{
			Time:            ts,
			TemperatureC:    h.Values.Temperature,
			ConditionCode:   h.Values.WeatherCode,
			WindKph:         h.Values.WindSpeed * 3.6,
			HumidityPct:     clampPct(h.Values.Humidity),
			ChanceOfRainPct: clampPct(h.Values.PrecipitationProbability),
		})
	}

	forecast := make([]weather.DailyForecast, 0, len(payload.Timelines.Daily))
	for _, d := range payload.Timelines.Daily {
		if len(forecast) >= weather.MaxForecastDays {
			break
		}
		ts := d.Time.UTC()
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		forecast = append(forecast, weather.DailyForecast{
			Date:           date,
			MaxTempC:       d.Values.TemperatureMax,
			MinTempC:       d.Values.TemperatureMin,
			AvgHumidityPct: clampPct(d.Values.HumidityAvg),
			MaxWindKph:     d.Values.WindSpeedMax * 3.6,
			TotalPrecipMm:  d.Values.RainAccumulationSum,
			ConditionCode:  d.Values.WeatherCodeMax,
			Hours:          hoursByDay[date.Format("2006-01-02")],
		})
	}

	return forecast, nil
}

// Suggest queries the Tomorrow.io locations endpoint for autocomplete
// candidates. The adapter enforces the minimum query length.
func (p *TomorrowProvider) Suggest(ctx context.Context, query string) ([]weather.Location, error) {
	if p.apiKey == "" {
		return nil, weather.ErrMissingCredential
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("apikey", p.apiKey)

	resp, err := p.get(ctx, fmt.Sprintf("%s?%s", p.locationsURL, values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Locations []struct {
			Name    string  `json:"name"`
			Country string  `json:"country"`
			Lat     float64 `json:"lat"`
			Lon     float64 `json:"lon"`
		} `json:"locations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode locations response: %w", err)
	}

	locs := make([]weather.Location, 0, len(payload.Locations))
	for _, l := range payload.Locations {
		locs = append(locs, weather.Location{
			Name:    l.Name,
			Country: l.Country,
			Lat:     l.Lat,
			Lon:     l.Lon,
		})
	}
	return locs, nil
}

// placeFromTomorrow splits the vendor's single display name
// ("City, Region, Country") into name and country metadata.
func placeFromTomorrow(tl tomorrowLocation) weather.Location {
	loc := weather.Location{Name: tl.Name, Lat: tl.Lat, Lon: tl.Lon}
	if parts := strings.Split(tl.Name, ","); len(parts) > 1 {
		loc.Name = strings.TrimSpace(parts[0])
		loc.Country = strings.TrimSpace(parts[len(parts)-1])
	}
	return loc
}

// normDegrees maps any vendor angle onto [0, 360).
func normDegrees(x float64) int {
	return int(math.Mod(math.Mod(x, 360)+360, 360))
}

func clampPct(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
