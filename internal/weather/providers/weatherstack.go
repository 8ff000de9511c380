package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/skycast-dev/skycast/internal/weather"
)

// WeatherstackClient backs the passthrough proxy endpoints. Responses are
// returned as raw vendor JSON; the proxy does not normalize them.
type WeatherstackClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherstackClient(client *http.Client, apiKey string) *WeatherstackClient {
	return &WeatherstackClient{
		apiKey:  apiKey,
		baseURL: "http://api.weatherstack.com",
		httpCfg: defaultBackoff(client),
		circuit: newCircuit("weatherstack"),
	}
}

// Current proxies the current-conditions endpoint.
func (c *WeatherstackClient) Current(ctx context.Context, location string) (json.RawMessage, error) {
	return c.call(ctx, "current", location, nil)
}

// Forecast proxies the 7-day forecast endpoint.
func (c *WeatherstackClient) Forecast(ctx context.Context, location string) (json.RawMessage, error) {
	return c.call(ctx, "forecast", location, url.Values{"forecast_days": {"7"}})
}

// Historical proxies the historical endpoint for a single ISO date.
func (c *WeatherstackClient) Historical(ctx context.Context, location, date string) (json.RawMessage, error) {
	return c.call(ctx, "historical", location, url.Values{"historical_date": {date}})
}

func (c *WeatherstackClient) call(ctx context.Context, endpoint, location string, extra url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, weather.ErrMissingCredential
	}

	values := url.Values{}
	values.Set("access_key", c.apiKey)
	values.Set("query", location)
	values.Set("units", "m")
	for k, vs := range extra {
		for _, v := range vs {
			values.Add(k, v)
		}
	}

	rawURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, values.Encode())
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weatherstack response: %w", err)
	}

	// Weatherstack reports errors inside a 200 body.
	var envelope struct {
		Success *bool `json:"success"`
		Error   struct {
			Code int    `json:"code"`
			Type string `json:"type"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if envelope.Success != nil && !*envelope.Success {
		switch envelope.Error.Code {
		case 104, 429: // usage limit reached
			return nil, fmt.Errorf("%w: %s", weather.ErrRateLimited, envelope.Error.Info)
		case 615, 601: // request failed / invalid query
			return nil, fmt.Errorf("%w: %s", weather.ErrNotFound, envelope.Error.Info)
		case 101: // invalid access key
			return nil, fmt.Errorf("%w: %s", weather.ErrMissingCredential, envelope.Error.Info)
		default:
			return nil, fmt.Errorf("%w: weatherstack error %d: %s", weather.ErrUpstreamStatus, envelope.Error.Code, envelope.Error.Info)
		}
	}

	return body, nil
}
