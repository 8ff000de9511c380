package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-dev/skycast/internal/weather"
)

func newMockedWeatherstack(t *testing.T) *WeatherstackClient {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	c := NewWeatherstackClient(client, "test-key")
	c.httpCfg.Backoff.MaxRetries = 0
	return c
}

func TestWeatherstackCurrentPassthrough(t *testing.T) {
	c := newMockedWeatherstack(t)

	body := `{"location": {"name": "Paris"}, "current": {"temperature": 12}}`
	httpmock.RegisterResponder(http.MethodGet, `=~^http://api\.weatherstack\.com/current`,
		httpmock.NewStringResponder(200, body))

	raw, err := c.Current(context.Background(), "Paris")
	require.NoError(t, err)
	// Vendor JSON comes back verbatim, not re-marshalled.
	assert.JSONEq(t, body, string(raw))
}

func TestWeatherstackErrorInsideOKBody(t *testing.T) {
	c := newMockedWeatherstack(t)

	// Weatherstack signals failure inside a 200 response.
	httpmock.RegisterResponder(http.MethodGet, `=~^http://api\.weatherstack\.com/current`,
		httpmock.NewStringResponder(200, `{
			"success": false,
			"error": {"code": 615, "type": "request_failed", "info": "Your API request failed."}
		}`))

	_, err := c.Current(context.Background(), "nowhere")
	require.ErrorIs(t, err, weather.ErrNotFound)
}

func TestWeatherstackRateLimit(t *testing.T) {
	c := newMockedWeatherstack(t)

	httpmock.RegisterResponder(http.MethodGet, `=~^http://api\.weatherstack\.com/forecast`,
		httpmock.NewStringResponder(200, `{
			"success": false,
			"error": {"code": 104, "type": "usage_limit_reached", "info": "Monthly usage limit reached."}
		}`))

	_, err := c.Forecast(context.Background(), "Paris")
	require.ErrorIs(t, err, weather.ErrRateLimited)
}

func TestWeatherstackHistoricalQuery(t *testing.T) {
	c := newMockedWeatherstack(t)

	httpmock.RegisterResponder(http.MethodGet, `=~^http://api\.weatherstack\.com/historical`,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "2025-12-24", q.Get("historical_date"))
			assert.Equal(t, "m", q.Get("units"))
			assert.Equal(t, "Berlin", q.Get("query"))
			return httpmock.NewStringResponse(200, `{"historical": {}}`), nil
		})

	_, err := c.Historical(context.Background(), "Berlin", "2025-12-24")
	require.NoError(t, err)
}

func TestWeatherstackMissingKey(t *testing.T) {
	c := NewWeatherstackClient(&http.Client{}, "")
	_, err := c.Current(context.Background(), "Paris")
	assert.ErrorIs(t, err, weather.ErrMissingCredential)
}
