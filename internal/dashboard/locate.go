package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"
)

// ErrLocationUnavailable is the permission/unsupported error for a server
// deployment with no configured coordinates.
var ErrLocationUnavailable = errors.New("geolocation is not available")

// StaticLocator serves fixed coordinates from configuration, standing in
// for the browser geolocation capability.
type StaticLocator struct {
	Lat float64
	Lon float64
}

func (s StaticLocator) Locate(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	return s.Lat, s.Lon, nil
}

// UnavailableLocator always fails, modelling denied or unsupported
// geolocation.
type UnavailableLocator struct{}

func (UnavailableLocator) Locate(ctx context.Context) (float64, float64, error) {
	return 0, 0, ErrLocationUnavailable
}

// GoogleGeocoder reverse-geocodes coordinates into a display name through
// the Google geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the geocoder API key and returns a geocoder,
// or nil when no key is configured.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	if apiKey == "" {
		return nil
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) PlaceName(lat, lon float64) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocoding: %w", err)
	}
	for _, addr := range addresses {
		if addr.City != "" && addr.Country != "" {
			return addr.City + ", " + addr.Country, nil
		}
	}
	if len(addresses) > 0 && strings.TrimSpace(addresses[0].FormattedAddress) != "" {
		return addresses[0].FormattedAddress, nil
	}
	return "", errors.New("no address for coordinates")
}
