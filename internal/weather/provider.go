package weather

import "context"

// Provider abstracts the external weather vendor. Realtime and Forecast are
// logically separate vendor calls; the adapter joins them into one snapshot.
type Provider interface {
	Name() string
	Realtime(ctx context.Context, query string) (Location, CurrentConditions, error)
	Forecast(ctx context.Context, query string) ([]DailyForecast, error)
}

// Suggester abstracts the location autocomplete endpoint.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]Location, error)
}
