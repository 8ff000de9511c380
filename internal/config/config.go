package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime settings, read from the environment.
type AppConfig struct {
	TomorrowAPIKey     string
	WeatherstackAPIKey string
	GeocoderAPIKey     string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// DefaultLocation is fetched on startup so the dashboard always has
	// something to show.
	DefaultLocation string

	// HomeLat/HomeLon stand in for browser geolocation; unset means the
	// locate endpoint reports geolocation as unavailable.
	HomeLat *float64
	HomeLon *float64

	// LocateTimeout bounds coordinate acquisition.
	LocateTimeout time.Duration

	// RefreshInterval controls how often favorites are re-fetched.
	RefreshInterval time.Duration

	// SuggestCacheTTL controls autocomplete result caching.
	SuggestCacheTTL time.Duration

	// Snapshot history retention.
	HistoryMaxEntries int
	HistoryMaxAge     time.Duration

	// DBPath is the SQLite file backing preferences and favorites.
	DBPath string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.TomorrowAPIKey = os.Getenv("TOMORROW_API_KEY")
	cfg.WeatherstackAPIKey = os.Getenv("WEATHERSTACK_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.LocateTimeout, err = getenvDuration("LOCATE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SuggestCacheTTL, err = getenvDuration("SUGGEST_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.HistoryMaxEntries = getenvInt("HISTORY_MAX_ENTRIES", 96)
	cfg.DefaultLocation = getenvDefault("DEFAULT_LOCATION", "London")
	cfg.DBPath = getenvDefault("DB_PATH", "skycast.db")
	cfg.Port = getenvDefault("PORT", "8080")

	if latStr, lonStr := os.Getenv("HOME_LAT"), os.Getenv("HOME_LON"); latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HOME_LAT: %w", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HOME_LON: %w", err)
		}
		cfg.HomeLat, cfg.HomeLon = &lat, &lon
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
