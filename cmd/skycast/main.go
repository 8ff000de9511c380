package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/skycast-dev/skycast/internal/api/http"
	"github.com/skycast-dev/skycast/internal/config"
	"github.com/skycast-dev/skycast/internal/dashboard"
	"github.com/skycast-dev/skycast/internal/favorites"
	"github.com/skycast-dev/skycast/internal/prefs"
	"github.com/skycast-dev/skycast/internal/scheduler"
	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
	"github.com/skycast-dev/skycast/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Durable key-value store, the localStorage stand-in.
	kv, err := store.NewSQLiteKV(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open key-value store: %v", err)
	}
	defer kv.Close()

	prefStore := prefs.NewStore(kv)
	favManager := favorites.NewManager(kv)
	recents := favorites.NewRecents(kv)
	history := store.NewSnapshotLog(cfg.HistoryMaxEntries, cfg.HistoryMaxAge)

	// Provider adapter with the demo fixture fallback.
	provider := providers.NewTomorrowProvider(httpClient, cfg.TomorrowAPIKey)
	adapter := weather.NewAdapter(provider, provider, cfg.SuggestCacheTTL)

	// Geolocation stand-in: fixed home coordinates if configured.
	var locator dashboard.Locator = dashboard.UnavailableLocator{}
	if cfg.HomeLat != nil && cfg.HomeLon != nil {
		locator = dashboard.StaticLocator{Lat: *cfg.HomeLat, Lon: *cfg.HomeLon}
	}
	var geocoder dashboard.ReverseGeocoder
	if g := dashboard.NewGoogleGeocoder(cfg.GeocoderAPIKey); g != nil {
		geocoder = g
	}

	dash := dashboard.New(adapter, recents, history, locator, geocoder, cfg.LocateTimeout)

	// Initial fetch so the dashboard is never empty.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		status := dash.Search(ctx, cfg.DefaultLocation)
		log.Printf("INFO: initial fetch for %q finished in state %s", cfg.DefaultLocation, status.State)
	}()

	// Periodic favorites refresh.
	sched := scheduler.New(adapter, favManager, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
		})
	})

	// Engine API and the vendor passthrough.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Dashboard:   dash,
		Preferences: prefStore,
		Favorites:   favManager,
		Recents:     recents,
		History:     history,
	})
	httpapi.RegisterProxyRoutes(app, providers.NewWeatherstackClient(httpClient, cfg.WeatherstackAPIKey))

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
