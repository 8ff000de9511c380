package httpapi

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/skycast-dev/skycast/internal/weather"
)

// VendorProxy is the weatherstack client surface used by the passthrough
// endpoints.
type VendorProxy interface {
	Current(ctx context.Context, location string) (json.RawMessage, error)
	Forecast(ctx context.Context, location string) (json.RawMessage, error)
	Historical(ctx context.Context, location, date string) (json.RawMessage, error)
}

// RegisterProxyRoutes wires the thin vendor passthrough endpoints. The
// client may call these instead of the vendor directly so the API key stays
// server-side; vendor JSON is returned verbatim.
func RegisterProxyRoutes(app *fiber.App, vendor VendorProxy) {
	app.Get("/api/weather", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Location is required"})
		}
		raw, err := vendor.Current(c.Context(), location)
		if err != nil {
			return proxyError(c, "Failed to fetch weather data", err)
		}
		return sendRawJSON(c, raw)
	})

	app.Get("/api/forecast", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Location is required"})
		}
		raw, err := vendor.Forecast(c.Context(), location)
		if err != nil {
			return proxyError(c, "Failed to fetch forecast data", err)
		}
		return sendRawJSON(c, raw)
	})

	app.Get("/api/historical", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Location is required"})
		}
		date := c.Query("date", "2023-01-01")
		raw, err := vendor.Historical(c.Context(), location, date)
		if err != nil {
			return proxyError(c, "Failed to fetch historical weather data", err)
		}
		return sendRawJSON(c, raw)
	})
}

func sendRawJSON(c *fiber.Ctx, raw json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

func proxyError(c *fiber.Ctx, summary string, err error) error {
	code := fiber.StatusBadGateway
	switch {
	case errors.Is(err, weather.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, weather.ErrRateLimited):
		code = fiber.StatusTooManyRequests
	case errors.Is(err, weather.ErrMissingCredential):
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   summary,
		"message": err.Error(),
	})
}
