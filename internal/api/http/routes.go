package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skycast-dev/skycast/internal/dashboard"
	"github.com/skycast-dev/skycast/internal/favorites"
	"github.com/skycast-dev/skycast/internal/prefs"
	"github.com/skycast-dev/skycast/internal/store"
	"github.com/skycast-dev/skycast/internal/weather"
)

var validate = validator.New()

// Deps bundles everything the engine API needs.
type Deps struct {
	Dashboard   *dashboard.Dashboard
	Preferences *prefs.Store
	Favorites   *favorites.Manager
	Recents     *favorites.Recents
	History     *store.SnapshotLog
}

// RegisterRoutes wires the engine HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(dashboardResponse(d.Dashboard.Status(), d.Preferences.Get()))
	})

	v1.Post("/dashboard/search", func(c *fiber.Ctx) error {
		var q searchQuery
		q.Query = c.Query("query")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "query parameter is required")
		}
		status := d.Dashboard.Search(c.Context(), q.Query)
		return c.JSON(dashboardResponse(status, d.Preferences.Get()))
	})

	v1.Post("/dashboard/locate", func(c *fiber.Ctx) error {
		status := d.Dashboard.UseCurrentLocation(c.Context())
		code := fiber.StatusOK
		if status.State == dashboard.StateError {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(dashboardResponse(status, d.Preferences.Get()))
	})

	v1.Get("/suggest", func(c *fiber.Ctx) error {
		locs := d.Dashboard.Suggest(c.Context(), c.Query("query"))
		if locs == nil {
			locs = []weather.Location{}
		}
		return c.JSON(fiber.Map{"locations": locs})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		key := weather.Location{Lat: req.Lat, Lon: req.Lon}.Key()
		snapshots, err := d.History.Range(key, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNoHistory) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location":  key,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	registerPreferenceRoutes(v1, d)
	registerFavoriteRoutes(v1, d)

	v1.Get("/searches/recent", func(c *fiber.Ctx) error {
		searches := d.Recents.List()
		if searches == nil {
			searches = []favorites.RecentSearch{}
		}
		return c.JSON(fiber.Map{"searches": searches})
	})
}

func registerPreferenceRoutes(v1 fiber.Router, d Deps) {
	v1.Get("/preferences", func(c *fiber.Ctx) error {
		return c.JSON(d.Preferences.Get())
	})

	v1.Put("/preferences", func(c *fiber.Ctx) error {
		var body struct {
			TempUnit *string `json:"tempUnit"`
			WindUnit *string `json:"windUnit"`
			DarkMode *bool   `json:"darkMode"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid preferences body")
		}

		var (
			p   = d.Preferences.Get()
			err error
		)
		if body.TempUnit != nil {
			if p, err = d.Preferences.SetTempUnit(weather.TempUnit(*body.TempUnit)); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		if body.WindUnit != nil {
			if p, err = d.Preferences.SetWindUnit(weather.WindUnit(*body.WindUnit)); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		if body.DarkMode != nil {
			if p, err = d.Preferences.SetDarkMode(*body.DarkMode); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(p)
	})
}

func registerFavoriteRoutes(v1 fiber.Router, d Deps) {
	v1.Get("/favorites", func(c *fiber.Ctx) error {
		favs := d.Favorites.List()
		if favs == nil {
			favs = []favorites.Favorite{}
		}
		return c.JSON(fiber.Map{"favorites": favs})
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		var body favoriteBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid favorite body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		fav, err := d.Favorites.Add(weather.Location{
			Name:    body.Name,
			Country: body.Country,
			Lat:     body.Lat,
			Lon:     body.Lon,
		}, body.CurrentTempC)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save favorite")
		}
		return c.Status(fiber.StatusCreated).JSON(fav)
	})

	v1.Delete("/favorites/:id", func(c *fiber.Ctx) error {
		if err := d.Favorites.Remove(c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove favorite")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

type searchQuery struct {
	Query string `validate:"required,min=1"`
}

type favoriteBody struct {
	Name         string  `json:"name" validate:"required"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon          float64 `json:"lon" validate:"gte=-180,lte=180"`
	CurrentTempC float64 `json:"currentTempC"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Lat  float64   `validate:"gte=-90,lte=90"`
	Lon  float64   `validate:"gte=-180,lte=180"`
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return errors.New("lat query parameter is required")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return errors.New("lon query parameter is required")
	}
	h.Lat, h.Lon = lat, lon

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	if h.From, err = parseTime(fromStr); err != nil {
		return err
	}
	if h.To, err = parseTime(toStr); err != nil {
		return err
	}
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

// displayValues are the presentation-ready numbers computed on read from
// the stored metric snapshot and the user's units.
type displayValues struct {
	TempUnit           weather.TempUnit  `json:"tempUnit"`
	WindUnit           weather.WindUnit  `json:"windUnit"`
	Temperature        float64           `json:"temperature"`
	FeelsLike          float64           `json:"feelsLike"`
	Wind               float64           `json:"wind"`
	RainProbabilityPct int               `json:"rainProbabilityPct"`
	Condition          weather.Condition `json:"condition"`
	DarkMode           bool              `json:"darkMode"`
}

type dashboardView struct {
	dashboard.Status
	Display *displayValues `json:"display,omitempty"`
}

func dashboardResponse(status dashboard.Status, p prefs.Preferences) dashboardView {
	view := dashboardView{Status: status}
	if snap := status.Snapshot; snap != nil {
		view.Display = &displayValues{
			TempUnit:           p.TempUnit,
			WindUnit:           p.WindUnit,
			Temperature:        weather.ConvertTemp(snap.Current.TemperatureC, p.TempUnit),
			FeelsLike:          weather.ConvertTemp(snap.Current.FeelsLikeC, p.TempUnit),
			Wind:               weather.ConvertWind(snap.Current.WindKph, p.WindUnit),
			RainProbabilityPct: weather.RainProbability(snap.Current.PrecipitationMm),
			Condition:          weather.ClassifyCode(snap.Current.ConditionCode),
			DarkMode:           p.DarkMode,
		}
	}
	return view
}
