package web

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/avolkov/city-weather/internal/geo"
	"github.com/avolkov/city-weather/internal/history"
	"github.com/avolkov/city-weather/internal/weather"
)

// ForecastFetcher returns the 24-hour hourly forecast for coordinates.
type ForecastFetcher interface {
	Fetch(ctx context.Context, coords geo.Coordinates) (weather.Forecast, error)
}

// HistoryStore records searches and answers the last-city and popularity
// lookups.
type HistoryStore interface {
	RecordSearch(userID, city, timestamp string)
	LastSearchedCity(userID string) (string, bool)
	TopCities(limit int) ([]history.CityCount, error)
}

// LinkData is the last-city affordance rendered in the page header.
type LinkData struct {
	Text string
	Href string
}

// currentConditions is the summary widget's view of the current hour. The
// summary glyph drops the hourly variant suffix.
type currentConditions struct {
	weather.HourEntry
	SummaryIcon string
}

// Handler orchestrates a page request: geocoding, forecast fetch, history,
// and view-model assembly.
type Handler struct {
	geocoder  geo.Geocoder
	forecasts ForecastFetcher
	history   HistoryStore
	now       func() time.Time
	loc       *time.Location
}

// NewHandler wires the page handlers' collaborators.
func NewHandler(geocoder geo.Geocoder, forecasts ForecastFetcher, store HistoryStore) *Handler {
	return &Handler{
		geocoder:  geocoder,
		forecasts: forecasts,
		history:   store,
		now:       time.Now,
		loc:       weather.ForecastLocation(),
	}
}

// RegisterRoutes wires the handlers into the fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.getPage)
	app.Post("/", h.postPage)
	app.Get("/popular", h.getPopular)
}

// getPage renders the base page, or a weather lookup when the city query
// parameter is present. A link click is not a new search; nothing is
// recorded on this path.
func (h *Handler) getPage(c *fiber.Ctx) error {
	link := h.lastCityLink(c.IP())

	city := c.Query("city")
	if city == "" {
		return c.Render("base", fiber.Map{"Link": link})
	}
	return h.renderWeather(c, city, link, false)
}

// postPage handles the search form: the only path that records history.
func (h *Handler) postPage(c *fiber.Ctx) error {
	link := h.lastCityLink(c.IP())
	return h.renderWeather(c, c.FormValue("city"), link, true)
}

func (h *Handler) renderWeather(c *fiber.Ctx, city string, link *LinkData, record bool) error {
	coords, err := h.geocoder.Resolve(c.UserContext(), city)
	if err != nil {
		// The geocoder collapses every failure mode to not-found.
		return c.Render("weather", fiber.Map{
			"ErrorMessage": "Город не найден",
			"Link":         link,
		})
	}

	forecast, err := h.forecasts.Fetch(c.UserContext(), coords)
	if err != nil {
		// Escalates to the app error handler and a plain-text 500.
		return err
	}

	nowHour := h.now().In(h.loc).Format("15")
	entry, ok := forecast.At(nowHour)
	if !ok {
		return fmt.Errorf("forecast window is missing the current hour %s", nowHour)
	}

	if record {
		h.history.RecordSearch(c.IP(), city, h.now().Format(time.RFC3339))
		link = cityLink(city)
	}

	return c.Render("weather", fiber.Map{
		"City":  capitalize(city),
		"Now":   currentConditions{HourEntry: entry, SummaryIcon: entry.Icon.SummaryAssetPath()},
		"Hours": forecast,
		"Link":  link,
	})
}

func (h *Handler) getPopular(c *fiber.Ctx) error {
	cities, err := h.history.TopCities(10)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load city ranking")
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *Handler) lastCityLink(userID string) *LinkData {
	city, ok := h.history.LastSearchedCity(userID)
	if !ok {
		return nil
	}
	return cityLink(city)
}

func cityLink(city string) *LinkData {
	display := capitalize(city)
	return &LinkData{
		Text: display,
		Href: "/?city=" + url.QueryEscape(display),
	}
}

// capitalize applies the page's display convention: first rune upper, rest
// lower.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
