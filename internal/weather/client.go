package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/avolkov/city-weather/internal/geo"
)

var validate = validator.New()

// hourlyVariables is the exact series requested from Open-Meteo, in the order
// the payload echoes them back.
var hourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"wind_speed_10m",
	"precipitation_probability",
	"is_day",
	"weather_code",
}

// BackoffConfig controls the retry schedule for transient transport failures.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client fetches hourly forecasts from Open-Meteo and normalizes them into
// the rolling 24-hour window.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    BackoffConfig
	circuit    *gobreaker.CircuitBreaker
	now        func() time.Time
	loc        *time.Location
}

// NewClient creates a Client. The HTTP client is expected to carry the
// transport-level response cache.
func NewClient(httpClient *http.Client) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		httpClient: httpClient,
		backoff: BackoffConfig{
			MaxRetries:      5,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
		now:     time.Now,
		loc:     ForecastLocation(),
	}
}

// Fetch returns the hourly forecast for the 24-hour window starting at the
// current hour. Coordinates are re-validated here because the client may be
// called independently of geocoding.
func (c *Client) Fetch(ctx context.Context, coords geo.Coordinates) (Forecast, error) {
	if err := validate.Struct(coords); err != nil {
		return nil, fmt.Errorf("%w: %.2f, %.2f", ErrInvalidCoordinates, coords.Latitude, coords.Longitude)
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
	values.Set("timezone", "Europe/Moscow")
	values.Set("hourly", strings.Join(hourlyVariables, ","))

	resp, err := c.do(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time              []string  `json:"time"`
			Temperature       []float64 `json:"temperature_2m"`
			Humidity          []float64 `json:"relative_humidity_2m"`
			WindSpeed         []float64 `json:"wind_speed_10m"`
			PrecipProbability []float64 `json:"precipitation_probability"`
			IsDay             []int     `json:"is_day"`
			WeatherCode       []int     `json:"weather_code"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	h := payload.Hourly
	n := len(h.Time)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty hourly series", ErrMalformedResponse)
	}
	if len(h.Temperature) != n || len(h.Humidity) != n || len(h.WindSpeed) != n ||
		len(h.PrecipProbability) != n || len(h.IsDay) != n || len(h.WeatherCode) != n {
		return nil, fmt.Errorf("%w: hourly series length mismatch", ErrMalformedResponse)
	}

	// Half-open window anchored at the start of the current hour, so the
	// current-conditions lookup always finds its entry.
	now := c.now().In(c.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, c.loc)
	end := start.Add(24 * time.Hour)

	forecast := make(Forecast, 0, 24)
	for i, stamp := range h.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", stamp, c.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: bad hourly timestamp %q", ErrMalformedResponse, stamp)
		}
		if ts.Before(start) {
			continue
		}
		if !ts.Before(end) {
			break
		}

		isDay := h.IsDay[i] == 1
		forecast = append(forecast, HourEntry{
			Hour: ts.Format("15"),
			// int() truncates toward zero, matching the display contract.
			Temperature:       fmt.Sprintf("%d°", int(h.Temperature[i])),
			Humidity:          fmt.Sprintf("%d%%", int(h.Humidity[i])),
			WindSpeed:         fmt.Sprintf("%d m/s", int(h.WindSpeed[i])),
			PrecipProbability: fmt.Sprintf("%d%%", int(h.PrecipProbability[i])),
			IsDay:             DayLabel(isDay),
			Icon:              ResolveIcon(h.WeatherCode[i], isDay),
		})
	}

	if len(forecast) == 0 {
		return nil, fmt.Errorf("%w: hourly series does not cover the forecast window", ErrMalformedResponse)
	}
	return forecast, nil
}

// do executes the request with capped exponential backoff and a circuit
// breaker. Only transient transport failures are retried; validation and
// payload errors fail immediately.
func (c *Client) do(ctx context.Context, u string) (*http.Response, error) {
	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.httpClient.Do(req)
			if execErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, execErr)
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		if !errors.Is(err, ErrUpstreamUnavailable) || attempt >= c.backoff.MaxRetries {
			return nil, err
		}

		delay := c.backoff.InitialInterval << attempt
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
		case <-timer.C:
		}
		attempt++
	}
}
