package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// NominatimGeocoder resolves city names through the OpenStreetMap Nominatim
// API. Nominatim requires a identifying User-Agent on every request.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatim creates a NominatimGeocoder using the given HTTP client and
// User-Agent string.
func NewNominatim(client *http.Client, userAgent string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:    "https://nominatim.openstreetmap.org/search",
		userAgent:  userAgent,
		httpClient: client,
	}
}

// Resolve maps a city name to coordinates. Empty or whitespace-only input
// returns ErrNotFound without a network call; every lookup failure, transport
// faults included, also collapses to ErrNotFound.
func (g *NominatimGeocoder) Resolve(ctx context.Context, city string) (Coordinates, error) {
	if strings.TrimSpace(city) == "" {
		return Coordinates{}, ErrNotFound
	}

	coords, err := g.lookup(ctx, city)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("geo: lookup failed for %q: %v", city, err)
		}
		return Coordinates{}, ErrNotFound
	}
	return coords, nil
}

func (g *NominatimGeocoder) lookup(ctx context.Context, city string) (Coordinates, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("format", "jsonv2")
	values.Set("limit", "1")

	u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Coordinates{}, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, err
	}
	if len(results) == 0 {
		return Coordinates{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("bad longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
