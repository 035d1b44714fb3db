package geo

import (
	"context"
	"log"
	"strings"

	"github.com/kelvins/geocoder"
)

// GoogleGeocoder resolves city names through the Google Geocoding API. It is
// picked over Nominatim when an API key is configured.
type GoogleGeocoder struct{}

// NewGoogle configures the Google geocoding backend with the given API key.
func NewGoogle(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

// Resolve maps a city name to coordinates with the same collapsed failure
// contract as the Nominatim backend.
func (g *GoogleGeocoder) Resolve(_ context.Context, city string) (Coordinates, error) {
	if strings.TrimSpace(city) == "" {
		return Coordinates{}, ErrNotFound
	}

	location, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		log.Printf("geo: google lookup failed for %q: %v", city, err)
		return Coordinates{}, ErrNotFound
	}

	return Coordinates{Latitude: location.Latitude, Longitude: location.Longitude}, nil
}
