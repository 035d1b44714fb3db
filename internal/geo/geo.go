package geo

import (
	"context"
	"errors"
)

// ErrNotFound is the only failure a Geocoder surfaces. City-not-found and
// provider-unreachable are indistinguishable to the caller; the underlying
// cause is logged before being collapsed.
var ErrNotFound = errors.New("city not found")

// Coordinates is a geographic point produced by geocoding. The validate tags
// carry the allowed ranges so consumers can re-check them.
type Coordinates struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// Geocoder resolves a free-text city name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (Coordinates, error)
}
