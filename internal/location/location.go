// Package location supplies the coordinates the widget reports weather for:
// either a fixed pair from configuration or a geocoder lookup of a configured
// place name.
package location

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmcallister/weather-widget-service/internal/validation"
)

// ErrNotFound is returned when the geocoder has no usable match.
var ErrNotFound = errors.New("place not found")

// Place is a coordinate pair plus the label shown in the widget header.
type Place struct {
	Latitude  float64
	Longitude float64
	Label     string
}

// Provider supplies the current place.
type Provider interface {
	Locate(ctx context.Context) (Place, error)
}

// Static always returns a configured place.
type Static struct {
	place Place
}

// NewStatic validates the coordinates and returns a fixed provider.
func NewStatic(lat, lon float64, label string) (*Static, error) {
	if err := validation.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	return &Static{place: Place{Latitude: lat, Longitude: lon, Label: label}}, nil
}

// Locate implements Provider.
func (s *Static) Locate(ctx context.Context) (Place, error) {
	return s.place, nil
}

// parseCoordinate converts the string coordinates some geocoding APIs return.
func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse coordinate %q: %w", s, err)
	}
	return v, nil
}
