// Package geo provides the reverse-geocoding adapter. The formatting
// implementation composes an address from the raw coordinates; a real
// geocoding service can replace it behind the same port.
package geo

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
)

// FormattingGeocoder renders coordinates as a "lat,lng" address.
type FormattingGeocoder struct{}

// NewFormattingGeocoder creates the formatting geocoder.
func NewFormattingGeocoder() *FormattingGeocoder {
	return &FormattingGeocoder{}
}

// ReverseGeocode returns a coordinate-composed address. Never fails.
func (g *FormattingGeocoder) ReverseGeocode(_ context.Context, point kernel.GeoPoint) (string, error) {
	return fmt.Sprintf("%.6f,%.6f", point.Latitude(), point.Longitude()), nil
}
