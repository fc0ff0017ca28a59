package kernel

import (
	"errors"
	"fmt"
	"math"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in decimal degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in decimal degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in decimal degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in decimal degrees.
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via NewGeoPoint or
// NewGeoPointWithAccuracy to guarantee valid coordinates.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint or NewGeoPointWithAccuracy constructors")

// GeoPoint represents a geographic position with validated coordinates and an
// optional horizontal accuracy radius. GeoPoint is an immutable value object;
// the zero value is invalid and fails validation.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(4.60971, -74.08175)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(point) // Output: GeoPoint(4.609710,-74.081750)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64

	// accuracyMeters is the horizontal accuracy radius; zero means unknown.
	accuracyMeters float64

	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in decimal degrees.
// Latitude must lie within [LatitudeMin..LatitudeMax] and longitude within
// [LongitudeMin..LongitudeMax]. Returns a validation error otherwise.
func NewGeoPoint(latitude float64, longitude float64) (GeoPoint, error) {
	return NewGeoPointWithAccuracy(latitude, longitude, 0)
}

// NewGeoPointWithAccuracy creates a GeoPoint carrying a horizontal accuracy
// radius in meters. Accuracy must be non-negative; zero means unknown.
func NewGeoPointWithAccuracy(latitude float64, longitude float64, accuracyMeters float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		point.setLatitude(latitude),
		point.setLongitude(longitude),
		point.setAccuracy(accuracyMeters),
	); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was created through a constructor.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// AccuracyMeters returns the horizontal accuracy radius in meters.
// Zero means the accuracy is unknown.
func (p GeoPoint) AccuracyMeters() float64 {
	return p.accuracyMeters
}

// IsEqual compares two points by coordinates and accuracy.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude &&
		p.longitude == other.longitude &&
		p.accuracyMeters == other.accuracyMeters
}

// String implements fmt.Stringer with six decimal places, roughly 10 cm of
// precision at the equator.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	p.longitude = longitude
	return nil
}

func (p *GeoPoint) setAccuracy(accuracyMeters float64) error {
	if math.IsNaN(accuracyMeters) || accuracyMeters < 0 {
		return errs.NewValueIsInvalidErrorWithCause("accuracy",
			fmt.Errorf("%f is not a non-negative radius", accuracyMeters))
	}
	p.accuracyMeters = accuracyMeters
	return nil
}
