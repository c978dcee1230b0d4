package service

import (
	"context"
	"math"

	"github.com/rookgm/ecobites/internal/geocode"
	"github.com/rookgm/ecobites/internal/models"
)

const earthRadiusMeters = 6371000

// Geocoder resolves street addresses to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, street, city, zipCode string) (*models.Coordinates, error)
}

// resolveCoordinates geocodes the address, falling back to deterministic
// pseudo-coordinates when the geocoder fails. It never returns an error:
// the same address always resolves to the same point one way or another.
func resolveCoordinates(ctx context.Context, g Geocoder, addr models.Address) models.Coordinates {
	coords, err := g.Geocode(ctx, addr.Street, addr.City, addr.ZipCode)
	if err != nil || coords == nil {
		return geocode.Fallback(addr.Street, addr.City, addr.ZipCode)
	}
	return *coords
}

// distanceMeters returns the haversine distance between two points
func distanceMeters(a, b models.Coordinates) float64 {
	toRad := func(v float64) float64 { return v * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}
