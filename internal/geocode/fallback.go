package geocode

import (
	"fmt"
	"strings"

	"github.com/rookgm/ecobites/internal/models"
)

// fallback grid origin
const (
	fallbackBaseLat = 35.7796
	fallbackBaseLng = -78.6382
)

// Fallback derives coordinates from the address string alone.
// The same address always yields the same point, so orders at identical
// addresses remain combinable when the geocoder is unreachable.
func Fallback(street, city, zipCode string) models.Coordinates {
	key := strings.ToLower(fmt.Sprintf("%s|%s|%s", street, city, zipCode))

	var hash int
	for _, b := range []byte(key) {
		hash += int(b)
	}

	offset := float64(hash%100) / 10000
	return models.Coordinates{
		Lat: fallbackBaseLat + offset,
		Lng: fallbackBaseLng + offset,
	}
}
