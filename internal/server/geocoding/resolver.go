// Package geocoding turns a free-form postal address into coordinates.
package geocoding

import (
	"context"

	"github.com/dmitrijs2005/placekeeper/internal/server/models"
)

// Resolver performs a single address lookup.
//
// Errors:
//   - common.ErrUnresolvableAddress: the provider found nothing for the address.
//   - common.ErrResolutionUnavailable: the provider could not be asked or
//     gave an unusable answer.
type Resolver interface {
	Resolve(ctx context.Context, address string) (models.Location, error)
}

// Static always answers with the same coordinates. It stands in for the
// real provider in development and tests.
type Static struct {
	Location models.Location
}

func (s Static) Resolve(ctx context.Context, address string) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	return s.Location, nil
}

// DefaultLocation is what Static returns when built by the server without
// an API key configured.
var DefaultLocation = models.Location{Lat: 40.7484474, Lng: -73.9871516}
