package service

import (
	"context"

	"github.com/zamontech/yaqinbot/internal/entity"
)

// TextGeocoder resolves free text to coordinates.
type TextGeocoder interface {
	SearchText(ctx context.Context, query string) (entity.LatLng, error)
}

// LocationResolver turns user location input into coordinates.
type LocationResolver struct {
	geocoder TextGeocoder
}

// NewLocationResolver builds a resolver over the places provider.
func NewLocationResolver(geocoder TextGeocoder) *LocationResolver {
	return &LocationResolver{geocoder: geocoder}
}

// ResolveGeo passes shared coordinates through unchanged.
func (r *LocationResolver) ResolveGeo(point entity.LatLng) entity.LatLng {
	return point
}

// ResolveText issues one text-search call and takes the first candidate.
// Zero candidates surface as places.ErrNoMatch from the provider.
func (r *LocationResolver) ResolveText(ctx context.Context, query string) (entity.LatLng, error) {
	return r.geocoder.SearchText(ctx, query)
}
