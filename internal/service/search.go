package service

import (
	"context"
	"fmt"

	"github.com/zamontech/yaqinbot/internal/entity"
)

// Category is a canonical search category key.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryHotels        Category = "hotels"
	CategoryParks         Category = "parks"
	CategoryHistoric      Category = "historic"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
)

// Categories lists the fixed categories in canonical order. The order must
// match the localized label lists in the locale bundles.
var Categories = []Category{
	CategoryFood,
	CategoryHotels,
	CategoryParks,
	CategoryHistoric,
	CategoryShopping,
	CategoryEntertainment,
}

// Static category → provider place-type mapping, defined once and not
// user-editable.
var categoryTypes = map[Category][]string{
	CategoryFood:          {"restaurant", "cafe", "bakery"},
	CategoryHotels:        {"lodging"},
	CategoryParks:         {"park"},
	CategoryHistoric:      {"tourist_attraction", "museum", "art_gallery"},
	CategoryShopping:      {"shopping_mall", "supermarket", "store"},
	CategoryEntertainment: {"movie_theater", "amusement_park", "night_club"},
}

// CategoryAt maps a keyboard position to its canonical category.
func CategoryAt(index int) (Category, bool) {
	if index < 0 || index >= len(Categories) {
		return "", false
	}
	return Categories[index], true
}

// NearbySearcher issues nearby-search calls against the places provider.
type NearbySearcher interface {
	SearchNearby(ctx context.Context, origin entity.LatLng, types []string, radiusMeters float64, maxResults int) ([]entity.Place, error)
}

// CategorySearch maps a user-chosen category to provider place types and
// runs a single fixed-radius nearby search.
type CategorySearch struct {
	provider     NearbySearcher
	radiusMeters float64
	maxResults   int
}

// NewCategorySearch builds a search over the places provider.
func NewCategorySearch(provider NearbySearcher, radiusMeters float64, maxResults int) *CategorySearch {
	if radiusMeters <= 0 {
		radiusMeters = 2000
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &CategorySearch{provider: provider, radiusMeters: radiusMeters, maxResults: maxResults}
}

// Search returns places for a category around origin in provider order. An
// empty result set is a valid outcome.
func (s *CategorySearch) Search(ctx context.Context, origin entity.LatLng, category Category) ([]entity.Place, error) {
	types, ok := categoryTypes[category]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", category, ErrUnknownValue)
	}
	return s.provider.SearchNearby(ctx, origin, types, s.radiusMeters, s.maxResults)
}
