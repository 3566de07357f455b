package repository

import (
	"context"

	"github.com/trekora/trekora/internal/domain/entity"
)

// TourStats is one difficulty bucket of the stats aggregation.
type TourStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int     `bson:"num_tours" json:"num_tours"`
	NumRatings int     `bson:"num_ratings" json:"num_ratings"`
	AvgRating  float64 `bson:"avg_rating" json:"avg_rating"`
	AvgPrice   float64 `bson:"avg_price" json:"avg_price"`
	MinPrice   float64 `bson:"min_price" json:"min_price"`
	MaxPrice   float64 `bson:"max_price" json:"max_price"`
}

// MonthlyPlan is one month bucket of the yearly starts aggregation.
type MonthlyPlan struct {
	Month         int      `bson:"month" json:"month"`
	NumTourStarts int      `bson:"num_tour_starts" json:"num_tour_starts"`
	Tours         []string `bson:"tours" json:"tours"`
}

// TourDistance pairs a tour with its distance from a reference point.
type TourDistance struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Distance float64 `bson:"distance" json:"distance"`
}

// TourRepository adds the aggregation and geospatial queries the tour
// controller needs on top of generic CRUD.
type TourRepository interface {
	Collection[entity.Tour]

	GetBySlug(ctx context.Context, slug string) (*entity.Tour, error)
	Stats(ctx context.Context) ([]TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlan, error)
	// Within returns tours whose start location lies inside the sphere cap
	// of the given radius (radians) around lat/lng.
	Within(ctx context.Context, lat, lng, radiusRad float64) ([]*entity.Tour, error)
	// Distances returns every tour with its distance from lat/lng,
	// multiplied into the caller's unit.
	Distances(ctx context.Context, lat, lng, multiplier float64) ([]TourDistance, error)
	// UpdateRatings writes the recomputed review aggregate onto the tour.
	UpdateRatings(ctx context.Context, id string, average float64, quantity int) error
}
