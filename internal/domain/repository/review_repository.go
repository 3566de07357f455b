package repository

import (
	"context"

	"github.com/trekora/trekora/internal/domain/entity"
)

// ReviewRepository adds the per-tour rating aggregation.
type ReviewRepository interface {
	Collection[entity.Review]

	// RatingStats aggregates count and average rating over a tour's
	// reviews. A tour with no reviews yields (nil, nil).
	RatingStats(ctx context.Context, tourID string) (*entity.RatingStats, error)
}

// BookingRepository lists a user's bookings on top of generic CRUD.
type BookingRepository interface {
	Collection[entity.Booking]

	ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error)
}
