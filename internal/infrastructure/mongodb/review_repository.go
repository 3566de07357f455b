package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
)

type ReviewRepository struct {
	*Collection[entity.Review, *entity.Review]
	raw *mongo.Collection
}

func (s *Store) Reviews() *ReviewRepository {
	col := s.col(ColReviews)
	return &ReviewRepository{
		Collection: NewCollection[entity.Review, *entity.Review](col),
		raw:        col,
	}
}

// RatingStats aggregates count and average over one tour's reviews.
func (r *ReviewRepository) RatingStats(ctx context.Context, tourID string) (*entity.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "tour_id", Value: tourID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tour_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}
	stats, err := aggregate[entity.RatingStats](ctx, r.raw, pipeline)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return &stats[0], nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

type BookingRepository struct {
	*Collection[entity.Booking, *entity.Booking]
	raw *mongo.Collection
}

func (s *Store) Bookings() *BookingRepository {
	col := s.col(ColBookings)
	return &BookingRepository{
		Collection: NewCollection[entity.Booking, *entity.Booking](col),
		raw:        col,
	}
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	cursor, err := r.raw.Find(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	bookings := []*entity.Booking{}
	for cursor.Next(ctx) {
		var b entity.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		bookings = append(bookings, &b)
	}
	return bookings, cursor.Err()
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
