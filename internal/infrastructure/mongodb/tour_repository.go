package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
)

// TourRepository stores tours. Secret tours are excluded from every read by
// the base filter.
type TourRepository struct {
	*Collection[entity.Tour, *entity.Tour]
	raw *mongo.Collection
}

func (s *Store) Tours() *TourRepository {
	col := s.col(ColTours)
	return &TourRepository{
		Collection: NewCollection(col,
			WithBaseFilter[entity.Tour, *entity.Tour](bson.D{{Key: "secret_tour", Value: bson.D{{Key: "$ne", Value: true}}}}),
		),
		raw: col,
	}
}

func (r *TourRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tour, error) {
	return r.findOne(ctx, bson.D{
		{Key: "slug", Value: slug},
		{Key: "secret_tour", Value: bson.D{{Key: "$ne", Value: true}}},
	})
}

// Stats groups tours by difficulty, restricted to well-rated ones the same
// way the public stats page defines them.
func (r *TourRepository) Stats(ctx context.Context) ([]repository.TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "ratings_average", Value: bson.D{{Key: "$gte", Value: 4.5}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$toUpper", Value: "$difficulty"}}},
			{Key: "num_tours", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "num_ratings", Value: bson.D{{Key: "$sum", Value: "$ratings_quantity"}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$ratings_average"}}},
			{Key: "avg_price", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "min_price", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "max_price", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_price", Value: 1}}}},
	}
	return aggregate[repository.TourStats](ctx, r.raw, pipeline)
}

// MonthlyPlan unwinds start dates of the given year into per-month buckets.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthlyPlan, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$start_dates"}},
		{{Key: "$match", Value: bson.D{{Key: "start_dates", Value: bson.D{
			{Key: "$gte", Value: from},
			{Key: "$lte", Value: to},
		}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$month", Value: "$start_dates"}}},
			{Key: "num_tour_starts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "tours", Value: bson.D{{Key: "$push", Value: "$name"}}},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "month", Value: "$_id"}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}},
		{{Key: "$sort", Value: bson.D{{Key: "num_tour_starts", Value: -1}}}},
		{{Key: "$limit", Value: 12}},
	}
	return aggregate[repository.MonthlyPlan](ctx, r.raw, pipeline)
}

func (r *TourRepository) Within(ctx context.Context, lat, lng, radiusRad float64) ([]*entity.Tour, error) {
	filter := bson.D{
		{Key: "secret_tour", Value: bson.D{{Key: "$ne", Value: true}}},
		{Key: "start_location", Value: bson.D{{Key: "$geoWithin", Value: bson.D{
			{Key: "$centerSphere", Value: bson.A{bson.A{lng, lat}, radiusRad}},
		}}}},
	}
	cursor, err := r.raw.Find(ctx, filter)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	tours := []*entity.Tour{}
	for cursor.Next(ctx) {
		var t entity.Tour
		if err := cursor.Decode(&t); err != nil {
			return nil, err
		}
		tours = append(tours, &t)
	}
	return tours, cursor.Err()
}

// Distances runs $geoNear, which must be the first pipeline stage and
// requires the 2dsphere index on start_location.
func (r *TourRepository) Distances(ctx context.Context, lat, lng, multiplier float64) ([]repository.TourDistance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{lng, lat}},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "distanceMultiplier", Value: multiplier},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "distance", Value: 1},
			{Key: "name", Value: 1},
		}}},
	}
	return aggregate[repository.TourDistance](ctx, r.raw, pipeline)
}

func (r *TourRepository) UpdateRatings(ctx context.Context, id string, average float64, quantity int) error {
	res, err := r.raw.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "ratings_average", Value: average},
			{Key: "ratings_quantity", Value: quantity},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// aggregate runs a pipeline and decodes all results into R.
func aggregate[R any](ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) ([]R, error) {
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", col.Name(), wrapErr(err))
	}
	defer cursor.Close(ctx)

	out := []R{}
	for cursor.Next(ctx) {
		var item R
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, cursor.Err()
}

var _ repository.TourRepository = (*TourRepository)(nil)
