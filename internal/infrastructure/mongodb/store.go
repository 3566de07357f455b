// Package mongodb implements the storage collaborator on MongoDB using the
// official v2 driver. Collection names and indexes are managed centrally in
// ensureIndexes.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/trekora/trekora/internal/domain/repository"
)

const (
	ColUsers    = "users"
	ColTours    = "tours"
	ColReviews  = "reviews"
	ColBookings = "bookings"
)

// Store owns the client and database handle shared by all repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongodb: ensure indexes: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},

		{ColTours, bson.D{{Key: "price", Value: 1}}, false},
		{ColTours, bson.D{{Key: "slug", Value: 1}}, false},
		{ColTours, bson.D{{Key: "start_location", Value: "2dsphere"}}, false},
		{ColTours, bson.D{{Key: "created_at", Value: -1}}, false},

		// one review per (user, tour)
		{ColReviews, bson.D{{Key: "user_id", Value: 1}, {Key: "tour_id", Value: 1}}, true},
		{ColReviews, bson.D{{Key: "tour_id", Value: 1}}, false},

		{ColBookings, bson.D{{Key: "user_id", Value: 1}}, false},
		{ColBookings, bson.D{{Key: "tour_id", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}

// wrapErr maps driver errors onto the repository sentinels.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}
