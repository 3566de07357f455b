package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
)

// UserRepository stores principals. Default projections hide the credential
// fields; the auth flows read them through dedicated lookups.
type UserRepository struct {
	*Collection[entity.User, *entity.User]
	raw *mongo.Collection
}

func (s *Store) Users() *UserRepository {
	col := s.col(ColUsers)
	return &UserRepository{
		Collection: NewCollection(col,
			WithBaseFilter[entity.User, *entity.User](bson.D{{Key: "active", Value: bson.D{{Key: "$ne", Value: false}}}}),
			WithHiddenFields[entity.User, *entity.User]("password", "password_reset_hash", "password_reset_expires"),
		),
		raw: col,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{
		{Key: "email", Value: email},
		{Key: "active", Value: bson.D{{Key: "$ne", Value: false}}},
	})
}

func (r *UserRepository) GetByResetHash(ctx context.Context, hash string, now time.Time) (*entity.User, error) {
	return r.findOne(ctx, bson.D{
		{Key: "password_reset_hash", Value: hash},
		{Key: "password_reset_expires", Value: bson.D{{Key: "$gt", Value: now}}},
	})
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	return r.setByID(ctx, id, bson.D{
		{Key: "password", Value: passwordHash},
		{Key: "password_changed_at", Value: changedAt},
		{Key: "password_reset_hash", Value: ""},
		{Key: "password_reset_expires", Value: time.Time{}},
		{Key: "updated_at", Value: changedAt},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, hash string, expires time.Time) error {
	return r.setByID(ctx, id, bson.D{
		{Key: "password_reset_hash", Value: hash},
		{Key: "password_reset_expires", Value: expires},
	})
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.setByID(ctx, id, bson.D{
		{Key: "password_reset_hash", Value: ""},
		{Key: "password_reset_expires", Value: time.Time{}},
	})
}

// Deactivate is the soft delete: the document stays, the account disappears
// from every read query.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	return r.setByID(ctx, id, bson.D{
		{Key: "active", Value: false},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
}

func (r *UserRepository) setByID(ctx context.Context, id string, set bson.D) error {
	res, err := r.raw.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
