package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/query"
)

// doc constrains T so the collection can assign ids and stamp timestamps
// through the pointer.
type doc[T any] interface {
	*T
	entity.Document
}

// Collection is the generic MongoDB implementation of
// repository.Collection. The base filter (if any) scopes every read; hidden
// fields are projected away unless the caller selects fields explicitly.
type Collection[T any, P doc[T]] struct {
	col    *mongo.Collection
	base   bson.D
	hidden []string
}

type CollectionOption[T any, P doc[T]] func(*Collection[T, P])

// WithBaseFilter ANDs extra conditions into every read query.
func WithBaseFilter[T any, P doc[T]](base bson.D) CollectionOption[T, P] {
	return func(c *Collection[T, P]) { c.base = base }
}

// WithHiddenFields excludes internal fields from default projections.
func WithHiddenFields[T any, P doc[T]](fields ...string) CollectionOption[T, P] {
	return func(c *Collection[T, P]) { c.hidden = fields }
}

func NewCollection[T any, P doc[T]](col *mongo.Collection, opts ...CollectionOption[T, P]) *Collection[T, P] {
	c := &Collection[T, P]{col: col}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection[T, P]) Insert(ctx context.Context, d *T) (*T, error) {
	p := P(d)
	if p.GetID() == "" {
		p.SetID(bson.NewObjectID().Hex())
	}
	p.Touch(time.Now().UTC())
	if _, err := c.col.InsertOne(ctx, d); err != nil {
		return nil, wrapErr(err)
	}
	return d, nil
}

func (c *Collection[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	filter := append(bson.D{{Key: "_id", Value: id}}, c.base...)
	return c.findOne(ctx, filter)
}

func (c *Collection[T, P]) findOne(ctx context.Context, filter bson.D) (*T, error) {
	var result T
	if err := c.col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapErr(err)
	}
	return &result, nil
}

func (c *Collection[T, P]) Find(ctx context.Context, scope map[string]any, d query.Directives) ([]*T, error) {
	filter := buildFilter(c.base, scope, d.Conditions)
	opts := options.Find().
		SetSort(buildSort(d.Sort)).
		SetSkip(int64(d.Skip())).
		SetLimit(int64(d.Limit))
	if proj := buildProjection(d.Fields, c.hidden); len(proj) > 0 {
		opts.SetProjection(proj)
	}

	cursor, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	results := []*T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	return results, cursor.Err()
}

// UpdateByID applies a partial $set and returns the updated document.
// Field keys must be storage field names; updated_at is stamped for the
// caller. The update is a single atomic call, last write wins.
func (c *Collection[T, P]) UpdateByID(ctx context.Context, id string, fields map[string]any) (*T, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	for k, v := range fields {
		if k == "updated_at" {
			continue
		}
		set = append(set, bson.E{Key: k, Value: v})
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result T
	err := c.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&result)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &result, nil
}

func (c *Collection[T, P]) DeleteByID(ctx context.Context, id string) error {
	res, err := c.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return wrapErr(mongo.ErrNoDocuments)
	}
	return nil
}
