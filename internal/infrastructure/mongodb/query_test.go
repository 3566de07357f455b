package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/trekora/trekora/internal/query"
)

func TestBuildFilter(t *testing.T) {
	t.Parallel()
	base := bson.D{{Key: "secret_tour", Value: bson.D{{Key: "$ne", Value: true}}}}
	scope := map[string]any{"tour_id": "t1"}
	conds := []query.Condition{
		{Field: "difficulty", Op: query.OpEq, Value: "easy"},
		{Field: "price", Op: query.OpGte, Value: int64(500)},
		{Field: "price", Op: query.OpLt, Value: int64(2000)},
	}

	filter := buildFilter(base, scope, conds)

	assert.Contains(t, filter, bson.E{Key: "secret_tour", Value: bson.D{{Key: "$ne", Value: true}}})
	assert.Contains(t, filter, bson.E{Key: "tour_id", Value: "t1"})
	assert.Contains(t, filter, bson.E{Key: "difficulty", Value: "easy"})
	assert.Contains(t, filter, bson.E{Key: "price", Value: bson.D{
		{Key: "$gte", Value: int64(500)},
		{Key: "$lt", Value: int64(2000)},
	}})
}

func TestBuildFilter_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, buildFilter(nil, nil, nil))
}

func TestBuildSort(t *testing.T) {
	t.Parallel()
	sort := buildSort([]query.SortField{
		{Field: "price", Desc: true},
		{Field: "name"},
	})
	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "name", Value: 1},
	}, sort)
}

func TestBuildProjection(t *testing.T) {
	t.Parallel()
	// explicit include list wins
	proj := buildProjection([]string{"name", "price"}, []string{"password"})
	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "price", Value: 1},
	}, proj)

	// default excludes hidden fields
	proj = buildProjection(nil, []string{"password", "password_reset_hash"})
	assert.Equal(t, bson.D{
		{Key: "password", Value: 0},
		{Key: "password_reset_hash", Value: 0},
	}, proj)

	assert.Empty(t, buildProjection(nil, nil))
}
