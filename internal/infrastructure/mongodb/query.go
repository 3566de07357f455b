package mongodb

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/trekora/trekora/internal/query"
)

var mongoOps = map[query.Op]string{
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
}

// buildFilter ANDs the base filter, the caller's scope (e.g. parent-entity
// ids from the route) and the parsed query conditions into one document.
func buildFilter(base bson.D, scope map[string]any, conds []query.Condition) bson.D {
	filter := append(bson.D{}, base...)
	for k, v := range scope {
		filter = append(filter, bson.E{Key: k, Value: v})
	}
	// comparison conditions on the same field merge into one operator doc
	perField := map[string]bson.D{}
	order := []string{}
	for _, c := range conds {
		if c.Op == query.OpEq {
			filter = append(filter, bson.E{Key: c.Field, Value: c.Value})
			continue
		}
		if _, seen := perField[c.Field]; !seen {
			order = append(order, c.Field)
		}
		perField[c.Field] = append(perField[c.Field], bson.E{Key: mongoOps[c.Op], Value: c.Value})
	}
	for _, f := range order {
		filter = append(filter, bson.E{Key: f, Value: perField[f]})
	}
	return filter
}

// buildSort translates sort fields into a mongo sort document.
func buildSort(fields []query.SortField) bson.D {
	sort := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return sort
}

// buildProjection applies the include list, or falls back to excluding the
// collection's hidden fields.
func buildProjection(include, hidden []string) bson.D {
	if len(include) > 0 {
		proj := make(bson.D, 0, len(include))
		for _, f := range include {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		return proj
	}
	proj := make(bson.D, 0, len(hidden))
	for _, f := range hidden {
		proj = append(proj, bson.E{Key: f, Value: 0})
	}
	return proj
}
