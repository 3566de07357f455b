package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trekora/trekora/pkg/apperr"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{})
	require.NoError(t, err)
	assert.Empty(t, d.Conditions)
	assert.Equal(t, []SortField{{Field: "created_at", Desc: true}}, d.Sort)
	assert.Empty(t, d.Fields)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, DefaultLimit, d.Limit)
	assert.Equal(t, 0, d.Skip())
}

func TestParse_FilterEquality(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{"difficulty": {"easy"}})
	require.NoError(t, err)
	require.Len(t, d.Conditions, 1)
	assert.Equal(t, Condition{Field: "difficulty", Op: OpEq, Value: "easy"}, d.Conditions[0])
}

func TestParse_FilterOperators(t *testing.T) {
	t.Parallel()
	cases := []struct {
		key  string
		op   Op
		want any
	}{
		{"duration[gt]", OpGt, int64(4)},
		{"duration[gte]", OpGte, int64(4)},
		{"duration[lt]", OpLt, int64(4)},
		{"duration[lte]", OpLte, int64(4)},
	}
	for _, tc := range cases {
		d, err := Parse(url.Values{tc.key: {"4"}})
		require.NoError(t, err, tc.key)
		require.Len(t, d.Conditions, 1)
		assert.Equal(t, "duration", d.Conditions[0].Field)
		assert.Equal(t, tc.op, d.Conditions[0].Op)
		assert.Equal(t, tc.want, d.Conditions[0].Value)
	}
}

func TestParse_UnknownOperatorRejected(t *testing.T) {
	t.Parallel()
	_, err := Parse(url.Values{"price[between]": {"1,2"}})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = Parse(url.Values{"price[gt": {"1"}})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestParse_ValueCoercion(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{
		"price[gte]": {"499.5"},
		"group_size": {"10"},
		"secret":     {"false"},
		"name":       {"Forest Hiker"},
	})
	require.NoError(t, err)
	byField := map[string]any{}
	for _, c := range d.Conditions {
		byField[c.Field] = c.Value
	}
	assert.Equal(t, 499.5, byField["price"])
	assert.Equal(t, int64(10), byField["group_size"])
	assert.Equal(t, false, byField["secret"])
	assert.Equal(t, "Forest Hiker", byField["name"])
}

func TestParse_Sort(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{"sort": {"-price,ratings_average"}})
	require.NoError(t, err)
	assert.Equal(t, []SortField{
		{Field: "price", Desc: true},
		{Field: "ratings_average"},
	}, d.Sort)
}

func TestParse_Fields(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{"fields": {"name,price, duration"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price", "duration"}, d.Fields)
}

func TestParse_Pagination(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{"page": {"3"}, "limit": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Page)
	assert.Equal(t, 20, d.Limit)
	assert.Equal(t, 40, d.Skip())
}

func TestParse_PaginationLimits(t *testing.T) {
	t.Parallel()
	_, err := Parse(url.Values{"page": {"0"}})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = Parse(url.Values{"limit": {"-5"}})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = Parse(url.Values{"page": {"abc"}})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	d, err := Parse(url.Values{"limit": {"999999"}})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, d.Limit)
}

func TestParse_ReservedKeysNeverFilter(t *testing.T) {
	t.Parallel()
	d, err := Parse(url.Values{
		"sort":   {"price"},
		"page":   {"2"},
		"limit":  {"5"},
		"fields": {"name"},
	})
	require.NoError(t, err)
	assert.Empty(t, d.Conditions)
}
