// Package query turns an untrusted request query string into a neutral set of
// filter/sort/projection/pagination directives. The package never talks to
// the database; the storage layer translates Directives into its own query
// representation, so composition order stays independent of the executor.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/trekora/trekora/pkg/apperr"
)

// Op is a comparison operator in a filter condition.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// reserved keys never become filter conditions.
var reserved = map[string]bool{
	"sort":   true,
	"page":   true,
	"limit":  true,
	"fields": true,
}

var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Condition is a single field predicate. Value is already coerced to the
// most specific of int64, float64, bool or string.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// SortField orders results by one field.
type SortField struct {
	Field string
	Desc  bool
}

// Directives is the request-scoped query plan: filter, sort, projection and
// pagination. It is rebuilt per request and never persisted.
type Directives struct {
	Conditions []Condition
	Sort       []SortField
	Fields     []string // projection include list; empty means storage default
	Page       int
	Limit      int
}

// Skip returns the number of records to pass over for the requested page.
func (d Directives) Skip() int {
	return (d.Page - 1) * d.Limit
}

// Parse builds Directives from raw query values.
//
// Non-reserved keys become equality conditions; the form field[op]=value with
// op in gt|gte|lt|lte becomes a comparison. An unknown operator is rejected
// with a validation error rather than silently dropped. Sort is a comma list
// with a leading minus for descending order, defaulting to newest-first by
// creation time. A page past the available records is a valid empty result,
// not an error.
func Parse(values url.Values) (Directives, error) {
	d := Directives{Page: 1, Limit: DefaultLimit}

	for key, vals := range values {
		if reserved[key] {
			continue
		}
		field, op, err := splitKey(key)
		if err != nil {
			return Directives{}, err
		}
		for _, v := range vals {
			d.Conditions = append(d.Conditions, Condition{Field: field, Op: op, Value: coerce(v)})
		}
	}

	if s := values.Get("sort"); s != "" {
		d.Sort = parseSort(s)
	} else {
		d.Sort = []SortField{{Field: "created_at", Desc: true}}
	}

	if f := values.Get("fields"); f != "" {
		for _, name := range strings.Split(f, ",") {
			if name = strings.TrimSpace(name); name != "" {
				d.Fields = append(d.Fields, name)
			}
		}
	}

	var err error
	if d.Page, err = parsePositive(values.Get("page"), "page", 1); err != nil {
		return Directives{}, err
	}
	if d.Limit, err = parsePositive(values.Get("limit"), "limit", DefaultLimit); err != nil {
		return Directives{}, err
	}
	if d.Limit > MaxLimit {
		d.Limit = MaxLimit
	}
	return d, nil
}

// splitKey handles the field[op] bracket syntax.
func splitKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", apperr.Newf(apperr.Validation, "malformed filter key %q", key)
	}
	field := key[:open]
	name := key[open+1 : len(key)-1]
	op, ok := operators[name]
	if !ok {
		return "", "", apperr.Newf(apperr.Validation, "unsupported filter operator %q", name)
	}
	return field, op, nil
}

func parseSort(s string) []SortField {
	parts := strings.Split(s, ",")
	out := make([]SortField, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" {
			continue
		}
		if strings.HasPrefix(p, "-") {
			out = append(out, SortField{Field: p[1:], Desc: true})
		} else {
			out = append(out, SortField{Field: p})
		}
	}
	return out
}

func parsePositive(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.New(apperr.Validation, fmt.Sprintf("%s must be a positive integer", name))
	}
	return n, nil
}

// coerce picks the most specific typed value so numeric comparisons against
// the document store compare numbers, not strings.
func coerce(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}
