// Package repository defines the storage collaborator interfaces. The
// generic Collection covers every listable entity; entity-specific
// aggregation lives on the dedicated repositories.
package repository

import (
	"context"
	"errors"

	"github.com/trekora/trekora/internal/query"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Collection is the minimal capability set the CRUD handler factory needs:
// identifiable documents that can be filtered, sorted, projected and
// paginated. Implementations must not assume entity-specific fields.
type Collection[T any] interface {
	Insert(ctx context.Context, doc *T) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, scope map[string]any, d query.Directives) ([]*T, error)
	UpdateByID(ctx context.Context, id string, fields map[string]any) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}
