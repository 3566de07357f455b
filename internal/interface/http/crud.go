package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/query"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/response"
	"github.com/trekora/trekora/pkg/validation"
)

// Resource builds the CRUD handlers shared by every collection. Handlers
// for one resource differ only in the repository, the allow-listed update
// fields and the optional scope/hooks, so each domain handler wires a
// Resource instead of repeating the five routines.
type Resource[T any, P interface {
	*T
	entity.Document
}] struct {
	Repo repository.Collection[T]

	// Singular names the resource in error messages ("tour", "review").
	Singular string

	// UpdatableFields is the allow-list for partial updates. Field names
	// are the JSON names, which match the stored field names.
	UpdatableFields []string

	// ScopeParam/ScopeField tie a nested route to its parent: a list under
	// /tours/:tourId/reviews scopes the filter to tour_id = :tourId.
	ScopeParam string
	ScopeField string

	// BeforeCreate fills request-derived fields (scope ids, the acting
	// user) before validation-bound input is inserted.
	BeforeCreate func(c *gin.Context, doc P) error

	// AfterWrite runs after a successful create, update or delete.
	AfterWrite func(c *gin.Context, doc P)
}

func (r *Resource[T, P]) scope(c *gin.Context) map[string]any {
	if r.ScopeParam == "" {
		return nil
	}
	if v := c.Param(r.ScopeParam); v != "" {
		return map[string]any{r.ScopeField: v}
	}
	return nil
}

// CreateOne binds the body with full validation and inserts the document.
func (r *Resource[T, P]) CreateOne() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc := P(new(T))
		if err := c.ShouldBindJSON(doc); err != nil {
			apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
			return
		}
		if r.BeforeCreate != nil {
			if err := r.BeforeCreate(c, doc); err != nil {
				apperr.Fail(c, err)
				return
			}
		}
		created, err := r.Repo.Insert(c.Request.Context(), (*T)(doc))
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				apperr.Fail(c, apperr.Newf(apperr.Conflict, "duplicate %s", r.Singular))
				return
			}
			apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not create "+r.Singular, err))
			return
		}
		if r.AfterWrite != nil {
			r.AfterWrite(c, P(created))
		}
		response.Created(c, gin.H{"data": created})
	}
}

// GetOne fetches a document by the :id route param.
func (r *Resource[T, P]) GetOne() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := r.Repo.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			apperr.Fail(c, apperr.Newf(apperr.NotFound, "no %s found with that ID", r.Singular))
			return
		}
		response.Success(c, http.StatusOK, gin.H{"data": doc})
	}
}

// GetAll lists documents through the query directives, scoped to the
// parent resource when the route is nested.
func (r *Resource[T, P]) GetAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := query.Parse(c.Request.URL.Query())
		if err != nil {
			apperr.Fail(c, err)
			return
		}
		docs, err := r.Repo.Find(c.Request.Context(), r.scope(c), d)
		if err != nil {
			apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not list "+r.Singular+"s", err))
			return
		}
		response.List(c, len(docs), gin.H{"data": docs})
	}
}

// UpdateOne applies a partial update. Unknown fields are rejected rather
// than dropped, and the merged document is re-validated before the write
// so a patch can never relax a constraint the create enforced.
func (r *Resource[T, P]) UpdateOne() gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch map[string]json.RawMessage
		if err := c.ShouldBindJSON(&patch); err != nil {
			apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
			return
		}
		if len(patch) == 0 {
			apperr.Fail(c, apperr.New(apperr.Validation, "update body must not be empty"))
			return
		}
		for field := range patch {
			if !r.updatable(field) {
				apperr.Fail(c, apperr.Newf(apperr.Validation, "field %q cannot be updated", field))
				return
			}
		}

		id := c.Param("id")
		current, err := r.Repo.FindByID(c.Request.Context(), id)
		if err != nil {
			apperr.Fail(c, apperr.Newf(apperr.NotFound, "no %s found with that ID", r.Singular))
			return
		}

		merged, fields, err := mergePatch(current, patch)
		if err != nil {
			apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
			return
		}
		if err := binding.Validator.ValidateStruct(merged); err != nil {
			apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
			return
		}

		updated, err := r.Repo.UpdateByID(c.Request.Context(), id, fields)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				apperr.Fail(c, apperr.Newf(apperr.NotFound, "no %s found with that ID", r.Singular))
			case errors.Is(err, repository.ErrDuplicate):
				apperr.Fail(c, apperr.Newf(apperr.Conflict, "duplicate %s", r.Singular))
			default:
				apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not update "+r.Singular, err))
			}
			return
		}
		if r.AfterWrite != nil {
			r.AfterWrite(c, P(updated))
		}
		response.Success(c, http.StatusOK, gin.H{"data": updated})
	}
}

// DeleteOne removes a document and replies 204.
func (r *Resource[T, P]) DeleteOne() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var before *T
		if r.AfterWrite != nil {
			// The hook needs the document's links after the row is gone.
			before, _ = r.Repo.FindByID(c.Request.Context(), id)
		}
		if err := r.Repo.DeleteByID(c.Request.Context(), id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				apperr.Fail(c, apperr.Newf(apperr.NotFound, "no %s found with that ID", r.Singular))
			} else {
				apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not delete "+r.Singular, err))
			}
			return
		}
		if r.AfterWrite != nil && before != nil {
			r.AfterWrite(c, P(before))
		}
		response.NoContent(c)
	}
}

func (r *Resource[T, P]) updatable(field string) bool {
	for _, f := range r.UpdatableFields {
		if f == field {
			return true
		}
	}
	return false
}

// mergePatch overlays the raw patch onto the current document and returns
// both the merged struct (for re-validation) and the flat field map (for
// the $set write).
func mergePatch[T any](current *T, patch map[string]json.RawMessage) (*T, map[string]any, error) {
	merged := *current
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, nil, err
	}
	fields := make(map[string]any, len(patch))
	for k, v := range patch {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, nil, err
		}
		fields[k] = val
	}
	return &merged, fields, nil
}
