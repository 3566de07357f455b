package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/query"
	"github.com/trekora/trekora/pkg/validation"
)

// fakeUsers is a minimal in-memory UserRepository for the admin routes.
type fakeUsers struct {
	byID   map[string]*entity.User
	nextID int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*entity.User{}}
}

func (f *fakeUsers) Insert(_ context.Context, u *entity.User) (*entity.User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("u%d", f.nextID)
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.byID[id]; ok && u.Active {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Find(_ context.Context, _ map[string]any, _ query.Directives) ([]*entity.User, error) {
	out := []*entity.User{}
	for _, u := range f.byID {
		if u.Active {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateByID(_ context.Context, id string, fields map[string]any) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["role"]; ok {
		u.Role = entity.Role(v.(string))
	}
	if v, ok := fields["name"]; ok {
		u.Name = v.(string)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) DeleteByID(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByResetHash(_ context.Context, _ string, _ time.Time) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) UpdateCredentials(_ context.Context, _, _ string, _ time.Time) error { return nil }
func (f *fakeUsers) SetResetToken(_ context.Context, _, _ string, _ time.Time) error    { return nil }
func (f *fakeUsers) ClearResetToken(_ context.Context, _ string) error                  { return nil }
func (f *fakeUsers) Deactivate(_ context.Context, _ string) error                       { return nil }

var _ repository.UserRepository = (*fakeUsers)(nil)

type userEnv struct {
	repo   *fakeUsers
	router *gin.Engine
}

func newUserEnv(t *testing.T) *userEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	repo := newFakeUsers()
	svc := &application.UserService{Users: repo, BcryptCost: bcrypt.MinCost}
	h := NewUserHandler(svc, repo)

	r := gin.New()
	r.Use(errorRenderer())
	r.POST("/users", h.AdminCreate)
	r.PATCH("/users/:id", h.Resource.UpdateOne())
	return &userEnv{repo: repo, router: r}
}

func (e *userEnv) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestAdminCreateUser(t *testing.T) {
	env := newUserEnv(t)

	w := env.do(http.MethodPost, "/users", `{"name":"Lena","email":"lena@example.com","password":"correct-horse","role":"guide"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, env.repo.byID, 1)

	u := env.repo.byID["u1"]
	assert.True(t, u.Active)
	assert.Equal(t, entity.RoleGuide, u.Role)
	assert.NotEmpty(t, u.Password)
	assert.NotEqual(t, "correct-horse", u.Password)
}

func TestAdminCreateUserRejectsIncompleteBody(t *testing.T) {
	env := newUserEnv(t)

	// an empty body must never slip through as a zero-value document
	w := env.do(http.MethodPost, "/users", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.repo.byID)

	// short password
	w = env.do(http.MethodPost, "/users", `{"name":"Lena","email":"lena@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// role outside the known set
	w = env.do(http.MethodPost, "/users", `{"name":"Lena","email":"lena@example.com","password":"correct-horse","role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.repo.byID)
}

func TestAdminUpdateUserValidatesRole(t *testing.T) {
	env := newUserEnv(t)
	env.do(http.MethodPost, "/users", `{"name":"Lena","email":"lena@example.com","password":"correct-horse"}`)

	w := env.do(http.MethodPatch, "/users/u1", `{"role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, entity.RoleUser, env.repo.byID["u1"].Role)

	w = env.do(http.MethodPatch, "/users/u1", `{"role":"lead-guide"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.RoleLeadGuide, env.repo.byID["u1"].Role)
}
