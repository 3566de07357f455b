package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/query"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
)

type stubUsers struct {
	byID map[string]*entity.User
}

func (s *stubUsers) Insert(_ context.Context, u *entity.User) (*entity.User, error) { return u, nil }

func (s *stubUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.byID[id]; ok && u.Active {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUsers) Find(_ context.Context, _ map[string]any, _ query.Directives) ([]*entity.User, error) {
	return nil, nil
}

func (s *stubUsers) UpdateByID(_ context.Context, _ string, _ map[string]any) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (s *stubUsers) DeleteByID(_ context.Context, _ string) error { return repository.ErrNotFound }

func (s *stubUsers) GetByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (s *stubUsers) GetByResetHash(_ context.Context, _ string, _ time.Time) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (s *stubUsers) UpdateCredentials(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func (s *stubUsers) SetResetToken(_ context.Context, _, _ string, _ time.Time) error { return nil }
func (s *stubUsers) ClearResetToken(_ context.Context, _ string) error               { return nil }
func (s *stubUsers) Deactivate(_ context.Context, _ string) error                    { return nil }

var _ repository.UserRepository = (*stubUsers)(nil)

func protectedRouter(users repository.UserRepository, tokens *helpers.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		if err := c.Errors.Last(); err != nil {
			if e := apperr.As(err.Err); e != nil {
				c.JSON(e.Status(), gin.H{"message": e.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		}
	})
	chain := append([]gin.HandlerFunc{Protect(users, tokens)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		u := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	r.GET("/secure", chain...)
	return r
}

func TestProtectWithBearerToken(t *testing.T) {
	t.Parallel()
	tokens := helpers.NewTokenManager("secret", time.Hour)
	users := &stubUsers{byID: map[string]*entity.User{
		"u1": {ID: "u1", Role: entity.RoleUser, Active: true},
	}}
	r := protectedRouter(users, tokens)

	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestProtectWithSessionCookie(t *testing.T) {
	t.Parallel()
	tokens := helpers.NewTokenManager("secret", time.Hour)
	users := &stubUsers{byID: map[string]*entity.User{
		"u1": {ID: "u1", Role: entity.RoleUser, Active: true},
	}}
	r := protectedRouter(users, tokens)

	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectRejections(t *testing.T) {
	t.Parallel()
	tokens := helpers.NewTokenManager("secret", time.Hour)
	otherTokens := helpers.NewTokenManager("different", time.Hour)
	users := &stubUsers{byID: map[string]*entity.User{
		"u1": {ID: "u1", Role: entity.RoleUser, Active: true},
	}}
	r := protectedRouter(users, tokens)

	valid, _, err := tokens.Issue("u1")
	require.NoError(t, err)
	forged, _, err := otherTokens.Issue("u1")
	require.NoError(t, err)
	ghost, _, err := tokens.Issue("gone")
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{"no token", func(*http.Request) {}},
		{"malformed header", func(req *http.Request) {
			req.Header.Set("Authorization", "Token "+valid)
		}},
		{"bad signature", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+forged)
		}},
		{"user gone", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+ghost)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			tt.setup(req)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestProtectRejectsTokenIssuedBeforePasswordChange(t *testing.T) {
	t.Parallel()
	tokens := helpers.NewTokenManager("secret", time.Hour)
	users := &stubUsers{byID: map[string]*entity.User{
		"u1": {
			ID: "u1", Role: entity.RoleUser, Active: true,
			PasswordChangedAt: time.Now().Add(time.Minute),
		},
	}}
	r := protectedRouter(users, tokens)

	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "recently changed")
}

func TestRestrictTo(t *testing.T) {
	t.Parallel()
	tokens := helpers.NewTokenManager("secret", time.Hour)
	users := &stubUsers{byID: map[string]*entity.User{
		"admin": {ID: "admin", Role: entity.RoleAdmin, Active: true},
		"plain": {ID: "plain", Role: entity.RoleUser, Active: true},
	}}
	r := protectedRouter(users, tokens, RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))

	for _, tt := range []struct {
		userID string
		want   int
	}{
		{"admin", http.StatusOK},
		{"plain", http.StatusForbidden},
	} {
		token, _, err := tokens.Issue(tt.userID)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, tt.userID)
	}
}

func TestIsLoggedInNeverRejects(t *testing.T) {
	t.Parallel()
	tokens := helpers.NewTokenManager("secret", time.Hour)
	users := &stubUsers{byID: map[string]*entity.User{
		"u1": {ID: "u1", Role: entity.RoleUser, Active: true},
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/page", IsLoggedIn(users, tokens), func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, "hello "+u.ID)
			return
		}
		c.String(http.StatusOK, "hello stranger")
	})

	// Anonymous visitor still gets the page.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello stranger", w.Body.String())

	// Garbage cookie is treated as anonymous, not an error.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: "garbage"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello stranger", w.Body.String())

	// Valid session resolves the user.
	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello u1", w.Body.String())
}
