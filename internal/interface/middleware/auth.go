package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
)

// CtxUserKey holds the authenticated *entity.User in the Gin context.
const CtxUserKey = "currentUser"

// CurrentUser returns the authenticated principal set by Protect or
// IsLoggedIn, or nil for an anonymous request.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// authenticate resolves the request's session token to a live principal.
// The token comes from the Authorization header ("Bearer <token>") or,
// failing that, the session cookie. Every stage fails closed.
func authenticate(c *gin.Context, users repository.UserRepository, tokens *helpers.TokenManager) (*entity.User, error) {
	token := ""
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if v, err := c.Cookie(helpers.SessionCookie); err == nil {
		token = v
	}
	if token == "" {
		return nil, apperr.New(apperr.Authentication, "you are not logged in, please log in to get access")
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	u, err := users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, apperr.New(apperr.Authentication, "the user belonging to this token no longer exists")
	}
	if claims.IssuedAt != nil && u.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperr.New(apperr.Authentication, "password was recently changed, please log in again")
	}
	return u, nil
}

// Protect rejects unauthenticated requests and stores the principal in the
// context for downstream handlers.
func Protect(users repository.UserRepository, tokens *helpers.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := authenticate(c, users, tokens)
		if err != nil {
			apperr.Fail(c, err)
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RestrictTo allows only the given roles past. It must run after Protect.
func RestrictTo(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			apperr.Fail(c, apperr.New(apperr.Authentication, "you are not logged in, please log in to get access"))
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		apperr.Fail(c, apperr.New(apperr.Authorization, "you do not have permission to perform this action"))
	}
}

// IsLoggedIn resolves the principal for rendered pages without ever
// rejecting: anonymous visitors continue with no user in the context.
func IsLoggedIn(users repository.UserRepository, tokens *helpers.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := authenticate(c, users, tokens); err == nil {
			c.Set(CtxUserKey, u)
		}
		c.Next()
	}
}
