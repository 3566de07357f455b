package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trekora/trekora/pkg/apperr"
)

// TokenManager signs and verifies session tokens. A token binds a principal
// id and an issue time; validity is recomputed on every request from the
// signature, the expiry and the caller's password-freshness check.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured validity window.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Claims carried by a session token.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issue produces a signed token for the principal, returning the token and
// its expiry.
func (m *TokenManager) Issue(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Parse verifies a token and returns its claims. It fails closed: missing,
// malformed, tampered or expired input always yields an authentication
// error, with expiry distinguished for logging.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperr.New(apperr.Authentication, "missing token")
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.Authentication, "token expired, please log in again", err)
		}
		return nil, apperr.Wrap(apperr.Authentication, "invalid token", err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, apperr.New(apperr.Authentication, "invalid token")
	}
	return claims, nil
}
