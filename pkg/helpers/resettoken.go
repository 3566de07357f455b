package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

// ResetToken is a single-use password reset credential. Raw is transmitted
// to the user exactly once; only Hash and ExpiresAt are persisted.
type ResetToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// NewResetToken generates a high-entropy token. The stored side is a fast
// sha256 digest: the raw value is random and single-use, so the slow
// password hash is unnecessary.
func NewResetToken() (ResetToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ResetToken{}, err
	}
	raw := base64.RawURLEncoding.EncodeToString(b)
	return ResetToken{
		Raw:       raw,
		Hash:      HashResetToken(raw),
		ExpiresAt: time.Now().Add(ResetTokenTTL),
	}, nil
}

// HashResetToken digests a raw token the same way NewResetToken does, so a
// presented token can be matched against the stored hash.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
