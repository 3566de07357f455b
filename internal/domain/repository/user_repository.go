package repository

import (
	"context"
	"time"

	"github.com/trekora/trekora/internal/domain/entity"
)

// UserRepository extends the generic collection with the credential flows.
type UserRepository interface {
	Collection[entity.User]

	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetHash returns the user holding an unexpired reset token hash.
	GetByResetHash(ctx context.Context, hash string, now time.Time) (*entity.User, error)
	// UpdateCredentials persists a new password hash, stamps
	// password_changed_at and clears any reset token, in one update.
	UpdateCredentials(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// SetResetToken stores the reset token hash and its expiry.
	SetResetToken(ctx context.Context, id, hash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}
