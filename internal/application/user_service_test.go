package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
)

func newUserService(users *memUsers) *UserService {
	return &UserService{Users: users, BcryptCost: bcrypt.MinCost}
}

func TestAdminCreateProducesUsableAccount(t *testing.T) {
	t.Parallel()
	users := newMemUsers()
	svc := newUserService(users)

	u, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		Name:     "Lena",
		Email:    "lena@example.com",
		Password: "correct-horse",
		Role:     entity.RoleLeadGuide,
	})
	require.NoError(t, err)

	assert.True(t, u.Active)
	assert.Equal(t, entity.RoleLeadGuide, u.Role)
	assert.NotEqual(t, "correct-horse", u.Password)
	assert.True(t, helpers.CheckPassword(u.Password, "correct-horse"))

	// the account must be visible on immediate read-back
	got, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "lena@example.com", got.Email)
}

func TestAdminCreateDefaultsToUserRole(t *testing.T) {
	t.Parallel()
	svc := newUserService(newMemUsers())

	u, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role)
}

func TestAdminCreateRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	svc := newUserService(newMemUsers())

	_, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "long-enough",
		Role:     "superuser",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestAdminCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newUserService(newMemUsers())

	in := AdminCreateInput{Name: "Sam", Email: "sam@example.com", Password: "long-enough"}
	_, err := svc.AdminCreate(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.AdminCreate(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}
