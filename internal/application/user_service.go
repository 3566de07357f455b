package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
	"github.com/trekora/trekora/pkg/images"
)

// ObjectStore is the slice of blob storage the services need.
type ObjectStore interface {
	UploadObject(ctx context.Context, bucket, path, contentType string, r io.Reader) (string, error)
}

const (
	userPhotoSize = 500
)

// UserService handles profile self-service and back office account
// management. Credential changes live in AuthService so the two concerns
// never share an update path.
type UserService struct {
	Users      repository.UserRepository
	Storage    ObjectStore
	Bucket     string
	BcryptCost int
}

type UpdateMeInput struct {
	Name  *string
	Email *string
	Photo *string
}

type AdminCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// AdminCreate provisions an account on behalf of an operator. Unlike the
// generic collection insert, the account comes out usable: the password is
// hashed and the active flag is set.
func (s *UserService) AdminCreate(ctx context.Context, in AdminCreateInput) (*entity.User, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, apperr.Newf(apperr.Validation, "%q is not a valid role", role)
	}
	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "password hashing failed", err)
	}
	u := &entity.User{
		Name:     in.Name,
		Email:    in.Email,
		Role:     role,
		Password: hash,
		Active:   true,
	}
	if _, err := s.Users.Insert(ctx, u); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
		}
		return nil, apperr.Wrap(apperr.Upstream, "could not create user", err)
	}
	return u, nil
}

func (s *UserService) GetMe(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "no user found with that ID")
	}
	return u, nil
}

// UpdateMe accepts only profile fields. Password material arriving here is
// rejected at the handler before this point.
func (s *UserService) UpdateMe(ctx context.Context, userID string, in UpdateMeInput) (*entity.User, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Photo != nil {
		fields["photo"] = *in.Photo
	}
	if len(fields) == 0 {
		return s.GetMe(ctx, userID)
	}
	u, err := s.Users.UpdateByID(ctx, userID, fields)
	if err != nil {
		switch {
		case err == repository.ErrNotFound:
			return nil, apperr.New(apperr.NotFound, "no user found with that ID")
		case err == repository.ErrDuplicate:
			return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
		}
		return nil, apperr.Wrap(apperr.Upstream, "could not update profile", err)
	}
	return u, nil
}

// UploadPhoto normalizes the avatar to a square JPEG and stores it under a
// timestamped key so stale CDN caches never mask a new upload.
func (s *UserService) UploadPhoto(ctx context.Context, userID string, r io.Reader) (string, error) {
	if s.Storage == nil {
		return "", apperr.New(apperr.Upstream, "file storage is not configured")
	}
	img, err := images.Resize(r, userPhotoSize, userPhotoSize)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("users/%s-%d.jpeg", userID, time.Now().UnixNano())
	url, err := s.Storage.UploadObject(ctx, s.Bucket, path, "image/jpeg", bytes.NewReader(img))
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "could not store photo", err)
	}
	return url, nil
}

// DeleteMe deactivates the account. The document stays in the collection
// but every read path filters it out.
func (s *UserService) DeleteMe(ctx context.Context, userID string) error {
	if err := s.Users.Deactivate(ctx, userID); err != nil {
		return apperr.New(apperr.NotFound, "no user found with that ID")
	}
	return nil
}
