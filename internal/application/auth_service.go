package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
	"github.com/trekora/trekora/pkg/mailer"
)

// MailQueue is the narrow slice of the message broker the services use.
// A nil queue disables email without failing the flow that triggered it,
// except for password resets where delivery is the whole point.
type MailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService owns the credential and session-token lifecycle.
type AuthService struct {
	Users      repository.UserRepository
	Tokens     *helpers.TokenManager
	BcryptCost int
	Mail       MailQueue
	Logger     *logrus.Logger
}

type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// SignUp registers a principal. The role is always "user"; elevated roles
// are assigned through the admin management endpoints.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput, profileURL string) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "password hashing failed", err)
	}
	u := &entity.User{
		Name:     in.Name,
		Email:    in.Email,
		Role:     entity.RoleUser,
		Password: hash,
		Active:   true,
	}
	if _, err := s.Users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, "an account with this email already exists")
		}
		return nil, apperr.Wrap(apperr.Upstream, "could not create user", err)
	}

	s.queueMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "URL": profileURL},
	})
	return u, nil
}

// Login verifies credentials. The error never reveals which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || !helpers.CheckPassword(u.Password, password) {
		return nil, apperr.New(apperr.Authentication, "incorrect email or password")
	}
	return u, nil
}

// IssueSession creates a signed session token for the principal.
func (s *AuthService) IssueSession(userID string) (string, time.Time, error) {
	token, exp, err := s.Tokens.Issue(userID)
	if err != nil {
		return "", time.Time{}, apperr.Wrap(apperr.Upstream, "could not issue session token", err)
	}
	return token, exp, nil
}

// ForgotPassword creates a single-use reset token, stores only its hash and
// emails the raw value. Failing to queue the email rolls the token back so
// the stored hash never outlives a message nobody received.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return apperr.New(apperr.NotFound, "there is no user with this email address")
	}

	tok, err := helpers.NewResetToken()
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "could not generate reset token", err)
	}
	if err := s.Users.SetResetToken(ctx, u.ID, tok.Hash, tok.ExpiresAt); err != nil {
		return apperr.Wrap(apperr.Upstream, "could not store reset token", err)
	}

	if s.Mail == nil {
		_ = s.Users.ClearResetToken(ctx, u.ID)
		return apperr.New(apperr.Upstream, "email delivery is not configured")
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplatePasswordReset,
		Data:     map[string]any{"Name": u.Name, "URL": resetURLBase + "/" + tok.Raw},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		_ = s.Users.ClearResetToken(ctx, u.ID)
		return apperr.Wrap(apperr.Upstream, "there was an error sending the email, try again later", err)
	}
	return nil
}

// ResetPassword consumes a raw reset token. The token is single-use: the
// credential update clears the stored hash, so a second attempt with the
// same token fails the lookup.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*entity.User, error) {
	u, err := s.Users.GetByResetHash(ctx, helpers.HashResetToken(rawToken), time.Now())
	if err != nil {
		return nil, apperr.New(apperr.Authentication, "token is invalid or has expired")
	}
	if err := s.changePassword(ctx, u, newPassword); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword is the self-service change for users who still know their
// current password.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, newPassword string) (*entity.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.New(apperr.Authentication, "user no longer exists")
	}
	if !helpers.CheckPassword(u.Password, current) {
		return nil, apperr.New(apperr.Authentication, "your current password is wrong")
	}
	if err := s.changePassword(ctx, u, newPassword); err != nil {
		return nil, err
	}
	return u, nil
}

// changePassword persists a new hash and stamps password_changed_at so
// every session token issued before this moment is rejected from now on.
func (s *AuthService) changePassword(ctx context.Context, u *entity.User, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "password hashing failed", err)
	}
	now := time.Now().UTC()
	if err := s.Users.UpdateCredentials(ctx, u.ID, hash, now); err != nil {
		return apperr.Wrap(apperr.Upstream, "could not update password", err)
	}
	u.Password = hash
	u.PasswordChangedAt = now
	return nil
}

func (s *AuthService) queueMail(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("email enqueue failed")
	}
}
