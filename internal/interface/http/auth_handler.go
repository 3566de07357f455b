package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/interface/middleware"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
	"github.com/trekora/trekora/pkg/response"
	"github.com/trekora/trekora/pkg/validation"
)

// AuthHandler exposes the credential lifecycle: signup, login, logout,
// the forgot/reset password pair and the logged-in password change.
type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger

	// FrontendURL is the absolute base of the public site, used for the
	// URLs embedded in emails.
	FrontendURL string
}

type signUpRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"password_current" binding:"required"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// sendSession issues a token, sets the session cookie and writes the
// standard login payload.
func (h *AuthHandler) sendSession(c *gin.Context, code int, user any, userID string) {
	token, exp, err := h.Auth.IssueSession(userID)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, code, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	u, err := h.Auth.SignUp(c.Request.Context(), application.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}, h.FrontendURL+"/me")
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	h.sendSession(c, http.StatusCreated, u, u.ID)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	u, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	h.sendSession(c, http.StatusOK, u, u.ID)
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; only the browser forgets it.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email, h.FrontendURL+"/resetPassword"); err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "token sent to email"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	u, err := h.Auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	h.sendSession(c, http.StatusOK, u, u.ID)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	user := middleware.CurrentUser(c)
	u, err := h.Auth.UpdatePassword(c.Request.Context(), user.ID, req.PasswordCurrent, req.Password)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	h.sendSession(c, http.StatusOK, u, u.ID)
}
