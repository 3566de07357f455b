package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/interface/middleware"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/response"
	"github.com/trekora/trekora/pkg/validation"
)

// maxPhotoBytes caps avatar uploads before decoding.
const maxPhotoBytes = 10 << 20

// UserHandler serves the self-service profile routes plus the admin user
// collection through the shared CRUD resource.
type UserHandler struct {
	Svc      *application.UserService
	Resource *Resource[entity.User, *entity.User]
}

func NewUserHandler(svc *application.UserService, users repository.UserRepository) *UserHandler {
	return &UserHandler{
		Svc: svc,
		Resource: &Resource[entity.User, *entity.User]{
			Repo:            users,
			Singular:        "user",
			UpdatableFields: []string{"name", "email", "photo", "role"},
		},
	}
}

type updateMeRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type adminCreateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,pwd"`
	Role     entity.Role `json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
}

// AdminCreate is the back office create route. It does not go through the
// generic resource because a user document needs a hashed password and an
// active flag no raw insert can produce.
func (h *UserHandler) AdminCreate(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	u, err := h.Svc.AdminCreate(c.Request.Context(), application.AdminCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Created(c, gin.H{"data": u})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	u, err := h.Svc.GetMe(c.Request.Context(), user.ID)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": u})
}

// UpdateMe changes name and email only. Requests carrying password fields
// are pointed at the password route instead of silently ignoring them.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}
	if _, ok := raw["password"]; ok {
		apperr.Fail(c, apperr.New(apperr.Validation, "this route is not for password updates, please use /updateMyPassword"))
		return
	}
	if _, ok := raw["password_confirm"]; ok {
		apperr.Fail(c, apperr.New(apperr.Validation, "this route is not for password updates, please use /updateMyPassword"))
		return
	}
	var req updateMeRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		apperr.Fail(c, apperr.WithDetails("invalid input data", validation.ToDetails(err)))
		return
	}

	user := middleware.CurrentUser(c)
	u, err := h.Svc.UpdateMe(c.Request.Context(), user.ID, application.UpdateMeInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": u})
}

// UploadPhoto accepts a multipart "photo" file, normalizes it and stores
// the resulting URL on the profile.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		apperr.Fail(c, apperr.New(apperr.Validation, "a photo file is required"))
		return
	}
	if file.Size > maxPhotoBytes {
		apperr.Fail(c, apperr.New(apperr.Validation, "photo must be smaller than 10 MB"))
		return
	}
	f, err := file.Open()
	if err != nil {
		apperr.Fail(c, apperr.Wrap(apperr.Validation, "could not read uploaded photo", err))
		return
	}
	defer func() { _ = f.Close() }()

	user := middleware.CurrentUser(c)
	url, err := h.Svc.UploadPhoto(c.Request.Context(), user.ID, f)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	u, err := h.Svc.UpdateMe(c.Request.Context(), user.ID, application.UpdateMeInput{Photo: &url})
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": u})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.Svc.DeleteMe(c.Request.Context(), user.ID); err != nil {
		apperr.Fail(c, err)
		return
	}
	response.NoContent(c)
}
