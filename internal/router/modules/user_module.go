package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trekora/trekora/internal/container"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	handlers "github.com/trekora/trekora/internal/interface/http"
	"github.com/trekora/trekora/internal/interface/middleware"
)

// UserModule wires the credential routes and the user collection.
// Public: signup, login, logout, forgotPassword, resetPassword.
// Protected: updateMyPassword, me, updateMe, deleteMe.
// Admin: full user CRUD.
type UserModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	Repo  repository.UserRepository
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get a tight per-IP bucket so a password can
	// not be brute forced within a window.
	credLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	users.POST("/signup", credLimiter, m.Auth.SignUp)
	users.POST("/login", credLimiter, m.Auth.Login)
	users.GET("/logout", m.Auth.Logout)
	users.POST("/forgotPassword", credLimiter, m.Auth.ForgotPassword)
	users.PATCH("/resetPassword/:token", credLimiter, m.Auth.ResetPassword)

	auth := users.Group("/")
	auth.Use(middleware.Protect(m.Repo, container.GetTokens()))
	{
		auth.PATCH("/updateMyPassword", m.Auth.UpdatePassword)
		auth.GET("/me", m.Users.GetMe)
		auth.PATCH("/updateMe", m.Users.UpdateMe)
		auth.PATCH("/me/photo", m.Users.UploadPhoto)
		auth.DELETE("/deleteMe", m.Users.DeleteMe)

		admin := auth.Group("/")
		admin.Use(middleware.RestrictTo(entity.RoleAdmin))
		{
			admin.GET("", m.Users.Resource.GetAll())
			admin.POST("", m.Users.AdminCreate)
			admin.GET("/:id", m.Users.Resource.GetOne())
			admin.PATCH("/:id", m.Users.Resource.UpdateOne())
			admin.DELETE("/:id", m.Users.Resource.DeleteOne())
		}
	}
}
