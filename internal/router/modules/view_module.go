package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/trekora/trekora/internal/container"
	"github.com/trekora/trekora/internal/domain/repository"
	handlers "github.com/trekora/trekora/internal/interface/http"
	"github.com/trekora/trekora/internal/interface/middleware"
)

// ViewModule wires the rendered pages. Every page resolves the session
// if present; only the account pages require one.
type ViewModule struct {
	Views    *handlers.ViewHandler
	UserRepo repository.UserRepository
}

func (m *ViewModule) Register(rg *gin.RouterGroup) {
	loggedIn := middleware.IsLoggedIn(m.UserRepo, container.GetTokens())
	protect := middleware.Protect(m.UserRepo, container.GetTokens())

	rg.GET("/", loggedIn, m.Views.Overview)
	rg.GET("/tour/:slug", loggedIn, m.Views.Tour)
	rg.GET("/login", loggedIn, m.Views.Login)
	rg.GET("/signup", loggedIn, m.Views.SignUp)
	rg.GET("/me", protect, m.Views.Account)
	rg.GET("/my-tours", protect, m.Views.MyTours)
}
