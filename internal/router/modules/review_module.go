package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/trekora/trekora/internal/container"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	handlers "github.com/trekora/trekora/internal/interface/http"
	"github.com/trekora/trekora/internal/interface/middleware"
)

// ReviewModule wires the flat /reviews routes. The nested routes under
// /tours are registered by the tour module with the same handler.
type ReviewModule struct {
	Reviews  *handlers.ReviewHandler
	UserRepo repository.UserRepository
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	reviews.Use(middleware.Protect(m.UserRepo, container.GetTokens()))

	reviews.GET("", m.Reviews.Resource.GetAll())
	reviews.GET("/:id", m.Reviews.Resource.GetOne())
	reviews.POST("", middleware.RestrictTo(entity.RoleUser), m.Reviews.Resource.CreateOne())
	reviews.PATCH("/:id", middleware.RestrictTo(entity.RoleUser, entity.RoleAdmin), m.Reviews.Resource.UpdateOne())
	reviews.DELETE("/:id", middleware.RestrictTo(entity.RoleUser, entity.RoleAdmin), m.Reviews.Resource.DeleteOne())
}
