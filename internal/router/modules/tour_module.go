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

// TourModule wires the tour collection, its aliases, aggregations,
// geospatial lookups, search and the nested review routes.
type TourModule struct {
	Tours    *handlers.TourHandler
	Reviews  *handlers.ReviewHandler
	UserRepo repository.UserRepository
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	protect := middleware.Protect(m.UserRepo, container.GetTokens())
	staff := middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide)
	guides := middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide, entity.RoleGuide)
	softLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	tours := rg.Group("/tours")
	tours.Use(softLimiter)

	// Reads are public.
	tours.GET("", m.Tours.Resource.GetAll())
	tours.GET("/top-5-cheap", handlers.AliasTopCheap(), m.Tours.Resource.GetAll())
	tours.GET("/stats", m.Tours.Stats)
	tours.GET("/search", m.Tours.Search)
	tours.GET("/monthly-plan/:year", protect, guides, m.Tours.MonthlyPlan)
	tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", m.Tours.Within)
	tours.GET("/distances/:latlng/unit/:unit", m.Tours.Distances)
	tours.GET("/:id", m.Tours.Resource.GetOne())

	// Mutations are for staff only.
	tours.POST("", protect, staff, m.Tours.Resource.CreateOne())
	tours.PATCH("/:id", protect, staff, m.Tours.Resource.UpdateOne())
	tours.PATCH("/:id/images", protect, staff, m.Tours.UploadImages)
	tours.DELETE("/:id", protect, staff, m.Tours.Resource.DeleteOne())

	// Nested reviews: list is public, create requires the user role so
	// staff cannot review their own tours.
	tours.GET("/:id/reviews", m.Reviews.Resource.GetAll())
	tours.POST("/:id/reviews", protect, middleware.RestrictTo(entity.RoleUser), m.Reviews.Resource.CreateOne())
}
