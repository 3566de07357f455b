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

// BookingModule wires the checkout entry point and the booking
// collection. Every route requires authentication; the raw collection is
// for back office roles.
type BookingModule struct {
	Bookings *handlers.BookingHandler
	UserRepo repository.UserRepository
}

func (m *BookingModule) Register(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.Protect(m.UserRepo, container.GetTokens()))

	// Checkout sessions hit the payment provider, so each user gets a
	// small per-window budget of them.
	checkoutLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUser(), middleware.AllowPrivateIP())

	bookings.GET("/checkout-session/:tourId", checkoutLimiter, m.Bookings.CheckoutSession)
	bookings.GET("/my-tours", m.Bookings.MyTours)

	staff := bookings.Group("/")
	staff.Use(middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))
	{
		staff.GET("", m.Bookings.Resource.GetAll())
		staff.POST("", m.Bookings.Resource.CreateOne())
		staff.GET("/:id", m.Bookings.Resource.GetOne())
		staff.PATCH("/:id", m.Bookings.Resource.UpdateOne())
		staff.DELETE("/:id", m.Bookings.Resource.DeleteOne())
	}
}
