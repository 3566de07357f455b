package handlers

import (
	"net/http"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/interface/middleware"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/response"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the checkout entry point and the admin booking
// collection.
type BookingHandler struct {
	Svc      *application.BookingService
	Resource *Resource[entity.Booking, *entity.Booking]
}

func NewBookingHandler(svc *application.BookingService, bookings repository.BookingRepository) *BookingHandler {
	return &BookingHandler{
		Svc: svc,
		Resource: &Resource[entity.Booking, *entity.Booking]{
			Repo:            bookings,
			Singular:        "booking",
			UpdatableFields: []string{"price", "paid"},
		},
	}
}

// CheckoutSession creates a payment session for the tour in the route.
func (h *BookingHandler) CheckoutSession(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sess, err := h.Svc.CheckoutSession(c.Request.Context(), c.Param("tourId"), user)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// MyTours lists the tours the acting user has booked.
func (h *BookingHandler) MyTours(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tours, err := h.Svc.MyTours(c.Request.Context(), user.ID)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.List(c, len(tours), gin.H{"data": tours})
}
