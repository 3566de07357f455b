package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/interface/middleware"
	"github.com/trekora/trekora/internal/query"
	"github.com/trekora/trekora/pkg/apperr"
)

// ViewHandler renders the server-side pages.
type ViewHandler struct {
	Tours    repository.TourRepository
	Reviews  repository.ReviewRepository
	TourSvc  *application.TourService
	Bookings *application.BookingService
	Logger   *logrus.Logger
}

func (h *ViewHandler) render(c *gin.Context, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["User"] = middleware.CurrentUser(c)
	c.HTML(http.StatusOK, name, data)
}

// Overview lists all tours. A successful checkout redirects here with the
// booking details in the query string; the booking is recorded and the
// query stripped before rendering so a reload cannot book twice.
func (h *ViewHandler) Overview(c *gin.Context) {
	if tourID := c.Query("tour"); tourID != "" {
		userID := c.Query("user")
		price, _ := strconv.ParseFloat(c.Query("price"), 64)
		if userID != "" && price > 0 {
			if _, err := h.Bookings.CreateFromCheckout(c.Request.Context(), tourID, userID, int64(price*100)); err != nil && h.Logger != nil {
				h.Logger.WithError(err).Warn("checkout booking failed")
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	tours, err := h.Tours.Find(c.Request.Context(), nil, query.Directives{Page: 1, Limit: query.DefaultLimit})
	if err != nil {
		apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not load tours", err))
		return
	}
	h.render(c, "overview.tmpl", "All Tours", gin.H{"Tours": tours})
}

// Tour renders one tour page with its reviews.
func (h *ViewHandler) Tour(c *gin.Context) {
	t, err := h.TourSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	reviews, err := h.Reviews.Find(c.Request.Context(), map[string]any{"tour_id": t.ID}, query.Directives{Page: 1, Limit: query.DefaultLimit})
	if err != nil {
		apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not load reviews", err))
		return
	}
	h.render(c, "tour.tmpl", t.Name+" Tour", gin.H{"Tour": t, "Reviews": reviews})
}

func (h *ViewHandler) Login(c *gin.Context) {
	h.render(c, "login.tmpl", "Log into your account", nil)
}

func (h *ViewHandler) SignUp(c *gin.Context) {
	h.render(c, "signup.tmpl", "Create your account", nil)
}

func (h *ViewHandler) Account(c *gin.Context) {
	h.render(c, "account.tmpl", "Your account", nil)
}

// MyTours shows the tours the logged-in user has booked.
func (h *ViewHandler) MyTours(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tours, err := h.Bookings.MyTours(c.Request.Context(), user.ID)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	h.render(c, "overview.tmpl", "My Tours", gin.H{"Tours": tours})
}
