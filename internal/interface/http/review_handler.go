package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/interface/middleware"
	"github.com/trekora/trekora/pkg/apperr"
)

// ReviewHandler wires the review collection. Reviews live both at
// /reviews and nested under /tours/:id/reviews; the nested form scopes
// lists and fills the tour on create.
type ReviewHandler struct {
	Resource *Resource[entity.Review, *entity.Review]
}

func NewReviewHandler(svc *application.ReviewService, reviews repository.ReviewRepository, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		Resource: &Resource[entity.Review, *entity.Review]{
			Repo:            reviews,
			Singular:        "review",
			UpdatableFields: []string{"review", "rating"},
			ScopeParam:      "id",
			ScopeField:      "tour_id",
			BeforeCreate: func(c *gin.Context, r *entity.Review) error {
				if r.TourID == "" {
					r.TourID = c.Param("id")
				}
				if r.TourID == "" {
					return apperr.New(apperr.Validation, "a review must belong to a tour")
				}
				// The author is always the acting user, never the body.
				r.UserID = middleware.CurrentUser(c).ID
				return nil
			},
			AfterWrite: func(c *gin.Context, r *entity.Review) {
				if err := svc.RecomputeRatings(c.Request.Context(), r.TourID); err != nil && logger != nil {
					logger.WithError(err).WithField("tour_id", r.TourID).Warn("rating recompute failed")
				}
			},
		},
	}
}
