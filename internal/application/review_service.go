package application

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
)

// Defaults for a tour without any reviews, matching the values a fresh
// tour document starts with.
const (
	defaultRatingsAverage  = 4.5
	defaultRatingsQuantity = 0
)

// ReviewService keeps the denormalized rating fields on a tour in step
// with its reviews. Two reviews written at the same instant can both
// recompute from the same snapshot; the second write wins and the next
// review corrects any drift.
type ReviewService struct {
	Reviews repository.ReviewRepository
	Tours   repository.TourRepository
	Logger  *logrus.Logger
}

// RecomputeRatings aggregates every review for the tour and writes the
// result back. With no reviews left the tour falls back to the defaults.
func (s *ReviewService) RecomputeRatings(ctx context.Context, tourID string) error {
	stats, err := s.Reviews.RatingStats(ctx, tourID)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "could not aggregate review ratings", err)
	}
	average := float64(defaultRatingsAverage)
	quantity := defaultRatingsQuantity
	if stats != nil {
		average = math.Round(stats.Average*10) / 10
		quantity = stats.Count
	}
	if err := s.Tours.UpdateRatings(ctx, tourID, average, quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Review outlived its tour; nothing to keep in step.
			return nil
		}
		return apperr.Wrap(apperr.Upstream, "could not update tour ratings", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"tour_id":  tourID,
			"average":  average,
			"quantity": quantity,
		}).Debug("tour ratings recomputed")
	}
	return nil
}
