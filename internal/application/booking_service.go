package application

import (
	"context"
	"fmt"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/payment"
)

// BookingService turns a paid checkout session into a booking and lists
// what a user has already booked.
type BookingService struct {
	Bookings repository.BookingRepository
	Tours    repository.TourRepository
	Payments payment.Provider
	BaseURL  string
}

// CheckoutSession creates a payment session for one tour. The tour id and
// user id ride along in the reference so the webhook can book without any
// extra lookup state.
func (s *BookingService) CheckoutSession(ctx context.Context, tourID string, user *entity.User) (*payment.Session, error) {
	if s.Payments == nil {
		return nil, apperr.New(apperr.Upstream, "payments are not configured")
	}
	t, err := s.Tours.FindByID(ctx, tourID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "no tour found with that ID")
	}
	in := payment.CheckoutInput{
		Reference:     t.ID,
		CustomerEmail: user.Email,
		Name:          fmt.Sprintf("%s Tour", t.Name),
		Description:   t.Summary,
		ImageURL:      t.ImageCover,
		AmountCents:   int64(t.Price * 100),
		Currency:      "usd",
		SuccessURL:    s.BaseURL + "/my-tours",
		CancelURL:     s.BaseURL + "/tour/" + t.Slug,
	}
	return s.Payments.CreateSession(ctx, in)
}

// CreateFromCheckout records a completed payment as a booking.
func (s *BookingService) CreateFromCheckout(ctx context.Context, tourID, userID string, amountCents int64) (*entity.Booking, error) {
	b := &entity.Booking{
		TourID: tourID,
		UserID: userID,
		Price:  float64(amountCents) / 100,
		Paid:   true,
	}
	created, err := s.Bookings.Insert(ctx, b)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "could not record booking", err)
	}
	return created, nil
}

// MyTours resolves the tours behind a user's bookings.
func (s *BookingService) MyTours(ctx context.Context, userID string) ([]*entity.Tour, error) {
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "could not list bookings", err)
	}
	tours := make([]*entity.Tour, 0, len(bookings))
	for _, b := range bookings {
		t, err := s.Tours.FindByID(ctx, b.TourID)
		if err != nil {
			// Tour removed since booking; skip rather than break the page.
			continue
		}
		tours = append(tours, t)
	}
	return tours, nil
}
