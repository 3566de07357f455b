package application

import (
	"context"
	"fmt"
	"time"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/query"
)

// memUsers is an in-memory UserRepository for service tests.
type memUsers struct {
	byID   map[string]*entity.User
	nextID int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}}
}

func (m *memUsers) Insert(_ context.Context, u *entity.User) (*entity.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	cp := *u
	m.byID[u.ID] = &cp
	return u, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.byID[id]
	if !ok || !u.Active {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Find(_ context.Context, _ map[string]any, _ query.Directives) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(m.byID))
	for _, u := range m.byID {
		if u.Active {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUsers) UpdateByID(_ context.Context, id string, fields map[string]any) (*entity.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := fields["email"]; ok {
		u.Email = v.(string)
	}
	if v, ok := fields["photo"]; ok {
		u.Photo = v.(string)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) DeleteByID(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByResetHash(_ context.Context, hash string, now time.Time) (*entity.User, error) {
	for _, u := range m.byID {
		if u.PasswordResetHash == hash && u.PasswordResetExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) UpdateCredentials(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	u.PasswordChangedAt = changedAt
	u.PasswordResetHash = ""
	u.PasswordResetExpires = time.Time{}
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, id, hash string, expires time.Time) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetHash = hash
	u.PasswordResetExpires = expires
	return nil
}

func (m *memUsers) ClearResetToken(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetHash = ""
	u.PasswordResetExpires = time.Time{}
	return nil
}

func (m *memUsers) Deactivate(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = false
	return nil
}

// memMail records queued jobs; failNext forces one publish error.
type memMail struct {
	jobs     []any
	failNext bool
}

func (m *memMail) PublishJSON(_ context.Context, body any) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("broker unavailable")
	}
	m.jobs = append(m.jobs, body)
	return nil
}

// memTours implements just enough of TourRepository for the review and
// booking service tests.
type memTours struct {
	byID map[string]*entity.Tour

	ratingsAverage  float64
	ratingsQuantity int
	ratingsTourID   string
}

func newMemTours() *memTours {
	return &memTours{byID: map[string]*entity.Tour{}}
}

func (m *memTours) Insert(_ context.Context, t *entity.Tour) (*entity.Tour, error) {
	cp := *t
	m.byID[t.ID] = &cp
	return t, nil
}

func (m *memTours) FindByID(_ context.Context, id string) (*entity.Tour, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTours) Find(_ context.Context, _ map[string]any, _ query.Directives) ([]*entity.Tour, error) {
	out := make([]*entity.Tour, 0, len(m.byID))
	for _, t := range m.byID {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memTours) UpdateByID(_ context.Context, id string, _ map[string]any) (*entity.Tour, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTours) DeleteByID(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memTours) GetBySlug(_ context.Context, slug string) (*entity.Tour, error) {
	for _, t := range m.byID {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memTours) Stats(_ context.Context) ([]repository.TourStats, error) {
	return nil, nil
}

func (m *memTours) MonthlyPlan(_ context.Context, _ int) ([]repository.MonthlyPlan, error) {
	return nil, nil
}

func (m *memTours) Within(_ context.Context, _, _, _ float64) ([]*entity.Tour, error) {
	return nil, nil
}

func (m *memTours) Distances(_ context.Context, _, _, _ float64) ([]repository.TourDistance, error) {
	return nil, nil
}

func (m *memTours) UpdateRatings(_ context.Context, id string, average float64, quantity int) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	m.ratingsTourID = id
	m.ratingsAverage = average
	m.ratingsQuantity = quantity
	return nil
}

// memReviews holds reviews and aggregates their ratings per tour.
type memReviews struct {
	reviews []*entity.Review
	nextID  int
}

func (m *memReviews) Insert(_ context.Context, r *entity.Review) (*entity.Review, error) {
	for _, existing := range m.reviews {
		if existing.TourID == r.TourID && existing.UserID == r.UserID {
			return nil, repository.ErrDuplicate
		}
	}
	m.nextID++
	r.ID = fmt.Sprintf("review-%d", m.nextID)
	cp := *r
	m.reviews = append(m.reviews, &cp)
	return r, nil
}

func (m *memReviews) FindByID(_ context.Context, id string) (*entity.Review, error) {
	for _, r := range m.reviews {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memReviews) Find(_ context.Context, scope map[string]any, _ query.Directives) ([]*entity.Review, error) {
	out := []*entity.Review{}
	for _, r := range m.reviews {
		if tid, ok := scope["tour_id"]; ok && r.TourID != tid {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memReviews) UpdateByID(_ context.Context, id string, fields map[string]any) (*entity.Review, error) {
	for _, r := range m.reviews {
		if r.ID == id {
			if v, ok := fields["rating"]; ok {
				r.Rating = v.(float64)
			}
			if v, ok := fields["review"]; ok {
				r.Review = v.(string)
			}
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memReviews) DeleteByID(_ context.Context, id string) error {
	for i, r := range m.reviews {
		if r.ID == id {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// memBookings is an in-memory BookingRepository.
type memBookings struct {
	bookings []*entity.Booking
	nextID   int
}

func (m *memBookings) Insert(_ context.Context, b *entity.Booking) (*entity.Booking, error) {
	m.nextID++
	b.ID = fmt.Sprintf("booking-%d", m.nextID)
	cp := *b
	m.bookings = append(m.bookings, &cp)
	return b, nil
}

func (m *memBookings) FindByID(_ context.Context, id string) (*entity.Booking, error) {
	for _, b := range m.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memBookings) Find(_ context.Context, scope map[string]any, _ query.Directives) ([]*entity.Booking, error) {
	out := []*entity.Booking{}
	for _, b := range m.bookings {
		if uid, ok := scope["user_id"]; ok && b.UserID != uid {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memBookings) UpdateByID(_ context.Context, id string, _ map[string]any) (*entity.Booking, error) {
	return m.FindByID(context.Background(), id)
}

func (m *memBookings) DeleteByID(_ context.Context, id string) error {
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memBookings) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return m.Find(ctx, map[string]any{"user_id": userID}, query.Directives{})
}

func (m *memReviews) RatingStats(_ context.Context, tourID string) (*entity.RatingStats, error) {
	var sum float64
	var count int
	for _, r := range m.reviews {
		if r.TourID == tourID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	return &entity.RatingStats{TourID: tourID, Count: count, Average: sum / float64(count)}, nil
}
