package entity

import "time"

// Booking records a paid (or admin-created) reservation of a tour.
type Booking struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	TourID    string    `bson:"tour_id" json:"tour_id" binding:"required"`
	UserID    string    `bson:"user_id" json:"user_id" binding:"required"`
	Price     float64   `bson:"price" json:"price" binding:"required,gt=0"`
	Paid      bool      `bson:"paid" json:"paid"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
