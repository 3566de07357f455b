package entity

import "time"

// Review belongs to exactly one tour and one user; the pair is unique.
// Writes must be followed by a rating recompute on the parent tour, invoked
// explicitly by the review use case.
type Review struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Review    string    `bson:"review" json:"review" binding:"required"`
	Rating    float64   `bson:"rating" json:"rating" binding:"required,gte=1,lte=5"`
	TourID    string    `bson:"tour_id" json:"tour_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RatingStats is the aggregate recomputed after every review write.
type RatingStats struct {
	TourID  string  `bson:"_id"`
	Count   int     `bson:"count"`
	Average float64 `bson:"average"`
}
