package entity

import (
	"regexp"
	"strings"
	"time"
)

// Location is a GeoJSON point with display metadata.
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // lng, lat
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour is the main listable entity. Secret tours are hidden from public
// list queries by the repository.
type Tour struct {
	ID              string      `bson:"_id,omitempty" json:"id"`
	Name            string      `bson:"name" json:"name" binding:"required,min=10,max=40"`
	Slug            string      `bson:"slug" json:"slug"`
	Duration        int         `bson:"duration" json:"duration" binding:"required,gt=0"`
	MaxGroupSize    int         `bson:"max_group_size" json:"max_group_size" binding:"required,gt=0"`
	Difficulty      string      `bson:"difficulty" json:"difficulty" binding:"required,oneof=easy medium difficult"`
	RatingsAverage  float64     `bson:"ratings_average" json:"ratings_average"`
	RatingsQuantity int         `bson:"ratings_quantity" json:"ratings_quantity"`
	Price           float64     `bson:"price" json:"price" binding:"required,gt=0"`
	PriceDiscount   float64     `bson:"price_discount,omitempty" json:"price_discount,omitempty" binding:"omitempty,ltefield=Price"`
	Summary         string      `bson:"summary" json:"summary" binding:"required"`
	Description     string      `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string      `bson:"image_cover" json:"image_cover"`
	Images          []string    `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time `bson:"start_dates,omitempty" json:"start_dates,omitempty"`
	StartLocation   *Location   `bson:"start_location,omitempty" json:"start_location,omitempty"`
	Locations       []Location  `bson:"locations,omitempty" json:"locations,omitempty"`
	Guides          []string    `bson:"guides,omitempty" json:"guides,omitempty"`
	Secret          bool        `bson:"secret_tour" json:"-"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updated_at"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds the URL slug used by the rendered tour pages.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
