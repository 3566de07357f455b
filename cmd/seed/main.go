package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/trekora/trekora/config"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/internal/infrastructure/mongodb"
	"github.com/trekora/trekora/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	store, err := mongodb.NewStore(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	users := store.Users()
	tours := store.Tours()

	seedUsers := []struct {
		name, email, password string
		role                  entity.Role
	}{
		{"Admin", "admin@trekora.dev", "password123", entity.RoleAdmin},
		{"Lena Guide", "lena@trekora.dev", "password123", entity.RoleLeadGuide},
		{"Demo User", "demo@trekora.dev", "password123", entity.RoleUser},
	}
	for _, s := range seedUsers {
		hash, err := helpers.HashPassword(s.password, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		u := &entity.User{Name: s.name, Email: s.email, Role: s.role, Password: hash, Active: true}
		if _, err := users.Insert(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				fmt.Printf("user %s already exists, skipping\n", s.email)
				continue
			}
			log.Fatalf("failed to seed user %s: %v", s.email, err)
		}
		fmt.Printf("seeded user: email=%s role=%s password=%s\n", s.email, s.role, s.password)
	}

	june := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)
	seedTours := []*entity.Tour{
		{
			Name: "The Forest Hiker", Duration: 5, MaxGroupSize: 25, Difficulty: "easy",
			Price: 397, Summary: "Breathtaking hike through the Canadian Banff National Park",
			Description: "Five days of gentle trails, alpine lakes and log fires.",
			StartDates:  []time.Time{june, june.AddDate(0, 1, 0)},
			StartLocation: &entity.Location{
				Type: "Point", Coordinates: []float64{-115.570154, 51.178456},
				Description: "Banff, CAN", Address: "224 Banff Ave, Banff, AB",
			},
		},
		{
			Name: "The Sea Explorer", Duration: 7, MaxGroupSize: 15, Difficulty: "medium",
			Price: 497, Summary: "Exploring the jaw-dropping US east coast by foot and by boat",
			Description: "Seven days of sailing, kayaking and coastal towns.",
			StartDates:  []time.Time{june.AddDate(0, 0, 4), june.AddDate(0, 2, 0)},
			StartLocation: &entity.Location{
				Type: "Point", Coordinates: []float64{-80.185942, 25.774772},
				Description: "Miami, USA", Address: "301 Biscayne Blvd, Miami, FL",
			},
		},
		{
			Name: "The Snow Adventurer", Duration: 4, MaxGroupSize: 10, Difficulty: "difficult",
			Price: 997, Summary: "Exciting adventure in the snow with snowboarding and skiing",
			Description: "Four days of off-piste skiing for experienced riders.",
			StartDates:  []time.Time{june.AddDate(0, 6, 0)},
			StartLocation: &entity.Location{
				Type: "Point", Coordinates: []float64{-106.822318, 39.190872},
				Description: "Aspen, USA", Address: "419 S Mill St, Aspen, CO",
			},
		},
	}
	for _, t := range seedTours {
		t.Slug = entity.Slugify(t.Name)
		t.RatingsAverage = 4.5
		if _, err := tours.Insert(ctx, t); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				fmt.Printf("tour %s already exists, skipping\n", t.Slug)
				continue
			}
			log.Fatalf("failed to seed tour %s: %v", t.Name, err)
		}
		fmt.Printf("seeded tour: %s ($%.0f)\n", t.Name, t.Price)
	}
}
