package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/helpers"
	"github.com/trekora/trekora/pkg/images"
)

// Earth radii used to convert a distance to radians for sphere queries.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1

	meterToMile = 0.000621371
	meterToKm   = 0.001

	tourCoverWidth   = 2000
	tourCoverHeight  = 1333
	maxGalleryImages = 3
)

// TourService wraps the tour repository with geospatial lookups, the
// aggregation endpoints and full-text search.
type TourService struct {
	Tours        repository.TourRepository
	Storage      ObjectStore
	Bucket       string
	ES           *elasticsearch.Client
	ESToursIndex string
	Logger       *logrus.Logger
}

func (s *TourService) GetBySlug(ctx context.Context, slug string) (*entity.Tour, error) {
	t, err := s.Tours.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "there is no tour with that name")
	}
	return t, nil
}

func (s *TourService) Stats(ctx context.Context) ([]repository.TourStats, error) {
	stats, err := s.Tours.Stats(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "could not compute tour statistics", err)
	}
	return stats, nil
}

func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthlyPlan, error) {
	if year < 1970 || year > 3000 {
		return nil, apperr.New(apperr.Validation, "year must be a sensible four digit number")
	}
	plan, err := s.Tours.MonthlyPlan(ctx, year)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "could not compute monthly plan", err)
	}
	return plan, nil
}

// Within returns tours whose start location falls inside a sphere of the
// given distance around the center. unit is "mi" or "km".
func (s *TourService) Within(ctx context.Context, lat, lng, distance float64, unit string) ([]*entity.Tour, error) {
	if distance <= 0 {
		return nil, apperr.New(apperr.Validation, "distance must be greater than zero")
	}
	radius := distance / earthRadiusKm
	if unit == "mi" {
		radius = distance / earthRadiusMiles
	}
	tours, err := s.Tours.Within(ctx, lat, lng, radius)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "geospatial lookup failed", err)
	}
	return tours, nil
}

// Distances lists every tour with its distance from the given point,
// nearest first.
func (s *TourService) Distances(ctx context.Context, lat, lng float64, unit string) ([]repository.TourDistance, error) {
	multiplier := meterToKm
	if unit == "mi" {
		multiplier = meterToMile
	}
	out, err := s.Tours.Distances(ctx, lat, lng, multiplier)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "distance calculation failed", err)
	}
	return out, nil
}

// UploadImages processes a cover image and up to three gallery images and
// returns the stored URLs. Either input may be empty.
func (s *TourService) UploadImages(ctx context.Context, tourID string, cover io.Reader, gallery []io.Reader) (coverURL string, galleryURLs []string, err error) {
	if s.Storage == nil {
		return "", nil, apperr.New(apperr.Upstream, "file storage is not configured")
	}
	ts := time.Now().UnixNano()
	if cover != nil {
		img, rErr := images.Resize(cover, tourCoverWidth, tourCoverHeight)
		if rErr != nil {
			return "", nil, rErr
		}
		path := fmt.Sprintf("tours/%s-%d-cover.jpeg", tourID, ts)
		coverURL, err = s.Storage.UploadObject(ctx, s.Bucket, path, "image/jpeg", bytes.NewReader(img))
		if err != nil {
			return "", nil, apperr.Wrap(apperr.Upstream, "could not store cover image", err)
		}
	}
	if len(gallery) > maxGalleryImages {
		gallery = gallery[:maxGalleryImages]
	}
	for i, g := range gallery {
		img, rErr := images.Resize(g, tourCoverWidth, tourCoverHeight)
		if rErr != nil {
			return "", nil, rErr
		}
		path := fmt.Sprintf("tours/%s-%d-%d.jpeg", tourID, ts, i+1)
		url, uErr := s.Storage.UploadObject(ctx, s.Bucket, path, "image/jpeg", bytes.NewReader(img))
		if uErr != nil {
			return "", nil, apperr.Wrap(apperr.Upstream, "could not store tour image", uErr)
		}
		galleryURLs = append(galleryURLs, url)
	}
	return coverURL, galleryURLs, nil
}

// IndexTour mirrors a tour into Elasticsearch. Search stays best-effort;
// a missing or failing cluster never blocks the write that triggered it.
func (s *TourService) IndexTour(ctx context.Context, t *entity.Tour) error {
	if s.ES == nil || s.ESToursIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         t.ID,
		"name":       t.Name,
		"slug":       t.Slug,
		"summary":    t.Summary,
		"difficulty": t.Difficulty,
		"price":      t.Price,
		"updated_at": t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := helpers.ESIndexJSON(ctx, s.ES, s.ESToursIndex, t.ID, doc); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("tour_id", t.ID).Warn("es index failed")
		}
		return err
	}
	return nil
}

// SearchTours performs a multi_match query on name and summary.
func (s *TourService) SearchTours(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESToursIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary"},
			},
		},
		"size": size,
	}
	out, err := helpers.ESSearchSources(ctx, s.ES, s.ESToursIndex, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "search is unavailable", err)
	}
	return out, nil
}
