package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/domain/entity"
	"github.com/trekora/trekora/internal/domain/repository"
	"github.com/trekora/trekora/pkg/apperr"
	"github.com/trekora/trekora/pkg/response"
)

// TourHandler serves the tour collection: CRUD through the shared
// resource plus the aggregation, geospatial and search endpoints.
type TourHandler struct {
	Svc      *application.TourService
	Resource *Resource[entity.Tour, *entity.Tour]
}

func NewTourHandler(svc *application.TourService, tours repository.TourRepository) *TourHandler {
	return &TourHandler{
		Svc: svc,
		Resource: &Resource[entity.Tour, *entity.Tour]{
			Repo:     tours,
			Singular: "tour",
			UpdatableFields: []string{
				"name", "duration", "max_group_size", "difficulty", "price",
				"price_discount", "summary", "description", "image_cover",
				"images", "start_dates", "start_location", "locations", "secret_tour",
			},
			BeforeCreate: func(c *gin.Context, t *entity.Tour) error {
				t.Slug = entity.Slugify(t.Name)
				return nil
			},
			AfterWrite: func(c *gin.Context, t *entity.Tour) {
				_ = svc.IndexTour(c.Request.Context(), t)
			},
		},
	}
}

// AliasTopCheap presets the list query to the five best-rated cheap
// tours before the generic list handler runs.
func AliasTopCheap() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "-ratings_average,price")
		q.Set("fields", "name,price,ratings_average,summary,difficulty")
		c.Request.URL.RawQuery = q.Encode()
		c.Next()
	}
}

func (h *TourHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		apperr.Fail(c, apperr.New(apperr.Validation, "year must be a number"))
		return
	}
	plan, err := h.Svc.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// parseLatLng splits a "lat,lng" route segment.
func parseLatLng(s string) (lat, lng float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, apperr.New(apperr.Validation, "please provide latitude and longitude in the format lat,lng")
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, apperr.New(apperr.Validation, "please provide latitude and longitude in the format lat,lng")
	}
	return lat, lng, nil
}

// Within handles /tours-within/:distance/center/:latlng/unit/:unit.
func (h *TourHandler) Within(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		apperr.Fail(c, apperr.New(apperr.Validation, "distance must be a number"))
		return
	}
	lat, lng, err := parseLatLng(c.Param("latlng"))
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	tours, err := h.Svc.Within(c.Request.Context(), lat, lng, distance, c.Param("unit"))
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.List(c, len(tours), gin.H{"data": tours})
}

// Distances handles /distances/:latlng/unit/:unit.
func (h *TourHandler) Distances(c *gin.Context) {
	lat, lng, err := parseLatLng(c.Param("latlng"))
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	distances, err := h.Svc.Distances(c.Request.Context(), lat, lng, c.Param("unit"))
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": distances})
}

// Search runs a full-text query over the tour index.
func (h *TourHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		apperr.Fail(c, apperr.New(apperr.Validation, "query parameter q is required"))
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchTours(c.Request.Context(), q, size)
	if err != nil {
		apperr.Fail(c, err)
		return
	}
	response.List(c, len(hits), gin.H{"data": hits})
}

// UploadImages accepts a multipart form with an optional "image_cover"
// file and up to three "images" files, then persists the stored URLs.
func (h *TourHandler) UploadImages(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Resource.Repo.FindByID(c.Request.Context(), id); err != nil {
		apperr.Fail(c, apperr.New(apperr.NotFound, "no tour found with that ID"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperr.Fail(c, apperr.New(apperr.Validation, "a multipart form is required"))
		return
	}

	var cover io.Reader
	var opened []io.Closer
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	if files := form.File["image_cover"]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			apperr.Fail(c, apperr.Wrap(apperr.Validation, "could not read cover image", err))
			return
		}
		opened = append(opened, f)
		cover = f
	}
	var gallery []io.Reader
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			apperr.Fail(c, apperr.Wrap(apperr.Validation, "could not read tour image", err))
			return
		}
		opened = append(opened, f)
		gallery = append(gallery, f)
	}
	if cover == nil && len(gallery) == 0 {
		apperr.Fail(c, apperr.New(apperr.Validation, "at least one image file is required"))
		return
	}

	coverURL, galleryURLs, err := h.Svc.UploadImages(c.Request.Context(), id, cover, gallery)
	if err != nil {
		apperr.Fail(c, err)
		return
	}

	fields := map[string]any{}
	if coverURL != "" {
		fields["image_cover"] = coverURL
	}
	if len(galleryURLs) > 0 {
		fields["images"] = galleryURLs
	}
	t, err := h.Resource.Repo.UpdateByID(c.Request.Context(), id, fields)
	if err != nil {
		apperr.Fail(c, apperr.Wrap(apperr.Upstream, "could not save image URLs", err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"data": t})
}
