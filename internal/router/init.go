package router

import (
	"github.com/trekora/trekora/internal/application"
	"github.com/trekora/trekora/internal/container"
	handlers "github.com/trekora/trekora/internal/interface/http"
	"github.com/trekora/trekora/internal/router/modules"
	"github.com/trekora/trekora/pkg/helpers"
)

// InitModules builds every feature module from the container singletons
// and registers them with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	store := container.GetStore()
	logger := container.GetLogger()

	users := store.Users()
	tours := store.Tours()
	reviews := store.Reviews()
	bookings := store.Bookings()

	var mail application.MailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}
	var storage application.ObjectStore
	if gcs := container.GetGCS(); gcs != nil {
		storage = helpers.NewGCSUploader(gcs)
	}

	authSvc := &application.AuthService{
		Users:      users,
		Tokens:     container.GetTokens(),
		BcryptCost: cfg.BcryptCost,
		Mail:       mail,
		Logger:     logger,
	}
	userSvc := &application.UserService{
		Users:      users,
		Storage:    storage,
		Bucket:     cfg.GCSBucket,
		BcryptCost: cfg.BcryptCost,
	}
	tourSvc := &application.TourService{
		Tours:        tours,
		Storage:      storage,
		Bucket:       cfg.GCSBucket,
		ES:           container.GetES(),
		ESToursIndex: cfg.ESToursIndex,
		Logger:       logger,
	}
	reviewSvc := &application.ReviewService{
		Reviews: reviews,
		Tours:   tours,
		Logger:  logger,
	}
	bookingSvc := &application.BookingService{
		Bookings: bookings,
		Tours:    tours,
		Payments: container.GetPayments(),
		BaseURL:  cfg.FrontendURL,
	}

	authHandler := &handlers.AuthHandler{
		Auth:        authSvc,
		Cookies:     container.GetCookies(),
		Logger:      logger,
		FrontendURL: cfg.FrontendURL,
	}
	userHandler := handlers.NewUserHandler(userSvc, users)
	tourHandler := handlers.NewTourHandler(tourSvc, tours)
	reviewHandler := handlers.NewReviewHandler(reviewSvc, reviews, logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, bookings)
	viewHandler := &handlers.ViewHandler{
		Tours:    tours,
		Reviews:  reviews,
		TourSvc:  tourSvc,
		Bookings: bookingSvc,
		Logger:   logger,
	}

	r.Add(&modules.UserModule{Auth: authHandler, Users: userHandler, Repo: users})
	r.Add(&modules.TourModule{Tours: tourHandler, Reviews: reviewHandler, UserRepo: users})
	r.Add(&modules.ReviewModule{Reviews: reviewHandler, UserRepo: users})
	r.Add(&modules.BookingModule{Bookings: bookingHandler, UserRepo: users})
	r.AddWeb(&modules.ViewModule{Views: viewHandler, UserRepo: users})
}
