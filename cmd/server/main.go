package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"turfbooking/internal/api"
	"turfbooking/internal/auth"
	"turfbooking/internal/config"
	"turfbooking/internal/notify"
	"turfbooking/internal/repository"
	"turfbooking/internal/service"
)

func main() {
	godotenv.Load()
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	turfRepo := repository.NewTurfRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	var cachedTurfs *repository.CachedTurfRepository
	var turfStore service.TurfStore = turfRepo
	if cfg.Cache.Enabled {
		cachedTurfs, err = repository.NewCachedTurfRepository(turfRepo, cfg.Cache.TurfSize)
		if err != nil {
			log.Fatalf("Failed to build turf cache: %v", err)
		}
		turfStore = cachedTurfs
	}

	hub := notify.NewHub()
	notifier := notify.MultiNotifier{hub}
	if cfg.RabbitMQ.Enabled {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer amqpNotifier.Close()
		notifier = append(notifier, amqpNotifier)
	}

	var stripeSvc *service.StripeService
	var payments service.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		stripeSvc = service.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)
		payments = stripeSvc
	}

	bookingSvc := service.NewBookingService(turfStore, bookingRepo, notifier, payments, cfg.Booking.MinHours)
	turfSvc := service.NewTurfService(turfRepo, cachedTurfs, ratingRepo)
	adminSvc := service.NewAdminService(bookingRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)
	senderSvc := service.NewSenderService(cfg)
	jobSvc := service.NewJobService(jobRepo, bookingSvc, cfg.Booking.PendingTTL)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Booking.ExpireCron, func() {
		if err := jobSvc.ExpireStalePendingBookings(); err != nil {
			log.Printf("Cron Job: expiring pending bookings failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule expiry job: %v", err)
	}
	c.Start()
	defer c.Stop()

	bookingHandler := api.NewBookingHandler(bookingSvc)
	turfHandler := api.NewTurfHandler(turfSvc)
	adminHandler := api.NewAdminHandler(turfSvc, adminSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)
	wsHandler := api.NewSlotUpdatesHandler(hub, cfg.AllowedOrigins)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/turfs", turfHandler.ListTurfs).Methods("GET")
	r.HandleFunc("/api/turfs/{id}", turfHandler.GetTurf).Methods("GET")
	r.HandleFunc("/api/ratings", turfHandler.RateTurf).Methods("POST")
	r.HandleFunc("/api/bookings/available-slots", bookingHandler.AvailableSlots).Methods("GET")
	r.HandleFunc("/api/bookings/confirm-booking", bookingHandler.ConfirmBooking).Methods("POST")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/bookings/slot-updates/{id}", wsHandler.Subscribe)

	if stripeSvc != nil {
		stripeHandler := api.NewStripeWebhookHandler(cfg.Stripe.WebhookSecret, bookingSvc, stripeSvc, senderSvc)
		r.HandleFunc("/api/payments/webhook", stripeHandler.HandleWebhook).Methods("POST")
	}

	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/turfs", adminHandler.CreateTurf).Methods("POST")
	admin.HandleFunc("/turfs/{id}", adminHandler.UpdateTurf).Methods("PUT")
	admin.HandleFunc("/turfs/{id}", adminHandler.DeleteTurf).Methods("DELETE")
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/admins", adminAuthHandler.CreateAdmin).Methods("POST")

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)(r)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
