package main // Entry point package

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"    // loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"movie-booking-catalog/internal/config"
	"movie-booking-catalog/internal/database"
	"movie-booking-catalog/internal/handler"
	"movie-booking-catalog/internal/middleware"
	"movie-booking-catalog/internal/queue"
	"movie-booking-catalog/internal/repository"
	"movie-booking-catalog/internal/router"
	"movie-booking-catalog/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	migrate := flag.Bool("migrate", false, "create the schema before serving")
	drop := flag.Bool("drop", false, "drop all tables before migrating (requires -migrate)")
	seed := flag.Bool("seed", false, "load the sample catalog after migrating")
	flag.Parse()

	cfg := config.Load()

	// The admin credential is either a ready bcrypt hash or a plain
	// password hashed once at startup.
	if cfg.AdminPasswordHash == "" {
		plain := os.Getenv("ADMIN_PASSWORD")
		if plain == "" {
			log.Fatal("set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")
		}
		hashed, err := utils.HashPassword(plain, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		cfg.AdminPasswordHash = hashed
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if *drop {
		if !*migrate {
			log.Fatal("-drop requires -migrate")
		}
		if err := database.Drop(ctx, db); err != nil {
			log.Fatalf("drop schema: %v", err)
		}
	}
	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate schema: %v", err)
		}
	}
	if *seed {
		if err := database.Seed(ctx, db); err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
	}
	cancel()

	// Redis is optional; when it is down the cache and limiter middleware
	// degrade to pass-through.
	rdb := config.NewRedisClient()

	// Background consumer logs confirmed bookings from the broker.  It
	// runs its own reconnect loop for the life of the process.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	theaterRepo := repository.NewTheaterRepo(db)
	hallRepo := repository.NewHallRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showRepo := repository.NewShowRepo(db)
	availabilityRepo := repository.NewAvailabilityRepo(db)
	holdRepo := repository.NewSeatHoldRepo(db)
	bookingRepo := repository.NewBookingRepo(db, holdRepo)

	publicHandler := &handler.PublicHandler{
		TheaterRepo:      theaterRepo,
		HallRepo:         hallRepo,
		MovieRepo:        movieRepo,
		SeatRepo:         seatRepo,
		AvailabilityRepo: availabilityRepo,
	}
	bookingHandler := &handler.BookingHandler{
		BookingRepo: bookingRepo,
		HoldRepo:    holdRepo,
		ShowRepo:    showRepo,
		SeatRepo:    seatRepo,
	}
	adminHandler := &handler.AdminHandler{
		TheaterRepo: theaterRepo,
		HallRepo:    hallRepo,
		MovieRepo:   movieRepo,
		SeatRepo:    seatRepo,
		ShowRepo:    showRepo,
		BookingRepo: bookingRepo,
	}
	authHandler := handler.NewAuthHandler(cfg)

	e := echo.New()
	e.HideBanner = true

	// Rate limiting guards all routes; the response cache fronts the
	// public GETs only (admin writes and the reservation flow must never
	// serve stale data).
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, bookingHandler)
	router.RegisterAdmin(e, authHandler, adminHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
