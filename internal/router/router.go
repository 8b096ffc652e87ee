package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"movie-booking-catalog/internal/handler"    // handlers implementing the endpoints
	"movie-booking-catalog/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that need no authentication or catalog
// state.  Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring probe this to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse and reservation
// endpoints.  The cache and rate-limit middleware are applied by the caller
// to the whole Echo instance before this runs.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, b *handler.BookingHandler) {
	// Catalog browsing
	e.GET("/v1/theaters", p.GetTheaters)
	e.GET("/v1/theaters/:id/halls", p.GetTheaterHalls)
	e.GET("/v1/halls/:id/seats", p.GetHallSeats)
	e.GET("/v1/movies", p.GetMovies)

	// Seat availability; the core read path.  Both the by-id and by-name
	// forms accept ?date=YYYY-MM-DD and default to today.
	e.GET("/v1/theaters/:id/availability", p.GetTheaterAvailability)
	e.GET("/v1/availability", p.GetAvailabilityByName)
	e.GET("/v1/shows/:id/availability", p.GetShowAvailability)

	// Reservation flow: hold seats during checkout, confirm, cancel,
	// review history.  Customers are identified by email; there is no
	// account system.
	e.POST("/v1/shows/:id/holds", b.HoldSeats)
	e.DELETE("/v1/shows/:id/holds", b.ReleaseHolds)
	e.POST("/v1/bookings", b.CreateBooking)
	e.GET("/v1/bookings", b.GetHistory)
	e.GET("/v1/bookings/:id", b.GetBooking)
	e.POST("/v1/bookings/:id/cancel", b.CancelBooking)
}

// RegisterAdmin registers the catalog management endpoints.  Login is open;
// everything else requires a valid access token with the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, admin *handler.AdminHandler, jwtSecret string) {
	e.POST("/v1/auth/login", a.Login)

	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.GET("/me", a.Me)

	g.POST("/theaters", admin.CreateTheater)
	g.PUT("/theaters/:id", admin.UpdateTheater)
	g.PATCH("/theaters/:id/active", admin.SetTheaterActive)
	g.DELETE("/theaters/:id", admin.DeleteTheater)

	g.POST("/halls", admin.CreateHall)
	g.PUT("/halls/:id", admin.UpdateHall)
	g.PATCH("/halls/:id/active", admin.SetHallActive)
	g.DELETE("/halls/:id", admin.DeleteHall)

	g.POST("/movies", admin.CreateMovie)
	g.PATCH("/movies/:id/active", admin.SetMovieActive)
	g.DELETE("/movies/:id", admin.DeleteMovie)

	g.POST("/seats", admin.CreateSeats)
	g.DELETE("/seats/:id", admin.DeleteSeat)

	g.POST("/shows", admin.CreateShow)
	g.PATCH("/shows/:id/active", admin.SetShowActive)
	g.DELETE("/shows/:id", admin.DeleteShow)

	g.PATCH("/bookings/:id/payment", admin.UpdatePaymentStatus)
}
