// Package handler exposes HTTP handlers for both public and admin endpoints.
// This file defines the public browsing API: theaters, halls, seats, movies
// and the seat-availability listing.  These routes require no authentication
// and return catalog data only.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"movie-booking-catalog/internal/model"
	"movie-booking-catalog/internal/repository"
)

// PublicHandler aggregates the repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	TheaterRepo      *repository.TheaterRepo
	HallRepo         *repository.HallRepo
	MovieRepo        *repository.MovieRepo
	SeatRepo         *repository.SeatRepo
	AvailabilityRepo *repository.AvailabilityRepo
}

// GetTheaters handles GET /v1/theaters.  Without parameters it lists all
// active theaters; ?city= narrows to one city.  Response JSON contains an
// "items" array.
func (h *PublicHandler) GetTheaters(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		theaters []model.Theater
		err      error
	)
	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		theaters, err = h.TheaterRepo.ListByCity(ctx, city)
	} else {
		theaters, err = h.TheaterRepo.ListActive(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": theaters})
}

// GetTheaterHalls handles GET /v1/theaters/:id/halls.  It validates the
// theater exists and lists its halls, including deactivated ones so clients
// can render a complete venue picture.
func (h *PublicHandler) GetTheaterHalls(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.TheaterRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	halls, err := h.HallRepo.ListByTheater(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": halls})
}

// GetHallSeats handles GET /v1/halls/:id/seats and returns the hall's seat
// layout ordered by row and number.
func (h *PublicHandler) GetHallSeats(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.HallRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.ListByHall(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// GetMovies handles GET /v1/movies.  By default it lists active movies with
// at least one upcoming show; ?title= searches by title and ?language=
// filters by language (those two include movies without upcoming shows,
// since they serve catalog search rather than "now showing").
func (h *PublicHandler) GetMovies(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		movies []model.Movie
		err    error
	)
	switch {
	case strings.TrimSpace(c.QueryParam("title")) != "":
		movies, err = h.MovieRepo.SearchByTitle(ctx, strings.TrimSpace(c.QueryParam("title")))
	case strings.TrimSpace(c.QueryParam("language")) != "":
		movies, err = h.MovieRepo.ListByLanguage(ctx, strings.TrimSpace(c.QueryParam("language")))
	default:
		movies, err = h.MovieRepo.ListWithUpcomingShows(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// parseDateParam validates the date query parameter as ISO-8601, defaulting
// to today when absent.
func parseDateParam(c echo.Context) (string, error) {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", err
	}
	return date, nil
}

// GetTheaterAvailability handles GET /v1/theaters/:id/availability?date=.
// It returns the theater's active shows on the date, each with the count of
// seats not held by Confirmed bookings, ordered by start time.  An empty
// day is an empty items array, not a 404.  Negative availability means
// overlapping Confirmed reservations exceed capacity; the listing is still
// served but flagged so operators notice.
func (h *PublicHandler) GetTheaterAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date, err := parseDateParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if _, err := h.TheaterRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.AvailabilityRepo.ListByTheaterAndDate(ctx, id, date)
	return availabilityResponse(c, date, items, err)
}

// GetAvailabilityByName handles GET /v1/availability?theater=NAME&date=.
// Same listing as GetTheaterAvailability but keyed by theater name, the
// lookup shape box-office tooling uses.
func (h *PublicHandler) GetAvailabilityByName(c echo.Context) error {
	ctx := c.Request().Context()
	name := strings.TrimSpace(c.QueryParam("theater"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theater query parameter is required"})
	}
	date, err := parseDateParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	items, err := h.AvailabilityRepo.ListByTheaterName(ctx, name, date)
	if errors.Is(err, repository.ErrTheaterNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
	}
	return availabilityResponse(c, date, items, err)
}

func availabilityResponse(c echo.Context, date string, items []model.ShowAvailability, err error) error {
	overbooked := false
	if err != nil {
		if !errors.Is(err, repository.ErrOverbooked) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		overbooked = true
		c.Logger().Errorf("availability: negative seat count on %s, overlapping confirmed bookings", date)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":       date,
		"items":      items,
		"overbooked": overbooked,
	})
}

// GetShowAvailability handles GET /v1/shows/:id/availability and returns
// the booked and available counts for one show together with the IDs of
// seats already taken, so clients can render a seat picker.
func (h *PublicHandler) GetShowAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	booked, available, err := h.AvailabilityRepo.ForShow(ctx, id)
	overbooked := false
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrOverbooked):
			overbooked = true
			c.Logger().Errorf("availability: show %d has negative seat count", id)
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	seatIDs, err := h.AvailabilityRepo.BookedSeatIDs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":         id,
		"booked":          booked,
		"available_seats": available,
		"booked_seat_ids": seatIDs,
		"overbooked":      overbooked,
	})
}
