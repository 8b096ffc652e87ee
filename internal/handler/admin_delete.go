// This file implements the admin DELETE endpoints.  Deletes cascade: the
// database removes dependent rows transitively, so deleting a theater
// silently takes its halls, seats, shows, bookings and booking seats with
// it.  That is an explicit, documented contract of these routes, which is
// why they sit behind the ADMIN role and why show deletion refuses when
// bookings exist unless ?force=true is passed.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"movie-booking-catalog/internal/repository"
)

// DeleteTheater handles DELETE /v1/admin/theaters/:id.  Removes the theater
// and every descendant row.  204 on success, 404 when absent.
func (h *AdminHandler) DeleteTheater(c echo.Context) error {
	return h.deleteByID(c, func(id uint64) error {
		return h.TheaterRepo.Delete(c.Request().Context(), id)
	}, repository.ErrTheaterNotFound, "theater not found")
}

// DeleteHall handles DELETE /v1/admin/halls/:id.  Cascades to the hall's
// seats and shows and, transitively, their bookings.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
	return h.deleteByID(c, func(id uint64) error {
		return h.HallRepo.Delete(c.Request().Context(), id)
	}, repository.ErrHallNotFound, "hall not found")
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.  Cascades to all of the
// movie's shows and their bookings.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	return h.deleteByID(c, func(id uint64) error {
		return h.MovieRepo.Delete(c.Request().Context(), id)
	}, repository.ErrMovieNotFound, "movie not found")
}

// DeleteSeat handles DELETE /v1/admin/seats/:id.  Cascades to booking_seats
// rows referencing the seat, so this is meant for fixing a mis-entered
// layout before sales start.
func (h *AdminHandler) DeleteSeat(c echo.Context) error {
	return h.deleteByID(c, func(id uint64) error {
		return h.SeatRepo.Delete(c.Request().Context(), id)
	}, repository.ErrSeatNotFound, "seat not found")
}

// DeleteShow handles DELETE /v1/admin/shows/:id.  A show with bookings is
// refused with 409 unless ?force=true is passed; without force, deactivation
// (PATCH .../active) is the safe way to pull it.  With force the bookings
// and booking seats are cascade-deleted.
func (h *AdminHandler) DeleteShow(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if c.QueryParam("force") != "true" {
		has, err := h.ShowRepo.HasBookings(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if has {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "show has bookings; deactivate it or pass force=true to cascade delete",
			})
		}
	}
	if err := h.ShowRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) deleteByID(c echo.Context, apply func(uint64) error, notFound error, notFoundMsg string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := apply(id); err != nil {
		if errors.Is(err, notFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMsg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
