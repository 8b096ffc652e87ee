// This file implements the customer-facing reservation endpoints: holding
// seats during checkout, creating a booking, cancelling it, and listing a
// customer's booking history by email.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"movie-booking-catalog/internal/model"
	"movie-booking-catalog/internal/queue"
	"movie-booking-catalog/internal/repository"
	queue_publisher "movie-booking-catalog/internal/service"
)

// defaultHoldTTL is how long a checkout hold keeps seats reserved before
// lapsing.
const defaultHoldTTL = 5 * time.Minute

// BookingHandler aggregates the repositories the reservation flow needs.
type BookingHandler struct {
	BookingRepo *repository.BookingRepo
	HoldRepo    *repository.SeatHoldRepo
	ShowRepo    *repository.ShowRepo
	SeatRepo    *repository.SeatRepo
}

type holdReq struct {
	Email   string   `json:"email"`
	SeatIDs []uint64 `json:"seat_ids"`
}

// HoldSeats handles POST /v1/shows/:id/holds.  It expires stale holds on
// the show and then creates fresh holds for the customer's seats.  A seat
// already held (or just booked, caught later at confirm time) answers 409.
func (h *BookingHandler) HoldSeats(c echo.Context) error {
	ctx := c.Request().Context()
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || len(req.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and seat_ids are required"})
	}
	show, err := h.ShowRepo.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// Seats from a different hall would pass the FK but corrupt the show's
	// booked count once confirmed.
	member, err := h.SeatRepo.CountInHall(ctx, show.HallID, req.SeatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if member != len(req.SeatIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more seats do not belong to the show's hall"})
	}

	expiresAt := time.Now().UTC().Add(defaultHoldTTL)
	holds, err := repository.GenerateHoldRecords(email, showID, req.SeatIDs, expiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate holds"})
	}

	tx, err := h.HoldRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	defer tx.Rollback()
	if _, err := h.HoldRepo.ExpireHoldsTx(ctx, tx, showID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.HoldRepo.CreateMultipleTx(ctx, tx, holds); err != nil {
		var ce *repository.ConstraintError
		if errors.As(err, &ce) {
			switch ce.Kind {
			case repository.ConstraintUnique:
				return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats are already held"})
			case repository.ConstraintForeignKey:
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat in seat_ids"})
			}
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hold seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tokens := make([]string, 0, len(holds))
	for _, hold := range holds {
		tokens = append(tokens, hold.HoldToken)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"show_id":     showID,
		"seat_ids":    req.SeatIDs,
		"hold_tokens": tokens,
		"expires_at":  expiresAt,
	})
}

// ReleaseHolds handles DELETE /v1/shows/:id/holds?email=.  It drops every
// hold the customer has on the show, freeing the seats for others.
func (h *BookingHandler) ReleaseHolds(c echo.Context) error {
	ctx := c.Request().Context()
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	email := strings.TrimSpace(strings.ToLower(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter is required"})
	}
	tx, err := h.HoldRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	defer tx.Rollback()
	released, err := h.HoldRepo.DeleteByEmailAndShowTx(ctx, tx, email, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released_seat_ids": released})
}

type createBookingReq struct {
	ShowID        uint64   `json:"show_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	SeatIDs       []uint64 `json:"seat_ids"`
}

// CreateBooking handles POST /v1/bookings.  The booking and its seats are
// written in one transaction guarded against double-booking; on success a
// confirmation event is published to the broker.  Publish failures are
// logged and swallowed since the booking is already committed.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(strings.ToLower(req.CustomerEmail))
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if req.ShowID == 0 || req.CustomerName == "" || req.CustomerEmail == "" || len(req.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "show_id, customer_name, customer_email and seat_ids are required",
		})
	}

	b := &model.Booking{
		ShowID:        req.ShowID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	}
	if err := h.BookingRepo.CreateWithSeats(ctx, b, req.SeatIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrSeatsUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats are no longer available"})
		case errors.Is(err, repository.ErrSeatNotInHall):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more seats do not belong to the show's hall"})
		default:
			var ce *repository.ConstraintError
			if errors.As(err, &ce) {
				if ce.Kind == repository.ConstraintForeignKey {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat in seat_ids"})
				}
				return c.JSON(http.StatusConflict, echo.Map{"error": "constraint violation: " + ce.Constraint})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
		}
	}

	h.publishConfirmed(b, req.SeatIDs)

	seats, err := h.SeatRepo.LabelsByIDs(ctx, req.SeatIDs)
	if err != nil {
		seats = []string{}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking":        b,
		"seats":          seats,
		"booking_status": b.BookingStatus,
	})
}

// publishConfirmed assembles and publishes the confirmation event in the
// background.  The booking is already committed, so failures here only get
// logged by the publisher.
func (h *BookingHandler) publishConfirmed(b *model.Booking, seatIDs []uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sc, err := h.ShowRepo.Context(ctx, b.ShowID)
		if err != nil {
			return
		}
		labels, err := h.SeatRepo.LabelsByIDs(ctx, seatIDs)
		if err != nil {
			labels = nil
		}
		_ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
			BookingID:     b.ID,
			ShowID:        b.ShowID,
			TheaterID:     sc.TheaterID,
			TheaterName:   sc.TheaterName,
			HallID:        sc.HallID,
			HallName:      sc.HallName,
			MovieTitle:    sc.MovieTitle,
			ShowDate:      sc.ShowDate,
			StartTime:     sc.StartTime,
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
			SeatLabels:    labels,
			TotalAmount:   b.TotalAmount,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  Only Confirmed
// bookings can be cancelled; a Completed payment flips to Refunded in the
// same transaction.  Cancelling twice answers 409.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.BookingRepo.Cancel(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBooking handles GET /v1/bookings/:id and returns the booking with its
// seats.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, seats, err := h.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b, "seats": seats})
}

// GetHistory handles GET /v1/bookings?email= and lists the customer's
// bookings newest first, each joined up to the theater and with its seats.
// An unknown email is an empty list, not an error.
func (h *BookingHandler) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	email := strings.TrimSpace(strings.ToLower(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter is required"})
	}
	items, err := h.BookingRepo.HistoryByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
