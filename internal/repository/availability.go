// This file implements the availability queries, the one piece of
// non-trivial read logic in the catalog.  Availability for a show is hall
// capacity minus the number of booking_seats rows whose owning booking is
// Confirmed.  The booking side of the join is a LEFT JOIN so a show with no
// bookings still appears, with a booked count of zero.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"movie-booking-catalog/internal/model"
)

// AvailabilityRepo runs seat-availability queries.  It is read-only.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo constructs an AvailabilityRepo with the given DB handle.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

// availabilityQuery lists active shows of active movies at one theater on
// one date with their booked counts.  The per-show Confirmed seat count is
// computed in a derived table and joined back with a LEFT JOIN so that shows
// without bookings report zero instead of disappearing from the result.
// Filtering on (show_date, hall) rides the idx_shows_date_hall composite
// index.  Ties on start_time order by show id for a stable listing.
const availabilityQuery = `
SELECT s.id, m.title, m.language, m.format, m.rating,
	   h.name, s.start_time, s.base_price, h.seating_capacity,
	   COALESCE(bc.booked, 0) AS booked
FROM shows s
JOIN halls h    ON h.id = s.hall_id
JOIN theaters t ON t.id = h.theater_id
JOIN movies m   ON m.id = s.movie_id
LEFT JOIN (
	SELECT b.show_id, COUNT(bs.id) AS booked
	FROM bookings b
	JOIN booking_seats bs ON bs.booking_id = b.id
	WHERE b.booking_status = 'Confirmed'
	GROUP BY b.show_id
) bc ON bc.show_id = s.id
WHERE t.id = ?
  AND s.show_date = ?
  AND s.is_active = TRUE
  AND m.is_active = TRUE
ORDER BY s.start_time ASC, s.id ASC`

// ListByTheaterAndDate returns the availability listing for a theater ID
// and an ISO-8601 date.  A theater or date with no qualifying shows yields
// an empty slice, not an error.  If any row computes to negative available
// seats the rows are still returned, unclamped, together with ErrOverbooked
// so the caller can alert on the defect without losing the listing.
func (r *AvailabilityRepo) ListByTheaterAndDate(ctx context.Context, theaterID uint64, date string) ([]model.ShowAvailability, error) {
	return r.listAvailability(ctx, availabilityQuery, theaterID, date)
}

// ListByTheaterName is ListByTheaterAndDate keyed by the theater's name
// instead of its ID.  Returns ErrTheaterNotFound when no theater carries
// that name, to keep "unknown theater" distinct from "no shows that day".
func (r *AvailabilityRepo) ListByTheaterName(ctx context.Context, name string, date string) ([]model.ShowAvailability, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM theaters WHERE name = ? LIMIT 1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTheaterNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.ListByTheaterAndDate(ctx, id, date)
}

func (r *AvailabilityRepo) listAvailability(ctx context.Context, q string, args ...interface{}) ([]model.ShowAvailability, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ShowAvailability, 0)
	overbooked := false
	for rows.Next() {
		var a model.ShowAvailability
		if err := rows.Scan(&a.ShowID, &a.MovieTitle, &a.Language, &a.Format, &a.Rating,
			&a.HallName, &a.StartTime, &a.BasePrice, &a.Capacity, &a.BookedCount); err != nil {
			return nil, err
		}
		a.AvailableSeats = int64(a.Capacity) - int64(a.BookedCount)
		if a.AvailableSeats < 0 {
			overbooked = true
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if overbooked {
		return out, ErrOverbooked
	}
	return out, nil
}

// ForShow computes booked and available seat counts for a single show by
// ID, regardless of the show's is_active flag (a deactivated show still has
// a real booking state worth inspecting).  Returns ErrShowNotFound when the
// show does not exist, and ErrOverbooked alongside the counts when the
// available count is negative.
func (r *AvailabilityRepo) ForShow(ctx context.Context, showID uint64) (booked uint32, available int64, err error) {
	const q = `
SELECT h.seating_capacity, COALESCE(bc.booked, 0)
FROM shows s
JOIN halls h ON h.id = s.hall_id
LEFT JOIN (
	SELECT b.show_id, COUNT(bs.id) AS booked
	FROM bookings b
	JOIN booking_seats bs ON bs.booking_id = b.id
	WHERE b.booking_status = 'Confirmed'
	GROUP BY b.show_id
) bc ON bc.show_id = s.id
WHERE s.id = ?`
	var capacity uint32
	if err := r.db.QueryRowContext(ctx, q, showID).Scan(&capacity, &booked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrShowNotFound
		}
		return 0, 0, err
	}
	available = int64(capacity) - int64(booked)
	if available < 0 {
		return booked, available, ErrOverbooked
	}
	return booked, available, nil
}

// BookedSeatIDs returns the IDs of seats held by Confirmed bookings for a
// show.  Handlers use it to render a seat map; the booking transaction does
// its own locked variant of this check inside the write path.
func (r *AvailabilityRepo) BookedSeatIDs(ctx context.Context, showID uint64) ([]uint64, error) {
	const q = `
SELECT bs.seat_id
FROM booking_seats bs
JOIN bookings b ON b.id = bs.booking_id
WHERE b.show_id = ? AND b.booking_status = 'Confirmed'
ORDER BY bs.seat_id`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
