// This file defines repository methods for shows.  A show's end_time is
// derived from the movie's runtime at insert time and stored; readers treat
// it as a cached value.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"movie-booking-catalog/internal/model"
)

// ShowRepo manages persistence for scheduled screenings.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// showColumns formats the DATE column back to a string so it scans cleanly
// with parseTime enabled on the connection.
const showColumns = `id, movie_id, hall_id, DATE_FORMAT(show_date, '%Y-%m-%d'), start_time, end_time, base_price, is_active, created_at`

func scanShow(row interface {
	Scan(dest ...interface{}) error
}, s *model.Show) error {
	return row.Scan(&s.ID, &s.MovieID, &s.HallID, &s.ShowDate, &s.StartTime, &s.EndTime,
		&s.BasePrice, &s.IsActive, &s.CreatedAt)
}

// Create schedules a show.  EndTime is computed inside the transaction from
// the movie's duration_minutes, so the caller supplies only ShowDate and
// StartTime.  A second show at the same (hall, date, start) surfaces as a
// ConstraintError naming uq_shows_hall_date_start; a missing movie or hall
// as ErrMovieNotFound / ErrHallNotFound.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var duration uint32
	err = tx.QueryRowContext(ctx, `SELECT duration_minutes FROM movies WHERE id = ?`, s.MovieID).Scan(&duration)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMovieNotFound
	}
	if err != nil {
		return err
	}

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, s.HallID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHallNotFound
	}
	if err != nil {
		return err
	}

	end, err := addMinutes(s.StartTime, int(duration))
	if err != nil {
		return err
	}
	s.EndTime = end

	const qInsert = `INSERT INTO shows (movie_id, hall_id, show_date, start_time, end_time, base_price)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, s.MovieID, s.HallID, s.ShowDate, s.StartTime, s.EndTime, s.BasePrice)
	if err != nil {
		return translateError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	if err := scanShow(tx.QueryRowContext(ctx, qSelect, s.ID), s); err != nil {
		return err
	}
	return tx.Commit()
}

// addMinutes adds a minute count to an "HH:MM:SS" wall-clock time.  A show
// running past midnight wraps; the schedule treats end_time as same-day
// display data so that is acceptable.
func addMinutes(start string, minutes int) (string, error) {
	t, err := time.Parse("15:04:05", start)
	if err != nil {
		t, err = time.Parse("15:04", start)
		if err != nil {
			return "", fmt.Errorf("invalid start time %q: %w", start, err)
		}
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format("15:04:05"), nil
}

// GetByID retrieves a show by its ID.  Returns ErrShowNotFound when absent.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	var s model.Show
	if err := scanShow(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByMovieAndDate returns active shows of a movie on a date, ordered by
// start time.
func (r *ShowRepo) ListByMovieAndDate(ctx context.Context, movieID uint64, date string) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + `
	           FROM shows
	           WHERE movie_id = ? AND show_date = ? AND is_active = TRUE
	           ORDER BY start_time, id`
	return r.list(ctx, q, movieID, date)
}

// ListByHallAndDate returns every show (active or not) scheduled in a hall
// on a date, ordered by start time.  Used for admin schedule views and
// overlap checks.
func (r *ShowRepo) ListByHallAndDate(ctx context.Context, hallID uint64, date string) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + `
	           FROM shows
	           WHERE hall_id = ? AND show_date = ?
	           ORDER BY start_time, id`
	return r.list(ctx, q, hallID, date)
}

func (r *ShowRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := scanShow(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive flips the show's soft-delete flag.  Deactivation is the right
// way to pull a show that already has bookings: the history stays intact and
// the show simply stops appearing in availability results.
func (r *ShowRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE shows SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a show and cascades to its bookings and booking seats.
// Customer-visible history disappears with it, so handlers only call this
// for shows without bookings and use SetActive otherwise.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// ShowContext carries the show's surrounding catalog names.  The booking
// path uses it to assemble the confirmation event without extra queries in
// the handler.
type ShowContext struct {
	ShowID      uint64
	MovieTitle  string
	TheaterID   uint64
	TheaterName string
	HallID      uint64
	HallName    string
	ShowDate    string
	StartTime   string
}

// Context loads the show joined up to its theater.  Returns ErrShowNotFound
// when the show does not exist.
func (r *ShowRepo) Context(ctx context.Context, id uint64) (*ShowContext, error) {
	const q = `SELECT s.id, m.title, t.id, t.name, h.id, h.name,
	                  DATE_FORMAT(s.show_date, '%Y-%m-%d'), s.start_time
	           FROM shows s
	           JOIN movies m   ON m.id = s.movie_id
	           JOIN halls h    ON h.id = s.hall_id
	           JOIN theaters t ON t.id = h.theater_id
	           WHERE s.id = ?`
	var sc ShowContext
	err := r.db.QueryRowContext(ctx, q, id).Scan(&sc.ShowID, &sc.MovieTitle, &sc.TheaterID, &sc.TheaterName,
		&sc.HallID, &sc.HallName, &sc.ShowDate, &sc.StartTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// HasBookings reports whether any booking rows reference the show,
// regardless of status.  Admin delete handlers use it to choose between
// hard delete and deactivation.
func (r *ShowRepo) HasBookings(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE show_id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
