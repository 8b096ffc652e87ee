// Package repository contains data access logic separated from HTTP
// handlers.  This file defines repository methods for theaters.  A theater
// is the root of the catalog hierarchy: halls, seats, shows and bookings all
// hang off it through cascading foreign keys.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used for sentinel comparisons

	"movie-booking-catalog/internal/model"
)

// TheaterRepo encapsulates all database queries related to theaters.  It
// depends on a sql.DB connection which should be configured elsewhere.
type TheaterRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewTheaterRepo constructs a TheaterRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *TheaterRepo) DB() *sql.DB { return r.db }

const theaterColumns = `id, name, location, city, state, pincode, contact_number, is_active, created_at`

func scanTheater(row interface {
	Scan(dest ...interface{}) error
}, t *model.Theater) error {
	return row.Scan(&t.ID, &t.Name, &t.Location, &t.City, &t.State, &t.Pincode,
		&t.ContactNumber, &t.IsActive, &t.CreatedAt)
}

// Create inserts a new theater.  On success the theater's ID, IsActive and
// CreatedAt fields are populated from the stored row.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const qInsert = `INSERT INTO theaters (name, location, city, state, pincode, contact_number)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.Name, t.Location, t.City, t.State, t.Pincode, t.ContactNumber)
	if err != nil {
		return translateError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	// Read the row back to populate defaults (is_active, created_at).
	const qSelect = `SELECT ` + theaterColumns + ` FROM theaters WHERE id = ?`
	return scanTheater(r.db.QueryRowContext(ctx, qSelect, t.ID), t)
}

// GetByID fetches a theater by its primary key.  It returns
// ErrTheaterNotFound when no row exists, which callers must distinguish from
// a valid empty listing.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	const q = `SELECT ` + theaterColumns + ` FROM theaters WHERE id = ?`
	var t model.Theater
	if err := scanTheater(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByName fetches a theater by exact name.  The availability query accepts
// a theater name as an alternative to an ID, so this lookup backs that path.
func (r *TheaterRepo) GetByName(ctx context.Context, name string) (*model.Theater, error) {
	const q = `SELECT ` + theaterColumns + ` FROM theaters WHERE name = ? LIMIT 1`
	var t model.Theater
	if err := scanTheater(r.db.QueryRowContext(ctx, q, name), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListActive returns all active theaters ordered by name.  When no theaters
// exist it returns an empty slice and nil error.
func (r *TheaterRepo) ListActive(ctx context.Context) ([]model.Theater, error) {
	const q = `SELECT ` + theaterColumns + ` FROM theaters WHERE is_active = TRUE ORDER BY name`
	return r.list(ctx, q)
}

// ListByCity returns active theaters in the given city ordered by name.
// Backed by the idx_theaters_city index.
func (r *TheaterRepo) ListByCity(ctx context.Context, city string) ([]model.Theater, error) {
	const q = `SELECT ` + theaterColumns + ` FROM theaters WHERE city = ? AND is_active = TRUE ORDER BY name`
	return r.list(ctx, q, city)
}

func (r *TheaterRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Theater, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := scanTheater(rows, &t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites the mutable attributes of a theater.  Returns
// ErrTheaterNotFound when the row does not exist.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
	const q = `UPDATE theaters
	           SET name = ?, location = ?, city = ?, state = ?, pincode = ?, contact_number = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location, t.City, t.State, t.Pincode, t.ContactNumber, t.ID)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero when the values are unchanged; confirm
		// existence before reporting not-found.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE id = ?`, t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTheaterNotFound
			}
			return err
		}
	}
	return nil
}

// SetActive flips the soft-delete flag.  Deactivated theaters keep all of
// their history; nothing is removed.
func (r *TheaterRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE theaters SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTheaterNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a theater and, through the schema's cascade rules, every
// dependent row: its halls, their seats and shows, and those shows'
// bookings and booking seats.  The cascade is transitive and irreversible,
// which is why this method exists separately from SetActive – callers must
// opt into the destruction explicitly.  Returns ErrTheaterNotFound when the
// theater does not exist.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM theaters WHERE id = ?`, id)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTheaterNotFound
	}
	return nil
}
