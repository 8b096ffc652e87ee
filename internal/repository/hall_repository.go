package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel comparisons

	"movie-booking-catalog/internal/model"
)

// HallRepo provides methods to create and retrieve halls.  It embeds a
// database handle to perform queries and commands.
type HallRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, theater_id, name, seating_capacity, screen_type, is_active, created_at`

func scanHall(row interface {
	Scan(dest ...interface{}) error
}, h *model.Hall) error {
	return row.Scan(&h.ID, &h.TheaterID, &h.Name, &h.SeatingCapacity, &h.ScreenType, &h.IsActive, &h.CreatedAt)
}

// Create inserts a new hall.  The hall must have TheaterID, Name and
// SeatingCapacity set.  A duplicate name within the same theater is rejected
// by the uq_halls_theater_name constraint and reported as a ConstraintError;
// a zero capacity trips chk_halls_capacity.  After insert the row is read
// back so ID, IsActive and CreatedAt are populated.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const qInsert = `INSERT INTO halls (theater_id, name, seating_capacity, screen_type)
	                 VALUES (?, ?, ?, ?)`
	screenType := h.ScreenType
	if screenType == "" {
		screenType = "Standard"
	}
	res, err := r.db.ExecContext(ctx, qInsert, h.TheaterID, h.Name, h.SeatingCapacity, screenType)
	if err != nil {
		return translateError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	const qSelect = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	return scanHall(r.db.QueryRowContext(ctx, qSelect, h.ID), h)
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when no
// row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	var h model.Hall
	if err := scanHall(r.db.QueryRowContext(ctx, q, id), &h); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// ListByTheater returns all halls inside a theater ordered by name.  Useful
// for catalog browsing; inactive halls are included so admin callers can
// reactivate them, and browse handlers filter on IsActive themselves.
func (r *HallRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Hall, error) {
	const q = `SELECT ` + hallColumns + `
	           FROM halls
	           WHERE theater_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := scanHall(rows, &h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a hall's name, capacity and screen type.  Uniqueness of
// (theater, name) still applies and surfaces as a ConstraintError.  Returns
// ErrHallNotFound when the hall does not exist.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	const q = `UPDATE halls
	           SET name = ?, seating_capacity = ?, screen_type = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.SeatingCapacity, h.ScreenType, h.ID)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, h.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrHallNotFound
			}
			return err
		}
	}
	return nil
}

// SetActive flips the hall's soft-delete flag.
func (r *HallRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE halls SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrHallNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a hall and cascades to its seats, shows and those shows'
// bookings.  Explicit destructive operation; returns ErrHallNotFound when
// the hall does not exist.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	return nil
}
