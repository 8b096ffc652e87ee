package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"movie-booking-catalog/internal/model"
)

// SeatRepo manages persistence for the physical seats of a hall.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, hall_id, row_label, seat_number, seat_type, created_at`

func scanSeat(row interface {
	Scan(dest ...interface{}) error
}, s *model.Seat) error {
	return row.Scan(&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.CreatedAt)
}

// Create inserts a single seat.  (hall, row, number) must be unique; a
// duplicate surfaces as a ConstraintError naming uq_seats_hall_row_number.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	if s.SeatType == "" {
		s.SeatType = "Regular"
	}
	const qInsert = `INSERT INTO seats (hall_id, row_label, seat_number, seat_type) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.HallID, s.RowLabel, s.SeatNumber, s.SeatType)
	if err != nil {
		return translateError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	return scanSeat(r.db.QueryRowContext(ctx, qSelect, s.ID), s)
}

// CreateBulk inserts a batch of seats for one hall in a single statement.
// All seats must share the same hall.  IDs are filled in from the insert:
// MySQL assigns consecutive IDs for a multi-row insert, so the first
// LastInsertId plus the offset is each row's ID.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO seats (hall_id, row_label, seat_number, seat_type) VALUES `)
	args := make([]interface{}, 0, len(seats)*4)
	for i := range seats {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?)")
		st := seats[i].SeatType
		if st == "" {
			st = "Regular"
			seats[i].SeatType = st
		}
		args = append(args, seats[i].HallID, seats[i].RowLabel, seats[i].SeatNumber, st)
	}
	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return translateError(err)
	}
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range seats {
		seats[i].ID = uint64(first) + uint64(i)
	}
	return nil
}

// GetByID retrieves a seat by its ID.  Returns ErrSeatNotFound when absent.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	var s model.Seat
	if err := scanSeat(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByHall returns every seat of a hall ordered by row label then seat
// number, the order a seat map is rendered in.
func (r *SeatRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE hall_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := scanSeat(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LabelsByIDs returns display labels ("A1", "C3") for the given seat IDs,
// ordered by row then number.  Used when assembling booking confirmations.
func (r *SeatRepo) LabelsByIDs(ctx context.Context, ids []uint64) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	q := `SELECT CONCAT(row_label, seat_number)
	      FROM seats
	      WHERE id IN (` + placeholders + `)
	      ORDER BY row_label, seat_number`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	labels := []string{}
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// CountInHall returns how many of the given seat IDs belong to the hall.
// A result smaller than len(ids) means at least one seat is unknown or sits
// in a different hall; the hold and reservation paths reject that request.
func (r *SeatRepo) CountInHall(ctx context.Context, hallID uint64, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	q := `SELECT COUNT(*) FROM seats WHERE hall_id = ? AND id IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, hallID)
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a seat.  Cascades to booking_seats rows referencing it, so
// it is only safe on seats with no booking history; callers guard that.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}
