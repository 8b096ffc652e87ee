// This file implements the write side of reservations.  A booking and its
// booking_seats rows are created in one transaction that also defends
// against cross-booking double-booking: the schema's (booking, seat)
// uniqueness only stops a single booking from listing a seat twice, so the
// transaction locks the show's Confirmed seat rows with FOR UPDATE and
// re-checks the requested seats before inserting.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"movie-booking-catalog/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their seats.
type BookingRepo struct {
	db    *sql.DB
	holds *SeatHoldRepo
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
// The hold repository participates in the reservation transaction.
func NewBookingRepo(db *sql.DB, holds *SeatHoldRepo) *BookingRepo {
	return &BookingRepo{db: db, holds: holds}
}

const bookingColumns = `id, show_id, customer_name, customer_email, customer_phone, booking_date, total_amount, payment_status, booking_status`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}, b *model.Booking) error {
	return row.Scan(&b.ID, &b.ShowID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.BookingDate, &b.TotalAmount, &b.PaymentStatus, &b.BookingStatus)
}

// CreateWithSeats creates a Confirmed booking for the given seats in a
// single transaction:
//
//  1. expire stale holds on the show
//  2. verify every requested seat belongs to the show's hall
//  3. lock the show's Confirmed booking_seats rows with FOR UPDATE and
//     reject if any requested seat is already taken
//  4. reject seats actively held by a different customer
//  5. insert the booking with total_amount = base_price * seat count
//  6. bulk insert the booking_seats rows at the show's base price
//  7. release this customer's holds on the show
//
// Seats already taken or held elsewhere surface as ErrSeatsUnavailable; a
// seat outside the show's hall as ErrSeatNotInHall; a missing show as
// ErrShowNotFound.  On success the booking struct carries
// the generated ID, timestamps and computed total.
func (r *BookingRepo) CreateWithSeats(ctx context.Context, b *model.Booking, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return errors.New("no seats requested")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var hallID uint64
	var basePrice string
	err = tx.QueryRowContext(ctx, `SELECT hall_id, base_price FROM shows WHERE id = ?`, b.ShowID).Scan(&hallID, &basePrice)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowNotFound
	}
	if err != nil {
		return err
	}

	if _, err := r.holds.ExpireHoldsTx(ctx, tx, b.ShowID); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(seatIDs)), ", ")
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, b.ShowID)
	for _, sid := range seatIDs {
		args = append(args, sid)
	}

	// The seat FK alone admits seats from any hall; a foreign seat would be
	// counted against this show and could push availability negative.  Every
	// requested seat must belong to the show's hall (duplicates fail too).
	memberQ := `SELECT COUNT(*) FROM seats WHERE hall_id = ? AND id IN (` + placeholders + `)`
	memberArgs := append([]interface{}{hallID}, args[1:]...)
	var member int
	if err := tx.QueryRowContext(ctx, memberQ, memberArgs...).Scan(&member); err != nil {
		return err
	}
	if member != len(seatIDs) {
		return ErrSeatNotInHall
	}

	// Lock conflicting Confirmed rows so a concurrent reservation for the
	// same seats blocks here until this transaction resolves.
	conflictQ := `SELECT bs.seat_id
	              FROM booking_seats bs
	              JOIN bookings bk ON bk.id = bs.booking_id
	              WHERE bk.show_id = ? AND bk.booking_status = 'Confirmed'
	                AND bs.seat_id IN (` + placeholders + `)
	              FOR UPDATE`
	taken, err := collectIDs(tx.QueryContext(ctx, conflictQ, args...))
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return ErrSeatsUnavailable
	}

	// Holds belonging to other customers block the reservation too.
	heldQ := `SELECT seat_id
	          FROM seat_holds
	          WHERE show_id = ? AND seat_id IN (` + placeholders + `)
	            AND customer_email <> ? AND expires_at > UTC_TIMESTAMP()
	          FOR UPDATE`
	heldArgs := append(append([]interface{}{}, args...), b.CustomerEmail)
	held, err := collectIDs(tx.QueryContext(ctx, heldQ, heldArgs...))
	if err != nil {
		return err
	}
	if len(held) > 0 {
		return ErrSeatsUnavailable
	}

	const qInsert = `INSERT INTO bookings (show_id, customer_name, customer_email, customer_phone, total_amount, payment_status, booking_status)
	                 SELECT ?, ?, ?, ?, base_price * ?, ?, 'Confirmed' FROM shows WHERE id = ?`
	payment := b.PaymentStatus
	if payment == "" {
		payment = model.PaymentStatusPending
	}
	res, err := tx.ExecContext(ctx, qInsert,
		b.ShowID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		len(seatIDs), payment, b.ShowID)
	if err != nil {
		return translateError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	seatInsert := `INSERT INTO booking_seats (booking_id, seat_id, seat_price) VALUES `
	seatArgs := make([]interface{}, 0, len(seatIDs)*3)
	for i, sid := range seatIDs {
		if i > 0 {
			seatInsert += ","
		}
		seatInsert += "(?, ?, ?)"
		seatArgs = append(seatArgs, b.ID, sid, basePrice)
	}
	if _, err := tx.ExecContext(ctx, seatInsert, seatArgs...); err != nil {
		return translateError(err)
	}

	if _, err := r.holds.DeleteByEmailAndShowTx(ctx, tx, b.CustomerEmail, b.ShowID); err != nil {
		return err
	}

	const qSelect = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, qSelect, b.ID), b); err != nil {
		return err
	}
	return tx.Commit()
}

func collectIDs(rows *sql.Rows, err error) ([]uint64, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByID retrieves a booking and its seats.  Returns ErrBookingNotFound
// when the booking does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, []model.BookingSeat, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	seats, err := r.seatsForBooking(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &b, seats, nil
}

func (r *BookingRepo) seatsForBooking(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
	const q = `SELECT id, booking_id, seat_id, seat_price, created_at
	           FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := []model.BookingSeat{}
	for rows.Next() {
		var s model.BookingSeat
		if err := rows.Scan(&s.ID, &s.BookingID, &s.SeatID, &s.SeatPrice, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// UpdateBookingStatus moves a booking to target after validating the
// transition under lock.  An illegal transition (leaving Cancelled or
// Expired) returns ErrInvalidTransition.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id uint64, target model.BookingStatus) error {
	if !target.IsValid() {
		return ErrInvalidTransition
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current model.BookingStatus
	err = tx.QueryRowContext(ctx, `SELECT booking_status FROM bookings WHERE id = ? FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if !current.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET booking_status = ? WHERE id = ?`, target, id); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdatePaymentStatus moves a booking's payment to target after validating
// the transition under lock.
func (r *BookingRepo) UpdatePaymentStatus(ctx context.Context, id uint64, target model.PaymentStatus) error {
	if !target.IsValid() {
		return ErrInvalidTransition
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current model.PaymentStatus
	err = tx.QueryRowContext(ctx, `SELECT payment_status FROM bookings WHERE id = ? FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if !current.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET payment_status = ? WHERE id = ?`, target, id); err != nil {
		return err
	}
	return tx.Commit()
}

// Cancel is the customer-facing cancellation: Confirmed to Cancelled, and
// a Completed payment moves to Refunded in the same transaction.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status model.BookingStatus
	var payment model.PaymentStatus
	err = tx.QueryRowContext(ctx,
		`SELECT booking_status, payment_status FROM bookings WHERE id = ? FOR UPDATE`, id).
		Scan(&status, &payment)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if !status.CanTransitionTo(model.BookingStatusCancelled) {
		return ErrInvalidTransition
	}
	newPayment := payment
	if payment == model.PaymentStatusCompleted {
		newPayment = model.PaymentStatusRefunded
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET booking_status = ?, payment_status = ? WHERE id = ?`,
		model.BookingStatusCancelled, newPayment, id); err != nil {
		return err
	}
	return tx.Commit()
}

// BookingDetail is one entry of a customer's booking history: the booking
// together with its show, movie, hall, theater and seats.
type BookingDetail struct {
	ID            uint64              `json:"id"`
	ShowID        uint64              `json:"show_id"`
	MovieTitle    string              `json:"movie_title"`
	Language      string              `json:"language"`
	HallName      string              `json:"hall_name"`
	TheaterName   string              `json:"theater_name"`
	ShowDate      string              `json:"show_date"`
	StartTime     string              `json:"start_time"`
	BookingDate   string              `json:"booking_date"`
	TotalAmount   string              `json:"total_amount"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	BookingStatus model.BookingStatus `json:"booking_status"`
	Seats         []BookingSeatDetail `json:"seats"`
}

// BookingSeatDetail is one seat of a history entry with its position and
// the price paid at booking time.
type BookingSeatDetail struct {
	SeatID     uint64 `json:"seat_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	SeatPrice  string `json:"seat_price"`
}

// HistoryByEmail returns the customer's bookings, newest first, each with
// its seats.  Two queries: one for the booking rows joined up to the
// theater, then one for all seats of those bookings, stitched together in
// memory to avoid duplicating booking fields per seat row.
func (r *BookingRepo) HistoryByEmail(ctx context.Context, email string) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.show_id, m.title, m.language, h.name, t.name,
	                  DATE_FORMAT(s.show_date, '%Y-%m-%d'), s.start_time,
	                  DATE_FORMAT(b.booking_date, '%Y-%m-%d %H:%i:%s'),
	                  b.total_amount, b.payment_status, b.booking_status
	           FROM bookings b
	           JOIN shows s    ON s.id = b.show_id
	           JOIN movies m   ON m.id = s.movie_id
	           JOIN halls h    ON h.id = s.hall_id
	           JOIN theaters t ON t.id = h.theater_id
	           WHERE b.customer_email = ?
	           ORDER BY b.booking_date DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []BookingDetail{}
	index := map[uint64]int{}
	ids := []interface{}{}
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.ShowID, &d.MovieTitle, &d.Language, &d.HallName, &d.TheaterName,
			&d.ShowDate, &d.StartTime, &d.BookingDate, &d.TotalAmount, &d.PaymentStatus, &d.BookingStatus); err != nil {
			return nil, err
		}
		d.Seats = []BookingSeatDetail{}
		index[d.ID] = len(details)
		details = append(details, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	seatQ := `SELECT bs.booking_id, bs.seat_id, se.row_label, se.seat_number, bs.seat_price
	          FROM booking_seats bs
	          JOIN seats se ON se.id = bs.seat_id
	          WHERE bs.booking_id IN (` + placeholders + `)
	          ORDER BY se.row_label, se.seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bookingID uint64
		var sd BookingSeatDetail
		if err := srows.Scan(&bookingID, &sd.SeatID, &sd.RowLabel, &sd.SeatNumber, &sd.SeatPrice); err != nil {
			return nil, err
		}
		if i, ok := index[bookingID]; ok {
			details[i].Seats = append(details[i].Seats, sd)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
