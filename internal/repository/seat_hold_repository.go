package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"movie-booking-catalog/internal/model"
)

// SeatHoldRepo provides data access to the seat_holds table.  Holds are
// keyed by customer email since the catalog has no user table.  All methods
// compare expiration timestamps in UTC.
type SeatHoldRepo struct {
	db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// DB exposes the underlying handle so handlers can open the transaction the
// Tx methods below run in.
func (r *SeatHoldRepo) DB() *sql.DB { return r.db }

// ExpireHoldsTx removes all seat holds for a show whose expires_at has
// passed and returns the seat IDs that were released.  The caller owns the
// transaction.  When nothing has expired it returns an empty slice.
func (r *SeatHoldRepo) ExpireHoldsTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_id FROM seat_holds WHERE show_id = ? AND expires_at <= UTC_TIMESTAMP()`,
		showID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	expired := []uint64{}
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		expired = append(expired, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The tx runs on a single connection; finish the cursor before the
	// DELETE below.
	rows.Close()
	if len(expired) == 0 {
		return expired, nil
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM seat_holds WHERE show_id = ? AND expires_at <= UTC_TIMESTAMP()`,
		showID,
	)
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// CreateMultipleTx inserts a batch of seat holds within the provided
// transaction.  A duplicate (show, seat) pair means another customer
// already holds that seat; it surfaces as a ConstraintError naming
// uq_seat_holds_show_seat, which callers translate to ErrSeatsUnavailable.
func (r *SeatHoldRepo) CreateMultipleTx(ctx context.Context, tx *sql.Tx, holds []model.SeatHold) error {
	if len(holds) == 0 {
		return nil
	}
	query := `INSERT INTO seat_holds (show_id, seat_id, customer_email, hold_token, expires_at) VALUES `
	args := make([]interface{}, 0, len(holds)*5)
	for i, h := range holds {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, h.ShowID, h.SeatID, h.CustomerEmail, h.HoldToken,
			h.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translateError(err)
	}
	return nil
}

// DeleteByEmailAndShowTx removes all holds one customer has on a show and
// returns the released seat IDs.  Called after the booking commits and when
// a customer abandons checkout.
func (r *SeatHoldRepo) DeleteByEmailAndShowTx(ctx context.Context, tx *sql.Tx, email string, showID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_id FROM seat_holds WHERE customer_email = ? AND show_id = ?`, email, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seatIDs := []uint64{}
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Finish the cursor before the DELETE runs on the same tx connection.
	rows.Close()
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM seat_holds WHERE customer_email = ? AND show_id = ?`, email, showID); err != nil {
		return nil, err
	}
	return seatIDs, nil
}

// ActiveHoldsTx retrieves the customer's non-expired holds for a show.
// The booking transaction uses this to verify the seats it is about to
// confirm are still held.
func (r *SeatHoldRepo) ActiveHoldsTx(ctx context.Context, tx *sql.Tx, email string, showID uint64) ([]model.SeatHold, error) {
	const q = `SELECT id, show_id, seat_id, customer_email, hold_token, expires_at, created_at
	           FROM seat_holds
	           WHERE customer_email = ? AND show_id = ? AND expires_at > UTC_TIMESTAMP()`
	rows, err := tx.QueryContext(ctx, q, email, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	holds := []model.SeatHold{}
	for rows.Next() {
		var h model.SeatHold
		if err := rows.Scan(&h.ID, &h.ShowID, &h.SeatID, &h.CustomerEmail, &h.HoldToken, &h.ExpiresAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holds, nil
}

// randomToken generates a random hexadecimal string of n bytes (2n hex
// characters) using crypto/rand.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateHoldRecords builds hold records for one customer, show and seat
// set with a fresh random token per seat.  Handlers call this before
// CreateMultipleTx.
func GenerateHoldRecords(email string, showID uint64, seatIDs []uint64, expiresAt time.Time) ([]model.SeatHold, error) {
	holds := make([]model.SeatHold, 0, len(seatIDs))
	for _, sid := range seatIDs {
		token, err := randomToken(32)
		if err != nil {
			return nil, err
		}
		holds = append(holds, model.SeatHold{
			ShowID:        showID,
			SeatID:        sid,
			CustomerEmail: email,
			HoldToken:     token,
			ExpiresAt:     expiresAt,
		})
	}
	return holds, nil
}
