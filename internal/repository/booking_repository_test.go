package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-booking-catalog/internal/model"
)

func newBookingRepos() (*BookingRepo, *SeatHoldRepo) {
	holds := NewSeatHoldRepo(testDB)
	return NewBookingRepo(testDB, holds), holds
}

func TestCreateWithSeats(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 3)

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		CustomerPhone: "9876543210",
	}
	err := repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0], f.seatIDs[1]})
	require.NoError(t, err)

	assert.NotZero(t, b.ID)
	assert.Equal(t, model.BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, model.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, "500.00", b.TotalAmount, "total is base price times seat count")
	assert.False(t, b.BookingDate.IsZero())

	assert.Equal(t, 2, countRows(t, "booking_seats", "booking_id = ?", b.ID))
}

func TestCreateWithSeats_SeatAlreadyConfirmed(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	first := createTestBooking(t, f.showID, "first@example.com", "Confirmed", "Completed")
	addBookingSeat(t, first, f.seatIDs[0])

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Second Customer",
		CustomerEmail: "second@example.com",
		CustomerPhone: "1",
	}
	err := repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0], f.seatIDs[1]})
	assert.ErrorIs(t, err, ErrSeatsUnavailable)

	// Nothing from the failed attempt may remain.
	assert.Equal(t, 1, countRows(t, "bookings", ""))
	assert.Equal(t, 1, countRows(t, "booking_seats", ""))
}

func TestCreateWithSeats_CancelledSeatIsFree(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)
	cancelled := createTestBooking(t, f.showID, "anita@example.com", "Cancelled", "Refunded")
	addBookingSeat(t, cancelled, f.seatIDs[0])

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		CustomerPhone: "1",
	}
	err := repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0]})
	require.NoError(t, err, "a seat under a cancelled booking is available again")
}

func TestCreateWithSeats_HeldByAnotherCustomer(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, holds := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)

	tx, err := testDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	records, err := GenerateHoldRecords("other@example.com", f.showID, []uint64{f.seatIDs[0]},
		time.Now().UTC().Add(5*time.Minute))
	require.NoError(t, err)
	require.NoError(t, holds.CreateMultipleTx(ctx, tx, records))
	require.NoError(t, tx.Commit())

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		CustomerPhone: "1",
	}
	err = repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0]})
	assert.ErrorIs(t, err, ErrSeatsUnavailable)
}

func TestCreateWithSeats_ExpiredHoldIsIgnored(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)

	// A hold that lapsed a minute ago must not block the booking.
	insertRow(t, `INSERT INTO seat_holds (show_id, seat_id, customer_email, hold_token, expires_at)
	              VALUES (?, ?, 'other@example.com', 'tok', UTC_TIMESTAMP() - INTERVAL 1 MINUTE)`,
		f.showID, f.seatIDs[0])

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		CustomerPhone: "1",
	}
	err := repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0]})
	require.NoError(t, err)
	assert.Equal(t, 0, countRows(t, "seat_holds", ""), "stale holds are swept inside the transaction")
}

func TestCreateWithSeats_OwnHoldIsReleased(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, holds := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)

	tx, err := testDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	records, err := GenerateHoldRecords("ravi@example.com", f.showID, []uint64{f.seatIDs[0]},
		time.Now().UTC().Add(5*time.Minute))
	require.NoError(t, err)
	require.NoError(t, holds.CreateMultipleTx(ctx, tx, records))
	require.NoError(t, tx.Commit())

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		CustomerPhone: "1",
	}
	require.NoError(t, repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0]}))
	assert.Equal(t, 0, countRows(t, "seat_holds", ""), "the customer's own holds are consumed by the booking")
}

func TestCreateWithSeats_SeatFromOtherHallRejected(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)
	otherHall := createTestHall(t, f.theaterID, "Audi 12", 100)
	foreignSeat := createTestSeat(t, otherHall, "B", 1)

	// The FK would accept the foreign seat; the membership check must not,
	// or the seat would count against this show's capacity forever.
	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
	}
	err := repo.CreateWithSeats(ctx, b, []uint64{f.seatIDs[0], foreignSeat})
	assert.ErrorIs(t, err, ErrSeatNotInHall)
	assert.Equal(t, 0, countRows(t, "bookings", ""), "rejected booking must not be written")
	assert.Equal(t, 0, countRows(t, "booking_seats", ""))
}

func TestCreateWithSeats_UnknownSeatRejected(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)

	b := &model.Booking{
		ShowID:        f.showID,
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
	}
	err := repo.CreateWithSeats(ctx, b, []uint64{999999})
	assert.ErrorIs(t, err, ErrSeatNotInHall)
}

func TestCountInHall(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewSeatRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	otherHall := createTestHall(t, f.theaterID, "Audi 12", 100)
	foreignSeat := createTestSeat(t, otherHall, "B", 1)

	n, err := repo.CountInHall(ctx, f.hallID, f.seatIDs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountInHall(ctx, f.hallID, []uint64{f.seatIDs[0], foreignSeat})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.CountInHall(ctx, f.hallID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCreateWithSeats_UnknownShow(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	repo, _ := newBookingRepos()

	b := &model.Booking{ShowID: 42, CustomerName: "x", CustomerEmail: "x@example.com"}
	err := repo.CreateWithSeats(context.Background(), b, []uint64{1})
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestCancel(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)
	id := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Completed")

	require.NoError(t, repo.Cancel(ctx, id))

	b, _, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, b.BookingStatus)
	assert.Equal(t, model.PaymentStatusRefunded, b.PaymentStatus, "completed payment refunds on cancel")

	// Terminal states cannot be left.
	assert.ErrorIs(t, repo.Cancel(ctx, id), ErrInvalidTransition)
	assert.ErrorIs(t, repo.Cancel(ctx, 999999), ErrBookingNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)
	id := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Pending")

	require.NoError(t, repo.UpdatePaymentStatus(ctx, id, model.PaymentStatusCompleted))
	require.NoError(t, repo.UpdatePaymentStatus(ctx, id, model.PaymentStatusRefunded))

	// Refunded is terminal.
	assert.ErrorIs(t, repo.UpdatePaymentStatus(ctx, id, model.PaymentStatusPending), ErrInvalidTransition)
}

func TestHistoryByEmail(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo, _ := newBookingRepos()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)

	older := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Completed")
	addBookingSeat(t, older, f.seatIDs[0])
	addBookingSeat(t, older, f.seatIDs[1])
	// Force distinct booking timestamps so the ordering is deterministic.
	_, err := testDB.ExecContext(ctx,
		`UPDATE bookings SET booking_date = booking_date - INTERVAL 1 DAY WHERE id = ?`, older)
	require.NoError(t, err)

	newer := createTestBooking(t, f.showID, "ravi@example.com", "Cancelled", "Refunded")
	createTestBooking(t, f.showID, "someoneelse@example.com", "Confirmed", "Pending")

	items, err := repo.HistoryByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, newer, items[0].ID, "newest booking first")
	assert.Equal(t, older, items[1].ID)
	assert.Equal(t, "Dasara", items[1].MovieTitle)
	assert.Equal(t, "PVR: Nexus", items[1].TheaterName)
	assert.Equal(t, "Audi 11", items[1].HallName)
	require.Len(t, items[1].Seats, 2)
	assert.Equal(t, "A", items[1].Seats[0].RowLabel)
	assert.Empty(t, items[0].Seats)

	none, err := repo.HistoryByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none, "unknown email is an empty history, not an error")
}
