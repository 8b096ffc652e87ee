package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullFixture populates a complete object graph so the cascade tests can
// verify that nothing survives a parent delete.
func fullFixture(t *testing.T) seatsFixture {
	t.Helper()
	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	bookingID := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Completed")
	addBookingSeat(t, bookingID, f.seatIDs[0])
	addBookingSeat(t, bookingID, f.seatIDs[1])
	insertRow(t, `INSERT INTO seat_holds (show_id, seat_id, customer_email, hold_token, expires_at)
	              VALUES (?, ?, 'x@example.com', 'tok', UTC_TIMESTAMP() + INTERVAL 5 MINUTE)`,
		f.showID, f.seatIDs[0])
	return f
}

func TestTheaterDeleteCascades(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewTheaterRepo(testDB)

	f := fullFixture(t)

	require.NoError(t, repo.Delete(ctx, f.theaterID))

	// Everything below the theater is gone, no orphans anywhere.
	for _, table := range []string{"halls", "seats", "shows", "bookings", "booking_seats", "seat_holds"} {
		assert.Equal(t, 0, countRows(t, table, ""), "%s should be empty after theater delete", table)
	}
	// The movie is not a descendant of the theater and must survive.
	assert.Equal(t, 1, countRows(t, "movies", ""))

	assert.ErrorIs(t, repo.Delete(ctx, f.theaterID), ErrTheaterNotFound)
}

func TestMovieDeleteCascadesToShowsAndBookings(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewMovieRepo(testDB)

	f := fullFixture(t)

	require.NoError(t, repo.Delete(ctx, f.movieID))

	assert.Equal(t, 0, countRows(t, "shows", ""))
	assert.Equal(t, 0, countRows(t, "bookings", ""))
	assert.Equal(t, 0, countRows(t, "booking_seats", ""))
	// Venue data is untouched.
	assert.Equal(t, 1, countRows(t, "theaters", ""))
	assert.Equal(t, 1, countRows(t, "halls", ""))
	assert.Equal(t, 2, countRows(t, "seats", ""))
}

func TestShowUniquePerHallDateStart(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 0)

	_, err := testDB.ExecContext(ctx,
		`INSERT INTO shows (movie_id, hall_id, show_date, start_time, end_time, base_price)
		 VALUES (?, ?, ?, '18:45:00', '21:15:00', 250.00)`, f.movieID, f.hallID, today())
	err = translateError(err)
	require.Error(t, err)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintUnique, ce.Kind)
	assert.Equal(t, "uq_shows_hall_date_start", ce.Constraint)
}

func TestBookingSeatUniquePerBooking(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)
	bookingID := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Pending")
	addBookingSeat(t, bookingID, f.seatIDs[0])

	_, err := testDB.ExecContext(ctx,
		`INSERT INTO booking_seats (booking_id, seat_id, seat_price) VALUES (?, ?, 250.00)`,
		bookingID, f.seatIDs[0])
	err = translateError(err)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintUnique, ce.Kind)
	assert.Equal(t, "uq_booking_seats_booking_seat", ce.Constraint)
}

func TestForeignKeyViolationNamed(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()

	_, err := testDB.ExecContext(ctx,
		`INSERT INTO halls (theater_id, name, seating_capacity) VALUES (42, 'Ghost Hall', 10)`)
	err = translateError(err)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintForeignKey, ce.Kind)
	assert.Equal(t, "fk_halls_theater", ce.Constraint)
}
