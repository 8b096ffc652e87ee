package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seatsFixture builds a theater with one hall and n seats, one movie and one
// show today, and returns the pieces the availability tests need.
type seatsFixture struct {
	theaterID uint64
	hallID    uint64
	movieID   uint64
	showID    uint64
	seatIDs   []uint64
}

func newSeatsFixture(t *testing.T, theaterName string, capacity uint32, seatCount int) seatsFixture {
	t.Helper()
	f := seatsFixture{}
	f.theaterID = createTestTheater(t, theaterName, "Bengaluru")
	f.hallID = createTestHall(t, f.theaterID, "Audi 11", capacity)
	f.movieID = createTestMovie(t, "Dasara", "Telugu", 150)
	f.showID = createTestShow(t, f.movieID, f.hallID, today(), "18:45:00")
	for i := 0; i < seatCount; i++ {
		f.seatIDs = append(f.seatIDs, createTestSeat(t, f.hallID, "A", uint32(i+1)))
	}
	return f
}

func TestAvailability_ConfirmedSeatsReduceCapacity(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	bookingID := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Completed")
	addBookingSeat(t, bookingID, f.seatIDs[0])
	addBookingSeat(t, bookingID, f.seatIDs[1])

	items, err := repo.ListByTheaterAndDate(ctx, f.theaterID, today())
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, f.showID, got.ShowID)
	assert.Equal(t, "Dasara", got.MovieTitle)
	assert.Equal(t, "Telugu", got.Language)
	assert.Equal(t, "Audi 11", got.HallName)
	assert.Equal(t, uint32(2), got.BookedCount)
	assert.Equal(t, int64(148), got.AvailableSeats)
}

func TestAvailability_NoBookingsReportsFullCapacity(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 0)

	items, err := repo.ListByTheaterAndDate(ctx, f.theaterID, today())
	require.NoError(t, err)
	require.Len(t, items, 1, "a show with zero bookings must still appear")
	assert.Equal(t, uint32(0), items[0].BookedCount)
	assert.Equal(t, int64(150), items[0].AvailableSeats)
}

func TestAvailability_NonConfirmedBookingsExcluded(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	cancelled := createTestBooking(t, f.showID, "anita@example.com", "Cancelled", "Refunded")
	addBookingSeat(t, cancelled, f.seatIDs[0])
	expired := createTestBooking(t, f.showID, "joseph@example.com", "Expired", "Failed")
	addBookingSeat(t, expired, f.seatIDs[1])

	items, err := repo.ListByTheaterAndDate(ctx, f.theaterID, today())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint32(0), items[0].BookedCount)
	assert.Equal(t, int64(150), items[0].AvailableSeats)
}

func TestAvailability_DeactivatedShowAndMovieExcluded(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 0)

	// Deactivate the show: it must vanish from results even with no bookings.
	_, err := testDB.ExecContext(ctx, `UPDATE shows SET is_active = FALSE WHERE id = ?`, f.showID)
	require.NoError(t, err)
	items, err := repo.ListByTheaterAndDate(ctx, f.theaterID, today())
	require.NoError(t, err)
	assert.Empty(t, items)

	// Reactivate the show but deactivate the movie: same outcome.
	_, err = testDB.ExecContext(ctx, `UPDATE shows SET is_active = TRUE WHERE id = ?`, f.showID)
	require.NoError(t, err)
	_, err = testDB.ExecContext(ctx, `UPDATE movies SET is_active = FALSE WHERE id = ?`, f.movieID)
	require.NoError(t, err)
	items, err = repo.ListByTheaterAndDate(ctx, f.theaterID, today())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAvailability_EmptyDayIsEmptyResult(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	theaterID := createTestTheater(t, "INOX: Garuda Mall", "Bengaluru")

	items, err := repo.ListByTheaterAndDate(ctx, theaterID, "2031-01-01")
	require.NoError(t, err)
	assert.Empty(t, items, "a day with no shows is an empty result, not an error")
}

func TestAvailability_ByName(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 0)
	_ = f

	items, err := repo.ListByTheaterName(ctx, "PVR: Nexus", today())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = repo.ListByTheaterName(ctx, "No Such Theater", today())
	assert.ErrorIs(t, err, ErrTheaterNotFound, "unknown theater is distinct from an empty day")
}

func TestAvailability_OrderedByStartTime(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	theaterID := createTestTheater(t, "PVR: Nexus", "Bengaluru")
	hallID := createTestHall(t, theaterID, "Audi 11", 150)
	hall2ID := createTestHall(t, theaterID, "Audi 12", 100)
	movieID := createTestMovie(t, "Pathaan", "Hindi", 146)

	// Inserted out of order on purpose.
	evening := createTestShow(t, movieID, hallID, today(), "18:45:00")
	morning := createTestShow(t, movieID, hallID, today(), "10:00:00")
	afternoon := createTestShow(t, movieID, hall2ID, today(), "14:30:00")

	items, err := repo.ListByTheaterAndDate(ctx, theaterID, today())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, morning, items[0].ShowID)
	assert.Equal(t, afternoon, items[1].ShowID)
	assert.Equal(t, evening, items[2].ShowID)
}

func TestAvailability_NegativeCountSurfacesOverbooked(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	// Hall capacity 1 but two Confirmed bookings of different seats: a
	// write-path defect the read must report, never clamp.
	f := newSeatsFixture(t, "PVR: Nexus", 1, 2)
	b1 := createTestBooking(t, f.showID, "a@example.com", "Confirmed", "Completed")
	addBookingSeat(t, b1, f.seatIDs[0])
	b2 := createTestBooking(t, f.showID, "b@example.com", "Confirmed", "Completed")
	addBookingSeat(t, b2, f.seatIDs[1])

	items, err := repo.ListByTheaterAndDate(ctx, f.theaterID, today())
	assert.ErrorIs(t, err, ErrOverbooked)
	require.Len(t, items, 1, "the listing is still returned alongside the anomaly")
	assert.Equal(t, int64(-1), items[0].AvailableSeats)

	booked, available, err := repo.ForShow(ctx, f.showID)
	assert.ErrorIs(t, err, ErrOverbooked)
	assert.Equal(t, uint32(2), booked)
	assert.Equal(t, int64(-1), available)
}

func TestAvailability_ForShow(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewAvailabilityRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 1)
	bookingID := createTestBooking(t, f.showID, "ravi@example.com", "Confirmed", "Pending")
	addBookingSeat(t, bookingID, f.seatIDs[0])

	booked, available, err := repo.ForShow(ctx, f.showID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), booked)
	assert.Equal(t, int64(149), available)

	ids, err := repo.BookedSeatIDs(ctx, f.showID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{f.seatIDs[0]}, ids)

	_, _, err = repo.ForShow(ctx, 999999)
	assert.ErrorIs(t, err, ErrShowNotFound)
}
