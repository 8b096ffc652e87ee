package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-booking-catalog/internal/database"
)

func TestSeedFixturesAreConsistent(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, testDB))

	// Every booking's seat prices must sum to its total_amount.
	rows, err := testDB.QueryContext(ctx, `
		SELECT b.id, b.total_amount, COALESCE(SUM(bs.seat_price), 0)
		FROM bookings b
		LEFT JOIN booking_seats bs ON bs.booking_id = b.id
		GROUP BY b.id, b.total_amount`)
	require.NoError(t, err)
	defer rows.Close()
	checked := 0
	for rows.Next() {
		var id uint64
		var total, sum string
		require.NoError(t, rows.Scan(&id, &total, &sum))
		assert.Equal(t, total, sum, "booking %d seat prices must sum to its total", id)
		checked++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 3, checked)

	// Every seeded seat price matches its show's base price.
	var mismatched int
	require.NoError(t, testDB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM booking_seats bs
		JOIN bookings b ON b.id = bs.booking_id
		JOIN shows s ON s.id = b.show_id
		WHERE bs.seat_price <> s.base_price`).Scan(&mismatched))
	assert.Equal(t, 0, mismatched)

	// The availability scenario the fixtures are built for: today's 10:00
	// show has two Confirmed seats, the cancelled booking does not count.
	repo := NewAvailabilityRepo(testDB)
	items, err := repo.ListByTheaterName(ctx, "PVR: Nexus", today())
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, uint32(2), items[0].BookedCount)
	assert.Equal(t, int64(148), items[0].AvailableSeats)

	// Seeding again is a no-op.
	require.NoError(t, database.Seed(ctx, testDB))
	assert.Equal(t, 2, countRows(t, "theaters", ""))
	assert.Equal(t, 21, countRows(t, "shows", ""))
}
