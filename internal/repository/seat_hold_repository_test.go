package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireHoldsTx(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewSeatHoldRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	insertRow(t, `INSERT INTO seat_holds (show_id, seat_id, customer_email, hold_token, expires_at)
	              VALUES (?, ?, 'stale@example.com', 'tok-stale', UTC_TIMESTAMP() - INTERVAL 1 MINUTE)`,
		f.showID, f.seatIDs[0])
	insertRow(t, `INSERT INTO seat_holds (show_id, seat_id, customer_email, hold_token, expires_at)
	              VALUES (?, ?, 'live@example.com', 'tok-live', UTC_TIMESTAMP() + INTERVAL 5 MINUTE)`,
		f.showID, f.seatIDs[1])

	tx, err := testDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	released, err := repo.ExpireHoldsTx(ctx, tx, f.showID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{f.seatIDs[0]}, released)

	// Same tx keeps working after the sweep; the live hold survives it.
	live, err := repo.ActiveHoldsTx(ctx, tx, "live@example.com", f.showID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, f.seatIDs[1], live[0].SeatID)

	require.NoError(t, tx.Commit())
	assert.Equal(t, 1, countRows(t, "seat_holds", ""))
}

func TestDeleteByEmailAndShowTx(t *testing.T) {
	requireDB(t)
	truncateAll(t)
	ctx := context.Background()
	repo := NewSeatHoldRepo(testDB)

	f := newSeatsFixture(t, "PVR: Nexus", 150, 2)
	holds, err := GenerateHoldRecords("ravi@example.com", f.showID, []uint64{f.seatIDs[0]},
		time.Now().UTC().Add(5*time.Minute))
	require.NoError(t, err)
	other, err := GenerateHoldRecords("anita@example.com", f.showID, []uint64{f.seatIDs[1]},
		time.Now().UTC().Add(5*time.Minute))
	require.NoError(t, err)

	tx, err := testDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateMultipleTx(ctx, tx, holds))
	require.NoError(t, repo.CreateMultipleTx(ctx, tx, other))
	require.NoError(t, tx.Commit())

	tx, err = testDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	released, err := repo.DeleteByEmailAndShowTx(ctx, tx, "ravi@example.com", f.showID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []uint64{f.seatIDs[0]}, released)
	assert.Equal(t, 1, countRows(t, "seat_holds", ""), "the other customer's hold stays")
}
