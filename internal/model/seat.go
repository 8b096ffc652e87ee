package model

import "time"

// Seat describes a physical seat in a hall.  Seats are uniquely identified
// by their hall, row label and seat number.
//
// Fields:
//  ID         – primary key identifier.
//  HallID     – hall to which this seat belongs (cascade-deleted with it).
//  RowLabel   – letter or string designating the row.
//  SeatNumber – number of the seat within the row (1-based).
//  SeatType   – free-text seat category ("Regular", "Recliner", ...).
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    // seats.id
	HallID     uint64    // seats.hall_id
	RowLabel   string    // seats.row_label
	SeatNumber uint32    // seats.seat_number
	SeatType   string    // seats.seat_type
	CreatedAt  time.Time // seats.created_at
}
