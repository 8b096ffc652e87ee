package model

import "time"

// Hall represents an individual screening hall within a theater.  Each hall
// belongs to exactly one theater and its name is unique within that theater.
// SeatingCapacity is the authoritative seat count for availability math even
// when per-seat rows have not been laid out for the hall.
//
// Fields:
//  ID              – primary key identifier.
//  TheaterID       – ID of the owning theater (cascade-deleted with it).
//  Name            – hall name, unique per theater (e.g. "Audi 11").
//  SeatingCapacity – total number of seats; always positive.
//  ScreenType      – free-text screen category ("Standard", "IMAX", ...).
//  IsActive        – soft-delete flag.
//  CreatedAt       – creation timestamp.
type Hall struct {
	ID              uint64    // halls.id
	TheaterID       uint64    // halls.theater_id
	Name            string    // halls.name
	SeatingCapacity uint32    // halls.seating_capacity
	ScreenType      string    // halls.screen_type
	IsActive        bool      // halls.is_active
	CreatedAt       time.Time // halls.created_at
}
