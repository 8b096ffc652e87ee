package model

import "time"

// SeatHold represents a temporary hold on a seat during checkout.  Holds
// close the gap the schema leaves open: the (booking, seat) uniqueness
// constraint stops one booking from listing a seat twice, but nothing in the
// schema stops two different bookings from each claiming the same seat.  A
// hold row – unique per (show, seat) – gives the reservation transaction an
// explicit lock to take before writing booking seats.  Holds expire
// automatically at their expires_at timestamp.
//
// Fields:
//  ID            – primary key identifier.
//  ShowID        – show for which the seat is held.
//  SeatID        – seat being held.
//  CustomerEmail – customer the hold belongs to (there is no user table).
//  HoldToken     – opaque token returned to the client for correlation.
//  ExpiresAt     – when the hold lapses.
//  CreatedAt     – when the hold was created.
type SeatHold struct {
	ID            uint64    // seat_holds.id
	ShowID        uint64    // seat_holds.show_id
	SeatID        uint64    // seat_holds.seat_id
	CustomerEmail string    // seat_holds.customer_email
	HoldToken     string    // seat_holds.hold_token
	ExpiresAt     time.Time // seat_holds.expires_at
	CreatedAt     time.Time // seat_holds.created_at
}
