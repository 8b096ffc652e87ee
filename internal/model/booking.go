package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  Only
// Confirmed bookings count against seat availability.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusExpired   BookingStatus = "Expired"
)

// IsValid reports whether the status is one of the known enumeration values.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking may move from s to target.
// Confirmed bookings can be cancelled or expired; terminal states cannot be
// left.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusExpired},
		BookingStatusCancelled: {},
		BookingStatusExpired:   {},
	}
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, st := range allowed {
		if st == target {
			return true
		}
	}
	return false
}

// PaymentStatus enumerates the payment states tracked on a booking.  It is
// independent of BookingStatus: a Confirmed booking may still be Pending
// payment at the counter.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// IsValid reports whether the payment status is a known enumeration value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment may move from s to target.
// Pending resolves to Completed or Failed; Completed may later be Refunded.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
		PaymentStatusCompleted: {PaymentStatusRefunded},
		PaymentStatusFailed:    {PaymentStatusPending},
		PaymentStatusRefunded:  {},
	}
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, st := range allowed {
		if st == target {
			return true
		}
	}
	return false
}

// Booking records a customer's reservation for one show.  Customer identity
// is carried on the booking itself – there is no separate customer table, so
// history lookups go through the customer_email index.
//
// Fields:
//  ID            – primary key identifier.
//  ShowID        – show being booked (cascade-deleted with it).
//  CustomerName  – customer's display name.
//  CustomerEmail – email used for history lookups.
//  CustomerPhone – contact number.
//  BookingDate   – when the booking was made; defaults to creation time.
//  TotalAmount   – total charged for all seats (decimal as string).
//  PaymentStatus – Pending/Completed/Failed/Refunded.
//  BookingStatus – Confirmed/Cancelled/Expired; only Confirmed holds seats.
type Booking struct {
	ID            uint64        // bookings.id
	ShowID        uint64        // bookings.show_id
	CustomerName  string        // bookings.customer_name
	CustomerEmail string        // bookings.customer_email
	CustomerPhone string        // bookings.customer_phone
	BookingDate   time.Time     // bookings.booking_date
	TotalAmount   string        // bookings.total_amount (decimal as string)
	PaymentStatus PaymentStatus // bookings.payment_status
	BookingStatus BookingStatus // bookings.booking_status
}

// BookingSeat links a booking to one reserved seat.  It carries the seat's
// price at the time of booking so that later price changes on the show do
// not rewrite history.  A booking cannot list the same seat twice; that is
// the (booking, seat) uniqueness constraint.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – owning booking (cascade-deleted with it).
//  SeatID    – reserved seat (cascade-deleted with it).
//  SeatPrice – price paid for this seat (decimal as string).
//  CreatedAt – creation timestamp.
type BookingSeat struct {
	ID        uint64    // booking_seats.id
	BookingID uint64    // booking_seats.booking_id
	SeatID    uint64    // booking_seats.seat_id
	SeatPrice string    // booking_seats.seat_price
	CreatedAt time.Time // booking_seats.created_at
}
