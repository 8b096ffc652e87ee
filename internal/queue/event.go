// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully created.
// It carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.  Customer contact
// details are included because there is no user table to resolve them from.
type BookingConfirmedEvent struct {
	BookingID     uint64   `json:"booking_id"`
	ShowID        uint64   `json:"show_id"`
	TheaterID     uint64   `json:"theater_id"`
	TheaterName   string   `json:"theater_name"`
	HallID        uint64   `json:"hall_id"`
	HallName      string   `json:"hall_name"`
	MovieTitle    string   `json:"movie_title"`
	ShowDate      string   `json:"show_date"`
	StartTime     string   `json:"start_time"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	SeatLabels    []string `json:"seats"`
	TotalAmount   string   `json:"total_amount"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
