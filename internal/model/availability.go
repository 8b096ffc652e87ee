package model

// ShowAvailability is one row of the availability listing: a show at a
// theater on a date, annotated with how many seats are still free.
// AvailableSeats is hall capacity minus seats held by Confirmed bookings.
// It can come back negative when overlapping Confirmed reservations exceed
// capacity; that is a consistency defect and is reported as-is, never
// clamped to zero.
//
// Fields:
//  ShowID         – identifier of the show.
//  MovieTitle     – title of the movie being screened.
//  Language       – audio language of the movie record.
//  Format         – projection format.
//  Rating         – certification rating.
//  HallName       – name of the hall hosting the show.
//  StartTime      – wall-clock start time ("HH:MM:SS").
//  BasePrice      – default per-seat price (decimal as string).
//  Capacity       – hall seating capacity.
//  BookedCount    – seats under Confirmed bookings for this show.
//  AvailableSeats – Capacity minus BookedCount; may be negative on defect.
type ShowAvailability struct {
	ShowID         uint64 // shows.id
	MovieTitle     string // movies.title
	Language       string // movies.language
	Format         string // movies.format
	Rating         string // movies.rating
	HallName       string // halls.name
	StartTime      string // shows.start_time
	BasePrice      string // shows.base_price
	Capacity       uint32 // halls.seating_capacity
	BookedCount    uint32 // count of Confirmed booking seats
	AvailableSeats int64  // Capacity - BookedCount, signed on purpose
}
