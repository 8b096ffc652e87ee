package model

import "time"

// Show represents a scheduled screening of one movie in one hall at a
// specific date and time.  A hall cannot host two shows starting at the same
// instant; that is enforced by the (hall, date, start_time) uniqueness
// constraint.  EndTime is stored rather than derived for query performance –
// it is computed from the movie's duration when the show is written and must
// be treated as a cached value, not independent ground truth.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie being screened (cascade-deleted with it).
//  HallID    – hall hosting the screening (cascade-deleted with it).
//  ShowDate  – calendar date of the screening ("2006-01-02").
//  StartTime – wall-clock start time ("15:04:05").
//  EndTime   – wall-clock end time, start + movie duration.
//  BasePrice – default per-seat price; non-negative.
//  IsActive  – soft-delete flag; shows with bookings are deactivated rather
//              than deleted.
//  CreatedAt – creation timestamp.
type Show struct {
	ID        uint64    // shows.id
	MovieID   uint64    // shows.movie_id
	HallID    uint64    // shows.hall_id
	ShowDate  string    // shows.show_date ("YYYY-MM-DD")
	StartTime string    // shows.start_time ("HH:MM:SS")
	EndTime   string    // shows.end_time   ("HH:MM:SS")
	BasePrice string    // shows.base_price (decimal as string, e.g. "250.00")
	IsActive  bool      // shows.is_active
	CreatedAt time.Time // shows.created_at
}
