package database

// Seed populates the catalog with the illustrative fixture set: two
// theaters, five halls, six movie records, a 3x3 seat grid for one hall,
// three weeks' worth of shows across seven days and a handful of bookings.
// Show dates are generated relative to the current day so that availability
// queries for "today" always find data, matching how the fixtures are used
// by the verification tests.
//
// The fixtures respect every schema invariant: no orphan references, no
// duplicate (hall, date, start_time) slots, no seat booked twice under
// Confirmed bookings.

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Seed inserts the fixture rows.  It is a no-op when theaters already exist
// so it can run safely on every startup with the -seed flag.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM theaters`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil // already seeded
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids, err := seedCatalog(ctx, tx)
	if err != nil {
		return err
	}
	if err := seedShowsAndBookings(ctx, tx, ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// fixtureIDs collects the generated keys the later fixture stages need.
type fixtureIDs struct {
	theaterPVR  int64
	hallAudi11  int64
	hallIDs     []int64 // all five halls, hallAudi11 first
	movieIDs    []int64 // six movie rows
	audi11Seats []int64 // nine seats in Audi 11, ordered A1..C3
}

func seedCatalog(ctx context.Context, tx *sql.Tx) (*fixtureIDs, error) {
	ids := &fixtureIDs{}

	// Theaters.  "PVR: Nexus" is the venue the verification scenarios query.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO theaters (name, location, city, state, pincode, contact_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"PVR: Nexus", "Koramangala", "Bengaluru", "Karnataka", "560029", "080-41122334")
	if err != nil {
		return nil, fmt.Errorf("seed theaters: %w", err)
	}
	ids.theaterPVR, _ = res.LastInsertId()

	res, err = tx.ExecContext(ctx,
		`INSERT INTO theaters (name, location, city, state, pincode, contact_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"INOX: Garuda Mall", "Magrath Road", "Bengaluru", "Karnataka", "560025", "080-25554466")
	if err != nil {
		return nil, fmt.Errorf("seed theaters: %w", err)
	}
	theaterINOX, _ := res.LastInsertId()

	// Halls.  Audi 11 (capacity 150) hosts the bookings used by the
	// availability scenarios.
	halls := []struct {
		theaterID  int64
		name       string
		capacity   uint
		screenType string
	}{
		{ids.theaterPVR, "Audi 11", 150, "Standard"},
		{ids.theaterPVR, "Audi 2", 120, "Standard"},
		{ids.theaterPVR, "Audi 3", 100, "4K Dolby"},
		{theaterINOX, "Screen 1", 200, "IMAX"},
		{theaterINOX, "Screen 2", 80, "Standard"},
	}
	for _, h := range halls {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO halls (theater_id, name, seating_capacity, screen_type) VALUES (?, ?, ?, ?)`,
			h.theaterID, h.name, h.capacity, h.screenType)
		if err != nil {
			return nil, fmt.Errorf("seed halls: %w", err)
		}
		id, _ := res.LastInsertId()
		ids.hallIDs = append(ids.hallIDs, id)
	}
	ids.hallAudi11 = ids.hallIDs[0]

	// Movies.  One row per (title, language, format) combination; the same
	// title appears more than once on purpose.
	movies := []struct {
		title, language, format, rating string
		duration                        uint
		genre                           string
		releaseDate                     string
	}{
		{"Dasara", "Telugu", "2D", "UA", 156, "Action Drama", "2023-03-30"},
		{"Dasara", "Hindi", "2D", "UA", 156, "Action Drama", "2023-03-30"},
		{"Pathaan", "Hindi", "2D", "UA", 146, "Action Thriller", "2023-01-25"},
		{"Pathaan", "Hindi", "IMAX", "UA", 146, "Action Thriller", "2023-01-25"},
		{"John Wick: Chapter 4", "English", "2D", "A", 169, "Action", "2023-03-24"},
		{"Avatar: The Way of Water", "English", "3D", "UA", 192, "Sci-Fi", "2022-12-16"},
	}
	for _, m := range movies {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO movies (title, language, format, rating, duration_minutes, genre, release_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.title, m.language, m.format, m.rating, m.duration, m.genre, m.releaseDate)
		if err != nil {
			return nil, fmt.Errorf("seed movies: %w", err)
		}
		id, _ := res.LastInsertId()
		ids.movieIDs = append(ids.movieIDs, id)
	}

	// Seats: a 3x3 grid (rows A-C, numbers 1-3) for Audi 11 only.  The other
	// halls track capacity without per-seat rows, exactly as the fixtures
	// shipped with the original data set.
	for _, row := range []string{"A", "B", "C"} {
		for num := 1; num <= 3; num++ {
			seatType := "Regular"
			if row == "C" {
				seatType = "Recliner"
			}
			res, err = tx.ExecContext(ctx,
				`INSERT INTO seats (hall_id, row_label, seat_number, seat_type) VALUES (?, ?, ?, ?)`,
				ids.hallAudi11, row, num, seatType)
			if err != nil {
				return nil, fmt.Errorf("seed seats: %w", err)
			}
			id, _ := res.LastInsertId()
			ids.audi11Seats = append(ids.audi11Seats, id)
		}
	}
	return ids, nil
}

// seedShowsAndBookings creates three shows per day for seven days in Audi 11
// (21 shows), plus bookings against today's first two shows:
//
//	booking 1: Confirmed/Completed, seats A1+A2 on today's 10:00 show
//	booking 2: Cancelled/Refunded, seat B1 on the same show
//	booking 3: Confirmed/Pending, seats C1+C2 on today's 14:30 show
//
// So today's 10:00 show reports capacity-2 available seats and the cancelled
// booking does not count.
func seedShowsAndBookings(ctx context.Context, tx *sql.Tx, ids *fixtureIDs) error {
	type slot struct {
		start string
		price string
	}
	slots := []slot{
		{"10:00:00", "250.00"},
		{"14:30:00", "300.00"},
		{"18:45:00", "350.00"},
	}
	today := time.Now().UTC()

	var todayShowIDs []int64 // today's three shows, slot order
	for day := 0; day < 7; day++ {
		date := today.AddDate(0, 0, day).Format("2006-01-02")
		for i, sl := range slots {
			movieID := ids.movieIDs[(day+i)%len(ids.movieIDs)]
			var duration uint
			if err := tx.QueryRowContext(ctx,
				`SELECT duration_minutes FROM movies WHERE id = ?`, movieID).Scan(&duration); err != nil {
				return fmt.Errorf("seed shows: %w", err)
			}
			start, _ := time.Parse("15:04:05", sl.start)
			end := start.Add(time.Duration(duration) * time.Minute).Format("15:04:05")
			res, err := tx.ExecContext(ctx,
				`INSERT INTO shows (movie_id, hall_id, show_date, start_time, end_time, base_price)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				movieID, ids.hallAudi11, date, sl.start, end, sl.price)
			if err != nil {
				return fmt.Errorf("seed shows: %w", err)
			}
			if day == 0 {
				id, _ := res.LastInsertId()
				todayShowIDs = append(todayShowIDs, id)
			}
		}
	}

	// Seat prices carry the owning show's base price so they always sum to
	// the booking's total_amount.
	seats := ids.audi11Seats // A1 A2 A3 B1 B2 B3 C1 C2 C3
	bookings := []struct {
		showID        int64
		name          string
		email         string
		phone         string
		total         string
		seatPrice     string
		paymentStatus string
		bookingStatus string
		seatIDs       []int64
	}{
		{todayShowIDs[0], "Ravi Kumar", "ravi.kumar@example.com", "+91-9845012345",
			"500.00", "250.00", "Completed", "Confirmed", []int64{seats[0], seats[1]}},
		{todayShowIDs[0], "Anita Desai", "anita.d@example.com", "+91-9900112233",
			"250.00", "250.00", "Refunded", "Cancelled", []int64{seats[3]}},
		{todayShowIDs[1], "Joseph Mathew", "joseph.m@example.com", "+91-9812345678",
			"600.00", "300.00", "Pending", "Confirmed", []int64{seats[6], seats[7]}},
	}
	for _, b := range bookings {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (show_id, customer_name, customer_email, customer_phone, total_amount, payment_status, booking_status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.showID, b.name, b.email, b.phone, b.total, b.paymentStatus, b.bookingStatus)
		if err != nil {
			return fmt.Errorf("seed bookings: %w", err)
		}
		bookingID, _ := res.LastInsertId()
		for _, seatID := range b.seatIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO booking_seats (booking_id, seat_id, seat_price) VALUES (?, ?, ?)`,
				bookingID, seatID, b.seatPrice); err != nil {
				return fmt.Errorf("seed booking seats: %w", err)
			}
		}
	}
	return nil
}
