package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"movie-booking-catalog/internal/database"
)

// testDB is the shared handle for repository tests.  It stays nil when the
// TEST_DB_* environment is not configured; requireDB then skips each test
// so the pure unit tests in this package still run.
var testDB *sql.DB

func TestMain(m *testing.M) {
	name := os.Getenv("TEST_DB_NAME")
	if name == "" {
		log.Println("TEST_DB_NAME not set; skipping database-backed repository tests")
		os.Exit(m.Run())
	}

	user := envOr("TEST_DB_USER", "root")
	pass := os.Getenv("TEST_DB_PASS")
	host := envOr("TEST_DB_HOST", "127.0.0.1")
	port := envOr("TEST_DB_PORT", "3306")

	db, err := database.Open(user, pass, host, port, name)
	if err != nil {
		log.Fatalf("open test database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate test database: %v", err)
	}
	cancel()

	testDB = db
	code := m.Run()
	db.Close()
	os.Exit(code)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// requireDB skips the test when no test database is configured.
func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DB_NAME not set")
	}
}

// truncateAll clears every table while keeping the schema.  Foreign key
// checks are disabled for the duration since TRUNCATE refuses to run on
// referenced tables.
func truncateAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := testDB.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		t.Fatalf("disable fk checks: %v", err)
	}
	for _, table := range []string{
		"seat_holds", "booking_seats", "bookings", "shows", "seats", "halls", "movies", "theaters",
	} {
		if _, err := testDB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	if _, err := testDB.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		t.Fatalf("enable fk checks: %v", err)
	}
}

func createTestTheater(t *testing.T, name, city string) uint64 {
	t.Helper()
	return insertRow(t, `INSERT INTO theaters (name, location, city, state, pincode, contact_number)
	                     VALUES (?, 'Forum Mall', ?, 'Karnataka', '560001', '080-1111')`, name, city)
}

func createTestHall(t *testing.T, theaterID uint64, name string, capacity uint32) uint64 {
	t.Helper()
	return insertRow(t, `INSERT INTO halls (theater_id, name, seating_capacity, screen_type)
	                     VALUES (?, ?, ?, 'Standard')`, theaterID, name, capacity)
}

func createTestMovie(t *testing.T, title, language string, duration uint32) uint64 {
	t.Helper()
	return insertRow(t, `INSERT INTO movies (title, language, format, rating, duration_minutes, genre, release_date)
	                     VALUES (?, ?, '2D', 'UA', ?, 'Drama', '2023-03-30')`, title, language, duration)
}

func createTestSeat(t *testing.T, hallID uint64, row string, number uint32) uint64 {
	t.Helper()
	return insertRow(t, `INSERT INTO seats (hall_id, row_label, seat_number, seat_type)
	                     VALUES (?, ?, ?, 'Regular')`, hallID, row, number)
}

func createTestShow(t *testing.T, movieID, hallID uint64, date, start string) uint64 {
	t.Helper()
	return insertRow(t, `INSERT INTO shows (movie_id, hall_id, show_date, start_time, end_time, base_price)
	                     VALUES (?, ?, ?, ?, ADDTIME(?, '02:30:00'), 250.00)`,
		movieID, hallID, date, start, start)
}

func createTestBooking(t *testing.T, showID uint64, email, status, payment string) uint64 {
	t.Helper()
	return insertRow(t, `INSERT INTO bookings (show_id, customer_name, customer_email, customer_phone, total_amount, payment_status, booking_status)
	                     VALUES (?, 'Test Customer', ?, '9999999999', 500.00, ?, ?)`,
		showID, email, payment, status)
}

func addBookingSeat(t *testing.T, bookingID, seatID uint64) {
	t.Helper()
	insertRow(t, `INSERT INTO booking_seats (booking_id, seat_id, seat_price) VALUES (?, ?, 250.00)`,
		bookingID, seatID)
}

func insertRow(t *testing.T, query string, args ...interface{}) uint64 {
	t.Helper()
	res, err := testDB.ExecContext(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("insert fixture: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("fixture id: %v", err)
	}
	return uint64(id)
}

// countRows returns the number of rows in a table matching the condition.
func countRows(t *testing.T, table, cond string, args ...interface{}) int {
	t.Helper()
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if cond != "" {
		q += " WHERE " + cond
	}
	var n int
	if err := testDB.QueryRowContext(context.Background(), q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// today returns the current date in the format the shows table stores.
func today() string {
	return time.Now().Format("2006-01-02")
}
