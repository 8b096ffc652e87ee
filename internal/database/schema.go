package database

// This file holds the full catalog schema as Go string constants and a
// Migrate helper that applies them.  Keeping the DDL next to the code that
// depends on it makes the constraint names visible to the repository layer,
// which reports them back to callers when an insert or update is rejected.
//
// Entity shape:
//   theaters -> halls -> seats
//   movies + halls -> shows -> bookings -> booking_seats
//   shows + seats  -> seat_holds (checkout holds, expire automatically)
// Every child table declares ON DELETE CASCADE, so deleting a theater
// transitively removes its halls, seats, shows, bookings and booking seats.

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements lists every DDL statement in dependency order.  Each
// statement is idempotent (CREATE TABLE IF NOT EXISTS) so Migrate can run on
// every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS theaters (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(100) NOT NULL,
		pincode VARCHAR(10) NOT NULL,
		contact_number VARCHAR(20) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_theaters_city (city),
		KEY idx_theaters_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS halls (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		theater_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(100) NOT NULL,
		seating_capacity INT UNSIGNED NOT NULL,
		screen_type VARCHAR(50) NOT NULL DEFAULT 'Standard',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_halls_theater_name (theater_id, name),
		CONSTRAINT fk_halls_theater FOREIGN KEY (theater_id)
			REFERENCES theaters (id) ON DELETE CASCADE,
		CONSTRAINT chk_halls_capacity CHECK (seating_capacity > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		language VARCHAR(50) NOT NULL,
		format VARCHAR(20) NOT NULL DEFAULT '2D',
		rating VARCHAR(10) NOT NULL DEFAULT 'U',
		duration_minutes INT UNSIGNED NOT NULL,
		genre VARCHAR(100) NOT NULL,
		release_date DATE NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_movies_title (title),
		KEY idx_movies_language (language),
		CONSTRAINT chk_movies_duration CHECK (duration_minutes > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		hall_id BIGINT UNSIGNED NOT NULL,
		row_label VARCHAR(5) NOT NULL,
		seat_number INT UNSIGNED NOT NULL,
		seat_type VARCHAR(20) NOT NULL DEFAULT 'Regular',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_seats_hall_row_number (hall_id, row_label, seat_number),
		CONSTRAINT fk_seats_hall FOREIGN KEY (hall_id)
			REFERENCES halls (id) ON DELETE CASCADE,
		CONSTRAINT chk_seats_number CHECK (seat_number > 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS shows (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		movie_id BIGINT UNSIGNED NOT NULL,
		hall_id BIGINT UNSIGNED NOT NULL,
		show_date DATE NOT NULL,
		start_time TIME NOT NULL,
		end_time TIME NOT NULL,
		base_price DECIMAL(8,2) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_shows_hall_date_start (hall_id, show_date, start_time),
		KEY idx_shows_date (show_date),
		KEY idx_shows_movie (movie_id),
		KEY idx_shows_hall (hall_id),
		KEY idx_shows_date_hall (show_date, hall_id),
		CONSTRAINT fk_shows_movie FOREIGN KEY (movie_id)
			REFERENCES movies (id) ON DELETE CASCADE,
		CONSTRAINT fk_shows_hall FOREIGN KEY (hall_id)
			REFERENCES halls (id) ON DELETE CASCADE,
		CONSTRAINT chk_shows_price CHECK (base_price >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		show_id BIGINT UNSIGNED NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(20) NOT NULL,
		booking_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		total_amount DECIMAL(10,2) NOT NULL,
		payment_status ENUM('Pending','Completed','Failed','Refunded')
			NOT NULL DEFAULT 'Pending',
		booking_status ENUM('Confirmed','Cancelled','Expired')
			NOT NULL DEFAULT 'Confirmed',
		PRIMARY KEY (id),
		KEY idx_bookings_show (show_id),
		KEY idx_bookings_email (customer_email),
		KEY idx_bookings_date (booking_date),
		CONSTRAINT fk_bookings_show FOREIGN KEY (show_id)
			REFERENCES shows (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS booking_seats (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id BIGINT UNSIGNED NOT NULL,
		seat_id BIGINT UNSIGNED NOT NULL,
		seat_price DECIMAL(8,2) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_booking_seats_booking_seat (booking_id, seat_id),
		KEY idx_booking_seats_booking (booking_id),
		KEY idx_booking_seats_seat (seat_id),
		CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id)
			REFERENCES bookings (id) ON DELETE CASCADE,
		CONSTRAINT fk_booking_seats_seat FOREIGN KEY (seat_id)
			REFERENCES seats (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seat_holds (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		show_id BIGINT UNSIGNED NOT NULL,
		seat_id BIGINT UNSIGNED NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		hold_token CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_seat_holds_show_seat (show_id, seat_id),
		KEY idx_seat_holds_email (customer_email),
		CONSTRAINT fk_seat_holds_show FOREIGN KEY (show_id)
			REFERENCES shows (id) ON DELETE CASCADE,
		CONSTRAINT fk_seat_holds_seat FOREIGN KEY (seat_id)
			REFERENCES seats (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statements in order.  Statements are executed
// one at a time because the connection is opened without multiStatements.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: statement %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Drop removes every catalog table.  Order matters only for readability;
// foreign key checks are disabled for the duration so the statement list can
// stay in sync with schemaStatements.  Used by the teardown path and tests.
func Drop(ctx context.Context, db *sql.DB) error {
	tables := []string{
		"seat_holds", "booking_seats", "bookings", "shows",
		"seats", "movies", "halls", "theaters",
	}
	if _, err := db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		return err
	}
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+t); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1")
	return err
}
