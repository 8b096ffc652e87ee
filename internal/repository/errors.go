// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: not-found lookups,
// seats lost to a competing booking, invalid status transitions, and
// consistency defects detected by the availability computation.  Constraint
// violations raised by MySQL are translated into ConstraintError values that
// name the violated constraint instead of leaking driver error codes.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrTheaterNotFound is returned when a theater lookup fails.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrMovieNotFound is returned when a movie lookup fails.
var ErrMovieNotFound = errors.New("movie not found")

// ErrSeatNotFound is returned when a seat lookup fails.
var ErrSeatNotFound = errors.New("seat not found")

// ErrShowNotFound is returned when a show lookup fails.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatsUnavailable is returned by the reservation path when at least one
// requested seat is already reserved under a Confirmed booking or held by
// another customer.
var ErrSeatsUnavailable = errors.New("seats unavailable")

// ErrSeatNotInHall is returned when a reservation or hold names a seat that
// exists but belongs to a different hall than the show's.  The seat foreign
// key cannot catch this; accepting such a seat would inflate the show's
// booked count past the hall's capacity.
var ErrSeatNotInHall = errors.New("seat does not belong to the show's hall")

// ErrInvalidTransition is returned when a status update would violate the
// booking or payment state machine (e.g. cancelling a Cancelled booking).
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrOverbooked indicates a consistency defect: Confirmed booking seats for
// a show exceed the hall's seating capacity, which means the write path
// admitted overlapping reservations.  It is surfaced for alerting and never
// masked by clamping availability to zero.
var ErrOverbooked = errors.New("confirmed seats exceed hall capacity")

// Constraint kinds reported in ConstraintError.Kind.
const (
	ConstraintUnique     = "unique"
	ConstraintForeignKey = "foreign key"
	ConstraintCheck      = "check"
	ConstraintNotNull    = "not null"
)

// ConstraintError reports that a write was rejected by a schema constraint.
// Constraint carries the constraint (or column) name as declared in the DDL,
// such as "uq_shows_hall_date_start", so callers can tell the user exactly
// which rule the write violated.
type ConstraintError struct {
	Kind       string // one of the Constraint* kinds above
	Constraint string // constraint or column name from the DDL
	Err        error  // underlying driver error
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint %q violated: %v", e.Kind, e.Constraint, e.Err)
}

// Unwrap exposes the underlying driver error for errors.As chains.
func (e *ConstraintError) Unwrap() error { return e.Err }

// translateError converts MySQL driver errors for constraint violations into
// ConstraintError values.  Any other error is returned unchanged, so it is
// safe to wrap every Exec/Scan error with it.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case 1062: // ER_DUP_ENTRY: Duplicate entry '...' for key 'table.key_name'
		return &ConstraintError{Kind: ConstraintUnique, Constraint: lastQuoted(me.Message), Err: err}
	case 1452: // ER_NO_REFERENCED_ROW_2: ... CONSTRAINT `fk_name` FOREIGN KEY ...
		return &ConstraintError{Kind: ConstraintForeignKey, Constraint: backtickedAfter(me.Message, "CONSTRAINT "), Err: err}
	case 3819: // ER_CHECK_CONSTRAINT_VIOLATED: Check constraint 'chk_name' is violated.
		return &ConstraintError{Kind: ConstraintCheck, Constraint: lastQuoted(me.Message), Err: err}
	case 1048: // ER_BAD_NULL_ERROR: Column 'name' cannot be null
		return &ConstraintError{Kind: ConstraintNotNull, Constraint: firstQuoted(me.Message), Err: err}
	}
	return err
}

// lastQuoted extracts the last single-quoted token from a driver message,
// stripping any "table." prefix MySQL 8 adds to key names.
func lastQuoted(msg string) string {
	end := strings.LastIndexByte(msg, '\'')
	if end <= 0 {
		return ""
	}
	start := strings.LastIndexByte(msg[:end], '\'')
	if start < 0 {
		return ""
	}
	name := msg[start+1 : end]
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// firstQuoted extracts the first single-quoted token from a driver message.
func firstQuoted(msg string) string {
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// backtickedAfter extracts the first backtick-quoted token following the
// given marker in a driver message.
func backtickedAfter(msg, marker string) string {
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	start := strings.IndexByte(rest, '`')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(rest[start+1:], '`')
	if end < 0 {
		return ""
	}
	return rest[start+1 : start+1+end]
}
