package repository

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run without a database: they feed translateError the message
// shapes the MySQL 8 server actually produces.

func TestTranslateErrorPassThrough(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, translateError(plain))

	// An errno we do not classify stays a raw driver error.
	unknown := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.Same(t, error(unknown), translateError(unknown))
}

func TestTranslateErrorDuplicateKey(t *testing.T) {
	src := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry '3-2026-09-01-18:45:00' for key 'shows.uq_shows_hall_date_start'",
	}
	err := translateError(src)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintUnique, ce.Kind)
	// The "table." prefix MySQL 8 adds to the key name is stripped.
	assert.Equal(t, "uq_shows_hall_date_start", ce.Constraint)
	assert.ErrorIs(t, err, error(src))
}

func TestTranslateErrorForeignKey(t *testing.T) {
	src := &mysql.MySQLError{
		Number: 1452,
		Message: "Cannot add or update a child row: a foreign key constraint fails " +
			"(`movie_booking`.`halls`, CONSTRAINT `fk_halls_theater` FOREIGN KEY (`theater_id`) " +
			"REFERENCES `theaters` (`id`) ON DELETE CASCADE)",
	}
	err := translateError(src)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintForeignKey, ce.Kind)
	assert.Equal(t, "fk_halls_theater", ce.Constraint)
}

func TestTranslateErrorCheckConstraint(t *testing.T) {
	src := &mysql.MySQLError{
		Number:  3819,
		Message: "Check constraint 'chk_movies_duration' is violated.",
	}
	err := translateError(src)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintCheck, ce.Kind)
	assert.Equal(t, "chk_movies_duration", ce.Constraint)
}

func TestTranslateErrorNotNull(t *testing.T) {
	src := &mysql.MySQLError{
		Number:  1048,
		Message: "Column 'customer_email' cannot be null",
	}
	err := translateError(src)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintNotNull, ce.Kind)
	assert.Equal(t, "customer_email", ce.Constraint)
}

func TestConstraintErrorMessage(t *testing.T) {
	ce := &ConstraintError{
		Kind:       ConstraintUnique,
		Constraint: "uq_booking_seats_booking_seat",
		Err:        errors.New("Error 1062"),
	}
	assert.Equal(t, `unique constraint "uq_booking_seats_booking_seat" violated: Error 1062`, ce.Error())
}

func TestQuotedTokenParsers(t *testing.T) {
	assert.Equal(t, "uq_x", lastQuoted("Duplicate entry 'a-b' for key 'uq_x'"))
	assert.Equal(t, "uq_x", lastQuoted("for key 'seats.uq_x'"))
	assert.Equal(t, "", lastQuoted("no quotes here"))

	assert.Equal(t, "col", firstQuoted("Column 'col' cannot be null"))
	assert.Equal(t, "", firstQuoted("Column col cannot be null"))

	assert.Equal(t, "fk_y", backtickedAfter("blah CONSTRAINT `fk_y` FOREIGN KEY", "CONSTRAINT "))
	assert.Equal(t, "", backtickedAfter("no marker", "CONSTRAINT "))
}
