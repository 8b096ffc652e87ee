package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired} {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, BookingStatus("Pending").IsValid())
	assert.False(t, BookingStatus("confirmed").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusExpired, true},
		{BookingStatusConfirmed, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusExpired, false},
		{BookingStatusExpired, BookingStatusConfirmed, false},
		{BookingStatusExpired, BookingStatusCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentStatusIsValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded} {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, PaymentStatus("Confirmed").IsValid())
	assert.False(t, PaymentStatus("").IsValid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		ok       bool
	}{
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusCompleted, PaymentStatusRefunded, true},
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusCompleted, PaymentStatusFailed, false},
		{PaymentStatusFailed, PaymentStatusPending, true},
		{PaymentStatusFailed, PaymentStatusCompleted, false},
		{PaymentStatusRefunded, PaymentStatusPending, false},
		{PaymentStatusRefunded, PaymentStatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
