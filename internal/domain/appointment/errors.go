package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrCancelWindowClosed      = errors.New("appointment can no longer be canceled")
	ErrInvalidMode             = errors.New("appointment mode must be online or in_person")

	// ErrSessionUnavailable maps to the booking contract's unavailable case:
	// no availability row for the date, or the session flag is off.
	ErrSessionUnavailable = errors.New("doctor is not available for this date and session")

	// ErrSessionFullyBooked maps to the capacity case: another non-canceled
	// appointment already consumes the session.
	ErrSessionFullyBooked = errors.New("session is already booked")

	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrTreatmentExists   = errors.New("a treatment is already recorded for this appointment")
	ErrDiagnosisRequired = errors.New("diagnosis is required")
)
