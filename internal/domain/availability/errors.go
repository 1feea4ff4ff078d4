package availability

import "errors"

var (
	ErrAvailabilityNotFound = errors.New("no availability declared for this doctor and date")
	ErrAvailabilityExists   = errors.New("availability already declared for this doctor and date")
	ErrWindowBoundsRequired = errors.New("an enabled session requires both start and end times")
	ErrInvalidTimeOfDay     = errors.New("time of day must be in HH:MM format")
	ErrWindowOrder          = errors.New("session start must be before session end")
	ErrNoSessionEnabled     = errors.New("at least one session must be enabled")
	ErrInvalidSession       = errors.New("session must be morning or evening")
)
