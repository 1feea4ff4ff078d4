package doctor

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrMobileNumberTaken = errors.New("mobile number is already registered")
	ErrInvalidExperience = errors.New("experience years must be a non-negative integer")
	ErrInvalidStatus     = errors.New("invalid doctor status")
)
