package patient

import "errors"

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrMobileNumberTaken  = errors.New("mobile number is already registered")
	ErrPatientBlacklisted = errors.New("operation not permitted: patient is blacklisted")
	ErrInvalidBloodGroup  = errors.New("invalid blood group")
	ErrInvalidMeasurement = errors.New("height and weight must be positive")
	ErrInvalidDateOfBirth = errors.New("date of birth cannot be in the future")
)
