package department

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department with this name already exists")
	ErrNameRequired       = errors.New("department name is required")
)
