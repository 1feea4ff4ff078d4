package service

import (
	"errors"
	"strings"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

// ValidationError reports missing or malformed required fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// FormatError reports a field that was present but unparseable, or a
// password/confirmation mismatch.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

type AuditEntry struct {
	AccountID    interface{} // uuid.UUID
	AccountRole  string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Changes      string
}
