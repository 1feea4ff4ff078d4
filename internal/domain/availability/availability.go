package availability

import (
	"time"

	"github.com/google/uuid"
)

// Session is a bookable half-day unit of an availability window. The source
// schema gives no finer slot subdivision, so one session is one bookable unit.
type Session string

const (
	SessionMorning Session = "morning"
	SessionEvening Session = "evening"
)

func (s Session) IsValid() bool {
	switch s {
	case SessionMorning, SessionEvening:
		return true
	}
	return false
}

// Availability declares the windows on a given date during which a doctor
// accepts bookings. At most one row exists per (doctor, date).
type Availability struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex:idx_availability_doctor_date"`
	Date     time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_availability_doctor_date"`

	MorningStart *string `gorm:"column:morning_start;type:time"`
	MorningEnd   *string `gorm:"column:morning_end;type:time"`
	EveningStart *string `gorm:"column:evening_start;type:time"`
	EveningEnd   *string `gorm:"column:evening_end;type:time"`

	IsAvailableMorning bool `gorm:"column:is_available_morning;default:false"`
	IsAvailableEvening bool `gorm:"column:is_available_evening;default:false"`
}

func (Availability) TableName() string {
	return "directory.doctor_availability"
}

// Validate enforces the window invariant: an enabled session requires both
// bounds present, parseable as HH:MM, and start strictly before end.
func (a *Availability) Validate() error {
	if a.IsAvailableMorning {
		if err := validateWindow(a.MorningStart, a.MorningEnd); err != nil {
			return err
		}
	}
	if a.IsAvailableEvening {
		if err := validateWindow(a.EveningStart, a.EveningEnd); err != nil {
			return err
		}
	}
	if !a.IsAvailableMorning && !a.IsAvailableEvening {
		return ErrNoSessionEnabled
	}
	return nil
}

// SessionOpen reports whether the given session accepts bookings.
func (a *Availability) SessionOpen(s Session) bool {
	switch s {
	case SessionMorning:
		return a.IsAvailableMorning
	case SessionEvening:
		return a.IsAvailableEvening
	}
	return false
}

// WindowFor returns the declared bounds of the given session.
func (a *Availability) WindowFor(s Session) (start, end string, ok bool) {
	switch s {
	case SessionMorning:
		if a.IsAvailableMorning && a.MorningStart != nil && a.MorningEnd != nil {
			return *a.MorningStart, *a.MorningEnd, true
		}
	case SessionEvening:
		if a.IsAvailableEvening && a.EveningStart != nil && a.EveningEnd != nil {
			return *a.EveningStart, *a.EveningEnd, true
		}
	}
	return "", "", false
}

func validateWindow(start, end *string) error {
	if start == nil || end == nil {
		return ErrWindowBoundsRequired
	}
	st, err := time.Parse("15:04", *start)
	if err != nil {
		return ErrInvalidTimeOfDay
	}
	en, err := time.Parse("15:04", *end)
	if err != nil {
		return ErrInvalidTimeOfDay
	}
	if !st.Before(en) {
		return ErrWindowOrder
	}
	return nil
}

type DeclareAvailabilityCommand struct {
	DoctorID           uuid.UUID
	Date               time.Time
	MorningStart       *string
	MorningEnd         *string
	EveningStart       *string
	EveningEnd         *string
	IsAvailableMorning bool
	IsAvailableEvening bool
}
