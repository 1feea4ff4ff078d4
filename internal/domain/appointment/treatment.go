package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment is the single clinical note attached 1:1 to a completed
// appointment. It is never created before its appointment exists.
type Treatment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;uniqueIndex;not null"`

	Diagnosis     string     `gorm:"column:diagnosis;type:text;not null"`
	Prescriptions string     `gorm:"column:prescriptions;type:text"`
	Notes         string     `gorm:"column:notes;type:text"`
	FollowUpDate  *time.Time `gorm:"column:follow_up_date;type:date"`

	RecordedBy uuid.UUID `gorm:"column:recorded_by;type:uuid;not null"`
}

func (Treatment) TableName() string {
	return "clinical.treatments"
}

type RecordTreatmentCommand struct {
	AppointmentID uuid.UUID
	Diagnosis     string
	Prescriptions string
	Notes         string
	FollowUpDate  *time.Time
	RecordedBy    uuid.UUID
}
