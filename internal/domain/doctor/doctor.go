package doctor

import (
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusBlacklisted Status = "blacklisted"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBlacklisted:
		return true
	}
	return false
}

// Doctor is the profile extension for accounts with the doctor role. Exactly
// one doctor belongs to exactly one department.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;uniqueIndex;not null"`

	Name            string        `gorm:"column:name;type:varchar(64);not null"`
	Gender          domain.Gender `gorm:"column:gender;type:varchar(10);not null"`
	DateOfBirth     time.Time     `gorm:"column:date_of_birth;type:date;not null"`
	MobileNumber    string        `gorm:"column:mobile_number;type:varchar(15);uniqueIndex;not null"`
	Qualification   string        `gorm:"column:qualification;type:varchar(100);not null"`
	Specialization  string        `gorm:"column:specialization;type:varchar(100);not null"`
	ExperienceYears int           `gorm:"column:experience_years;default:0"`

	Status       Status    `gorm:"column:status;type:varchar(20);not null;default:'active';index"`
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null;index"`
}

func (Doctor) TableName() string {
	return "directory.doctors"
}

func (d *Doctor) IsActive() bool {
	return d.Status == StatusActive
}

type CreateDoctorCommand struct {
	Username        string
	Email           string
	Password        string
	Name            string
	DepartmentID    uuid.UUID
	Gender          domain.Gender
	DateOfBirth     time.Time
	MobileNumber    string
	Qualification   string
	Specialization  string
	ExperienceYears int
}

type UpdateDoctorCommand struct {
	Name            *string
	Gender          *domain.Gender
	DateOfBirth     *time.Time
	MobileNumber    *string
	Qualification   *string
	Specialization  *string
	ExperienceYears *int
	Status          *Status
	DepartmentID    *uuid.UUID
}

type ListDoctorsQuery struct {
	DepartmentID *uuid.UUID
	Status       *Status
}
