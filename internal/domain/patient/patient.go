package patient

import (
	"time"

	"github.com/google/uuid"
	"github.com/medisched/medisched-api/internal/domain"
)

type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

func (b BloodGroup) IsValid() bool {
	switch b {
	case BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg:
		return true
	}
	return false
}

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive      Status = "active"
	StatusBlacklisted Status = "blacklisted"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusBlacklisted:
		return true
	}
	return false
}

// Patient is the profile extension for accounts with the patient role.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;uniqueIndex;not null"`

	Name        string        `gorm:"column:name;type:varchar(64);not null"`
	Gender      domain.Gender `gorm:"column:gender;type:varchar(10);not null"`
	HeightCm    float64       `gorm:"column:height_cm;not null"`
	WeightKg    float64       `gorm:"column:weight_kg;not null"`
	DateOfBirth time.Time     `gorm:"column:date_of_birth;type:date;not null"`

	MobileNumber string     `gorm:"column:mobile_number;type:varchar(15);uniqueIndex;not null"`
	BloodGroup   BloodGroup `gorm:"column:blood_group;type:varchar(5);not null"`

	Allergies      string `gorm:"column:allergies;type:varchar(256)"`
	MedicalHistory string `gorm:"column:medical_history;type:text"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'active';index"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type CreatePatientCommand struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Gender          domain.Gender
	HeightCm        float64
	WeightKg        float64
	DateOfBirth     time.Time
	MobileNumber    string
	BloodGroup      BloodGroup
	Allergies       string
	MedicalHistory  string
}

// UpdatePatientCommand applies partial updates; nil fields are left unchanged.
type UpdatePatientCommand struct {
	Name           *string
	Gender         *domain.Gender
	HeightCm       *float64
	WeightKg       *float64
	DateOfBirth    *time.Time
	MobileNumber   *string
	BloodGroup     *BloodGroup
	Allergies      *string
	MedicalHistory *string
}
