package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrEmailTaken      = errors.New("email is already registered")
)

// Account is the authentication root. Doctor and Patient profiles extend it
// 1:1 through DoctorID/PatientID.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Username     string `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;index"`

	DoctorID  *uuid.UUID `gorm:"column:doctor_id;type:uuid;index"`
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`

	IsActive    bool       `gorm:"column:is_active;default:true;index"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (Account) TableName() string {
	return "auth.accounts"
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	AccountID   uuid.UUID   `gorm:"column:account_id;type:uuid;not null;index"`
	AccountRole Role        `gorm:"column:account_role;type:varchar(20);not null"`
	IPAddress   string      `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6
	Action      AuditAction `gorm:"column:action;type:varchar(20);not null;index"`

	ResourceType string `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string `gorm:"column:resource_id;type:varchar(50);index"`
	RequestID    string `gorm:"column:request_id;type:varchar(50);index"`
	Changes      string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

// Claims is the request-scoped principal resolved from a verified token.
// Handlers pass it explicitly into every service call; there is no ambient
// session state.
type Claims struct {
	AccountID uuid.UUID  `json:"sub"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	DoctorID  *uuid.UUID `json:"doctor_id,omitempty"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
}
