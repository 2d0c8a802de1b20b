package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record behind registration and login.
type User struct {
	ID             uuid.UUID
	FullName       string
	Username       string
	DOB            string
	GenderID       *int64
	Address        string
	Email          string
	Phone          string
	AlternatePhone string
	PasswordHash   string
	EmailVerified  bool
	PhoneVerified  bool
	RoleID         *int64
	DepartmentID   *int64
	StatusID       *int64
	ProfileImage   string
	Active         bool
	AccountLocked  bool
	FailedAttempts int
	LastLogin      *time.Time
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserListing is a user row joined with its reference display names.
type UserListing struct {
	User
	RoleName       string
	DepartmentName string
	StatusName     string
}

// Lookup is a reference list entry (role, department or status).
type Lookup struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"is_active"`
}

// Dropdowns bundles the reference lists used to populate forms.
type Dropdowns struct {
	Roles       []Lookup `json:"roles"`
	Departments []Lookup `json:"departments"`
	Statuses    []Lookup `json:"status"`
}
