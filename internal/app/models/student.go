package models

import (
	"time"

	"github.com/yigit/campusfeedback/internal/pkg/academic"
)

// Student is an enrolled student. Year and semester are not stored; see
// academic.DeriveStanding.
type Student struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	RollNo         string    `json:"rollNo" db:"roll_no" example:"21A91A0501"`
	Name           string    `json:"name" db:"name" example:"A. Kumar"`
	Email          string    `json:"email" db:"email" example:"kumar@college.edu"`
	DOB            time.Time `json:"-" db:"dob"`
	Program        string    `json:"program" db:"program" example:"BTECH"`
	Branch         string    `json:"branch" db:"branch" example:"CSE"`
	Specialisation string    `json:"specialisation" db:"specialisation"`
	AdmittedYear   int       `json:"admittedYear" db:"admitted_year" example:"2023"`
	Regulation     string    `json:"regulation" db:"regulation" example:"R20"`
	PasswordHash   *string   `json:"-" db:"password_hash"`
	IsActive       bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Computed on read
	Standing *academic.Standing `json:"standing,omitempty"`
}

// HasPassword reports whether the student replaced the DOB credential.
func (s *Student) HasPassword() bool {
	return s.PasswordHash != nil && *s.PasswordHash != ""
}
