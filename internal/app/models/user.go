package models

import (
	"time"
)

// StaffAccount is a login for an administrator, HOD, principal or vice
// principal. HODs are bound to one program and branch.
type StaffAccount struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"hod_cse"`
	Email        string    `json:"email" db:"email" example:"hod.cse@college.edu"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name" example:"Dr. K. Rao"`
	Role         Role      `json:"role" db:"role" example:"HOD"`
	Program      string    `json:"program" db:"program" example:"BTECH"`
	Branch       string    `json:"branch" db:"branch" example:"CSE"`
	Designation  string    `json:"designation" db:"designation" example:"HOD"`
	IsActive     bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
