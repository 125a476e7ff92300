package models

import "time"

// Program is a degree program such as BTECH or MBA.
type Program struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"BTECH"`
	Code      string    `json:"code" db:"code" example:"BT"`
	Duration  int       `json:"duration" db:"duration" example:"4"` // years
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Branch is a discipline within a program, optionally with a specialisation.
type Branch struct {
	ID             int64     `json:"id" db:"id"`
	Program        string    `json:"program" db:"program" example:"BTECH"`
	Name           string    `json:"name" db:"name" example:"CSE"`
	Specialisation string    `json:"specialisation" db:"specialisation" example:"AI & ML"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Batch is the cohort admitted to a program and branch in one year.
type Batch struct {
	ID           int64     `json:"id" db:"id"`
	Program      string    `json:"program" db:"program" example:"BTECH"`
	Branch       string    `json:"branch" db:"branch" example:"CSE"`
	AdmittedYear int       `json:"admittedYear" db:"admitted_year" example:"2023"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
