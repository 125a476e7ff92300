package models

import "time"

// Subject is a course taught in a given year and semester of a program.
type Subject struct {
	ID          int64     `json:"id" db:"id"`
	SubjectCode string    `json:"subjectCode" db:"subject_code" example:"CS301"`
	Name        string    `json:"subjectName" db:"name" example:"Operating Systems"`
	Program     string    `json:"program" db:"program" example:"BTECH"`
	Branch      string    `json:"branch" db:"branch" example:"CSE"`
	Regulation  string    `json:"regulation" db:"regulation" example:"R20"`
	Year        int       `json:"year" db:"year" example:"3"`
	Semester    int       `json:"semester" db:"semester" example:"5"`
	Type        string    `json:"type" db:"type" example:"Theory"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
