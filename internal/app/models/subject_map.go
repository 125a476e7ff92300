package models

import "time"

// SubjectMap binds one faculty member to a subject for a batch and semester.
// (Program, Branch, AdmittedYear, Semester, SubjectID) is unique; remapping
// the same tuple rebinds the faculty.
type SubjectMap struct {
	ID           int64     `json:"id" db:"id"`
	Program      string    `json:"program" db:"program" example:"BTECH"`
	Branch       string    `json:"branch" db:"branch" example:"CSE"`
	AdmittedYear int       `json:"admittedYear" db:"admitted_year" example:"2023"`
	Year         int       `json:"year" db:"year" example:"2"`
	Semester     int       `json:"semester" db:"semester" example:"3"`
	SubjectID    int64     `json:"subjectId" db:"subject_id"`
	FacultyID    int64     `json:"facultyId" db:"faculty_id"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	Subject *Subject `json:"subject,omitempty"`
	Faculty *Faculty `json:"faculty,omitempty"`
}
