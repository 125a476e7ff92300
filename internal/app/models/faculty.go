package models

import "time"

// Faculty is a teaching staff member. Faculty do not log in; they are the
// subject of feedback through subject mappings.
type Faculty struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	FacultyCode string    `json:"facultyId" db:"faculty_code" example:"FAC1023"`
	Name        string    `json:"name" db:"name" example:"Dr. S. Iyer"`
	Email       string    `json:"email" db:"email" example:"iyer@college.edu"`
	Branch      string    `json:"branch" db:"branch" example:"CSE"`
	Designation string    `json:"designation" db:"designation" example:"Associate Professor"`
	IsActive    bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
