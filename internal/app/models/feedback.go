package models

import "time"

// FeedbackQuestion is one rating criterion shown to students.
type FeedbackQuestion struct {
	ID        int64     `json:"id" db:"id"`
	SerialNo  int       `json:"serialNo" db:"serial_no" example:"1"`
	Criteria  string    `json:"criteria" db:"criteria" example:"Clarity of explanation"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Feedback is one student's response set for one subject mapping in one window.
type Feedback struct {
	ID           int64              `json:"id" db:"id"`
	StudentID    int64              `json:"studentId" db:"student_id"`
	SubjectMapID int64              `json:"subjectMapId" db:"subject_map_id"`
	WindowID     int64              `json:"windowId" db:"feedback_window_id"`
	Comments     string             `json:"comments,omitempty" db:"comments"`
	SubmittedAt  time.Time          `json:"submittedAt" db:"submitted_at"`
	Responses    []FeedbackResponse `json:"responses"`
}

// FeedbackResponse is a single rating. Criteria is captured at submission so
// later question edits do not rewrite history.
type FeedbackResponse struct {
	QuestionID int64  `json:"questionId" db:"question_id"`
	Criteria   string `json:"criteria" db:"criteria"`
	Rating     int    `json:"rating" db:"rating"`
}
