package dto

import (
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
)

// PublishWindowRequest opens (or reopens) the caller's feedback window for a
// year and semester. SaveDraft stores it without opening it.
type PublishWindowRequest struct {
	Year         int       `json:"year" binding:"required,min=1,max=6" example:"2"`
	Semester     int       `json:"semester" binding:"required,min=1,max=12" example:"3"`
	StartDate    time.Time `json:"startDate" binding:"required" example:"2025-03-01T09:00:00Z"`
	EndDate      time.Time `json:"endDate" binding:"required,gtefield=StartDate" example:"2025-03-10T18:00:00Z"`
	AcademicYear string    `json:"academicYear" binding:"omitempty,academicyear" example:"2024-25"`
}

// QuestionRequest is one criterion in a full question set replacement.
// Questions with an ID keep it; new ones get one.
type QuestionRequest struct {
	ID       int64  `json:"id,omitempty"`
	SerialNo int    `json:"serialNo" binding:"omitempty,min=1" example:"1"`
	Criteria string `json:"criteria" binding:"required,max=500" example:"Clarity of explanation"`
}

// ReplaceQuestionsRequest is the body of PUT /admin/feedback-questions
type ReplaceQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// RatingRequest is a single rating on a question.
type RatingRequest struct {
	QuestionID int64 `json:"questionId" binding:"required,min=1"`
	Rating     int   `json:"rating" binding:"required,min=1,max=5"`
}

// SubmitFeedbackRequest is one student's response set for a subject mapping.
type SubmitFeedbackRequest struct {
	SubjectMapID int64           `json:"subjectMapId" binding:"required,min=1"`
	Responses    []RatingRequest `json:"responses" binding:"required,min=1,dive"`
	Comments     string          `json:"comments" binding:"max=2000"`
}

// FeedbackStatusResponse tells a student whether they already responded.
type FeedbackStatusResponse struct {
	SubjectMapID int64      `json:"subjectMapId"`
	WindowID     int64      `json:"windowId,omitempty"`
	Submitted    bool       `json:"submitted"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
}

// StudentSubject is a subject mapping of the student's current semester
// with its submission status.
type StudentSubject struct {
	models.SubjectMap
	FeedbackSubmitted bool `json:"feedbackSubmitted"`
}

// StudentProfile is a student with the derived standing.
type StudentProfile struct {
	*models.Student
	CurrentYear int `json:"currentYear"`
	Semester    int `json:"semester"`
}

// AnalyticsQuery selects the window to aggregate, either by ID or by
// year and semester (plus academic year when several windows exist).
// Program and branch are only honoured for principal-level callers.
type AnalyticsQuery struct {
	WindowID     int64  `form:"windowId"`
	Program      string `form:"program"`
	Branch       string `form:"branch"`
	Year         int    `form:"year"`
	Semester     int    `form:"semester"`
	AcademicYear string `form:"academicYear"`
}

// QuestionRatingResponse is the aggregate of one question for one mapping.
type QuestionRatingResponse struct {
	QuestionID     int64   `json:"questionId"`
	Criteria       string  `json:"criteria"`
	Rating         float64 `json:"rating" example:"0.7"`
	Percentage     float64 `json:"percentage" example:"70"`
	OutOf          int     `json:"outOf" example:"5"`
	TotalResponses int     `json:"totalResponses"`
}

// MappingAnalytics is the aggregate for one subject-faculty mapping.
type MappingAnalytics struct {
	SubjectMap        models.SubjectMap        `json:"subjectMap"`
	Faculty           *models.Faculty          `json:"faculty"`
	Subject           *models.Subject          `json:"subject"`
	TotalResponses    int                      `json:"totalResponses"`
	TotalQuestions    int                      `json:"totalQuestions"`
	AverageRatings    []QuestionRatingResponse `json:"averageRatings"`
	OverallRating     float64                  `json:"overallRating"`
	OverallPercentage float64                  `json:"overallPercentage"`
	MaxRating         int                      `json:"maxRating"`
}

// AnalyticsResponse is the analytics of one window.
type AnalyticsResponse struct {
	Window    models.WindowView  `json:"window"`
	Analytics []MappingAnalytics `json:"analytics"`
}

// HODDashboardStats summarises the HOD's program and branch.
type HODDashboardStats struct {
	TotalStudents  int64 `json:"totalStudents"`
	TotalBatches   int64 `json:"totalBatches"`
	TotalSemesters int64 `json:"totalSemesters"`
	TotalFaculty   int64 `json:"totalFaculty"`
	OpenWindows    int64 `json:"openWindows"`
}

// InstitutionStats is the admin and principal overview.
type InstitutionStats struct {
	Programs  int64 `json:"programs"`
	Batches   int64 `json:"batches"`
	Students  int64 `json:"students"`
	Faculty   int64 `json:"faculty"`
	Subjects  int64 `json:"subjects"`
	HODs      int64 `json:"hods"`
	Windows   int64 `json:"windows"`
	Feedbacks int64 `json:"feedbacks"`
}

// DepartmentStats is one program and branch in the principal's breakdown.
type DepartmentStats struct {
	Program   string `json:"program"`
	Branch    string `json:"branch"`
	Students  int64  `json:"students"`
	Subjects  int64  `json:"subjects"`
	Feedbacks int64  `json:"feedbacks"`
}
