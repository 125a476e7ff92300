package dto

// StudentRequest creates or updates a student. DOB accepts 2004-05-01,
// 01-05-2004 or 01/05/2004.
type StudentRequest struct {
	RollNo         string `json:"rollNo" binding:"required,rollno" example:"21A91A0501"`
	Name           string `json:"name" binding:"required,max=150" example:"A. Kumar"`
	Email          string `json:"email" binding:"omitempty,email" example:"kumar@college.edu"`
	DOB            string `json:"dob" binding:"required" example:"2004-05-01"`
	Program        string `json:"program" binding:"required" example:"BTECH"`
	Branch         string `json:"branch" example:"CSE"`
	Specialisation string `json:"specialisation"`
	AdmittedYear   int    `json:"admittedYear" binding:"required,min=1990,max=2100" example:"2023"`
	Regulation     string `json:"regulation" example:"R20"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

// BulkStudentsRequest is the body of POST /admin/students/bulk
type BulkStudentsRequest struct {
	Students []StudentRequest `json:"students" binding:"required,min=1"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Program      string `form:"program"`
	Branch       string `form:"branch"`
	AdmittedYear int    `form:"admittedYear"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	Size         int    `form:"size"`
}

// StudentListResponse is a page of students.
type StudentListResponse struct {
	Students   interface{}    `json:"students"`
	Pagination PaginationInfo `json:"pagination"`
}
