package dto

// FacultyRequest creates or updates a faculty member.
type FacultyRequest struct {
	FacultyCode string `json:"facultyId" binding:"required,facultycode" example:"FAC1023"`
	Name        string `json:"name" binding:"required,max=150" example:"Dr. S. Iyer"`
	Email       string `json:"email" binding:"required,email" example:"iyer@college.edu"`
	Branch      string `json:"branch" example:"CSE"`
	Designation string `json:"designation" example:"Associate Professor"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// BulkFacultyRequest is the body of POST /admin/faculty/bulk
type BulkFacultyRequest struct {
	Faculty []FacultyRequest `json:"faculty" binding:"required,min=1"`
}

// FacultyFilter narrows faculty listings.
type FacultyFilter struct {
	Branch string `form:"branch"`
	Search string `form:"search"`
}

// SubjectRequest creates or updates a subject.
type SubjectRequest struct {
	SubjectCode string `json:"subjectCode" binding:"required,max=50" example:"CS301"`
	Name        string `json:"subjectName" binding:"required,max=200" example:"Operating Systems"`
	Program     string `json:"program" binding:"required" example:"BTECH"`
	Branch      string `json:"branch" example:"CSE"`
	Regulation  string `json:"regulation" example:"R20"`
	Year        int    `json:"year" binding:"required,min=1,max=6" example:"3"`
	Semester    int    `json:"semester" binding:"required,min=1,max=12" example:"5"`
	Type        string `json:"type" example:"Theory"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// BulkSubjectsRequest is the body of POST /admin/subjects/bulk
type BulkSubjectsRequest struct {
	Subjects []SubjectRequest `json:"subjects" binding:"required,min=1"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	Program  string `form:"program"`
	Branch   string `form:"branch"`
	Semester int    `form:"semester"`
}

// SubjectMapRequest binds a faculty member to a subject for a batch and
// semester. Subject and faculty may be given by ID or by code.
type SubjectMapRequest struct {
	Program      string `json:"program" binding:"required" example:"BTECH"`
	Branch       string `json:"branch" example:"CSE"`
	AdmittedYear int    `json:"admittedYear" binding:"required,min=1990,max=2100" example:"2023"`
	Year         int    `json:"year" binding:"required,min=1,max=6" example:"2"`
	Semester     int    `json:"semester" binding:"required,min=1,max=12" example:"3"`
	SubjectID    int64  `json:"subjectId" example:"12"`
	FacultyID    int64  `json:"facultyId" example:"4"`
	SubjectCode  string `json:"subjectCode" example:"CS301"`
	FacultyCode  string `json:"facultyCode" example:"FAC1023"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// BulkSubjectMapsRequest is the body of POST /admin/subject-mapping/bulk
type BulkSubjectMapsRequest struct {
	Mappings []SubjectMapRequest `json:"mappings" binding:"required,min=1"`
}

// SubjectMapFilter narrows subject mapping listings.
type SubjectMapFilter struct {
	Program      string `form:"program"`
	Branch       string `form:"branch"`
	AdmittedYear int    `form:"admittedYear"`
	Semester     int    `form:"semester"`
}
