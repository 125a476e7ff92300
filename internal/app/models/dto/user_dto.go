package dto

// HODRequest creates or updates a head of department account. Username
// defaults to the local part of the email.
type HODRequest struct {
	Username    string `json:"username" binding:"omitempty,min=3,max=100" example:"hod_cse"`
	Name        string `json:"name" binding:"required,max=150" example:"Dr. K. Rao"`
	Email       string `json:"email" binding:"required,email" example:"hod.cse@college.edu"`
	Program     string `json:"program" example:"BTECH"`
	Branch      string `json:"branch" binding:"required" example:"CSE"`
	Designation string `json:"designation" example:"HOD"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// BulkHODsRequest is the body of POST /admin/hods/bulk
type BulkHODsRequest struct {
	HODs []HODRequest `json:"hods" binding:"required,min=1"`
}

// CreatedHODResponse reports whether the set-password link went out.
type CreatedHODResponse struct {
	HOD           interface{} `json:"hod"`
	ResetLinkSent bool        `json:"resetLinkSent"`
}

// StaffProfile is the profile of a signed-in staff member.
type StaffProfile struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Program     string `json:"program,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Designation string `json:"designation,omitempty"`
}
