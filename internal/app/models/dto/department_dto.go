package dto

// ProgramRequest creates or updates a program. Code defaults to the
// normalised name when omitted.
type ProgramRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"BTECH"`
	Code     string `json:"code" binding:"omitempty,max=30" example:"BT"`
	Duration int    `json:"duration" binding:"required,min=1,max=10" example:"4"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// BulkProgramsRequest is the body of POST /admin/programs/bulk
type BulkProgramsRequest struct {
	Programs []ProgramRequest `json:"programs" binding:"required,min=1"`
}

// BranchRequest creates or updates a branch of a program.
type BranchRequest struct {
	Program        string `json:"program" binding:"required" example:"BTECH"`
	Name           string `json:"branch" binding:"required,max=150" example:"CSE"`
	Specialisation string `json:"specialisation" binding:"omitempty,max=150" example:"AI & ML"`
}

// BulkBranchesRequest is the body of POST /admin/branches/bulk
type BulkBranchesRequest struct {
	Branches []BranchRequest `json:"branches" binding:"required,min=1"`
}

// BatchRequest creates or updates a batch.
type BatchRequest struct {
	Program      string `json:"program" binding:"required" example:"BTECH"`
	Branch       string `json:"branch" example:"CSE"`
	AdmittedYear int    `json:"admittedYear" binding:"required,min=1990,max=2100" example:"2023"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

// BulkBatchesRequest is the body of POST /admin/batches/bulk
type BulkBatchesRequest struct {
	Batches []BatchRequest `json:"batches" binding:"required,min=1"`
}

// BatchFilter narrows batch listings.
type BatchFilter struct {
	Program string `form:"program"`
	Branch  string `form:"branch"`
}
