package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Academic errors
var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrFacultyNotFound    = errors.New("faculty not found")
	ErrStaffNotFound      = errors.New("staff account not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSubjectMapNotFound = errors.New("subject mapping not found")
	ErrUnknownProgram     = errors.New("unknown program")
)

// Feedback errors
var (
	ErrQuestionNotFound       = errors.New("feedback question not found")
	ErrWindowNotFound         = errors.New("feedback window not found")
	ErrWindowNotOpen          = errors.New("feedback window is not accepting responses")
	ErrWindowAlreadyClosed    = errors.New("feedback window is already closed")
	ErrFeedbackAlreadyExists  = errors.New("feedback already submitted for this subject")
	ErrSubjectNotInScope      = errors.New("subject mapping does not belong to the student's current semester")
	ErrIncompleteResponseSet  = errors.New("a rating is required for every active feedback question")
	ErrRatingOutOfRange       = errors.New("rating must be between 1 and 5")
	ErrUnknownTemplateType    = errors.New("invalid template type")
	ErrPasswordResetTokenUsed = errors.New("password reset token has already been used")
)

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for a failed validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// MessageOf returns the user-facing message carried by err, if any.
func MessageOf(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}
