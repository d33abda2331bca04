package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Category errors
var (
	ErrCategoryNotFound   = NewCustomError(ErrResourceNotFound, "category not found")
	ErrCategoryHasCourses = NewCustomError(ErrConflict, "category has courses and cannot be deleted")
)

// Instructor errors
var (
	ErrInstructorNotFound   = NewCustomError(ErrResourceNotFound, "instructor not found")
	ErrInstructorHasCourses = NewCustomError(ErrConflict, "instructor has courses and cannot be deleted")
)

// Course errors
var (
	ErrCourseNotFound = NewCustomError(ErrResourceNotFound, "course not found")
	// ErrUnknownReference is returned when a course points at an instructor or
	// category that does not exist.
	ErrUnknownReference = NewCustomError(ErrValidationFailed, "referenced instructor or category does not exist")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
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
