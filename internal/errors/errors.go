package errors

import "fmt"

// ErrorCode represents a debtmap error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrValidation        ErrorCode = "VALIDATION"         // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrInvalidTransition ErrorCode = "INVALID_TRANSITION" // 409
	ErrLockContention    ErrorCode = "LOCK_CONTENTION"    // 423
	ErrCorruptDocument   ErrorCode = "CORRUPT_DOCUMENT"   // 500
	ErrIO                ErrorCode = "IO_ERROR"           // 500
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// DebtError represents a structured error with code, status, and details.
type DebtError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DebtError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed request parameters.
func NewInvalidRequest(msg string) *DebtError {
	return &DebtError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewValidation creates a 400 error for a field that fails business validation.
func NewValidation(field, msg string) *DebtError {
	return &DebtError{
		Code:    ErrValidation,
		Status:  400,
		Message: fmt.Sprintf("invalid %s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

// NewNotFound creates a 404 error for an unknown debt id.
func NewNotFound(id string) *DebtError {
	return &DebtError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("debt entry not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewInvalidTransition creates a 409 error for a disallowed status change.
func NewInvalidTransition(from, to string) *DebtError {
	return &DebtError{
		Code:    ErrInvalidTransition,
		Status:  409,
		Message: fmt.Sprintf("cannot transition status from %q to %q", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

// NewLockContention creates a 423 error for a document held by another live instance.
func NewLockContention(lockPath string, ageSeconds float64) *DebtError {
	return &DebtError{
		Code:    ErrLockContention,
		Status:  423,
		Message: "storage document is locked by another instance",
		Details: map[string]any{"lock_path": lockPath, "age_seconds": ageSeconds},
	}
}

// NewCorruptDocument creates a 500 error for an unparsable or structurally
// invalid document. backupPath points at the copy made before failing.
func NewCorruptDocument(reason, backupPath string) *DebtError {
	details := map[string]any{"reason": reason}
	if backupPath != "" {
		details["backup_path"] = backupPath
	}
	return &DebtError{
		Code:    ErrCorruptDocument,
		Status:  500,
		Message: fmt.Sprintf("storage document is corrupt: %s", reason),
		Details: details,
	}
}

// NewIO creates a 500 error for an environmental read/write failure.
func NewIO(err error) *DebtError {
	msg := "storage i/o failure"
	if err != nil {
		msg = err.Error()
	}
	return &DebtError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DebtError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DebtError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a DebtError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DebtError); ok {
		return dErr.Code == code
	}
	return false
}
