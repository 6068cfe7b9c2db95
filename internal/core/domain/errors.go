package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Store errors shared by every repository implementation
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrRegistrationMissing = errors.New("registration not found")
	ErrAlreadyRegistered   = errors.New("user already registered for event")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrGraduationNotFound  = errors.New("graduation request not found")
)

// FieldError is used to indicate an error with a specific request field
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError carries per-field failures
type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewValidationError wraps err with field details
func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FieldMap flattens fields for JSON responses
func (e *ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Error
	}
	return out
}
