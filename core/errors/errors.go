package errors

import "fmt"

type ErrorCode string

const (
	// Generic codes
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCreateFailed       ErrorCode = "CREATE_FAILED"
	ErrGetFailed          ErrorCode = "GET_FAILED"
	ErrDeleteFailed       ErrorCode = "DELETE_FAILED"

	// Auth codes
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrTooManyLoginAttempts       ErrorCode = "TOO_MANY_LOGIN_ATTEMPTS"

	// Interview workflow codes
	ErrInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrNotAuthorized       ErrorCode = "NOT_AUTHORIZED"
	ErrWrongRole           ErrorCode = "WRONG_ROLE"
	ErrNoSuchInterviewer   ErrorCode = "NO_SUCH_INTERVIEWER"
	ErrSlotUnavailable     ErrorCode = "SLOT_UNAVAILABLE"
	ErrNotAssigned         ErrorCode = "NOT_ASSIGNED"
	ErrAlreadyTerminal     ErrorCode = "ALREADY_TERMINAL"
	ErrConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
)

// AppError is the error type every service returns for expected domain
// conditions. Details carries ids and status pairs for the caller's UI.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewAppErrorWithDetails attaches structured context (ids, from/to statuses)
// so the caller can retry or correct.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details any) *AppError {
	return &AppError{Code: code, Message: message, Err: err, Details: details}
}

// New mirrors the stdlib helper for the rare infrastructure error path.
func New(message string) error {
	return fmt.Errorf("%s", message)
}
