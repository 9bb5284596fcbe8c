package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")

	// Verification code lifecycle
	ErrRateLimited     = errors.New("too many attempts")
	ErrCodeNotFound    = errors.New("no active verification code")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeConsumed    = errors.New("verification code already used")
	ErrCodeMismatch    = errors.New("verification code does not match")
	ErrDeliveryFailure = errors.New("verification email delivery failed")
)

// Machine-readable error codes returned to clients.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"

	CodeRateLimited     = "RATE_LIMITED"
	CodeCodeNotFound    = "CODE_NOT_FOUND"
	CodeCodeExpired     = "CODE_EXPIRED"
	CodeCodeConsumed    = "CODE_ALREADY_USED"
	CodeCodeMismatch    = "CODE_MISMATCH"
	CodeAlreadyVerified = "ALREADY_VERIFIED"
)

// AppError represents an application error with its HTTP mapping.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

// FromVerification maps a verification lifecycle error to its AppError.
// Unknown errors fall through to an internal error so no raw failure
// reaches a client.
func FromVerification(err error) *AppError {
	switch {
	case errors.Is(err, ErrRateLimited):
		return NewAppError(http.StatusTooManyRequests, CodeRateLimited, "Too many attempts. Please wait before trying again.", err)
	case errors.Is(err, ErrCodeNotFound):
		return NewAppError(http.StatusBadRequest, CodeCodeNotFound, "No active code for this email. Request a new one.", err)
	case errors.Is(err, ErrCodeExpired):
		return NewAppError(http.StatusBadRequest, CodeCodeExpired, "This code has expired. Request a new one.", err)
	case errors.Is(err, ErrCodeConsumed):
		return NewAppError(http.StatusBadRequest, CodeCodeConsumed, "This code was already used. Request a new one.", err)
	case errors.Is(err, ErrCodeMismatch):
		return NewAppError(http.StatusBadRequest, CodeCodeMismatch, "Incorrect code.", err)
	case errors.Is(err, ErrAlreadyVerified):
		return NewAppError(http.StatusConflict, CodeAlreadyVerified, "Email is already verified.", err)
	default:
		return InternalError(err)
	}
}
