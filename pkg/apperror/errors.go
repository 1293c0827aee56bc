package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses and CLI exit output.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code, so that
// errors.Is(err, apperror.ErrScaleOverflow()) matches regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Code extracts the AppError code from err, or "" when err carries none.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Split (SPL) ----

const (
	CodeZeroRecipients = "SPL_001"
	CodeInvalidScale   = "SPL_002"
	CodeScaleOverflow  = "SPL_003"
	CodeNegativeAmount = "SPL_004"
	CodeInvalidConfig  = "SPL_005"
)

func ErrZeroRecipients() *AppError {
	return New(CodeZeroRecipients, "Recipients must be at least 1", http.StatusBadRequest)
}

func ErrInvalidScale(scale int32, max int32) *AppError {
	return New(CodeInvalidScale, fmt.Sprintf("Scale %d outside supported range 0..%d", scale, max), http.StatusBadRequest)
}

func ErrScaleOverflow() *AppError {
	return New(CodeScaleOverflow, "Amount does not fit in 64-bit units at the requested scale", http.StatusUnprocessableEntity)
}

func ErrNegativeAmount() *AppError {
	return New(CodeNegativeAmount, "Negative amounts are not accepted", http.StatusBadRequest)
}

func ErrInvalidConfig(message string) *AppError {
	return New(CodeInvalidConfig, message, http.StatusBadRequest)
}

// ---- Runs (RUN) ----

func ErrNotFound(entity string) *AppError {
	return New("RUN_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrCacheError(err error) *AppError {
	return Wrap("SYS_004", "Report cache failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 input validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
