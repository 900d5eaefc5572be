package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
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

// ---- Ledger Business Logic (LED) ----

// All ledger errors are detected before any mutation: a rejected operation
// leaves balances and the transaction log untouched.

func ErrInsufficientFunds() *AppError {
	return New("LED_001", "Insufficient balance on account", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("LED_002", "Invalid amount", http.StatusBadRequest)
}

func ErrUnknownAccount(ref string) *AppError {
	return New("LED_003", fmt.Sprintf("Unknown account: %s", ref), http.StatusNotFound)
}

func ErrSameCurrencyExchange() *AppError {
	return New("LED_004", "Source and destination currency must differ", http.StatusUnprocessableEntity)
}

func ErrUnknownCurrency(code string) *AppError {
	return New("LED_005", fmt.Sprintf("Unknown currency: %s", code), http.StatusNotFound)
}

func ErrConfirmationRequired() *AppError {
	return New("LED_006", "Destructive operation requires explicit confirmation", http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

func ErrSnapshotError(err error) *AppError {
	return Wrap("SYS_002", "Snapshot persistence failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a LED_002-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("LED_002", message, http.StatusBadRequest)
}
