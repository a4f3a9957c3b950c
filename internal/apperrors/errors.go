package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Ledger rule violations. Each one is raised only after the failed attempt has been
// recorded in the affected account's history (where there is an account to record it on).
var (
	// ErrInvalidAccount indicates an unknown customer or account identifier.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrAccountBlocked indicates an operation on a non-active account, or a login while locked out.
	ErrAccountBlocked = errors.New("account blocked")

	// ErrInsufficientFunds indicates the withdrawal amount exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMinimumBalanceViolation indicates a savings balance would fall below its floor.
	ErrMinimumBalanceViolation = errors.New("minimum balance violation")

	// ErrOverdraftExceeded indicates a checking balance would fall below its overdraft limit.
	ErrOverdraftExceeded = errors.New("overdraft limit exceeded")

	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrSameAccount indicates a transfer whose source and destination are the same account.
var ErrSameAccount = errors.New("source and destination account are the same")

// ErrWrongAccountKind indicates an operation that only applies to the other account kind.
var ErrWrongAccountKind = errors.New("operation not supported for this account kind")

// ErrLockTimeout indicates the account lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for account lock")

// AppError carries an HTTP status code alongside the underlying error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// NewAppError wraps err with a status code and a client-facing message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewLockTimeoutError reports that the lock on accountNumber was not acquired before
// the wait ended. The result matches both ErrLockTimeout and cause.
func NewLockTimeoutError(accountNumber string, cause error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, "account is busy, please retry",
		fmt.Errorf("%w: account %s: %w", ErrLockTimeout, accountNumber, cause))
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps an error to the HTTP status the API reports for it.
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrValidation), errors.Is(err, ErrWrongAccountKind):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidAccount), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccountBlocked):
		return http.StatusLocked
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrMinimumBalanceViolation), errors.Is(err, ErrOverdraftExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrSameAccount):
		return http.StatusConflict
	case errors.Is(err, ErrLockTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
