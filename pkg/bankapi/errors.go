package bankapi

import (
	"fmt"
	"net/http"

	"github.com/eaglebank/eaglebank/pkg/httpx"
)

// Stable error codes carried in the "error" field of every error response.
const (
	ErrorCodeValidation         = "validation_error"
	ErrorCodeInvalidID          = "invalid_id"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeInactiveAccount    = "inactive_account"
	ErrorCodeHasOpenAccount     = "has_open_account"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeInsufficientFunds  = "insufficient_funds"
	ErrorCodeUnavailable        = "unavailable"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error type shared by the server (to write responses) and
// the SDK client (to represent failures). It implements error.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the stable error code (e.g. "insufficient_funds")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// WithDescription returns a copy of the error carrying a specific message.
func (e *APIError) WithDescription(desc string) *APIError {
	return &APIError{StatusCode: e.StatusCode, Code: e.Code, Description: desc}
}

var (
	// ErrValidation is returned when the request body is malformed or a
	// field is missing or out of range.
	ErrValidation = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: "the request is malformed or missing required fields",
	}

	// ErrInvalidID is returned when an id-shaped path parameter is not a
	// valid identifier. Distinct from NotFound.
	ErrInvalidID = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidID,
		Description: "invalid identifier format",
	}

	// ErrInvalidToken is returned when the bearer token is missing,
	// malformed, expired, or carries an invalid signature.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "missing or invalid bearer token",
	}

	// ErrInvalidCredentials is returned on a login password mismatch.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	// ErrForbidden is returned when the authenticated principal does not
	// own the addressed resource.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "you do not have access to this resource",
	}

	// ErrInactiveAccount is returned when a transaction targets an account
	// that is not in active status.
	ErrInactiveAccount = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInactiveAccount,
		Description: "account is not active",
	}

	// ErrHasOpenAccount is returned when deleting a user that still owns a
	// bank account.
	ErrHasOpenAccount = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeHasOpenAccount,
		Description: "unable to delete user while they have an open bank account",
	}

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	// ErrConflict is returned on uniqueness violations (duplicate email or
	// routing pair).
	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "resource already exists",
	}

	// ErrInsufficientFunds is returned when a withdrawal would drive the
	// balance negative. The balance is untouched.
	ErrInsufficientFunds = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeInsufficientFunds,
		Description: "insufficient funds for this transaction",
	}

	// ErrUnavailable is returned when the persistence layer timed out.
	// Safe to retry reads; writes are never retried automatically.
	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "service temporarily unavailable, please retry",
	}

	// ErrServerError is returned for unexpected failures. Details are
	// logged server-side and never leak to the caller.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
