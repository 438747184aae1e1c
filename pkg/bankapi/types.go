package bankapi

import "encoding/json"

// ============================================================================
// Request types
// ============================================================================

// CreateUserRequest is the body for POST /v1/users.
type CreateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description,omitempty"`
}

// LoginRequest is the body for POST /v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body for PATCH /v1/users/{userId}. Absent fields
// are left untouched; there is no way to address any other field.
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateAccountRequest is the body for POST /v1/accounts. Balance is a
// decimal string ("1000" or "99.95"); JSON numbers are also accepted.
type CreateAccountRequest struct {
	AccountType   string      `json:"accountType"`
	AccountStatus string      `json:"accountStatus"`
	AccountNumber string      `json:"accountNumber"`
	SortCode      string      `json:"sortCode"`
	Balance       json.Number `json:"balance,omitempty"`
}

// UpdateAccountRequest is the body for PATCH /v1/accounts/{accountId}.
type UpdateAccountRequest struct {
	AccountType   *string `json:"accountType,omitempty"`
	AccountStatus *string `json:"accountStatus,omitempty"`
}

// CreateTransactionRequest is the body for
// POST /v1/accounts/{accountId}/transactions.
type CreateTransactionRequest struct {
	TransactionType string      `json:"transactionType"`
	AccountNumber   string      `json:"accountNumber"`
	SortCode        string      `json:"sortCode"`
	Amount          json.Number `json:"amount,omitempty"`
}

// ============================================================================
// Response types
// ============================================================================

// UserInfo is the outward representation of a user. It never carries
// credential material.
type UserInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Description    string `json:"description,omitempty"`
	HasOpenAccount bool   `json:"hasOpenAccount"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// AccountInfo is the outward representation of an account.
type AccountInfo struct {
	ID            string `json:"id"`
	AccountType   string `json:"accountType"`
	AccountStatus string `json:"accountStatus"`
	AccountNumber string `json:"accountNumber"`
	SortCode      string `json:"sortCode"`
	Balance       string `json:"balance"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// TransactionInfo is the outward representation of a transaction.
type TransactionInfo struct {
	ID              string `json:"id"`
	TransactionType string `json:"transactionType"`
	AccountNumber   string `json:"accountNumber"`
	SortCode        string `json:"sortCode"`
	Amount          string `json:"amount"`
	CreatedAt       string `json:"createdAt"`
}

// AuthResponse is returned by register and login: the user plus a bearer
// token bound to them.
type AuthResponse struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	User UserInfo `json:"user"`
}

// AccountResponse wraps a single account.
type AccountResponse struct {
	Account AccountInfo `json:"account"`
}

// ListAccountsResponse wraps the principal's accounts.
type ListAccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// TransactionResponse wraps a single transaction.
type TransactionResponse struct {
	Transaction TransactionInfo `json:"transaction"`
}

// ListTransactionsResponse wraps an account's transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionInfo `json:"transactions"`
}

// MessageResponse carries a bare confirmation message (logout, deletes).
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ErrorResponse is the wire shape of every error this API returns.
type ErrorResponse struct {
	// Error is the stable machine-readable code (e.g. "insufficient_funds")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}
