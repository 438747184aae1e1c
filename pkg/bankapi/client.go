package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the bank API. It exposes the unauthenticated operations
// (register, login, health) and produces authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a bank API client against the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is an authenticated view of the API bound to a bearer token.
type Session struct {
	client *Client
	token  string
	user   UserInfo
}

// Token returns the bearer token backing this session.
func (s *Session) Token() string { return s.token }

// User returns the authenticated user as of login or registration.
func (s *Session) User() UserInfo { return s.user }

// NewSessionFromToken builds a session from a previously issued token, e.g.
// one stored by an earlier login.
func (c *Client) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Register creates a new user and returns a session holding the issued token.
func (c *Client) Register(ctx context.Context, req CreateUserRequest) (*Session, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/users", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.Token, user: out.User}, nil
}

// Login authenticates with an email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/users/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.Token, user: out.User}, nil
}

// Health fetches the readiness report.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK)
	return out, err
}

// GetUser fetches a user by id.
func (s *Session) GetUser(ctx context.Context, userID string) (UserInfo, error) {
	var out UserResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/users/"+userID, nil, &out, http.StatusOK)
	return out.User, err
}

// UpdateUser applies a partial update to a user. Nil fields are untouched.
func (s *Session) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (UserInfo, error) {
	var out UserResponse
	err := s.doJSON(ctx, http.MethodPatch, "/v1/users/"+userID, req, &out, http.StatusOK)
	return out.User, err
}

// DeleteUser deletes a user. Fails while the user still owns an account.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	var out MessageResponse
	return s.doJSON(ctx, http.MethodDelete, "/v1/users/"+userID, nil, &out, http.StatusOK)
}

// Logout clears the server-side session cookie. The bearer token itself
// stays valid until it expires.
func (s *Session) Logout(ctx context.Context) error {
	var out MessageResponse
	return s.doJSON(ctx, http.MethodPost, "/v1/users/logout", nil, &out, http.StatusOK)
}

// CreateAccount opens a new bank account for the authenticated user.
func (s *Session) CreateAccount(ctx context.Context, req CreateAccountRequest) (AccountInfo, error) {
	var out AccountResponse
	err := s.doJSON(ctx, http.MethodPost, "/v1/accounts", req, &out, http.StatusCreated)
	return out.Account, err
}

// ListAccounts lists the authenticated user's accounts in creation order.
func (s *Session) ListAccounts(ctx context.Context) ([]AccountInfo, error) {
	var out ListAccountsResponse
	if err := s.doJSON(ctx, http.MethodGet, "/v1/accounts", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// GetAccount fetches one of the authenticated user's accounts.
func (s *Session) GetAccount(ctx context.Context, accountID string) (AccountInfo, error) {
	var out AccountResponse
	err := s.doJSON(ctx, http.MethodGet, "/v1/accounts/"+accountID, nil, &out, http.StatusOK)
	return out.Account, err
}

// UpdateAccount applies a partial update to an account.
func (s *Session) UpdateAccount(ctx context.Context, accountID string, req UpdateAccountRequest) (AccountInfo, error) {
	var out AccountResponse
	err := s.doJSON(ctx, http.MethodPatch, "/v1/accounts/"+accountID, req, &out, http.StatusOK)
	return out.Account, err
}

// DeleteAccount closes an account.
func (s *Session) DeleteAccount(ctx context.Context, accountID string) error {
	var out MessageResponse
	return s.doJSON(ctx, http.MethodDelete, "/v1/accounts/"+accountID, nil, &out, http.StatusOK)
}

// CreateTransaction applies a deposit or withdrawal to an account.
func (s *Session) CreateTransaction(ctx context.Context, accountID string, req CreateTransactionRequest) (TransactionInfo, error) {
	var out TransactionResponse
	path := "/v1/accounts/" + accountID + "/transactions"
	err := s.doJSON(ctx, http.MethodPost, path, req, &out, http.StatusCreated)
	return out.Transaction, err
}

// ListTransactions lists an account's transactions, newest first.
func (s *Session) ListTransactions(ctx context.Context, accountID string) ([]TransactionInfo, error) {
	var out ListTransactionsResponse
	path := "/v1/accounts/" + accountID + "/transactions"
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// GetTransaction fetches a single transaction on an account.
func (s *Session) GetTransaction(ctx context.Context, accountID, transactionID string) (TransactionInfo, error) {
	var out TransactionResponse
	path := "/v1/accounts/" + accountID + "/transactions/" + transactionID
	err := s.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out.Transaction, err
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs an unauthenticated JSON round trip.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	return roundTrip(ctx, c, method, path, "", in, out, expectedStatus)
}

// doJSON performs a JSON round trip carrying the session's bearer token.
func (s *Session) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	return roundTrip(ctx, s.client, method, path, s.token, in, out, expectedStatus)
}

func roundTrip(ctx context.Context, c *Client, method, path, token string, in, out any, expectedStatus int) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if out == nil || len(bodyBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse turns an error body into a typed *APIError. Bodies that
// are not in the standard error envelope still yield an APIError keyed off
// the status code.
func parseErrorResponse(statusCode int, body []byte) error {
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &APIError{
			StatusCode:  statusCode,
			Code:        envelope.Error,
			Description: envelope.ErrorDescription,
		}
	}
	return &APIError{
		StatusCode:  statusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected response (status %d)", statusCode),
	}
}
