package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/internal/bank/store"
	"github.com/eaglebank/eaglebank/pkg/cryptox"
	"github.com/eaglebank/eaglebank/pkg/idx"
	"github.com/eaglebank/eaglebank/pkg/jwtx"
)

// UserService owns user records and the credential/session flow: it registers
// users, authenticates them, and mints the bearer tokens every other endpoint
// requires.
type UserService struct {
	Store     store.Store
	Tokens    *jwtx.HS256
	Issuer    string
	AccessTTL time.Duration
	Timeout   time.Duration
}

// RegisterParams are the inputs for user registration.
type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Description string
}

// UpdateUserParams is the typed partial update for a user profile. Only named
// fields can be touched; there is no arbitrary field mapping to mass-assign.
type UpdateUserParams struct {
	Name        *string
	Email       *string
	Password    *string
	Description *string
}

// Register validates the input, hashes the password and creates the user,
// returning the stored user together with a fresh session token.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, string, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)

	if len(p.Name) < 2 {
		return domain.User{}, "", validationf("name must be at least 2 characters")
	}
	if len(p.Email) < 5 {
		return domain.User{}, "", validationf("email must be at least 5 characters")
	}
	if len(p.Password) < 6 {
		return domain.User{}, "", validationf("password must be at least 6 characters")
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
		Description:  p.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrConflict
		}
		return domain.User{}, "", mapStoreErr(err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Authenticate checks the email/password pair and returns the user with a
// fresh session token. Unknown email is NotFound; wrong password is
// InvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", validationf("email and password are required")
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, "", mapStoreErr(err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Get returns a user's profile. Principals can only read themselves.
func (s *UserService) Get(ctx context.Context, principalID, userID string) (domain.User, error) {
	if _, err := idx.Parse(userID); err != nil {
		return domain.User{}, ErrInvalidID
	}
	if !canAccess(principalID, userID) {
		return domain.User{}, ErrForbidden
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return user, nil
}

// Update applies a typed partial update to the principal's own profile.
func (s *UserService) Update(ctx context.Context, principalID, userID string, p UpdateUserParams) (domain.User, error) {
	if _, err := idx.Parse(userID); err != nil {
		return domain.User{}, ErrInvalidID
	}
	if !canAccess(principalID, userID) {
		return domain.User{}, ErrForbidden
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if len(name) < 2 {
			return domain.User{}, validationf("name must be at least 2 characters")
		}
		user.Name = name
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if len(email) < 5 {
			return domain.User{}, validationf("email must be at least 5 characters")
		}
		user.Email = email
	}
	if p.Password != nil {
		if len(*p.Password) < 6 {
			return domain.User{}, validationf("password must be at least 6 characters")
		}
		hash, err := cryptox.HashPassword(*p.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}
	if p.Description != nil {
		user.Description = *p.Description
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, mapStoreErr(err)
	}
	return user, nil
}

// Delete removes the principal's own user record. It refuses while the user
// still owns an account; that invariant is what prevents orphaned accounts.
func (s *UserService) Delete(ctx context.Context, principalID, userID string) error {
	if _, err := idx.Parse(userID); err != nil {
		return ErrInvalidID
	}
	if !canAccess(principalID, userID) {
		return ErrForbidden
	}

	ctx, cancel := opContext(ctx, s.Timeout)
	defer cancel()

	return mapStoreErr(s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.HasOpenAccount {
			return ErrHasOpenAccount
		}
		return tx.Users().DeleteUser(ctx, userID)
	}))
}

func (s *UserService) issueToken(user domain.User) (string, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(user.ID, user.Name, s.Issuer, ttl, time.Now().UTC())
	return s.Tokens.Sign(claims)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
