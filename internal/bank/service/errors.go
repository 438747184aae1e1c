package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/store"
)

// Domain errors, constructed at the point of detection and matched by the
// HTTP layer with errors.Is / errors.As.
var (
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInactiveAccount    = errors.New("inactive_account")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrHasOpenAccount     = errors.New("has_open_account")
	ErrUnavailable        = errors.New("unavailable")
)

// ValidationError carries a human-readable description of which input was out
// of range. It maps to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// mapStoreErr translates persistence-layer failures into domain errors.
// Timeouts surface as the retryable ErrUnavailable rather than hanging or
// masquerading as a missing resource.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrConflict
	default:
		return err
	}
}

// opContext bounds a store operation with the service's configured timeout so
// a persistence outage fails fast instead of hanging the request.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
