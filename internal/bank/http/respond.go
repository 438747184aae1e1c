package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/domain"
	"github.com/eaglebank/eaglebank/internal/bank/service"
	"github.com/eaglebank/eaglebank/pkg/bankapi"
	"github.com/eaglebank/eaglebank/pkg/slogx"
)

// maxBodyBytes caps request bodies. All accepted bodies are small JSON
// documents; anything bigger is hostile or broken.
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into target, rejecting unknown fields
// and trailing garbage.
func decodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return err
	}
	// A body of "{}{}" is two documents, not one
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

// writeServiceError translates a service-layer error into the wire error
// envelope. Unrecognized errors are logged and masked as server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		bankapi.ErrValidation.WithDescription(verr.Message).WriteError(w)
	case errors.Is(err, service.ErrInvalidID):
		bankapi.ErrInvalidID.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		bankapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		bankapi.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrInactiveAccount):
		bankapi.ErrInactiveAccount.WriteError(w)
	case errors.Is(err, service.ErrHasOpenAccount):
		bankapi.ErrHasOpenAccount.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		bankapi.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrConflict):
		bankapi.ErrConflict.WriteError(w)
	case errors.Is(err, service.ErrInsufficientFunds):
		bankapi.ErrInsufficientFunds.WriteError(w)
	case errors.Is(err, service.ErrUnavailable):
		bankapi.ErrUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
		bankapi.ErrServerError.WriteError(w)
	}
}

func userInfo(u domain.User) bankapi.UserInfo {
	return bankapi.UserInfo{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Description:    u.Description,
		HasOpenAccount: u.HasOpenAccount,
		CreatedAt:      u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func accountInfo(a domain.Account) bankapi.AccountInfo {
	return bankapi.AccountInfo{
		ID:            a.ID,
		AccountType:   a.AccountType,
		AccountStatus: string(a.Status),
		AccountNumber: a.AccountNumber,
		SortCode:      a.SortCode,
		Balance:       a.Balance.String(),
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func transactionInfo(t domain.Transaction) bankapi.TransactionInfo {
	return bankapi.TransactionInfo{
		ID:              t.ID,
		TransactionType: string(t.Type),
		AccountNumber:   t.AccountNumber,
		SortCode:        t.SortCode,
		Amount:          t.Amount.String(),
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
