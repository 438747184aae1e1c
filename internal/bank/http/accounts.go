package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/eaglebank/eaglebank/internal/bank/service"
	"github.com/eaglebank/eaglebank/pkg/bankapi"
	"github.com/eaglebank/eaglebank/pkg/httpx"
	"github.com/eaglebank/eaglebank/pkg/slogx"
)

type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleCreate opens a bank account owned by the authenticated user.
func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req bankapi.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		bankapi.ErrValidation.WithDescription("invalid request body").WriteError(w)
		return
	}

	// An omitted balance decodes to the empty Number, distinct from "0"
	if req.Balance == "" {
		bankapi.ErrValidation.WithDescription("balance is required").WriteError(w)
		return
	}
	balance, err := decimal.NewFromString(req.Balance.String())
	if err != nil {
		bankapi.ErrValidation.WithDescription("balance must be a decimal number").WriteError(w)
		return
	}

	account, err := h.AccountService.Create(ctx, httpx.UserIDFromCtx(ctx), service.CreateAccountParams{
		AccountType:   req.AccountType,
		AccountStatus: req.AccountStatus,
		AccountNumber: req.AccountNumber,
		SortCode:      req.SortCode,
		Balance:       balance,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("account created", "account_id", account.ID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, bankapi.AccountResponse{Account: accountInfo(account)})
}

// HandleList returns the authenticated user's accounts in creation order.
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountService.List(r.Context(), httpx.UserIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]bankapi.AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountInfo(a))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.ListAccountsResponse{Accounts: out})
}

// HandleGet returns one account. Accounts owned by someone else read as
// forbidden, not missing.
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.AccountService.Get(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("accountId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.AccountResponse{Account: accountInfo(account)})
}

// HandleUpdate applies a partial update to an account's type or status.
// Routing identifiers and balance are not updatable through this endpoint.
func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bankapi.UpdateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		bankapi.ErrValidation.WithDescription("invalid request body").WriteError(w)
		return
	}

	account, err := h.AccountService.Update(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("accountId"),
		service.UpdateAccountParams{
			AccountType:   req.AccountType,
			AccountStatus: req.AccountStatus,
		})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.AccountResponse{Account: accountInfo(account)})
}

// HandleDelete closes an account. If it was the owner's last account their
// open-account flag drops in the same unit of work.
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := r.PathValue("accountId")
	if err := h.AccountService.Delete(ctx, httpx.UserIDFromCtx(ctx), accountID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("account deleted", "account_id", accountID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.MessageResponse{Message: "account deleted"})
}
