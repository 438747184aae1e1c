package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/eaglebank/eaglebank/internal/bank/service"
	"github.com/eaglebank/eaglebank/pkg/bankapi"
	"github.com/eaglebank/eaglebank/pkg/httpx"
	"github.com/eaglebank/eaglebank/pkg/slogx"
)

type TransactionHandler struct {
	TransactionService *service.TransactionService
}

// HandleCreate applies a deposit or withdrawal against the account addressed
// in the path. The balance mutation and the transaction record commit
// together or not at all.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req bankapi.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		bankapi.ErrValidation.WithDescription("invalid request body").WriteError(w)
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		bankapi.ErrValidation.WithDescription("amount must be a decimal number").WriteError(w)
		return
	}

	txn, err := h.TransactionService.Create(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("accountId"),
		service.CreateTransactionParams{
			Type:          req.TransactionType,
			AccountNumber: req.AccountNumber,
			SortCode:      req.SortCode,
			Amount:        amount,
		})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("transaction applied",
		"transaction_id", txn.ID, "type", txn.Type, "amount", txn.Amount.String())

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, bankapi.TransactionResponse{Transaction: transactionInfo(txn)})
}

// HandleList returns an account's transactions, newest first.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	txns, err := h.TransactionService.List(r.Context(), r.PathValue("accountId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]bankapi.TransactionInfo, 0, len(txns))
	for _, t := range txns {
		out = append(out, transactionInfo(t))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.ListTransactionsResponse{Transactions: out})
}

// HandleGet returns a single transaction on an account the authenticated
// user owns.
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txn, err := h.TransactionService.Get(ctx, httpx.UserIDFromCtx(ctx),
		r.PathValue("accountId"), r.PathValue("transactionId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.TransactionResponse{Transaction: transactionInfo(txn)})
}
