/*
Package bankapi defines the wire types for the bank HTTP API and a small
client SDK for talking to it.

# Client vs Session

The package is organized around two main types:

  - Client: unauthenticated operations (register, login, health) and
    session creation
  - Session: operations on the authenticated user's resources, bound to a
    bearer token

Create a Client to register or log in:

	client := bankapi.NewClient("https://bank.example.com")

	session, err := client.Login(ctx, "ada@example.com", "correct horse")

Use the Session for everything owned by the authenticated user:

	account, err := session.CreateAccount(ctx, bankapi.CreateAccountRequest{
		AccountType:   "savings",
		AccountStatus: "active",
		AccountNumber: "12345678",
		SortCode:      "101010",
		Balance:       "1000",
	})

	txn, err := session.CreateTransaction(ctx, account.ID, bankapi.CreateTransactionRequest{
		TransactionType: "deposit",
		AccountNumber:   account.AccountNumber,
		SortCode:        account.SortCode,
		Amount:          "500.00",
	})

# Error Handling

Failed requests return a *APIError carrying the HTTP status, the stable
error code, and the server's description:

	_, err := session.CreateTransaction(ctx, account.ID, withdrawal)
	var apiErr *bankapi.APIError
	if errors.As(err, &apiErr) && apiErr.Code == bankapi.ErrorCodeInsufficientFunds {
		// balance unchanged, surface to the user
	}

The server side uses the same APIError values to write error responses, so
the codes here are authoritative for both directions.
*/
package bankapi
