package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/service"
	"github.com/eaglebank/eaglebank/internal/bank/store"
	"github.com/eaglebank/eaglebank/pkg/httpx"
	"github.com/eaglebank/eaglebank/pkg/jwtx"
	"github.com/eaglebank/eaglebank/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cookieTTL    time.Duration
	secureCookie bool

	store              store.Store
	UserService        *service.UserService
	AccountService     *service.AccountService
	TransactionService *service.TransactionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cookieTTL time.Duration,
	secureCookie bool,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerAccounts()
	r.registerTransactions()
	r.registerSystem()
}

func (r *Router) registerUsers() {
	h := &UserHandler{
		UserService:   r.UserService,
		CookieTTL:     r.cookieTTL,
		SecureCookies: r.secureCookie,
	}

	// POST /users and /users/login are the only unauthenticated writes, and
	// both accept credential material: strict rate limit by IP
	r.Mux.Handle("POST /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/logout", r.secured(h.HandleLogout, httpx.ModerateLimit))

	r.Mux.Handle("GET /v1/users/{userId}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/users/{userId}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{userId}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /v1/accounts", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/accounts", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/accounts/{accountId}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/accounts/{accountId}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/accounts/{accountId}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerTransactions() {
	h := &TransactionHandler{TransactionService: r.TransactionService}

	r.Mux.Handle("POST /v1/accounts/{accountId}/transactions", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/accounts/{accountId}/transactions", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/accounts/{accountId}/transactions/{transactionId}", r.secured(h.HandleGet, httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// secured wraps a handler with token verification and a per-user rate limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/exp)
		httpx.RateLimitByUser(limit),
	)
}
