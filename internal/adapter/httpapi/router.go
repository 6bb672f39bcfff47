package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/paperdesk/paperdesk-backend/internal/usecase/store"
)

// Server exposes the account store over HTTP. It is a thin transport: all
// financial rules live behind the store.
type Server struct {
	store *store.AccountStore
}

// NewServer creates the HTTP adapter over an account store.
func NewServer(accounts *store.AccountStore) *Server {
	return &Server{store: accounts}
}

// Router assembles the API routes with auth and request logging.
func (s *Server) Router(apiToken string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(BearerAuth(apiToken))

		r.Post("/accounts", s.handleOpenAccount)
		r.Route("/accounts/{owner}", func(r chi.Router) {
			r.Get("/", s.handleGetAccount)
			r.Post("/deposits", s.handleDeposit)
			r.Post("/withdrawals", s.handleWithdraw)
			r.Post("/purchases", s.handleBuy)
			r.Post("/sales", s.handleSell)
			r.Get("/summary", s.handleSummary)
			r.Get("/transactions", s.handleHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
