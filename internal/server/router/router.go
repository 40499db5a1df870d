package router

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"github.com/andymarkow/gamevault/internal/auth"
	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/server/handlers"
	"github.com/andymarkow/gamevault/internal/storage"
)

type Options struct {
	log            *slog.Logger
	auth           *auth.JWTAuth
	allowedOrigins []string
}

func NewRouter(
	store storage.Storage, portalSvc *portal.Service, backofficeSvc *backoffice.Service, opts ...Option,
) chi.Router {
	r := chi.NewRouter()

	rOpts := Options{
		log:            logger.NewNop(),
		auth:           auth.NewJWTAuth([]byte("")),
		allowedOrigins: []string{"https://*", "http://*"},
	}

	for _, opt := range opts {
		opt(&rOpts)
	}

	tokenAuth := rOpts.auth.TokenAuth()

	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Logger,
		cors.Handler(cors.Options{
			AllowedOrigins:   rOpts.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Authorization"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	h := handlers.NewHandlers(store, portalSvc, backofficeSvc,
		handlers.WithLogger(rOpts.log),
		handlers.WithAuth(rOpts.auth),
	)

	r.Get("/ping", h.Ping)

	r.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.UserRegister)
		r.Post("/api/user/login", h.UserLogin)
		r.Get("/api/store/items", h.GetStoreItems)
		r.Get("/api/tournaments", h.GetTournaments)
		r.Get("/api/payment-methods", h.GetPaymentMethods)
	})

	r.Group(func(r chi.Router) {
		r.Use(
			jwtauth.Verifier(tokenAuth),
			jwtauth.Authenticator(tokenAuth),
		)

		r.Get("/api/user/profile", h.GetUserProfile)
		r.Get("/api/user/balance", h.GetUserBalance)
		r.Get("/api/user/ledger", h.GetUserLedger)
		r.Get("/api/user/notifications", h.GetUserNotifications)
		r.Post("/api/user/payments", h.CreatePaymentRequest)
		r.Post("/api/user/withdrawals", h.CreateWithdrawalRequest)
		r.Get("/api/user/orders", h.GetUserOrders)
		r.Post("/api/user/orders", h.CreateUserOrder)
		r.Post("/api/user/chats", h.CreateChatMessage)
		r.Post("/api/tournaments/{id}/join", h.JoinTournament)
		r.Post("/api/tournaments/{id}/results", h.SubmitTournamentResult)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(
			jwtauth.Verifier(tokenAuth),
			jwtauth.Authenticator(tokenAuth),
			RequireAdmin,
		)

		r.Get("/dashboard", h.GetDashboard)

		r.Get("/users", h.ListUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Post("/users/{id}/coins", h.AddUserCoins)
		r.Post("/users/bulk", h.BulkUsers)

		r.Get("/payments", h.ListPayments)
		r.Post("/payments/{id}/approve", h.ApprovePayment)
		r.Post("/payments/{id}/reject", h.RejectPayment)
		r.Post("/payments/bulk", h.BulkPayments)

		r.Get("/withdrawals", h.ListWithdrawals)
		r.Get("/withdrawals/stats", h.GetWithdrawalStats)
		r.Post("/withdrawals/{id}", h.ProcessWithdrawal)
		r.Post("/withdrawals/bulk", h.BulkWithdrawals)

		r.Get("/orders", h.ListOrders)
		r.Post("/orders/{id}/status", h.UpdateOrderStatus)
		r.Post("/orders/bulk", h.BulkOrders)

		r.Get("/games", h.ListGames)
		r.Post("/games", h.CreateGame)
		r.Put("/games/{id}", h.UpdateGame)
		r.Post("/games/{id}/toggle", h.ToggleGame)
		r.Delete("/games/{id}", h.DeleteGame)

		r.Get("/payment-methods", h.ListPaymentMethods)
		r.Post("/payment-methods", h.CreatePaymentMethod)
		r.Put("/payment-methods/{id}", h.UpdatePaymentMethod)
		r.Post("/payment-methods/{id}/toggle", h.TogglePaymentMethod)
		r.Delete("/payment-methods/{id}", h.DeletePaymentMethod)

		r.Get("/items", h.ListItems)
		r.Post("/items", h.CreateItem)
		r.Put("/items/{id}", h.UpdateItem)
		r.Post("/items/{id}/toggle", h.ToggleItem)
		r.Post("/items/bulk", h.BulkItems)

		r.Get("/tournaments", h.AdminListTournaments)
		r.Post("/tournaments", h.CreateTournament)
		r.Post("/tournaments/bulk", h.BulkTournaments)
		r.Post("/tournaments/{id}/start", h.StartTournament)
		r.Post("/tournaments/{id}/complete", h.CompleteTournament)
		r.Post("/tournaments/{id}/finish", h.FinishTournament)
		r.Post("/tournaments/{id}/cancel", h.CancelTournament)
		r.Post("/tournaments/{id}/room", h.SetTournamentRoom)
		r.Get("/tournaments/{id}/participants", h.ListParticipants)
		r.Get("/tournaments/{id}/results", h.ListResults)
		r.Post("/tournaments/{id}/resolve", h.ResolveDispute)

		r.Post("/participants/{id}/placement", h.SetPlacement)
		r.Post("/participants/award", h.AwardPrizes)

		r.Get("/chats", h.ListChats)
		r.Get("/chats/stats", h.GetChatStats)
		r.Get("/chats/{id}", h.OpenChat)
		r.Post("/chats/{id}/reply", h.ReplyChat)
		r.Post("/chats/{id}/read", h.MarkChatRead)
		r.Post("/chats/{id}/resolve", h.ResolveChat)
	})

	return r
}

// RequireAdmin rejects tokens that do not carry the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := auth.PrincipalFromContext(r.Context())
		if err != nil || !p.IsAdmin() {
			w.Header().Set("content-type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": backoffice.ErrForbidden.Error()}) //nolint:errcheck

			return
		}

		next.ServeHTTP(w, r)
	})
}

type Option func(r *Options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.log = logger
	}
}

func WithAuth(a *auth.JWTAuth) Option {
	return func(o *Options) {
		o.auth = a
	}
}

func WithAllowedOrigins(origins []string) Option {
	return func(o *Options) {
		o.allowedOrigins = origins
	}
}
