package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/andymarkow/gamevault/internal/auth"
	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/errmsg"
	"github.com/andymarkow/gamevault/internal/logger"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/server/models"
	"github.com/andymarkow/gamevault/internal/storage"
)

type Handlers struct {
	storage    storage.Storage
	portal     *portal.Service
	backoffice *backoffice.Service
	log        *slog.Logger
	auth       *auth.JWTAuth
	validate   *validator.Validate
}

// NewHandlers returns a new Handlers instance.
func NewHandlers(
	store storage.Storage, portalSvc *portal.Service, backofficeSvc *backoffice.Service, opts ...Option,
) *Handlers {
	handlers := &Handlers{
		storage:    store,
		portal:     portalSvc,
		backoffice: backofficeSvc,
		log:        logger.NewNop(),
		auth:       auth.NewJWTAuth([]byte("")),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}

	// Apply options
	for _, opt := range opts {
		opt(handlers)
	}

	return handlers
}

// Option is a functional option for Handlers.
type Option func(h *Handlers)

// WithLogger is a option for Handlers that sets logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		h.log = logger
	}
}

func WithAuth(auth *auth.JWTAuth) Option {
	return func(h *Handlers) {
		h.auth = auth
	}
}

type JSONResponse struct {
	Message any `json:"message,omitempty"`
	Error   any `json:"error,omitempty"`
}

func handleJSONResponse(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, err errmsg.HTTPError) {
	resp := &JSONResponse{
		Error: err.Error(),
	}

	w.Header().Set("content-type", "application/json")
	w.WriteHeader(err.Code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// fail logs err under op and writes the matching HTTP error.
func (h *Handlers) fail(w http.ResponseWriter, op string, err error) {
	httpErr := errmsg.FromError(err)

	if httpErr.Code >= http.StatusInternalServerError {
		h.log.Error(op, slog.Any("error", err))
	} else {
		h.log.Debug(op, slog.Any("error", err))
	}

	handleError(w, httpErr)
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler may go on.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.Debug("json.NewDecoder().Decode()", slog.Any("error", err))

		if errors.Is(err, io.EOF) {
			handleError(w, errmsg.ErrRequestPayloadEmpty)
		} else {
			handleError(w, errmsg.ErrRequestPayloadInvalid)
		}

		return false
	}

	if err := h.validate.Struct(v); err != nil {
		h.fail(w, "validate.Struct()", err)

		return false
	}

	return true
}

// decodeOptional is decode for bodies that may be omitted entirely.
func (h *Handlers) decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}

	return h.decode(w, r, v)
}

func (h *Handlers) principal(w http.ResponseWriter, r *http.Request) (users.Principal, bool) {
	p, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		h.log.Error("auth.PrincipalFromContext()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusUnauthorized, err))

		return users.Principal{}, false
	}

	return p, true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		handleError(w, errmsg.ErrRequestParamInvalid)

		return 0, false
	}

	return id, true
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(r.Context()); err != nil {
		h.log.Error("storage.Ping", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{Message: "ok"})
}

func (h *Handlers) writeToken(w http.ResponseWriter, status int, usr *users.User) {
	token, err := h.auth.CreateJWTString(usr.Principal())
	if err != nil {
		h.fail(w, "auth.CreateJWTString()", err)

		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	handleJSONResponse(w, status, models.TokenResponse{Token: token})
}
