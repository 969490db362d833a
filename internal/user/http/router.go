package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/AlibekovAA/crudik/internal/common/http"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
)

type UserInteractor interface {
	CreateUser(ctx context.Context) (userdomain.User, error)
	ReadUser(ctx context.Context, id string) (userdomain.User, error)
	Ping(ctx context.Context) string
}

// Scope holds the per-request dependencies. Close releases the request
// transaction and is called once the response has been written.
type Scope interface {
	Users() UserInteractor
	Close(ctx context.Context) error
}

type ScopeFactory func(r *http.Request) Scope

type Handler struct {
	scopes  ScopeFactory
	errs    *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

type userResponse struct {
	ID string `json:"id"`
}

func NewHandler(scopes ScopeFactory, errs *commonhttp.ErrorHandler, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		scopes:  scopes,
		errs:    errs,
		log:     log,
		timeout: timeout,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(commonhttp.WithTimeout(h.timeout))
		r.Post("/users/", h.withScope(h.createUser))
		r.Get("/users/{user_id}", h.withScope(h.readUser))
		r.Get("/ping/", h.withScope(h.ping))
	})
}

type scopedHandler func(w http.ResponseWriter, r *http.Request, users UserInteractor)

func (h *Handler) withScope(next scopedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := h.scopes(r)
		defer func() {
			if err := scope.Close(context.WithoutCancel(r.Context())); err != nil {
				h.log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "request_scope_close_failed",
				}).Errorf("failed to close request scope: %v", err)
			}
		}()
		next(w, r, scope.Users())
	}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, users UserInteractor) {
	user, err := users.CreateUser(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, userResponse{ID: user.ID.String()})
}

func (h *Handler) readUser(w http.ResponseWriter, r *http.Request, users UserInteractor) {
	user, err := users.ReadUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, userResponse{ID: user.ID.String()})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request, users UserInteractor) {
	commonhttp.WriteJSON(w, http.StatusOK, users.Ping(r.Context()))
}
