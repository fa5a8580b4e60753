package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// POST v1/auth/login JSON {"username", "password"} (200 OK, 400, 409, 502)
// POST v1/auth/register JSON {"username", "email", "password"} (201 Created, 400, 409, 502)
// POST v1/auth/logout (200 OK {"redirect_to"})
// GET v1/session (200 OK)

type AuthHandler struct {
	session port.SessionManager
}

// RegisterAuth mounts login and register behind public and the rest behind
// protected.
func RegisterAuth(
	mux *http.ServeMux,
	session port.SessionManager,
	public, protected port.RouteGuard,
) {
	h := AuthHandler{session}
	mux.Handle("POST /v1/auth/login",
		Guarded(public, AllowJSON(http.HandlerFunc(h.Login))))
	mux.Handle("POST /v1/auth/register",
		Guarded(public, AllowJSON(http.HandlerFunc(h.Register))))
	mux.Handle("POST /v1/auth/logout",
		Guarded(protected, http.HandlerFunc(h.Logout)))
	mux.Handle("GET /v1/session",
		Guarded(protected, http.HandlerFunc(h.GetSession)))
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Login"
	log := slog.With("op", op)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	s, err := h.session.Login(r.Context(), domain.LoginForm{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, sessionFromDomain(s))
}

func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Register"
	log := slog.With("op", op)

	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	s, err := h.session.Register(r.Context(), domain.RegisterForm{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, sessionFromDomain(s))
}

func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Logout"
	log := slog.With("op", op)

	to, err := h.session.Logout(r.Context())
	if err != nil {
		log.Error("failed to clear session storage", "err", err)
	}
	writeJSON(w, log, http.StatusOK, Redirect{RedirectTo: to})
}

func (h AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.GetSession"
	log := slog.With("op", op)

	writeJSON(w, log, http.StatusOK, sessionFromDomain(h.session.Current()))
}
