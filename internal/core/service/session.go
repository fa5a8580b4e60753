package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.SessionManager = (*Session)(nil)
var _ port.AuthChecker = (*Session)(nil)

var ErrNoToken = errors.New("no token in response")

const (
	DefaultLoginRoute   = "/login"
	DefaultLandingRoute = "/"
)

// Routes are the navigation entry points the guards redirect to.
type Routes struct {
	Login   string
	Landing string
}

func (r *Routes) normalize() {
	if r.Login == "" {
		r.Login = DefaultLoginRoute
	}
	if r.Landing == "" {
		r.Landing = DefaultLandingRoute
	}
}

type SessionOpt func(*sessionOpts) error

type sessionOpts struct {
	storage port.KVStorage
	auth    port.AuthAPI
	routes  Routes
	now     func() time.Time
}

func SessionStorageOpt(s port.KVStorage) SessionOpt {
	return func(o *sessionOpts) error {
		if s == nil {
			return errors.New("storage is nil")
		}
		o.storage = s
		return nil
	}
}

func SessionAuthOpt(a port.AuthAPI) SessionOpt {
	return func(o *sessionOpts) error {
		if a == nil {
			return errors.New("auth api is nil")
		}
		o.auth = a
		return nil
	}
}

func SessionRoutesOpt(r Routes) SessionOpt {
	return func(o *sessionOpts) error {
		o.routes = r
		return nil
	}
}

func SessionClockOpt(now func() time.Time) SessionOpt {
	return func(o *sessionOpts) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		o.now = now
		return nil
	}
}

type userRecord struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type loginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// A Session holds the authentication state of the client.
//
// The state is rehydrated from storage once, at construction. From then on
// the in-memory state is authoritative.
type Session struct {
	mu      sync.RWMutex
	state   domain.Session
	token   string
	storage port.KVStorage
	auth    port.AuthAPI
	routes  Routes
	now     func() time.Time
	gate    submitGate
}

func NewSession(ctx context.Context, opts ...SessionOpt) (*Session, error) {
	const op = "NewSession"

	options := sessionOpts{now: time.Now}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, opErr(err, op)
		}
	}
	if options.storage == nil || options.auth == nil {
		return nil, opErr(ErrTooFewOpts, op)
	}
	options.routes.normalize()

	s := &Session{
		storage: options.storage,
		auth:    options.auth,
		routes:  options.routes,
		now:     options.now,
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

func (s *Session) Routes() Routes {
	return s.routes
}

func (s *Session) rehydrate(ctx context.Context) error {
	const op = "Session.rehydrate"
	log := slog.With("op", op)

	token, ok, err := s.storage.Get(ctx, port.KeyToken)
	if err != nil {
		return opErr(err, op)
	}
	if !ok || token == "" {
		return nil
	}

	if tokenExpired(token, s.now()) {
		log.Warn("stored token is expired, logging out")
		return s.clear(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.state = domain.Session{
		Authenticated: true,
		User:          s.loadUser(ctx),
	}
	log.Info("session restored")
	return nil
}

func (s *Session) loadUser(ctx context.Context) *domain.User {
	const op = "Session.loadUser"

	var u *domain.User
	if data, ok, _ := s.storage.Get(ctx, port.KeyUser); ok {
		var r userRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			slog.Warn("malformed stored user", "op", op, "err", err)
		} else {
			u = &domain.User{
				ID: r.ID, Username: r.Username, Email: r.Email, Role: r.Role,
			}
		}
	}

	email, hasEmail, _ := s.storage.Get(ctx, port.KeyEmail)
	role, hasRole, _ := s.storage.Get(ctx, port.KeyRole)
	if u == nil && (hasEmail || hasRole) {
		u = &domain.User{}
	}
	if u != nil && hasEmail && u.Email == "" {
		u.Email = email
	}
	if u != nil && hasRole && u.Role == "" {
		u.Role = role
	}
	return u
}

func (s *Session) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.state
	if v.User != nil {
		u := *v.User
		v.User = &u
	}
	return v
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Token returns the authentication token or an empty string.
func (s *Session) Token(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Submitting reports whether a login or registration is in flight.
func (s *Session) Submitting() bool {
	return s.gate.inFlight()
}

func (s *Session) Login(
	ctx context.Context, form domain.LoginForm,
) (domain.Session, error) {
	const op = "Session.Login"

	in := loginInput{Username: form.Username, Password: form.Password}
	if err := validate.Struct(in); err != nil {
		return domain.Session{}, opErr(invalid(domain.ErrInvalidForm, err), op)
	}

	release, ok := s.gate.enter()
	if !ok {
		return domain.Session{}, opErr(domain.ErrSubmitInProgress, op)
	}
	defer release()

	creds, err := s.auth.Login(ctx, form)
	if err != nil {
		return domain.Session{}, opErr(err, op)
	}

	if err := s.establish(ctx, creds); err != nil {
		return domain.Session{}, opErr(err, op)
	}
	return s.Current(), nil
}

func (s *Session) Register(
	ctx context.Context, form domain.RegisterForm,
) (domain.Session, error) {
	const op = "Session.Register"

	in := registerInput{
		Username: form.Username, Email: form.Email, Password: form.Password,
	}
	if err := validate.Struct(in); err != nil {
		return domain.Session{}, opErr(invalid(domain.ErrInvalidForm, err), op)
	}

	release, ok := s.gate.enter()
	if !ok {
		return domain.Session{}, opErr(domain.ErrSubmitInProgress, op)
	}
	defer release()

	creds, err := s.auth.Register(ctx, form)
	if err != nil {
		return domain.Session{}, opErr(err, op)
	}

	if err := s.establish(ctx, creds); err != nil {
		return domain.Session{}, opErr(err, op)
	}
	return s.Current(), nil
}

func (s *Session) establish(ctx context.Context, creds domain.Credentials) error {
	const op = "Session.establish"
	log := slog.With("op", op)

	if creds.Token == "" {
		return opErr(ErrNoToken, op)
	}

	if err := s.storage.Set(ctx, port.KeyToken, creds.Token); err != nil {
		return opErr(err, op)
	}

	if u := creds.User; u != nil {
		if err := s.storeUser(ctx, *u); err != nil {
			log.Warn("failed to store user", "err", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = creds.Token
	s.state = domain.Session{Authenticated: true}
	if creds.User != nil {
		u := *creds.User
		s.state.User = &u
	}
	log.Info("authenticated")
	return nil
}

func (s *Session) storeUser(ctx context.Context, u domain.User) error {
	b, err := json.Marshal(userRecord{
		ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role,
	})
	if err != nil {
		return err
	}

	var errs []error
	errs = append(errs, s.storage.Set(ctx, port.KeyUser, string(b)))
	if u.Email != "" {
		errs = append(errs, s.storage.Set(ctx, port.KeyEmail, u.Email))
	}
	if u.Role != "" {
		errs = append(errs, s.storage.Set(ctx, port.KeyRole, u.Role))
	}
	return errors.Join(errs...)
}

// Logout ends the session and returns the route to navigate to.
//
// Logging out an unauthenticated session is a no-op with the same result.
func (s *Session) Logout(ctx context.Context) (string, error) {
	const op = "Session.Logout"

	if err := s.clear(ctx); err != nil {
		return s.routes.Login, opErr(err, op)
	}
	slog.Info("logged out", "op", op)
	return s.routes.Login, nil
}

// Expire ends the session after the remote side rejected the token.
func (s *Session) Expire(ctx context.Context) {
	const op = "Session.Expire"
	log := slog.With("op", op)

	if err := s.clear(ctx); err != nil {
		log.Error("failed to clear session storage", "err", err)
	}
	log.Warn("session expired")
}

func (s *Session) clear(ctx context.Context) error {
	keys := []string{
		port.KeyToken, port.KeyRefreshToken,
		port.KeyRole, port.KeyEmail, port.KeyUser,
	}

	var errs []error
	for _, k := range keys {
		errs = append(errs, s.storage.Remove(ctx, k))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.state = domain.Session{}
	return errors.Join(errs...)
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens never expire on the client.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
