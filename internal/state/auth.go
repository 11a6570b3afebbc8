// ABOUTME: Auth state manager: login, registration, logout and session restore
// ABOUTME: Mirrors the session into the key-value store and the API client

package state

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/kvstore"
)

// Fallback reasons when the service gives no usable message
const (
	ErrLoginFailed        = "Login failed"
	ErrRegistrationFailed = "Registration failed"
)

// AuthAPI is the slice of the remote client the auth manager needs
type AuthAPI interface {
	Login(ctx context.Context, creds client.Credentials) (*client.AuthResponse, error)
	Register(ctx context.Context, creds client.Credentials) (*client.AuthResponse, error)
	SetToken(token string)
}

// Session is the authenticated identity; empty fields mean absent
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Authenticated reports whether a token is held
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// AuthOp names the request an auth event belongs to
type AuthOp string

const (
	OpLogin    AuthOp = "login"
	OpRegister AuthOp = "register"
)

// AuthState is the committed auth snapshot
type AuthState struct {
	Session
	Loading bool
	Error   string
	// Phase and Op describe the most recent login/register request
	Phase Phase
	Op    AuthOp
}

// AuthEvent is implemented by every auth reducer event
type AuthEvent interface{ authEvent() }

type SessionRestored struct{ Session Session }
type AuthRequestStarted struct{ Op AuthOp }
type AuthRequestSucceeded struct {
	Op      AuthOp
	Session Session
}
type AuthRequestFailed struct {
	Op     AuthOp
	Reason string
}
type LoggedOut struct{}
type ErrorCleared struct{}

func (SessionRestored) authEvent()      {}
func (AuthRequestStarted) authEvent()   {}
func (AuthRequestSucceeded) authEvent() {}
func (AuthRequestFailed) authEvent()    {}
func (LoggedOut) authEvent()            {}
func (ErrorCleared) authEvent()         {}

// ReduceAuth is the pure auth reducer
func ReduceAuth(s AuthState, e AuthEvent) AuthState {
	switch ev := e.(type) {
	case SessionRestored:
		s.Session = ev.Session
	case AuthRequestStarted:
		s.Loading = true
		s.Error = ""
		s.Phase = Pending
		s.Op = ev.Op
	case AuthRequestSucceeded:
		s.Session = ev.Session
		s.Loading = false
		s.Error = ""
		s.Phase = Fulfilled
		s.Op = ev.Op
	case AuthRequestFailed:
		s.Loading = false
		s.Error = ev.Reason
		s.Phase = Rejected
		s.Op = ev.Op
	case LoggedOut:
		s.Session = Session{}
	case ErrorCleared:
		s.Error = ""
	}
	return s
}

// Auth owns the session
type Auth struct {
	api    AuthAPI
	kv     kvstore.Store
	logger *slog.Logger
	store  *Store[AuthState, AuthEvent]
}

// NewAuth creates an auth manager with no session. A nil logger uses slog.Default().
func NewAuth(api AuthAPI, kv kvstore.Store, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{
		api:    api,
		kv:     kv,
		logger: logger.With("component", "auth"),
		store:  NewStore(AuthState{}, ReduceAuth),
	}
}

// State returns the committed snapshot
func (a *Auth) State() AuthState {
	return a.store.Get()
}

// Subscribe calls fn after every commit
func (a *Auth) Subscribe(fn func(AuthState)) func() {
	return a.store.Subscribe(fn)
}

// InitializeSession restores a persisted session. It never fails: read errors
// are logged and treated as no session.
func (a *Auth) InitializeSession(ctx context.Context) Session {
	token, ok, err := a.kv.Get(ctx, kvstore.KeyUserToken)
	if err != nil {
		a.logger.Warn("Failed to read stored token", "error", err)
		a.store.Dispatch(SessionRestored{})
		return Session{}
	}
	if !ok || token == "" {
		a.store.Dispatch(SessionRestored{})
		return Session{}
	}

	session := Session{Token: token}
	userID, ok, err := a.kv.Get(ctx, kvstore.KeyUserID)
	switch {
	case err != nil:
		a.logger.Warn("Failed to read stored user id", "error", err)
	case ok:
		session.UserID = userID
	}
	if session.UserID == "" {
		session.UserID = userIDFromToken(token)
	}

	a.api.SetToken(token)
	a.store.Dispatch(SessionRestored{Session: session})
	a.logger.Debug("Session restored", "user_id", session.UserID)
	return session
}

// Login authenticates with email and password
func (a *Auth) Login(ctx context.Context, creds client.Credentials) AuthState {
	return a.authenticate(ctx, OpLogin, creds)
}

// Register creates an account and signs in with it
func (a *Auth) Register(ctx context.Context, creds client.Credentials) AuthState {
	return a.authenticate(ctx, OpRegister, creds)
}

func (a *Auth) authenticate(ctx context.Context, op AuthOp, creds client.Credentials) AuthState {
	a.store.Dispatch(AuthRequestStarted{Op: op})

	call := a.api.Login
	if op == OpRegister {
		call = a.api.Register
	}

	resp, err := call(ctx, creds)
	if err != nil {
		reason := authFailureReason(op, err)
		a.logger.Warn("Authentication failed", "op", op, "error", err)
		return a.store.Dispatch(AuthRequestFailed{Op: op, Reason: reason})
	}

	session := Session{Token: resp.Token, UserID: string(resp.ID)}
	if session.UserID == "" {
		session.UserID = userIDFromToken(resp.Token)
	}

	a.api.SetToken(session.Token)
	a.persist(ctx, session)

	a.logger.Info("Authenticated", "op", op, "user_id", session.UserID)
	return a.store.Dispatch(AuthRequestSucceeded{Op: op, Session: session})
}

// persist mirrors the session into the key-value store; failures are logged only
func (a *Auth) persist(ctx context.Context, session Session) {
	if err := a.kv.Set(ctx, kvstore.KeyUserToken, session.Token); err != nil {
		a.logger.Warn("Failed to persist token", "error", err)
	}

	var err error
	if session.UserID != "" {
		err = a.kv.Set(ctx, kvstore.KeyUserID, session.UserID)
	} else {
		err = a.kv.Delete(ctx, kvstore.KeyUserID)
	}
	if err != nil {
		a.logger.Warn("Failed to persist user id", "error", err)
	}
}

// Logout forgets the session. Token and user id are cleared even when the
// stored copies cannot be removed.
func (a *Auth) Logout(ctx context.Context) AuthState {
	for _, key := range []string{kvstore.KeyUserToken, kvstore.KeyUserID} {
		if err := a.kv.Delete(ctx, key); err != nil {
			a.logger.Warn("Failed to remove stored session", "key", key, "error", err)
		}
	}
	a.api.SetToken("")

	a.logger.Info("Logged out")
	return a.store.Dispatch(LoggedOut{})
}

// ClearError resets the error message only
func (a *Auth) ClearError() AuthState {
	return a.store.Dispatch(ErrorCleared{})
}

// authFailureReason surfaces the service's own message, or the per-op fallback
func authFailureReason(op AuthOp, err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if op == OpRegister {
		return ErrRegistrationFailed
	}
	return ErrLoginFailed
}

// userIDFromToken reads the sub (or id) claim without verifying the signature.
// Opaque tokens yield an empty id.
func userIDFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	switch id := claims["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}
