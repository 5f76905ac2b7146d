package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/models"
	"github.com/Skotchmaster/shop_client/internal/notify"
)

var ErrNoSession = errors.New("no active session")

// Gateway is the slice of the backend client the session store uses.
type Gateway interface {
	Login(ctx context.Context, creds gateway.Credentials) (*gateway.AuthResponse, error)
	Register(ctx context.Context, req gateway.RegisterRequest) (*gateway.AuthResponse, error)
	UpdateProfile(ctx context.Context, userID int64, update gateway.ProfileUpdate) (*models.User, error)
}

// Storage persists identity and token across restarts. Both are written
// in one commit, a reload never sees one without the other.
type Storage interface {
	SaveSession(user *models.User, token string) error
	LoadSession() (*models.User, string, error)
	ClearSession() error
}

// Store is the single writer of the client's identity and token.
// "Am I logged in" is always derived from the identity being present,
// it is never tracked as a separate flag.
type Store struct {
	gw      Gateway
	storage Storage
	notify  notify.Notifier

	mu      sync.Mutex
	user    *models.User
	token   string
	loading bool
	lastErr string
	subs    []func(ctx context.Context, user *models.User)
}

func New(gw Gateway, storage Storage, n notify.Notifier) *Store {
	return &Store{
		gw:      gw,
		storage: storage,
		notify:  n,
		loading: true,
	}
}

// OnIdentityChange registers a callback fired whenever the identity
// becomes present, becomes absent, or switches to a different user.
// Callbacks run after the store's own state is committed, outside its
// lock, with the context of the triggering call. Register before
// Hydrate so a restored session is observed too.
func (s *Store) OnIdentityChange(fn func(ctx context.Context, user *models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Hydrate restores the session from durable storage. It must complete
// before any consumer reads the store; Loading reports true until then.
func (s *Store) Hydrate(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "session.hydrate")

	user, token, err := s.storage.LoadSession()
	if err != nil {
		s.setLoading(false)
		return err
	}

	if user != nil && tokenExpired(token) {
		l.Info("stored token expired, discarding session", "user_id", user.ID)
		if err := s.storage.ClearSession(); err != nil {
			l.Warn("clear expired session failed", "error", err)
		}
		user, token = nil, ""
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.loading = false
	s.mu.Unlock()

	if user != nil {
		l.Info("session restored", "user_id", user.ID, "username", user.Username)
		s.fireIdentityChange(ctx, user)
	}
	return nil
}

func (s *Store) Login(ctx context.Context, creds gateway.Credentials) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "session.login", "username", creds.Username)
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.gw.Login(ctx, creds)
	if err != nil {
		msg := gateway.Message(err, "Login failed")
		s.recordError(msg)
		s.notify.Error(msg)
		l.Warn("login failed", "error", err)
		return nil, err
	}

	s.commitSession(ctx, &resp.User, resp.Token)
	s.notify.Success("Login successful!")
	l.Info("login ok", "user_id", resp.User.ID)

	user := resp.User
	s.fireIdentityChange(ctx, &user)
	return &user, nil
}

// Register establishes the session on success, registration implies
// login.
func (s *Store) Register(ctx context.Context, req gateway.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "session.register", "username", req.Username)
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.gw.Register(ctx, req)
	if err != nil {
		msg := gateway.Message(err, "Registration failed")
		s.recordError(msg)
		s.notify.Error(msg)
		l.Warn("register failed", "error", err)
		return nil, err
	}

	s.commitSession(ctx, &resp.User, resp.Token)
	s.notify.Success("Registration successful!")
	l.Info("register ok", "user_id", resp.User.ID)

	user := resp.User
	s.fireIdentityChange(ctx, &user)
	return &user, nil
}

// Logout is unconditional and cannot fail: memory is cleared even when
// durable storage errors.
func (s *Store) Logout(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "session.logout")

	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.storage.ClearSession(); err != nil {
		l.Warn("clear stored session failed", "error", err)
	}

	s.notify.Success("Logged out successfully!")
	if wasAuthenticated {
		s.fireIdentityChange(ctx, nil)
	}
}

func (s *Store) UpdateProfile(ctx context.Context, update gateway.ProfileUpdate) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "session.update_profile")

	s.mu.Lock()
	current := s.user
	s.mu.Unlock()
	if current == nil {
		return nil, ErrNoSession
	}

	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.gw.UpdateProfile(ctx, current.ID, update)
	if err != nil {
		msg := gateway.Message(err, "Failed to update profile")
		s.notify.Error(msg)
		l.Warn("update profile failed", "user_id", current.ID, "error", err)
		return nil, err
	}

	// Identity is replaced wholesale, same user, so no identity-change
	// callbacks fire.
	s.commitSession(ctx, updated, s.Token())
	s.notify.Success("Profile updated successfully!")
	l.Info("profile updated", "user_id", updated.ID)
	return updated, nil
}

func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) commitSession(ctx context.Context, user *models.User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.storage.SaveSession(user, token); err != nil {
		logging.FromContext(ctx).Warn("persist session failed", "user_id", user.ID, "error", err)
	}
}

func (s *Store) fireIdentityChange(ctx context.Context, user *models.User) {
	s.mu.Lock()
	subs := make([]func(context.Context, *models.User), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ctx, user)
	}
}

func (s *Store) recordError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// tokenExpired inspects the stored token's exp claim without verifying
// the signature (the client has no signing key). Tokens that are not
// JWTs are treated as still valid and left to the backend to reject.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
