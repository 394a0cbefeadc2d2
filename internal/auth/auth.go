// Package auth provides cookie-session authentication for the web app:
// bcrypt password hashing, sign-in/sign-out, a login-required middleware,
// and session-backed flash messages.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
)

var (
	// ErrInvalidCredentials is returned when email or password is wrong.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrNotSignedIn is returned when no valid session is present.
	ErrNotSignedIn = errors.New("auth: not signed in")
)

const userIDKey = "user_id"

// Manager ties the user store to the cookie session store.
type Manager struct {
	users      store.UserStore
	sessions   sessions.Store
	cookieName string
}

// NewManager builds a Manager with a cookie store signed by secret.
func NewManager(users store.UserStore, secret, cookieName string) *Manager {
	cookieStore := sessions.NewCookieStore([]byte(secret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{
		users:      users,
		sessions:   cookieStore,
		cookieName: cookieName,
	}
}

// Register creates an account with a bcrypt-hashed password.
// It returns store.ErrEmailTaken for duplicate emails.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks email and password and returns the matching user.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := m.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SignIn stores the user id in the session cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	session, err := m.session(r)
	if err != nil {
		return err
	}
	session.Values[userIDKey] = user.ID
	return session.Save(r, w)
}

// SignOut drops the session.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := m.session(r)
	if err != nil {
		return err
	}
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// CurrentUser resolves the signed-in user from the request session.
func (m *Manager) CurrentUser(r *http.Request) (*domain.User, error) {
	session, err := m.session(r)
	if err != nil {
		return nil, ErrNotSignedIn
	}
	id, ok := session.Values[userIDKey].(int64)
	if !ok {
		return nil, ErrNotSignedIn
	}
	user, err := m.users.UserByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotSignedIn
	}
	return user, err
}

// IsSignedIn reports whether the request carries a valid session.
func (m *Manager) IsSignedIn(r *http.Request) bool {
	_, err := m.CurrentUser(r)
	return err == nil
}

func (m *Manager) session(r *http.Request) (*sessions.Session, error) {
	// Get never fails fatally for cookie stores; a bad cookie yields a
	// fresh session, which is what we want.
	session, _ := m.sessions.Get(r, m.cookieName)
	if session == nil {
		return nil, ErrNotSignedIn
	}
	return session, nil
}

type contextKey struct{}

// UserFrom returns the user the middleware attached to ctx.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*domain.User)
	return user, ok
}

// RequireUser redirects anonymous requests to /login and attaches the
// current user to the request context otherwise.
func (m *Manager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.CurrentUser(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
