package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/techentum/mod-report/internal/store"
	"github.com/techentum/mod-report/internal/store/memory"
)

func newTestManager(t *testing.T) (*Manager, *memory.Store) {
	t.Helper()
	mem := memory.NewStore()
	return NewManager(mem, "test-secret", "modreport_test"), mem
}

// passSession copies the session cookie from a response onto a new request.
func passSession(t *testing.T, res *http.Response, req *http.Request) {
	t.Helper()
	cookies := res.Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "Avery", "Avery@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "hunter2" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if user.Email != "avery@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}

	if _, err := m.Register(ctx, "Other", "avery@example.com", "x"); err != store.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Register(ctx, "Avery", "avery@example.com", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := m.Authenticate(ctx, "AVERY@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.Name != "Avery" {
		t.Fatalf("unexpected user %q", user.Name)
	}

	if _, err := m.Authenticate(ctx, "avery@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := m.Authenticate(ctx, "nobody@example.com", "x"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "Avery", "avery@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := m.SignIn(rec, req, user); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	// Present the cookie on the next request.
	next := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	passSession(t, rec.Result(), next)

	current, err := m.CurrentUser(next)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if current.ID != user.ID {
		t.Fatalf("wrong user: %d != %d", current.ID, user.ID)
	}
	if !m.IsSignedIn(next) {
		t.Fatal("IsSignedIn should be true with a valid session")
	}

	// Sign out invalidates the session.
	rec2 := httptest.NewRecorder()
	if err := m.SignOut(rec2, next); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	after := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	passSession(t, rec2.Result(), after)
	if _, err := m.CurrentUser(after); err != ErrNotSignedIn {
		t.Fatalf("expected ErrNotSignedIn after sign-out, got %v", err)
	}
}

func TestCurrentUserWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.CurrentUser(req); err != ErrNotSignedIn {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestRequireUser(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var sawUser bool
	protected := m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); ok {
			sawUser = true
		}
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous request redirects to login.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}

	// Authenticated request passes through with the user in context.
	user, err := m.Register(ctx, "Avery", "avery@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	signInRec := httptest.NewRecorder()
	if err := m.SignIn(signInRec, httptest.NewRequest(http.MethodPost, "/login", nil), user); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	authed := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	passSession(t, signInRec.Result(), authed)
	rec2 := httptest.NewRecorder()
	protected.ServeHTTP(rec2, authed)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec2.Code)
	}
	if !sawUser {
		t.Fatal("expected the user to be attached to the request context")
	}
}

func TestFlashRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	m.AddFlash(rec, req, "error", "Invalid credentials.")

	next := httptest.NewRequest(http.MethodGet, "/login", nil)
	passSession(t, rec.Result(), next)

	rec2 := httptest.NewRecorder()
	flashes := m.Flashes(rec2, next)
	if len(flashes) != 1 {
		t.Fatalf("expected 1 flash, got %d", len(flashes))
	}
	if flashes[0].Category != "error" || flashes[0].Message != "Invalid credentials." {
		t.Fatalf("unexpected flash %+v", flashes[0])
	}

	// Flashes drain on read.
	again := httptest.NewRequest(http.MethodGet, "/login", nil)
	passSession(t, rec2.Result(), again)
	if rest := m.Flashes(httptest.NewRecorder(), again); len(rest) != 0 {
		t.Fatalf("expected flashes to drain, got %d", len(rest))
	}
}
