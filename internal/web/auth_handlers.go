package web

import (
	"errors"
	"net/http"

	"github.com/techentum/mod-report/internal/auth"
	"github.com/techentum/mod-report/internal/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.auth.IsSignedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := formValue(r, "name")
	email := formValue(r, "email")
	password := r.PostFormValue("password")

	if name == "" || email == "" || password == "" {
		s.flashRedirect(w, r, "error", "All fields are required.", "/register")
		return
	}

	user, err := s.auth.Register(r.Context(), name, email, password)
	if errors.Is(err, store.ErrEmailTaken) {
		s.flashRedirect(w, r, "error", "Email already registered.", "/register")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.auth.SignIn(w, r, user); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := r.PostFormValue("password")

	user, err := s.auth.Authenticate(r.Context(), email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.flashRedirect(w, r, "error", "Invalid credentials.", "/login")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.auth.SignIn(w, r, user); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(w, r); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
