// Package web is the HTTP layer of mod-report: routing, page handlers,
// and the embedded pongo2 templates they render.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"

	"github.com/techentum/mod-report/components/autosave"
	"github.com/techentum/mod-report/internal/auth"
	"github.com/techentum/mod-report/internal/render"
	"github.com/techentum/mod-report/internal/store"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Server holds the handler dependencies.
type Server struct {
	store     store.Store
	auth      *auth.Manager
	engine    *render.Engine
	autosave  *autosave.Component
	sanitizer *bluemonday.Policy
}

// Option adjusts server construction.
type Option func(*Server)

// WithAutosave replaces the default autosave component.
func WithAutosave(c *autosave.Component) Option {
	return func(s *Server) {
		if c != nil {
			s.autosave = c
		}
	}
}

// New wires the web layer against st and authManager.
func New(st store.Store, authManager *auth.Manager, options ...Option) (*Server, error) {
	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("web: template bundle: %w", err)
	}
	engine, err := render.New(
		render.WithFS(templates),
		render.WithGlobals(map[string]any{"app_name": "MOD Report"}),
	)
	if err != nil {
		return nil, fmt.Errorf("web: configure renderer: %w", err)
	}

	s := &Server{
		store:     st,
		auth:      authManager,
		engine:    engine,
		autosave:  autosave.New(),
		sanitizer: bluemonday.UGCPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Router builds the application router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	// Public routes.
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.Handle(s.autosave.MountPath(""), s.autosave.Handler()).Methods(http.MethodGet, http.MethodHead)

	// Everything else requires a session.
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(s.auth.RequireUser)
	protected.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	protected.HandleFunc("/shift/new", s.handleNewShiftForm).Methods(http.MethodGet)
	protected.HandleFunc("/shift/new", s.handleNewShift).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}", s.handleShiftDetail).Methods(http.MethodGet)
	protected.HandleFunc("/shift/{id:[0-9]+}/close", s.handleCloseShift).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/incident", s.handleAddIncident).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/downtime", s.handleAddDowntime).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/guest-opportunity", s.handleAddGuestOpportunity).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/room-inspection", s.handleAddRoomInspection).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/outlet-inspection", s.handleAddOutletInspection).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/high-paw", s.handleAddHighPaw).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/mod-meal", s.handleAddModMeal).Methods(http.MethodPost)
	protected.HandleFunc("/shift/{id:[0-9]+}/editors", s.handleAddEditor).Methods(http.MethodPost)
	protected.HandleFunc("/report/{id:[0-9]+}", s.handleReport).Methods(http.MethodGet)
	protected.HandleFunc("/report/{id:[0-9]+}/comment", s.handleAddComment).Methods(http.MethodPost)

	return r
}
