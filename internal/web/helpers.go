package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/techentum/mod-report/internal/auth"
	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/logger"
)

// render executes a page template with the ambient context every page
// expects: the signed-in user, pending flash messages, and the autosave
// script mount.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["current_user"]; !ok {
		if user, err := s.auth.CurrentUser(r); err == nil {
			data["current_user"] = user
		}
	}
	data["flashes"] = s.auth.Flashes(w, r)
	data["autosave_src"] = s.autosaveMount()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.engine.RenderTo(w, name, data); err != nil {
		logger.Error("render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) autosaveMount() string {
	return s.autosave.MountPath("")
}

// autosaveAttrs returns the form attributes that opt a form into background
// saving against endpoint.
func (s *Server) autosaveAttrs(endpoint string) string {
	return s.autosave.FormAttrs(endpoint)
}

// flashRedirect queues a flash message and redirects.
func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, category, message, location string) {
	s.auth.AddFlash(w, r, category, message)
	http.Redirect(w, r, location, http.StatusFound)
}

// serverError logs err and answers 500.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// mustUser returns the user RequireUser attached to the context.
func mustUser(r *http.Request) *domain.User {
	user, _ := auth.UserFrom(r.Context())
	return user
}

// pathID extracts the numeric {id} route variable.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// formValue returns the trimmed form field.
func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// optionalInt parses an optional numeric form field. A blank field is nil;
// garbage is also nil, matching the forgiving behavior of the original app.
func optionalInt(r *http.Request, name string) *int {
	raw := formValue(r, name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
