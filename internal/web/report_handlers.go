package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	shift, err := s.store.ShiftByID(r.Context(), pathID(r))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !shift.CanView(user.ID) && !user.Admin {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	sections, err := s.store.SectionsForShift(r.Context(), shift.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	comments, err := s.store.CommentsForShift(r.Context(), shift.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	mod, err := s.store.UserByID(r.Context(), shift.ModID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "report", map[string]any{
		"shift":    shift,
		"mod":      mod,
		"sections": sections,
		"comments": s.presentComments(r, comments),
	})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	shift, err := s.store.ShiftByID(r.Context(), pathID(r))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !shift.CanView(user.ID) && !user.Admin {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	report := fmt.Sprintf("/report/%d", shift.ID)
	body := s.sanitizer.Sanitize(formValue(r, "body"))
	if body == "" {
		s.flashRedirect(w, r, "error", "A comment needs a body.", report)
		return
	}

	rec := &domain.ReportComment{
		ShiftID:  shift.ID,
		AuthorID: user.ID,
		Body:     body,
	}
	if err := s.store.AddComment(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, report, http.StatusFound)
}

// commentView pairs a comment with its author for the template.
type commentView struct {
	Comment domain.ReportComment
	Author  string
}

func (s *Server) presentComments(r *http.Request, comments []domain.ReportComment) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		author := "Unknown"
		if user, err := s.store.UserByID(r.Context(), comment.AuthorID); err == nil {
			author = user.Name
			if user.JobTitle != "" {
				author += " (" + user.JobTitle + ")"
			}
		}
		views = append(views, commentView{Comment: comment, Author: author})
	}
	return views
}
