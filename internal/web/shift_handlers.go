package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	openShift, err := s.store.OpenShiftForUser(r.Context(), user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	closedShifts, err := s.store.ClosedShifts(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "dashboard", map[string]any{
		"open_shift":    openShift,
		"closed_shifts": closedShifts,
	})
}

func (s *Server) handleNewShiftForm(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	existing, err := s.store.OpenShiftForUser(r.Context(), user.ID)
	if err == nil {
		s.flashRedirect(w, r, "warning", "You already have an open shift. Continue it below.",
			fmt.Sprintf("/shift/%d", existing.ID))
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "shift_new", nil)
}

func (s *Server) handleNewShift(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	existing, err := s.store.OpenShiftForUser(r.Context(), user.ID)
	if err == nil {
		s.flashRedirect(w, r, "warning", "You already have an open shift. Continue it below.",
			fmt.Sprintf("/shift/%d", existing.ID))
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}

	date, err := time.Parse(domain.DateLayout, formValue(r, "date"))
	if err != nil {
		s.flashRedirect(w, r, "error", "A valid date is required.", "/shift/new")
		return
	}
	schedule := formValue(r, "schedule")
	if schedule == "" {
		s.flashRedirect(w, r, "error", "A schedule is required.", "/shift/new")
		return
	}

	shift := &domain.Shift{
		ModID:      user.ID,
		Date:       date,
		Schedule:   schedule,
		Occupancy:  optionalInt(r, "occupancy"),
		Arrivals:   optionalInt(r, "arrivals"),
		Departures: optionalInt(r, "departures"),
		Coverage: domain.Coverage{
			GMAGM:             formValue(r, "gm_agm"),
			Housekeeping:      formValue(r, "housekeeping"),
			FoodBeverage:      formValue(r, "food_beverage"),
			Sales:             formValue(r, "sales"),
			Aquatics:          formValue(r, "aquatics"),
			RetailAttractions: formValue(r, "retail_attractions"),
			KidsEntertainment: formValue(r, "kids_entertainment"),
			GuestServices:     formValue(r, "guest_services"),
			HR:                formValue(r, "hr"),
			Finance:           formValue(r, "finance"),
			Engineering:       formValue(r, "engineering"),
			IT:                formValue(r, "it"),
		},
	}
	if err := s.store.CreateShift(r.Context(), shift); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/shift/%d", shift.ID), http.StatusFound)
}

// loadShiftForEdit fetches the shift and enforces edit access. It writes
// the error response itself and returns nil when the caller should stop.
func (s *Server) loadShiftForEdit(w http.ResponseWriter, r *http.Request) *domain.Shift {
	shift, err := s.store.ShiftByID(r.Context(), pathID(r))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return nil
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil
	}
	if !shift.CanEdit(mustUser(r).ID) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return nil
	}
	return shift
}

func (s *Server) handleShiftDetail(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}

	sections, err := s.store.SectionsForShift(r.Context(), shift.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "shift_detail", map[string]any{
		"shift":          shift,
		"sections":       sections,
		"autosave_attrs": s.autosaveAttrs(fmt.Sprintf("/shift/%d/close", shift.ID)),
	})
}

// handleCloseShift records the wrap-up fields. A background save updates
// the draft and answers 204; a real submission also closes the shift and
// moves on to the report.
func (s *Server) handleCloseShift(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}

	shift.NPSScore = optionalInt(r, "nps_score")
	shift.NPSRank = optionalInt(r, "nps_rank")
	shift.QualityAssurance = formValue(r, "quality_assurance")
	shift.Suggestions = formValue(r, "suggestions")
	shift.ShiftNotes = formValue(r, "shift_notes")
	if raw := formValue(r, "pass_down_time"); raw != "" {
		if clock, err := domain.ParseClock(raw); err == nil {
			shift.PassDownTime = clock
		}
	}
	shift.PassDownNextMod = formValue(r, "pass_down_next_mod")
	shift.PassDownNotes = formValue(r, "pass_down_notes")

	background := s.autosave.IsBackgroundSave(r)
	if !background {
		shift.Status = domain.ShiftClosed
	}

	if err := s.store.UpdateShift(r.Context(), shift); err != nil {
		s.serverError(w, r, err)
		return
	}

	if background {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/report/%d", shift.ID), http.StatusFound)
}

func (s *Server) handleAddEditor(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	user := mustUser(r)
	if shift.ModID != user.ID && !user.Admin {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	editor, err := s.store.UserByEmail(r.Context(), formValue(r, "email"))
	if errors.Is(err, store.ErrNotFound) {
		s.flashRedirect(w, r, "error", "No user with that email.", fmt.Sprintf("/shift/%d", shift.ID))
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.store.AddEditor(r.Context(), shift.ID, editor.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.flashRedirect(w, r, "success", editor.Name+" can now edit this shift.",
		fmt.Sprintf("/shift/%d", shift.ID))
}
