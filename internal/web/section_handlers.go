package web

import (
	"fmt"
	"net/http"

	"github.com/techentum/mod-report/internal/domain"
)

// Section handlers mirror the shift detail page: every form posts to its
// own route and returns to the detail view.

func (s *Server) handleAddIncident(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	clock, err := domain.ParseClock(formValue(r, "incident_time"))
	code := formValue(r, "code")
	location := formValue(r, "location")
	if err != nil || code == "" || location == "" {
		s.flashRedirect(w, r, "error", "Incident code, time and location are required.", detail)
		return
	}

	rec := &domain.Incident{
		ShiftID:  shift.ID,
		Code:     code,
		Time:     clock,
		Location: location,
		Notes:    formValue(r, "notes"),
	}
	if err := s.store.AddIncident(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}

func (s *Server) handleAddDowntime(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	start, err := domain.ParseClock(formValue(r, "start_time"))
	outlet := formValue(r, "outlet")
	reason := formValue(r, "reason")
	if err != nil || outlet == "" || reason == "" {
		s.flashRedirect(w, r, "error", "Downtime outlet, start time and reason are required.", detail)
		return
	}

	rec := &domain.Downtime{
		ShiftID:   shift.ID,
		Outlet:    outlet,
		StartTime: start,
		Reason:    reason,
	}
	if raw := formValue(r, "end_time"); raw != "" {
		if end, err := domain.ParseClock(raw); err == nil {
			rec.EndTime = end
		}
	}
	if err := s.store.AddDowntime(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}

func (s *Server) handleAddGuestOpportunity(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	lastName := formValue(r, "last_name")
	room := formValue(r, "room")
	description := formValue(r, "description")
	if lastName == "" || room == "" || description == "" {
		s.flashRedirect(w, r, "error", "Guest name, room and description are required.", detail)
		return
	}

	rec := &domain.GuestOpportunity{
		ShiftID:      shift.ID,
		LastName:     lastName,
		Room:         room,
		Description:  description,
		Compensation: formValue(r, "compensation"),
	}
	if err := s.store.AddGuestOpportunity(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}

func (s *Server) handleAddRoomInspection(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	roomNumber := formValue(r, "room_number")
	roomType := formValue(r, "room_type")
	if roomNumber == "" || roomType == "" {
		s.flashRedirect(w, r, "error", "Room number and type are required.", detail)
		return
	}

	rec := &domain.RoomInspection{
		ShiftID:       shift.ID,
		RoomNumber:    roomNumber,
		RoomType:      roomType,
		Successes:     formValue(r, "successes"),
		Opportunities: formValue(r, "opportunities"),
	}
	if err := s.store.AddRoomInspection(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}

func (s *Server) handleAddOutletInspection(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	clock, err := domain.ParseClock(formValue(r, "inspection_time"))
	outlet := formValue(r, "outlet")
	if err != nil || outlet == "" {
		s.flashRedirect(w, r, "error", "Outlet and inspection time are required.", detail)
		return
	}

	rec := &domain.OutletInspection{
		ShiftID:       shift.ID,
		Outlet:        outlet,
		Time:          clock,
		Successes:     formValue(r, "successes"),
		Opportunities: formValue(r, "opportunities"),
	}
	if err := s.store.AddOutletInspection(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}

func (s *Server) handleAddHighPaw(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	packMembers := formValue(r, "pack_members")
	department := formValue(r, "department")
	description := formValue(r, "description")
	if packMembers == "" || department == "" || description == "" {
		s.flashRedirect(w, r, "error", "Pack members, department and description are required.", detail)
		return
	}

	rec := &domain.HighPaw{
		ShiftID:     shift.ID,
		PackMembers: packMembers,
		Department:  department,
		Description: description,
	}
	if err := s.store.AddHighPaw(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}

func (s *Server) handleAddModMeal(w http.ResponseWriter, r *http.Request) {
	shift := s.loadShiftForEdit(w, r)
	if shift == nil {
		return
	}
	detail := fmt.Sprintf("/shift/%d", shift.ID)

	outlet := formValue(r, "outlet")
	menuItem := formValue(r, "menu_item")
	if outlet == "" || menuItem == "" {
		s.flashRedirect(w, r, "error", "Outlet and menu item are required.", detail)
		return
	}

	rec := &domain.ModMeal{
		ShiftID:  shift.ID,
		Outlet:   outlet,
		MenuItem: menuItem,
		Feedback: formValue(r, "feedback"),
	}
	if err := s.store.AddModMeal(r.Context(), rec); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}
