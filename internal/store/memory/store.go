// Package memory is an in-memory implementation of store.Store used by
// tests and for running the server without a data directory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
)

// Ensure Store implements the interface.
var _ store.Store = (*Store)(nil)

// Store keeps every record in maps guarded by one mutex.
type Store struct {
	mu sync.RWMutex

	nextID   int64
	users    map[int64]*domain.User
	shifts   map[int64]*domain.Shift
	sections map[int64]*domain.Sections
	comments map[int64][]domain.ReportComment
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*domain.User),
		shifts:   make(map[int64]*domain.Shift),
		sections: make(map[int64]*domain.Sections),
		comments: make(map[int64][]domain.ReportComment),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// CreateUser inserts user and fills in its ID.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			return store.ErrEmailTaken
		}
	}
	user.ID = s.id()
	user.Email = email
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// UserByID returns the user with the given id, or store.ErrNotFound.
func (s *Store) UserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// UserByEmail returns the user with the given email, or store.ErrNotFound.
func (s *Store) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// CreateShift inserts shift and fills in its ID and CreatedAt.
func (s *Store) CreateShift(_ context.Context, shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shift.Status == "" {
		shift.Status = domain.ShiftOpen
	}
	shift.ID = s.id()
	shift.CreatedAt = time.Now().UTC()
	clone := cloneShift(shift)
	s.shifts[shift.ID] = clone
	s.sections[shift.ID] = &domain.Sections{}
	return nil
}

// ShiftByID returns the shift with the given id, or store.ErrNotFound.
func (s *Store) ShiftByID(_ context.Context, id int64) (*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shift, ok := s.shifts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneShift(shift), nil
}

// OpenShiftForUser returns the user's open shift, or store.ErrNotFound.
func (s *Store) OpenShiftForUser(_ context.Context, userID int64) (*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, shift := range s.shifts {
		if shift.ModID == userID && shift.Status == domain.ShiftOpen {
			return cloneShift(shift), nil
		}
	}
	return nil, store.ErrNotFound
}

// ClosedShifts returns closed shifts, newest first.
func (s *Store) ClosedShifts(_ context.Context) ([]domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var shifts []domain.Shift
	for _, shift := range s.shifts {
		if shift.Status == domain.ShiftClosed {
			shifts = append(shifts, *cloneShift(shift))
		}
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].CreatedAt.After(shifts[j].CreatedAt) })
	return shifts, nil
}

// UpdateShift persists every mutable field of shift.
func (s *Store) UpdateShift(_ context.Context, shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.shifts[shift.ID]
	if !ok {
		return store.ErrNotFound
	}
	updated := cloneShift(shift)
	updated.CreatedAt = existing.CreatedAt
	updated.EditorIDs = existing.EditorIDs
	s.shifts[shift.ID] = updated
	return nil
}

// AddEditor grants userID edit access to shiftID.
func (s *Store) AddEditor(_ context.Context, shiftID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, ok := s.shifts[shiftID]
	if !ok {
		return store.ErrNotFound
	}
	for _, id := range shift.EditorIDs {
		if id == userID {
			return nil
		}
	}
	shift.EditorIDs = append(shift.EditorIDs, userID)
	return nil
}

// AddIncident inserts rec and fills in its ID.
func (s *Store) AddIncident(_ context.Context, rec *domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.Incidents = append(sec.Incidents, *rec)
	return nil
}

// AddDowntime inserts rec and fills in its ID.
func (s *Store) AddDowntime(_ context.Context, rec *domain.Downtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.Downtimes = append(sec.Downtimes, *rec)
	return nil
}

// AddGuestOpportunity inserts rec and fills in its ID.
func (s *Store) AddGuestOpportunity(_ context.Context, rec *domain.GuestOpportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.GuestOpportunities = append(sec.GuestOpportunities, *rec)
	return nil
}

// AddRoomInspection inserts rec and fills in its ID.
func (s *Store) AddRoomInspection(_ context.Context, rec *domain.RoomInspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.RoomInspections = append(sec.RoomInspections, *rec)
	return nil
}

// AddOutletInspection inserts rec and fills in its ID.
func (s *Store) AddOutletInspection(_ context.Context, rec *domain.OutletInspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.OutletInspections = append(sec.OutletInspections, *rec)
	return nil
}

// AddHighPaw inserts rec and fills in its ID.
func (s *Store) AddHighPaw(_ context.Context, rec *domain.HighPaw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.HighPaws = append(sec.HighPaws, *rec)
	return nil
}

// AddModMeal inserts rec and fills in its ID.
func (s *Store) AddModMeal(_ context.Context, rec *domain.ModMeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	sec := s.sectionsFor(rec.ShiftID)
	sec.ModMeals = append(sec.ModMeals, *rec)
	return nil
}

// SectionsForShift returns the section collections recorded for shiftID.
func (s *Store) SectionsForShift(_ context.Context, shiftID int64) (*domain.Sections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[shiftID]
	if !ok {
		return &domain.Sections{}, nil
	}
	clone := *sec
	return &clone, nil
}

// AddComment inserts rec and fills in its ID and CreatedAt.
func (s *Store) AddComment(_ context.Context, rec *domain.ReportComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	rec.CreatedAt = time.Now().UTC()
	s.comments[rec.ShiftID] = append(s.comments[rec.ShiftID], *rec)
	return nil
}

// CommentsForShift returns comments for shiftID, oldest first.
func (s *Store) CommentsForShift(_ context.Context, shiftID int64) ([]domain.ReportComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ReportComment(nil), s.comments[shiftID]...), nil
}

func (s *Store) sectionsFor(shiftID int64) *domain.Sections {
	sec, ok := s.sections[shiftID]
	if !ok {
		sec = &domain.Sections{}
		s.sections[shiftID] = sec
	}
	return sec
}

func cloneShift(shift *domain.Shift) *domain.Shift {
	clone := *shift
	clone.EditorIDs = append([]int64(nil), shift.EditorIDs...)
	clone.Occupancy = cloneInt(shift.Occupancy)
	clone.Arrivals = cloneInt(shift.Arrivals)
	clone.Departures = cloneInt(shift.Departures)
	clone.NPSScore = cloneInt(shift.NPSScore)
	clone.NPSRank = cloneInt(shift.NPSRank)
	return &clone
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
