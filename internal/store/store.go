// Package store defines the persistence contracts for mod-report.
// Implementations live in the sqlite and memory subpackages.
package store

import (
	"context"
	"errors"

	"github.com/techentum/mod-report/internal/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("store: email already registered")
)

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts user and fills in its ID.
	CreateUser(ctx context.Context, user *domain.User) error
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ShiftStore persists shifts and their editor grants.
type ShiftStore interface {
	// CreateShift inserts shift and fills in its ID and CreatedAt.
	CreateShift(ctx context.Context, shift *domain.Shift) error
	ShiftByID(ctx context.Context, id int64) (*domain.Shift, error)
	// OpenShiftForUser returns the user's open shift, or ErrNotFound.
	OpenShiftForUser(ctx context.Context, userID int64) (*domain.Shift, error)
	// ClosedShifts returns closed shifts, newest first.
	ClosedShifts(ctx context.Context) ([]domain.Shift, error)
	UpdateShift(ctx context.Context, shift *domain.Shift) error
	AddEditor(ctx context.Context, shiftID, userID int64) error
}

// SectionStore persists the per-shift report sections.
type SectionStore interface {
	AddIncident(ctx context.Context, rec *domain.Incident) error
	AddDowntime(ctx context.Context, rec *domain.Downtime) error
	AddGuestOpportunity(ctx context.Context, rec *domain.GuestOpportunity) error
	AddRoomInspection(ctx context.Context, rec *domain.RoomInspection) error
	AddOutletInspection(ctx context.Context, rec *domain.OutletInspection) error
	AddHighPaw(ctx context.Context, rec *domain.HighPaw) error
	AddModMeal(ctx context.Context, rec *domain.ModMeal) error
	SectionsForShift(ctx context.Context, shiftID int64) (*domain.Sections, error)
}

// CommentStore persists report comments.
type CommentStore interface {
	// AddComment inserts rec and fills in its ID and CreatedAt.
	AddComment(ctx context.Context, rec *domain.ReportComment) error
	// CommentsForShift returns comments oldest first.
	CommentsForShift(ctx context.Context, shiftID int64) ([]domain.ReportComment, error)
}

// Store is the full persistence surface the application wires against.
type Store interface {
	UserStore
	ShiftStore
	SectionStore
	CommentStore

	Close() error
}
