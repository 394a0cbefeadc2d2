package domain

import "time"

// Incident is a coded occurrence logged during a shift.
type Incident struct {
	ID       int64
	ShiftID  int64
	Code     string
	Time     string // HH:MM
	Location string
	Notes    string
}

// Downtime records an outlet outage. EndTime is empty while it is ongoing.
type Downtime struct {
	ID        int64
	ShiftID   int64
	Outlet    string
	StartTime string // HH:MM
	EndTime   string // HH:MM, optional
	Reason    string
}

// GuestOpportunity is a guest recovery entry.
type GuestOpportunity struct {
	ID           int64
	ShiftID      int64
	LastName     string
	Room         string
	Description  string
	Compensation string
}

// RoomInspection records a walked room.
type RoomInspection struct {
	ID            int64
	ShiftID       int64
	RoomNumber    string
	RoomType      string
	Successes     string
	Opportunities string
}

// OutletInspection records an outlet walk-through.
type OutletInspection struct {
	ID            int64
	ShiftID       int64
	Outlet        string
	Time          string // HH:MM
	Successes     string
	Opportunities string
}

// HighPaw is a pack-member recognition entry.
type HighPaw struct {
	ID          int64
	ShiftID     int64
	PackMembers string
	Department  string
	Description string
}

// ModMeal records a meal tasted during the shift.
type ModMeal struct {
	ID       int64
	ShiftID  int64
	Outlet   string
	MenuItem string
	Feedback string
}

// ReportComment is follow-up discussion attached to a report.
type ReportComment struct {
	ID        int64
	ShiftID   int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}

// Sections bundles every per-shift collection for detail and report views.
type Sections struct {
	Incidents          []Incident
	Downtimes          []Downtime
	GuestOpportunities []GuestOpportunity
	RoomInspections    []RoomInspection
	OutletInspections  []OutletInspection
	HighPaws           []HighPaw
	ModMeals           []ModMeal
}
