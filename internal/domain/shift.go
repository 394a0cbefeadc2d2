package domain

import (
	"fmt"
	"time"
)

// ShiftStatus tracks whether a shift is still being worked or has been
// wrapped up into a report.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// DateLayout is the wire format for shift dates (HTML date inputs).
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for time-of-day fields (HTML time inputs).
const ClockLayout = "15:04"

// ParseClock validates a 24-hour "HH:MM" value and returns it normalized.
// An empty input is an error; optional fields should be checked by the caller.
func ParseClock(value string) (string, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return t.Format(ClockLayout), nil
}

// Coverage holds the department coverage entries recorded when a shift opens.
type Coverage struct {
	GMAGM             string
	Housekeeping      string
	FoodBeverage      string
	Sales             string
	Aquatics          string
	RetailAttractions string
	KidsEntertainment string
	GuestServices     string
	HR                string
	Finance           string
	Engineering       string
	IT                string
}

// Shift is one manager-on-duty shift and the root of a report.
type Shift struct {
	ID       int64
	ModID    int64
	Date     time.Time
	Schedule string
	Status   ShiftStatus

	Occupancy  *int
	Arrivals   *int
	Departures *int

	Coverage Coverage

	// Wrap-up fields, populated when the shift closes.
	NPSScore         *int
	NPSRank          *int
	QualityAssurance string
	Suggestions      string
	ShiftNotes       string

	// Pass-down to the next MOD.
	PassDownTime    string
	PassDownNextMod string
	PassDownNotes   string

	CreatedAt time.Time

	// EditorIDs are users granted edit access in addition to the owner.
	EditorIDs []int64
}

// IsOpen reports whether the shift is still in progress.
func (s *Shift) IsOpen() bool {
	return s.Status == ShiftOpen
}

// CanEdit reports whether userID may add entries to or close this shift.
func (s *Shift) CanEdit(userID int64) bool {
	if s.ModID == userID {
		return true
	}
	for _, id := range s.EditorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanView reports whether userID may read this shift's report. Closed
// reports are visible to everyone; open shifts only to their editors.
func (s *Shift) CanView(userID int64) bool {
	if s.Status == ShiftClosed {
		return true
	}
	return s.CanEdit(userID)
}
