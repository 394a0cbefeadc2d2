package sqlite

import (
	"context"
	"fmt"

	"github.com/techentum/mod-report/internal/domain"
)

// AddIncident inserts rec and fills in its ID.
func (s *Store) AddIncident(ctx context.Context, rec *domain.Incident) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO incidents (shift_id, code, incident_time, location, notes) VALUES (?, ?, ?, ?, ?)`,
		rec.ShiftID, rec.Code, rec.Time, rec.Location, rec.Notes)
}

// AddDowntime inserts rec and fills in its ID.
func (s *Store) AddDowntime(ctx context.Context, rec *domain.Downtime) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO downtimes (shift_id, outlet, start_time, end_time, reason) VALUES (?, ?, ?, ?, ?)`,
		rec.ShiftID, rec.Outlet, rec.StartTime, rec.EndTime, rec.Reason)
}

// AddGuestOpportunity inserts rec and fills in its ID.
func (s *Store) AddGuestOpportunity(ctx context.Context, rec *domain.GuestOpportunity) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO guest_opportunities (shift_id, last_name, room, description, compensation) VALUES (?, ?, ?, ?, ?)`,
		rec.ShiftID, rec.LastName, rec.Room, rec.Description, rec.Compensation)
}

// AddRoomInspection inserts rec and fills in its ID.
func (s *Store) AddRoomInspection(ctx context.Context, rec *domain.RoomInspection) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO room_inspections (shift_id, room_number, room_type, successes, opportunities) VALUES (?, ?, ?, ?, ?)`,
		rec.ShiftID, rec.RoomNumber, rec.RoomType, rec.Successes, rec.Opportunities)
}

// AddOutletInspection inserts rec and fills in its ID.
func (s *Store) AddOutletInspection(ctx context.Context, rec *domain.OutletInspection) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO outlet_inspections (shift_id, outlet, inspection_time, successes, opportunities) VALUES (?, ?, ?, ?, ?)`,
		rec.ShiftID, rec.Outlet, rec.Time, rec.Successes, rec.Opportunities)
}

// AddHighPaw inserts rec and fills in its ID.
func (s *Store) AddHighPaw(ctx context.Context, rec *domain.HighPaw) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO high_paws (shift_id, pack_members, department, description) VALUES (?, ?, ?, ?)`,
		rec.ShiftID, rec.PackMembers, rec.Department, rec.Description)
}

// AddModMeal inserts rec and fills in its ID.
func (s *Store) AddModMeal(ctx context.Context, rec *domain.ModMeal) error {
	return s.insertSection(ctx, &rec.ID,
		`INSERT INTO mod_meals (shift_id, outlet, menu_item, feedback) VALUES (?, ?, ?, ?)`,
		rec.ShiftID, rec.Outlet, rec.MenuItem, rec.Feedback)
}

func (s *Store) insertSection(ctx context.Context, id *int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("inserting section record: %w", err)
	}
	inserted, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading section record id: %w", err)
	}
	*id = inserted
	return nil
}

// SectionsForShift loads every section collection for shiftID, each in
// insertion order.
func (s *Store) SectionsForShift(ctx context.Context, shiftID int64) (*domain.Sections, error) {
	sections := &domain.Sections{}

	err := s.querySection(ctx,
		`SELECT id, shift_id, code, incident_time, location, notes FROM incidents WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.Incident
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.Code, &rec.Time, &rec.Location, &rec.Notes); err != nil {
				return err
			}
			sections.Incidents = append(sections.Incidents, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.querySection(ctx,
		`SELECT id, shift_id, outlet, start_time, end_time, reason FROM downtimes WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.Downtime
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.Outlet, &rec.StartTime, &rec.EndTime, &rec.Reason); err != nil {
				return err
			}
			sections.Downtimes = append(sections.Downtimes, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.querySection(ctx,
		`SELECT id, shift_id, last_name, room, description, compensation FROM guest_opportunities WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.GuestOpportunity
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.LastName, &rec.Room, &rec.Description, &rec.Compensation); err != nil {
				return err
			}
			sections.GuestOpportunities = append(sections.GuestOpportunities, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.querySection(ctx,
		`SELECT id, shift_id, room_number, room_type, successes, opportunities FROM room_inspections WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.RoomInspection
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.RoomNumber, &rec.RoomType, &rec.Successes, &rec.Opportunities); err != nil {
				return err
			}
			sections.RoomInspections = append(sections.RoomInspections, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.querySection(ctx,
		`SELECT id, shift_id, outlet, inspection_time, successes, opportunities FROM outlet_inspections WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.OutletInspection
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.Outlet, &rec.Time, &rec.Successes, &rec.Opportunities); err != nil {
				return err
			}
			sections.OutletInspections = append(sections.OutletInspections, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.querySection(ctx,
		`SELECT id, shift_id, pack_members, department, description FROM high_paws WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.HighPaw
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.PackMembers, &rec.Department, &rec.Description); err != nil {
				return err
			}
			sections.HighPaws = append(sections.HighPaws, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.querySection(ctx,
		`SELECT id, shift_id, outlet, menu_item, feedback FROM mod_meals WHERE shift_id = ? ORDER BY id`,
		shiftID, func(scan rowScanner) error {
			var rec domain.ModMeal
			if err := scan.Scan(&rec.ID, &rec.ShiftID, &rec.Outlet, &rec.MenuItem, &rec.Feedback); err != nil {
				return err
			}
			sections.ModMeals = append(sections.ModMeals, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return sections, nil
}

func (s *Store) querySection(ctx context.Context, query string, shiftID int64, scan func(rowScanner) error) error {
	rows, err := s.db.QueryContext(ctx, query, shiftID)
	if err != nil {
		return fmt.Errorf("querying section records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning section record: %w", err)
		}
	}
	return rows.Err()
}
