package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
)

const shiftColumns = `id, mod_id, date, schedule, status,
	occupancy, arrivals, departures, nps_score, nps_rank,
	gm_agm, housekeeping, food_beverage, sales, aquatics, retail_attractions,
	kids_entertainment, guest_services, hr, finance, engineering, it,
	quality_assurance, suggestions, shift_notes,
	pass_down_time, pass_down_next_mod, pass_down_notes, created_at`

// CreateShift inserts shift and fills in its ID and CreatedAt.
func (s *Store) CreateShift(ctx context.Context, shift *domain.Shift) error {
	if shift.Status == "" {
		shift.Status = domain.ShiftOpen
	}
	shift.CreatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (mod_id, date, schedule, status,
			occupancy, arrivals, departures, nps_score, nps_rank,
			gm_agm, housekeeping, food_beverage, sales, aquatics, retail_attractions,
			kids_entertainment, guest_services, hr, finance, engineering, it,
			quality_assurance, suggestions, shift_notes,
			pass_down_time, pass_down_next_mod, pass_down_notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.ModID, shift.Date.Format(domain.DateLayout), shift.Schedule, string(shift.Status),
		nullInt(shift.Occupancy), nullInt(shift.Arrivals), nullInt(shift.Departures),
		nullInt(shift.NPSScore), nullInt(shift.NPSRank),
		shift.Coverage.GMAGM, shift.Coverage.Housekeeping, shift.Coverage.FoodBeverage,
		shift.Coverage.Sales, shift.Coverage.Aquatics, shift.Coverage.RetailAttractions,
		shift.Coverage.KidsEntertainment, shift.Coverage.GuestServices, shift.Coverage.HR,
		shift.Coverage.Finance, shift.Coverage.Engineering, shift.Coverage.IT,
		shift.QualityAssurance, shift.Suggestions, shift.ShiftNotes,
		shift.PassDownTime, shift.PassDownNextMod, shift.PassDownNotes,
		shift.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting shift: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading shift id: %w", err)
	}
	shift.ID = id
	return nil
}

// ShiftByID returns the shift with the given id including its editor grants,
// or store.ErrNotFound.
func (s *Store) ShiftByID(ctx context.Context, id int64) (*domain.Shift, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id)
	shift, err := scanShift(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadEditors(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// OpenShiftForUser returns the user's open shift, or store.ErrNotFound.
func (s *Store) OpenShiftForUser(ctx context.Context, userID int64) (*domain.Shift, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE mod_id = ? AND status = ? LIMIT 1`,
		userID, string(domain.ShiftOpen),
	)
	shift, err := scanShift(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadEditors(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// ClosedShifts returns closed shifts, newest first.
func (s *Store) ClosedShifts(ctx context.Context) ([]domain.Shift, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE status = ? ORDER BY created_at DESC`,
		string(domain.ShiftClosed),
	)
	if err != nil {
		return nil, fmt.Errorf("listing closed shifts: %w", err)
	}
	defer rows.Close()

	var shifts []domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	return shifts, rows.Err()
}

// UpdateShift persists every mutable field of shift.
func (s *Store) UpdateShift(ctx context.Context, shift *domain.Shift) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET date = ?, schedule = ?, status = ?,
			occupancy = ?, arrivals = ?, departures = ?, nps_score = ?, nps_rank = ?,
			gm_agm = ?, housekeeping = ?, food_beverage = ?, sales = ?, aquatics = ?,
			retail_attractions = ?, kids_entertainment = ?, guest_services = ?, hr = ?,
			finance = ?, engineering = ?, it = ?,
			quality_assurance = ?, suggestions = ?, shift_notes = ?,
			pass_down_time = ?, pass_down_next_mod = ?, pass_down_notes = ?
		WHERE id = ?`,
		shift.Date.Format(domain.DateLayout), shift.Schedule, string(shift.Status),
		nullInt(shift.Occupancy), nullInt(shift.Arrivals), nullInt(shift.Departures),
		nullInt(shift.NPSScore), nullInt(shift.NPSRank),
		shift.Coverage.GMAGM, shift.Coverage.Housekeeping, shift.Coverage.FoodBeverage,
		shift.Coverage.Sales, shift.Coverage.Aquatics, shift.Coverage.RetailAttractions,
		shift.Coverage.KidsEntertainment, shift.Coverage.GuestServices, shift.Coverage.HR,
		shift.Coverage.Finance, shift.Coverage.Engineering, shift.Coverage.IT,
		shift.QualityAssurance, shift.Suggestions, shift.ShiftNotes,
		shift.PassDownTime, shift.PassDownNextMod, shift.PassDownNotes,
		shift.ID,
	)
	if err != nil {
		return fmt.Errorf("updating shift: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating shift: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddEditor grants userID edit access to shiftID. Granting twice is a no-op.
func (s *Store) AddEditor(ctx context.Context, shiftID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO shift_editors (shift_id, user_id) VALUES (?, ?)`,
		shiftID, userID,
	)
	if err != nil {
		return fmt.Errorf("adding shift editor: %w", err)
	}
	return nil
}

func (s *Store) loadEditors(ctx context.Context, shift *domain.Shift) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM shift_editors WHERE shift_id = ? ORDER BY user_id`, shift.ID)
	if err != nil {
		return fmt.Errorf("loading shift editors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning shift editor: %w", err)
		}
		shift.EditorIDs = append(shift.EditorIDs, id)
	}
	return rows.Err()
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	var (
		shift                                           domain.Shift
		date, status, createdAt                         string
		occupancy, arrivals, departures, npsScore, rank sql.NullInt64
	)
	err := row.Scan(
		&shift.ID, &shift.ModID, &date, &shift.Schedule, &status,
		&occupancy, &arrivals, &departures, &npsScore, &rank,
		&shift.Coverage.GMAGM, &shift.Coverage.Housekeeping, &shift.Coverage.FoodBeverage,
		&shift.Coverage.Sales, &shift.Coverage.Aquatics, &shift.Coverage.RetailAttractions,
		&shift.Coverage.KidsEntertainment, &shift.Coverage.GuestServices, &shift.Coverage.HR,
		&shift.Coverage.Finance, &shift.Coverage.Engineering, &shift.Coverage.IT,
		&shift.QualityAssurance, &shift.Suggestions, &shift.ShiftNotes,
		&shift.PassDownTime, &shift.PassDownNextMod, &shift.PassDownNotes, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning shift: %w", err)
	}

	shift.Status = domain.ShiftStatus(status)
	if shift.Date, err = time.Parse(domain.DateLayout, date); err != nil {
		return nil, fmt.Errorf("parsing shift date: %w", err)
	}
	if shift.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing shift created_at: %w", err)
	}
	shift.Occupancy = intPtr(occupancy)
	shift.Arrivals = intPtr(arrivals)
	shift.Departures = intPtr(departures)
	shift.NPSScore = intPtr(npsScore)
	shift.NPSRank = intPtr(rank)
	return &shift, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
