package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/techentum/mod-report/internal/domain"
)

// AddComment inserts rec and fills in its ID and CreatedAt.
func (s *Store) AddComment(ctx context.Context, rec *domain.ReportComment) error {
	rec.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO report_comments (shift_id, author_id, body, created_at) VALUES (?, ?, ?, ?)`,
		rec.ShiftID, rec.AuthorID, rec.Body, rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting report comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading report comment id: %w", err)
	}
	rec.ID = id
	return nil
}

// CommentsForShift returns comments for shiftID, oldest first.
func (s *Store) CommentsForShift(ctx context.Context, shiftID int64) ([]domain.ReportComment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, shift_id, author_id, body, created_at FROM report_comments
		 WHERE shift_id = ? ORDER BY created_at, id`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("querying report comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.ReportComment
	for rows.Next() {
		var (
			rec       domain.ReportComment
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.ShiftID, &rec.AuthorID, &rec.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning report comment: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing report comment created_at: %w", err)
		}
		comments = append(comments, rec)
	}
	return comments, rows.Err()
}
