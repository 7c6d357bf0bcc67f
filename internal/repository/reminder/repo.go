package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/edupulse/deadline-reminder/internal/model"
)

// ErrReminderNotFound is returned when no reminder matches the given ID.
var ErrReminderNotFound = errors.New("reminder not found")

// Repository provides methods to interact with the scheduled_reminders table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new reminder repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// CreateBatch inserts a schedule's reminders in a single transaction,
// so either the whole schedule is persisted or none of it is. The
// returned slice carries the generated IDs and creation timestamps.
func (r *Repository) CreateBatch(ctx context.Context, reminders []model.ScheduledReminder) ([]model.ScheduledReminder, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO scheduled_reminders (
		    student_id, item_id, item_kind, milestone_percentage, deadline, scheduled_for
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
    `

	for i := range reminders {
		rem := &reminders[i]

		err = tx.QueryRowContext(
			ctx, query, rem.StudentID, rem.ItemID, rem.ItemKind, rem.MilestonePercentage, rem.Deadline, rem.ScheduledFor,
		).Scan(&rem.ID, &rem.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to create reminder: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reminders: %w", err)
	}

	return reminders, nil
}

// GetDue retrieves unprocessed reminders whose trigger time has
// passed. A non-nil studentID restricts the sweep to that student.
func (r *Repository) GetDue(ctx context.Context, now time.Time, studentID *uuid.UUID) ([]model.ScheduledReminder, error) {
	query := `
		SELECT id, student_id, item_id, item_kind, milestone_percentage, deadline, scheduled_for, is_processed, created_at
		FROM scheduled_reminders
		WHERE is_processed = FALSE AND scheduled_for <= $1
    `
	args := []interface{}{now}

	if studentID != nil {
		query += ` AND student_id = $2`
		args = append(args, *studentID)
	}

	query += ` ORDER BY scheduled_for;`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.ScheduledReminder
	for rows.Next() {
		var rem model.ScheduledReminder
		if err := rows.Scan(
			&rem.ID, &rem.StudentID, &rem.ItemID, &rem.ItemKind, &rem.MilestonePercentage,
			&rem.Deadline, &rem.ScheduledFor, &rem.IsProcessed, &rem.CreatedAt,
		); err != nil {
			return nil, err
		}

		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// MarkProcessed retires a reminder. The flag is monotone: once set it
// is never cleared, so a retired reminder is never swept again.
func (r *Repository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE scheduled_reminders
		SET is_processed = TRUE
		WHERE id = $1;
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder processed: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrReminderNotFound
	}

	return nil
}
