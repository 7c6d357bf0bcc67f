package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/edupulse/deadline-reminder/internal/model"
)

var (
	// ErrNotificationNotFound is returned when no notification matches the given ID.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrDuplicateNotification is returned when a notification for the
	// same (student, item, milestone) key already exists. The unique
	// constraint makes a losing concurrent insert fail closed.
	ErrDuplicateNotification = errors.New("notification already exists")
)

// Repository provides methods to interact with the notifications table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification and returns its ID. The insert is
// guarded by the unique (student_id, item_id, milestone_percentage)
// constraint; a conflicting row yields ErrDuplicateNotification.
func (r *Repository) Create(ctx context.Context, n model.Notification) (uuid.UUID, error) {
	snap, err := json.Marshal(n.Snapshot)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO notifications (
		    student_id, item_id, item_kind, milestone_percentage,
		    title, message, description, snapshot, delivery_status, sent_at, scheduled_for
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (student_id, item_id, milestone_percentage) DO NOTHING
		RETURNING id;
    `

	err = r.db.Master.QueryRowContext(
		ctx, query, n.StudentID, n.ItemID, n.ItemKind, n.MilestonePercentage,
		n.Title, n.Message, n.Description, snap, n.DeliveryStatus, n.SentAt, n.ScheduledFor,
	).Scan(&n.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrDuplicateNotification
		}

		return uuid.Nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n.ID, nil
}

// Exists reports whether a notification already exists for the dedup key.
func (r *Repository) Exists(ctx context.Context, studentID, itemID uuid.UUID, milestone int) (bool, error) {
	query := `
		SELECT EXISTS (
		    SELECT 1 FROM notifications
		    WHERE student_id = $1 AND item_id = $2 AND milestone_percentage = $3
		);
    `

	var exists bool
	err := r.db.Master.QueryRowContext(ctx, query, studentID, itemID, milestone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}

	return exists, nil
}

// GetByStudent retrieves the student's notifications, newest first.
func (r *Repository) GetByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]model.Notification, error) {
	query := `
		SELECT id, student_id, item_id, item_kind, milestone_percentage,
		       title, message, description, snapshot, is_read, delivery_status, sent_at, scheduled_for
		FROM notifications
		WHERE student_id = $1
		ORDER BY sent_at DESC
		LIMIT $2;
    `

	rows, err := r.db.QueryContext(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n    model.Notification
			snap []byte
		)
		if err := rows.Scan(
			&n.ID, &n.StudentID, &n.ItemID, &n.ItemKind, &n.MilestonePercentage,
			&n.Title, &n.Message, &n.Description, &snap, &n.IsRead, &n.DeliveryStatus, &n.SentAt, &n.ScheduledFor,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(snap, &n.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// GetStatusByID retrieves the read status of a notification by its ID.
func (r *Repository) GetStatusByID(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT CASE WHEN is_read THEN 'read' ELSE 'unread' END
		FROM notifications
		WHERE id = $1;
    `

	var status string
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotificationNotFound
		}

		return "", fmt.Errorf("failed to get notification status: %w", err)
	}

	return status, nil
}

// MarkRead flips the read flag on the student's own notification.
func (r *Repository) MarkRead(ctx context.Context, id, studentID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND student_id = $2;
    `

	res, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// SetDeliveryStatus records the outcome of the out-of-band delivery attempt.
func (r *Repository) SetDeliveryStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE notifications
		SET delivery_status = $1
		WHERE id = $2;
    `

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to set delivery status: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
