package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/edupulse/deadline-reminder/internal/model"
)

// ErrContactNotFound is returned when the student has no delivery
// contact on file. Such students get in-app notifications only.
var ErrContactNotFound = errors.New("student contact not found")

// Repository reads student delivery contacts.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new student repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// GetContact retrieves the student's delivery coordinates.
func (r *Repository) GetContact(ctx context.Context, studentID uuid.UUID) (model.StudentContact, error) {
	query := `
		SELECT id, COALESCE(email, ''), COALESCE(telegram_chat_id, ''), COALESCE(notify_channel, '')
		FROM students
		WHERE id = $1;
    `

	var c model.StudentContact
	err := r.db.Master.QueryRowContext(ctx, query, studentID).Scan(
		&c.StudentID, &c.Email, &c.TelegramChatID, &c.Channel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.StudentContact{}, ErrContactNotFound
		}

		return model.StudentContact{}, fmt.Errorf("failed to get student contact: %w", err)
	}

	return c, nil
}
