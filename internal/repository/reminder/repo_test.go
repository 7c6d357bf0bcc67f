package reminder

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/edupulse/deadline-reminder/internal/model"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

func TestCreateBatch(t *testing.T) {
	repo, mock := setupMockDB(t)

	studentID := uuid.New()
	itemID := uuid.New()
	due := time.Now().Add(48 * time.Hour)

	batch := []model.ScheduledReminder{
		{StudentID: studentID, ItemID: itemID, ItemKind: model.ItemKindProject, MilestonePercentage: 25, Deadline: due, ScheduledFor: due.Add(-36 * time.Hour)},
		{StudentID: studentID, ItemID: itemID, ItemKind: model.ItemKindProject, MilestonePercentage: 50, Deadline: due, ScheduledFor: due.Add(-24 * time.Hour)},
	}

	insert := regexp.QuoteMeta(`INSERT INTO scheduled_reminders`)

	mock.ExpectBegin()
	for _, rem := range batch {
		mock.ExpectQuery(insert).
			WithArgs(rem.StudentID, rem.ItemID, rem.ItemKind, rem.MilestonePercentage, rem.Deadline, rem.ScheduledFor).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), time.Now()))
	}
	mock.ExpectCommit()

	got, err := repo.CreateBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, rem := range got {
		assert.NotEqual(t, uuid.Nil, rem.ID)
		assert.False(t, rem.CreatedAt.IsZero())
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch_RollbackOnFailure(t *testing.T) {
	repo, mock := setupMockDB(t)

	batch := []model.ScheduledReminder{
		{StudentID: uuid.New(), ItemID: uuid.New(), ItemKind: model.ItemKindTask, MilestonePercentage: 25},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scheduled_reminders`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := repo.CreateBatch(context.Background(), batch)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDue_Unscoped(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now()
	rem := model.ScheduledReminder{
		ID:                  uuid.New(),
		StudentID:           uuid.New(),
		ItemID:              uuid.New(),
		ItemKind:            model.ItemKindProject,
		MilestonePercentage: 25,
		Deadline:            now.Add(24 * time.Hour),
		ScheduledFor:        now.Add(-time.Minute),
		CreatedAt:           now.Add(-48 * time.Hour),
	}

	rows := sqlmock.NewRows([]string{
		"id", "student_id", "item_id", "item_kind", "milestone_percentage",
		"deadline", "scheduled_for", "is_processed", "created_at",
	}).AddRow(
		rem.ID, rem.StudentID, rem.ItemID, rem.ItemKind, rem.MilestonePercentage,
		rem.Deadline, rem.ScheduledFor, false, rem.CreatedAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_processed = FALSE AND scheduled_for <= $1`)).
		WithArgs(now).
		WillReturnRows(rows)

	got, err := repo.GetDue(context.Background(), now, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rem.ID, got[0].ID)
	assert.Equal(t, 25, got[0].MilestonePercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDue_ScopedToStudent(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now()
	studentID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`AND student_id = $2`)).
		WithArgs(now, studentID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "student_id", "item_id", "item_kind", "milestone_percentage",
			"deadline", "scheduled_for", "is_processed", "created_at",
		}))

	got, err := repo.GetDue(context.Background(), now, &studentID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkProcessed(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	update := regexp.QuoteMeta(`
		UPDATE scheduled_reminders
		SET is_processed = TRUE
		WHERE id = $1;
    `)

	mock.ExpectExec(update).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkProcessed(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(update).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkProcessed(context.Background(), id)
	assert.ErrorIs(t, err, ErrReminderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
