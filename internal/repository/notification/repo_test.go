package notification

import (
	"context"
	"database/sql"
	"encoding/json"
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

func testNotification() model.Notification {
	return model.Notification{
		StudentID:           uuid.New(),
		ItemID:              uuid.New(),
		ItemKind:            model.ItemKindProject,
		MilestonePercentage: 50,
		Title:               "Project reminder: Capstone",
		Message:             "Half of the time for project \"Capstone\" has passed.",
		Description:         "You are halfway to the deadline. 1/3 main tasks completed.",
		Snapshot: model.ProgressSnapshot{
			Entries: []model.SnapshotEntry{{ID: uuid.New(), Title: "Research", Completed: true}},
		},
		DeliveryStatus: model.DeliveryPending,
		SentAt:         time.Now(),
		ScheduledFor:   time.Now().Add(-time.Minute),
	}
}

func TestCreate(t *testing.T) {
	repo, mock := setupMockDB(t)

	n := testNotification()
	notifID := uuid.New()
	snap, err := json.Marshal(n.Snapshot)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(
			n.StudentID, n.ItemID, n.ItemKind, n.MilestonePercentage,
			n.Title, n.Message, n.Description, snap, n.DeliveryStatus, n.SentAt, n.ScheduledFor,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(notifID))

	id, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, notifID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateKey(t *testing.T) {
	repo, mock := setupMockDB(t)

	n := testNotification()

	// ON CONFLICT DO NOTHING returns no row when the dedup key is taken.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Create(context.Background(), n)
	assert.ErrorIs(t, err, ErrDuplicateNotification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	repo, mock := setupMockDB(t)

	studentID := uuid.New()
	itemID := uuid.New()

	query := regexp.QuoteMeta(`SELECT EXISTS`)

	mock.ExpectQuery(query).
		WithArgs(studentID, itemID, 75).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), studentID, itemID, 75)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(query).
		WithArgs(studentID, itemID, 100).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = repo.Exists(context.Background(), studentID, itemID, 100)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByStudent(t *testing.T) {
	repo, mock := setupMockDB(t)

	studentID := uuid.New()
	n := testNotification()
	n.ID = uuid.New()
	n.StudentID = studentID
	snap, err := json.Marshal(n.Snapshot)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{
		"id", "student_id", "item_id", "item_kind", "milestone_percentage",
		"title", "message", "description", "snapshot", "is_read", "delivery_status", "sent_at", "scheduled_for",
	}).AddRow(
		n.ID, n.StudentID, n.ItemID, n.ItemKind, n.MilestonePercentage,
		n.Title, n.Message, n.Description, snap, false, n.DeliveryStatus, n.SentAt, n.ScheduledFor,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY sent_at DESC`)).
		WithArgs(studentID, 50).
		WillReturnRows(rows)

	got, err := repo.GetByStudent(context.Background(), studentID, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, n.ID, got[0].ID)
	assert.Equal(t, n.Title, got[0].Title)
	require.Len(t, got[0].Snapshot.Entries, 1)
	assert.Equal(t, "Research", got[0].Snapshot.Entries[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatusByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	query := regexp.QuoteMeta(`SELECT CASE WHEN is_read THEN 'read' ELSE 'unread' END`)

	mock.ExpectQuery(query).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"case"}).AddRow("unread"))

	status, err := repo.GetStatusByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "unread", status)

	mock.ExpectQuery(query).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetStatusByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	studentID := uuid.New()
	update := regexp.QuoteMeta(`
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND student_id = $2;
    `)

	mock.ExpectExec(update).
		WithArgs(id, studentID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkRead(context.Background(), id, studentID)
	assert.NoError(t, err)

	// Another student's notification looks like a missing row.
	mock.ExpectExec(update).
		WithArgs(id, studentID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkRead(context.Background(), id, studentID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDeliveryStatus(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	update := regexp.QuoteMeta(`
		UPDATE notifications
		SET delivery_status = $1
		WHERE id = $2;
    `)

	mock.ExpectExec(update).
		WithArgs(model.DeliverySent, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetDeliveryStatus(context.Background(), id, model.DeliverySent)
	assert.NoError(t, err)

	mock.ExpectExec(update).
		WithArgs(model.DeliveryFailed, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetDeliveryStatus(context.Background(), id, model.DeliveryFailed)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
