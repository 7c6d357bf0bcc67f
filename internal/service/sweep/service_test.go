package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/edupulse/deadline-reminder/internal/mocks/service/sweep"
	"github.com/edupulse/deadline-reminder/internal/model"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
	itemrepo "github.com/edupulse/deadline-reminder/internal/repository/item"
	notifrepo "github.com/edupulse/deadline-reminder/internal/repository/notification"
	progressrepo "github.com/edupulse/deadline-reminder/internal/repository/progress"
	studentrepo "github.com/edupulse/deadline-reminder/internal/repository/student"
)

type fixture struct {
	svc           *Service
	reminders     *mocks.MockreminderRepository
	items         *mocks.MockitemRepository
	progress      *mocks.MockprogressRepository
	notifications *mocks.MocknotificationRepository
	contacts      *mocks.MockcontactRepository
	publisher     *mocks.MockdeliveryPublisher
	strategy      retry.Strategy
}

func setup(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		reminders:     mocks.NewMockreminderRepository(ctrl),
		items:         mocks.NewMockitemRepository(ctrl),
		progress:      mocks.NewMockprogressRepository(ctrl),
		notifications: mocks.NewMocknotificationRepository(ctrl),
		contacts:      mocks.NewMockcontactRepository(ctrl),
		publisher:     mocks.NewMockdeliveryPublisher(ctrl),
		strategy:      retry.Strategy{Attempts: 1, Delay: time.Millisecond},
	}
	f.svc = NewService(f.reminders, f.items, f.progress, f.notifications, f.contacts, f.publisher, f.strategy)

	return f
}

func dueReminder(studentID uuid.UUID, itemID uuid.UUID, milestone int) model.ScheduledReminder {
	return model.ScheduledReminder{
		ID:                  uuid.New(),
		StudentID:           studentID,
		ItemID:              itemID,
		ItemKind:            model.ItemKindProject,
		MilestonePercentage: milestone,
		Deadline:            time.Now().Add(24 * time.Hour),
		ScheduledFor:        time.Now().Add(-time.Minute),
	}
}

func projectItem(itemID uuid.UUID) model.TargetItem {
	return model.TargetItem{
		Kind:    model.ItemKindProject,
		Project: &model.Project{ID: itemID, Name: "Capstone", DueDate: "2026-06-01"},
	}
}

func inProgressRecord(studentID, itemID uuid.UUID) model.ProgressRecord {
	return model.ProgressRecord{
		StudentID: studentID,
		ItemID:    itemID,
		Status:    model.ProgressInProgress,
		MainTasks: []model.MainTaskProgress{
			{MainTaskID: uuid.New(), Title: "Research", Completed: false},
		},
	}
}

func TestProcess_CreatesNotificationAndPublishes(t *testing.T) {
	f := setup(t)

	studentID := uuid.New()
	itemID := uuid.New()
	rem := dueReminder(studentID, itemID, 50)
	now := time.Now()
	notifID := uuid.New()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), itemID, model.ItemKindProject).Return(projectItem(itemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), studentID, itemID, model.ItemKindProject).
		Return(inProgressRecord(studentID, itemID), nil)
	f.notifications.EXPECT().Exists(gomock.Any(), studentID, itemID, 50).Return(false, nil)
	f.contacts.EXPECT().GetContact(gomock.Any(), studentID).
		Return(model.StudentContact{StudentID: studentID, Email: "s@example.com", Channel: "email"}, nil)

	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n model.Notification) (uuid.UUID, error) {
			assert.Equal(t, studentID, n.StudentID)
			assert.Equal(t, itemID, n.ItemID)
			assert.Equal(t, 50, n.MilestonePercentage)
			assert.Equal(t, model.DeliveryPending, n.DeliveryStatus)
			assert.True(t, now.Equal(n.SentAt))
			assert.NotEmpty(t, n.Title)
			require.Len(t, n.Snapshot.Entries, 1)
			return notifID, nil
		},
	)

	f.publisher.EXPECT().Publish(gomock.Any(), f.strategy).DoAndReturn(
		func(msg queue.DeliveryMessage, _ retry.Strategy) error {
			assert.Equal(t, notifID, msg.NotificationID)
			assert.Equal(t, "s@example.com", msg.To)
			assert.Equal(t, "email", msg.Channel)
			return nil
		},
	)

	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestProcess_InAppOnlyWithoutContact(t *testing.T) {
	f := setup(t)

	studentID := uuid.New()
	itemID := uuid.New()
	rem := dueReminder(studentID, itemID, 25)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), itemID, model.ItemKindProject).Return(projectItem(itemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), studentID, itemID, model.ItemKindProject).
		Return(inProgressRecord(studentID, itemID), nil)
	f.notifications.EXPECT().Exists(gomock.Any(), studentID, itemID, 25).Return(false, nil)
	f.contacts.EXPECT().GetContact(gomock.Any(), studentID).
		Return(model.StudentContact{}, studentrepo.ErrContactNotFound)

	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n model.Notification) (uuid.UUID, error) {
			assert.Empty(t, n.DeliveryStatus)
			return uuid.New(), nil
		},
	)

	// No Publish expectation: nothing leaves the app.
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestProcess_DeletedItemRetiresReminder(t *testing.T) {
	f := setup(t)

	rem := dueReminder(uuid.New(), uuid.New(), 25)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), rem.ItemID, model.ItemKindProject).
		Return(model.TargetItem{}, itemrepo.ErrItemNotFound)
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestProcess_MissingProgressRetiresReminder(t *testing.T) {
	f := setup(t)

	rem := dueReminder(uuid.New(), uuid.New(), 25)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), rem.ItemID, model.ItemKindProject).Return(projectItem(rem.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), rem.StudentID, rem.ItemID, model.ItemKindProject).
		Return(model.ProgressRecord{}, progressrepo.ErrProgressNotFound)
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestProcess_CompletedWorkRetiresReminder(t *testing.T) {
	f := setup(t)

	rem := dueReminder(uuid.New(), uuid.New(), 75)
	now := time.Now()

	done := model.ProgressRecord{
		StudentID: rem.StudentID,
		ItemID:    rem.ItemID,
		Status:    model.ProgressDone,
	}

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), rem.ItemID, model.ItemKindProject).Return(projectItem(rem.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), rem.StudentID, rem.ItemID, model.ItemKindProject).Return(done, nil)
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestProcess_ExistingNotificationRetiresReminder(t *testing.T) {
	f := setup(t)

	rem := dueReminder(uuid.New(), uuid.New(), 50)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), rem.ItemID, model.ItemKindProject).Return(projectItem(rem.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), rem.StudentID, rem.ItemID, model.ItemKindProject).
		Return(inProgressRecord(rem.StudentID, rem.ItemID), nil)
	f.notifications.EXPECT().Exists(gomock.Any(), rem.StudentID, rem.ItemID, 50).Return(true, nil)
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestProcess_ConcurrentInsertLosesQuietly(t *testing.T) {
	f := setup(t)

	rem := dueReminder(uuid.New(), uuid.New(), 50)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), rem.ItemID, model.ItemKindProject).Return(projectItem(rem.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), rem.StudentID, rem.ItemID, model.ItemKindProject).
		Return(inProgressRecord(rem.StudentID, rem.ItemID), nil)
	f.notifications.EXPECT().Exists(gomock.Any(), rem.StudentID, rem.ItemID, 50).Return(false, nil)
	f.contacts.EXPECT().GetContact(gomock.Any(), rem.StudentID).
		Return(model.StudentContact{}, studentrepo.ErrContactNotFound)

	// A concurrent sweep inserted the same dedup key between the
	// existence check and the insert.
	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(uuid.Nil, notifrepo.ErrDuplicateNotification)
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestProcess_CountsCreationWhenRetireFails(t *testing.T) {
	f := setup(t)

	rem := dueReminder(uuid.New(), uuid.New(), 50)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).Return([]model.ScheduledReminder{rem}, nil)
	f.items.EXPECT().Get(gomock.Any(), rem.ItemID, model.ItemKindProject).Return(projectItem(rem.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), rem.StudentID, rem.ItemID, model.ItemKindProject).
		Return(inProgressRecord(rem.StudentID, rem.ItemID), nil)
	f.notifications.EXPECT().Exists(gomock.Any(), rem.StudentID, rem.ItemID, 50).Return(false, nil)
	f.contacts.EXPECT().GetContact(gomock.Any(), rem.StudentID).
		Return(model.StudentContact{}, studentrepo.ErrContactNotFound)
	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.New(), nil)

	// The notification landed but the reminder stays due; the count
	// still reflects the insert.
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), rem.ID).Return(errors.New("db error"))

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestProcess_FailedReminderIsIsolated(t *testing.T) {
	f := setup(t)

	broken := dueReminder(uuid.New(), uuid.New(), 25)
	healthy := dueReminder(uuid.New(), uuid.New(), 50)
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, nil).
		Return([]model.ScheduledReminder{broken, healthy}, nil)

	// First reminder fails mid-processing and stays unprocessed.
	f.items.EXPECT().Get(gomock.Any(), broken.ItemID, model.ItemKindProject).Return(projectItem(broken.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), broken.StudentID, broken.ItemID, model.ItemKindProject).
		Return(model.ProgressRecord{}, errors.New("db error"))

	// Second reminder still goes through.
	f.items.EXPECT().Get(gomock.Any(), healthy.ItemID, model.ItemKindProject).Return(projectItem(healthy.ItemID), nil)
	f.progress.EXPECT().Get(gomock.Any(), healthy.StudentID, healthy.ItemID, model.ItemKindProject).
		Return(inProgressRecord(healthy.StudentID, healthy.ItemID), nil)
	f.notifications.EXPECT().Exists(gomock.Any(), healthy.StudentID, healthy.ItemID, 50).Return(false, nil)
	f.contacts.EXPECT().GetContact(gomock.Any(), healthy.StudentID).
		Return(model.StudentContact{}, studentrepo.ErrContactNotFound)
	f.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.New(), nil)
	f.reminders.EXPECT().MarkProcessed(gomock.Any(), healthy.ID).Return(nil)

	created, err := f.svc.Process(context.Background(), now, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestProcess_ScopedSweepPassesStudentID(t *testing.T) {
	f := setup(t)

	studentID := uuid.New()
	now := time.Now()

	f.reminders.EXPECT().GetDue(gomock.Any(), now, &studentID).Return(nil, nil)

	created, err := f.svc.Process(context.Background(), now, &studentID)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestProcess_GetDueError(t *testing.T) {
	f := setup(t)

	f.reminders.EXPECT().GetDue(gomock.Any(), gomock.Any(), nil).Return(nil, errors.New("db error"))

	_, err := f.svc.Process(context.Background(), time.Now(), nil)
	assert.Error(t, err)
}
