// Package sweep implements the due-reminder processor shared by the
// request-driven and periodic trigger sources.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/message"
	"github.com/edupulse/deadline-reminder/internal/model"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
	itemrepo "github.com/edupulse/deadline-reminder/internal/repository/item"
	notifrepo "github.com/edupulse/deadline-reminder/internal/repository/notification"
	progressrepo "github.com/edupulse/deadline-reminder/internal/repository/progress"
	studentrepo "github.com/edupulse/deadline-reminder/internal/repository/student"
	"github.com/edupulse/deadline-reminder/internal/snapshot"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/sweep/mock.go -package=mocks

type reminderRepository interface {
	GetDue(ctx context.Context, now time.Time, studentID *uuid.UUID) ([]model.ScheduledReminder, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}

type itemRepository interface {
	Get(ctx context.Context, id uuid.UUID, kind model.ItemKind) (model.TargetItem, error)
}

type progressRepository interface {
	Get(ctx context.Context, studentID, itemID uuid.UUID, kind model.ItemKind) (model.ProgressRecord, error)
}

type notificationRepository interface {
	Create(ctx context.Context, n model.Notification) (uuid.UUID, error)
	Exists(ctx context.Context, studentID, itemID uuid.UUID, milestone int) (bool, error)
}

type contactRepository interface {
	GetContact(ctx context.Context, studentID uuid.UUID) (model.StudentContact, error)
}

type deliveryPublisher interface {
	Publish(msg queue.DeliveryMessage, strategy retry.Strategy) error
}

// Service processes due reminders into notifications.
type Service struct {
	reminders     reminderRepository
	items         itemRepository
	progress      progressRepository
	notifications notificationRepository
	contacts      contactRepository
	publisher     deliveryPublisher
	strategy      retry.Strategy
}

// NewService creates a new sweep service.
func NewService(
	reminders reminderRepository,
	items itemRepository,
	progress progressRepository,
	notifications notificationRepository,
	contacts contactRepository,
	publisher deliveryPublisher,
	strategy retry.Strategy,
) *Service {
	return &Service{
		reminders:     reminders,
		items:         items,
		progress:      progress,
		notifications: notifications,
		contacts:      contacts,
		publisher:     publisher,
		strategy:      strategy,
	}
}

// Process runs one sweep over the reminders due at now, optionally
// scoped to a single student. It returns the number of notifications
// created. Failures are isolated per reminder: a reminder whose
// processing fails is left unprocessed and logged, and the loop moves
// on; the next sweep retries it.
func (s *Service) Process(ctx context.Context, now time.Time, studentID *uuid.UUID) (int, error) {
	due, err := s.reminders.GetDue(ctx, now, studentID)
	if err != nil {
		return 0, fmt.Errorf("get due reminders: %w", err)
	}

	var created int
	for _, rem := range due {
		// processOne can create a notification and still fail to retire
		// the reminder, so the count is taken before the error check.
		ok, err := s.processOne(ctx, now, rem)
		if ok {
			created++
		}

		if err != nil {
			zlog.Logger.Error().Err(err).
				Str("reminder_id", rem.ID.String()).
				Int("milestone", rem.MilestonePercentage).
				Msg("failed to process reminder")
		}
	}

	return created, nil
}

// processOne handles a single due reminder and reports whether a
// notification was created. The skip checks must stay in this order:
// deleted item, missing progress, completed work and an existing
// notification all retire the reminder without output; only then is a
// notification inserted and the reminder retired.
func (s *Service) processOne(ctx context.Context, now time.Time, rem model.ScheduledReminder) (bool, error) {
	item, err := s.items.Get(ctx, rem.ItemID, rem.ItemKind)
	if err != nil {
		if errors.Is(err, itemrepo.ErrItemNotFound) {
			// Item deleted since scheduling, nothing to notify about.
			return false, s.retire(ctx, rem)
		}

		return false, fmt.Errorf("get item: %w", err)
	}

	rec, err := s.progress.Get(ctx, rem.StudentID, rem.ItemID, rem.ItemKind)
	if err != nil {
		if errors.Is(err, progressrepo.ErrProgressNotFound) {
			// Student never opened the item, nothing meaningful to report.
			return false, s.retire(ctx, rem)
		}

		return false, fmt.Errorf("get progress: %w", err)
	}

	snap, complete := snapshot.Build(item, rec)
	if complete {
		return false, s.retire(ctx, rem)
	}

	exists, err := s.notifications.Exists(ctx, rem.StudentID, rem.ItemID, rem.MilestonePercentage)
	if err != nil {
		return false, fmt.Errorf("check notification existence: %w", err)
	}
	if exists {
		return false, s.retire(ctx, rem)
	}

	rendered, err := message.Render(rem.ItemKind, rem.MilestonePercentage, item.Name(), snap)
	if err != nil {
		// Only possible for a milestone the generator never creates; terminal.
		zlog.Logger.Error().Err(err).
			Str("reminder_id", rem.ID.String()).
			Msg("no template for reminder")
		return false, s.retire(ctx, rem)
	}

	contact := s.lookupContact(ctx, rem.StudentID)
	to := destination(contact)

	notif := model.Notification{
		StudentID:           rem.StudentID,
		ItemID:              rem.ItemID,
		ItemKind:            rem.ItemKind,
		MilestonePercentage: rem.MilestonePercentage,
		Title:               rendered.Title,
		Message:             rendered.Message,
		Description:         rendered.Description,
		Snapshot:            snap,
		SentAt:              now,
		ScheduledFor:        rem.ScheduledFor,
	}
	if to != "" {
		notif.DeliveryStatus = model.DeliveryPending
	}

	id, err := s.notifications.Create(ctx, notif)
	if err != nil {
		if errors.Is(err, notifrepo.ErrDuplicateNotification) {
			// Lost the race to a concurrent sweep; the winner's row stands.
			return false, s.retire(ctx, rem)
		}

		return false, fmt.Errorf("create notification: %w", err)
	}

	if to != "" {
		msg := queue.DeliveryMessage{
			NotificationID: id,
			StudentID:      rem.StudentID,
			To:             to,
			Channel:        contact.Channel,
			Title:          rendered.Title,
			Message:        rendered.Message,
		}

		// Delivery is best-effort: the in-app notification already exists.
		if err := s.publisher.Publish(msg, s.strategy); err != nil {
			zlog.Logger.Error().Err(err).
				Str("notification_id", id.String()).
				Msg("failed to publish delivery message")
		}
	}

	if err := s.reminders.MarkProcessed(ctx, rem.ID); err != nil {
		// The notification exists; the dedup check retires the
		// reminder on the next sweep.
		return true, fmt.Errorf("mark reminder processed: %w", err)
	}

	return true, nil
}

func (s *Service) retire(ctx context.Context, rem model.ScheduledReminder) error {
	if err := s.reminders.MarkProcessed(ctx, rem.ID); err != nil {
		return fmt.Errorf("mark reminder processed: %w", err)
	}

	return nil
}

func (s *Service) lookupContact(ctx context.Context, studentID uuid.UUID) model.StudentContact {
	contact, err := s.contacts.GetContact(ctx, studentID)
	if err != nil {
		if !errors.Is(err, studentrepo.ErrContactNotFound) {
			zlog.Logger.Error().Err(err).
				Str("student_id", studentID.String()).
				Msg("failed to get student contact")
		}

		return model.StudentContact{}
	}

	return contact
}

// destination picks the delivery address for the student's preferred
// channel; empty means in-app only.
func destination(c model.StudentContact) string {
	switch c.Channel {
	case "email":
		return c.Email
	case "telegram":
		return c.TelegramChatID
	default:
		return ""
	}
}
