package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/deadline"
	"github.com/edupulse/deadline-reminder/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/schedule/mock.go -package=mocks

type itemRepository interface {
	Get(ctx context.Context, id uuid.UUID, kind model.ItemKind) (model.TargetItem, error)
}

type reminderRepository interface {
	CreateBatch(ctx context.Context, reminders []model.ScheduledReminder) ([]model.ScheduledReminder, error)
}

// Service generates milestone reminder schedules for items.
type Service struct {
	items     itemRepository
	reminders reminderRepository
	loc       *time.Location
}

// NewService creates a new schedule service. Deadlines are resolved in loc.
func NewService(items itemRepository, reminders reminderRepository, loc *time.Location) *Service {
	return &Service{items: items, reminders: reminders, loc: loc}
}

// CreateSchedule resolves the item's deadline and persists the four
// milestone reminders for the student, anchored at now. It returns an
// empty schedule when the item has no deadline concept (a task without
// a time of day). It does not check for an existing schedule; callers
// are responsible for not re-scheduling the same (student, item).
func (s *Service) CreateSchedule(ctx context.Context, studentID, itemID uuid.UUID, kind model.ItemKind, now time.Time) ([]model.ScheduledReminder, error) {
	item, err := s.items.Get(ctx, itemID, kind)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	due, err := deadline.Resolve(item, s.loc)
	if err != nil {
		if errors.Is(err, deadline.ErrNoDeadline) {
			zlog.Logger.Info().
				Str("item_id", itemID.String()).
				Msg("item has no deadline, skipping schedule")
			return nil, nil
		}

		return nil, fmt.Errorf("resolve deadline: %w", err)
	}

	reminders, err := s.reminders.CreateBatch(ctx, BuildSchedule(studentID, item, due, now))
	if err != nil {
		return nil, fmt.Errorf("create reminders: %w", err)
	}

	return reminders, nil
}

// BuildSchedule computes the four reminder records for the window
// between now and due:
//
//	scheduledFor(p) = now + p/100 * (due - now)   for p in {25, 50, 75}
//	scheduledFor(100) = due exactly
func BuildSchedule(studentID uuid.UUID, item model.TargetItem, due, now time.Time) []model.ScheduledReminder {
	window := due.Sub(now)

	reminders := make([]model.ScheduledReminder, 0, len(model.Milestones))
	for _, p := range model.Milestones {
		at := due
		if p != 100 {
			at = now.Add(time.Duration(float64(window) * float64(p) / 100))
		}

		reminders = append(reminders, model.ScheduledReminder{
			StudentID:           studentID,
			ItemID:              item.ID(),
			ItemKind:            item.Kind,
			MilestonePercentage: p,
			Deadline:            due,
			ScheduledFor:        at,
		})
	}

	return reminders
}
