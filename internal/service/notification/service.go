package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

// listLimit caps one page of a student's notification feed.
const listLimit = 50

type notificationRepository interface {
	GetByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]model.Notification, error)
	GetStatusByID(ctx context.Context, id uuid.UUID) (string, error)
	MarkRead(ctx context.Context, id, studentID uuid.UUID) error
	SetDeliveryStatus(ctx context.Context, id uuid.UUID, status string) error
}

type sweeper interface {
	Process(ctx context.Context, now time.Time, studentID *uuid.UUID) (int, error)
}

// Notifier sends a message to one recipient over one channel.
type Notifier interface {
	Send(to string, msg string) error
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Service reads and acknowledges a student's notifications and pushes
// deliveries out over the configured channels.
type Service struct {
	repo      notificationRepository
	sweeper   sweeper
	notifiers map[string]Notifier
	cache     cache
}

// NewService creates a new notification service.
func NewService(
	repo notificationRepository,
	sweeper sweeper,
	notifiers map[string]Notifier,
	cache cache,
) *Service {
	return &Service{repo: repo, sweeper: sweeper, notifiers: notifiers, cache: cache}
}

// ListForStudent sweeps the student's due reminders and returns their
// notifications, newest first, capped at 50. A failed sweep does not
// block the read; the student simply sees their current list.
func (s *Service) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Notification, error) {
	if _, err := s.sweeper.Process(ctx, time.Now(), &studentID); err != nil {
		zlog.Logger.Error().Err(err).
			Str("student_id", studentID.String()).
			Msg("failed to sweep due reminders")
	}

	notifications, err := s.repo.GetByStudent(ctx, studentID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	return notifications, nil
}

// GetStatusByID returns the read status of a notification,
// cache-aside via Redis.
func (s *Service) GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error) {
	status, err := s.cache.GetWithRetry(ctx, strategy, id.String())
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status from cache")
	}

	if errors.Is(err, redis.Nil) {
		status, err = s.repo.GetStatusByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("get notification status: %w", err)
		}

		err = s.cache.SetWithRetry(ctx, strategy, id.String(), status)
		if err != nil {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification status")
		}
	}

	return status, nil
}

// MarkRead acknowledges the student's own notification and refreshes
// the cached status.
func (s *Service) MarkRead(ctx context.Context, strategy retry.Strategy, id, studentID uuid.UUID) error {
	err := s.repo.MarkRead(ctx, id, studentID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	err = s.cache.SetWithRetry(ctx, strategy, id.String(), "read")
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache notification status")
	}

	return nil
}

// SetDeliveryStatus records the outcome of a delivery attempt.
func (s *Service) SetDeliveryStatus(ctx context.Context, id uuid.UUID, status string) error {
	err := s.repo.SetDeliveryStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("set delivery status: %w", err)
	}

	return nil
}

// Send pushes a message to the recipient over the named channel.
func (s *Service) Send(to, message, channel string) error {
	notifier, ok := s.notifiers[channel]
	if !ok {
		return fmt.Errorf("unknown channel %s", channel)
	}

	err := notifier.Send(to, message)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return nil
}
