package delivery

import (
	"context"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/model"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/delivery/mock.go -package=mocks
type notificationService interface {
	Send(to, message, channel string) error
	SetDeliveryStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Handler delivers one queued notification to its out-of-band channel.
type Handler struct {
	service notificationService
}

// NewHandler creates a new delivery handler.
func NewHandler(svc notificationService) *Handler {
	return &Handler{
		service: svc,
	}
}

// HandleMessage sends the notification with retries and records the
// delivery outcome on the notification row.
func (h *Handler) HandleMessage(ctx context.Context, msg queue.DeliveryMessage, strategy retry.Strategy) {
	zlog.Logger.Info().
		Str("notification_id", msg.NotificationID.String()).
		Str("channel", msg.Channel).
		Msg("delivering notification")

	text := msg.Title + "\n\n" + msg.Message

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return h.service.Send(msg.To, text, msg.Channel)
		}
	}, strategy)

	status := model.DeliverySent
	if err != nil {
		zlog.Logger.Error().Err(err).
			Str("notification_id", msg.NotificationID.String()).
			Msg("delivery failed, moving to DLQ")
		status = model.DeliveryFailed
	}

	if setErr := h.service.SetDeliveryStatus(ctx, msg.NotificationID, status); setErr != nil {
		zlog.Logger.Error().Err(setErr).
			Str("notification_id", msg.NotificationID.String()).
			Msgf("failed to set delivery status=%s", status)
	}
}
