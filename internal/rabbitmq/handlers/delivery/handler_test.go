package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/edupulse/deadline-reminder/internal/mocks/rabbitmq/handlers/delivery"
	"github.com/edupulse/deadline-reminder/internal/model"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
)

func testMessage() queue.DeliveryMessage {
	return queue.DeliveryMessage{
		NotificationID: uuid.New(),
		StudentID:      uuid.New(),
		To:             "s@example.com",
		Channel:        "email",
		Title:          "Project reminder: Capstone",
		Message:        "Half of the time for project \"Capstone\" has passed.",
	}
}

func TestHandleMessage_Sent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMocknotificationService(ctrl)
	h := NewHandler(mockService)

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}
	wantText := msg.Title + "\n\n" + msg.Message

	mockService.EXPECT().Send(msg.To, wantText, msg.Channel).Return(nil)
	mockService.EXPECT().SetDeliveryStatus(gomock.Any(), msg.NotificationID, model.DeliverySent).Return(nil)

	h.HandleMessage(context.Background(), msg, strategy)
}

func TestHandleMessage_Failed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMocknotificationService(ctrl)
	h := NewHandler(mockService)

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 2, Delay: time.Millisecond}
	wantText := msg.Title + "\n\n" + msg.Message

	mockService.EXPECT().Send(msg.To, wantText, msg.Channel).Return(errors.New("smtp down")).Times(2)
	mockService.EXPECT().SetDeliveryStatus(gomock.Any(), msg.NotificationID, model.DeliveryFailed).Return(nil)

	h.HandleMessage(context.Background(), msg, strategy)
}

func TestHandleMessage_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMocknotificationService(ctrl)
	h := NewHandler(mockService)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := testMessage()
	strategy := retry.Strategy{Attempts: 1, Delay: time.Millisecond}

	// No Send expected once the context is gone; outcome is recorded as failed.
	mockService.EXPECT().SetDeliveryStatus(gomock.Any(), msg.NotificationID, model.DeliveryFailed).Return(nil)

	h.HandleMessage(ctx, msg, strategy)
}
