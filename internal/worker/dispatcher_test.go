package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/edupulse/deadline-reminder/internal/mocks/worker"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
)

type dispatcherFixture struct {
	consumer *mocks.MockdeliveryConsumer
	handler  *mocks.MockdeliveryHandler
	service  *mocks.MocknotificationService
	strategy retry.Strategy
}

func newDispatcherFixture(t *testing.T) (*Dispatcher, *dispatcherFixture) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &dispatcherFixture{
		consumer: mocks.NewMockdeliveryConsumer(ctrl),
		handler:  mocks.NewMockdeliveryHandler(ctrl),
		service:  mocks.NewMocknotificationService(ctrl),
		strategy: retry.Strategy{Attempts: 1, Delay: time.Millisecond},
	}

	return NewDispatcher(f.consumer, f.handler, f.service), f
}

func deliveryMessage() queue.DeliveryMessage {
	return queue.DeliveryMessage{
		NotificationID: uuid.New(),
		StudentID:      uuid.New(),
		To:             "student@example.com",
		Channel:        "email",
		Title:          "Halfway there: Capstone",
		Message:        "You are halfway to the deadline for Capstone.",
	}
}

func TestDispatcher_Run_DeliversUnreadNotification(t *testing.T) {
	d, f := newDispatcherFixture(t)

	msg := deliveryMessage()

	f.consumer.EXPECT().Consume(gomock.Any(), f.strategy).DoAndReturn(
		func(out chan<- queue.DeliveryMessage, _ retry.Strategy) error {
			out <- msg
			return nil
		},
	)
	f.service.EXPECT().GetStatusByID(gomock.Any(), f.strategy, msg.NotificationID).Return("sent", nil)
	f.handler.EXPECT().HandleMessage(gomock.Any(), msg, f.strategy)

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx, f.strategy, 1)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestDispatcher_Run_SkipsAlreadyReadNotification(t *testing.T) {
	d, f := newDispatcherFixture(t)

	msg := deliveryMessage()

	f.consumer.EXPECT().Consume(gomock.Any(), f.strategy).DoAndReturn(
		func(out chan<- queue.DeliveryMessage, _ retry.Strategy) error {
			out <- msg
			return nil
		},
	)
	f.service.EXPECT().GetStatusByID(gomock.Any(), f.strategy, msg.NotificationID).Return("read", nil)
	f.handler.EXPECT().HandleMessage(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx, f.strategy, 1)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestDispatcher_Run_SkipsMessageOnStatusError(t *testing.T) {
	d, f := newDispatcherFixture(t)

	first := deliveryMessage()
	second := deliveryMessage()

	f.consumer.EXPECT().Consume(gomock.Any(), f.strategy).DoAndReturn(
		func(out chan<- queue.DeliveryMessage, _ retry.Strategy) error {
			out <- first
			out <- second
			return nil
		},
	)
	f.service.EXPECT().GetStatusByID(gomock.Any(), f.strategy, first.NotificationID).Return("", errors.New("db error"))
	f.service.EXPECT().GetStatusByID(gomock.Any(), f.strategy, second.NotificationID).Return("sent", nil)

	// The failed lookup must not stop the worker from handling the next message.
	f.handler.EXPECT().HandleMessage(gomock.Any(), second, f.strategy)

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx, f.strategy, 1)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}
