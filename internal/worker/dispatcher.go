package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
)

//go:generate mockgen -source=dispatcher.go -destination=../mocks/worker/mock_dispatcher.go -package=mocks

type deliveryConsumer interface {
	Consume(out chan<- queue.DeliveryMessage, strategy retry.Strategy) error
}

type deliveryHandler interface {
	HandleMessage(ctx context.Context, msg queue.DeliveryMessage, strategy retry.Strategy)
}

type notificationService interface {
	GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
}

// Dispatcher consumes delivery messages and pushes them to students'
// out-of-band channels with a pool of workers.
type Dispatcher struct {
	queue   deliveryConsumer
	handler deliveryHandler
	service notificationService
}

// NewDispatcher creates a new delivery dispatcher.
func NewDispatcher(q deliveryConsumer, h deliveryHandler, s notificationService) *Dispatcher {
	return &Dispatcher{
		queue:   q,
		handler: h,
		service: s,
	}
}

// Run consumes the delivery queue with workerCount workers until ctx
// is cancelled. A notification the student already read in-app is
// skipped instead of delivered.
func (d *Dispatcher) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	var wg sync.WaitGroup
	msgChan := make(chan queue.DeliveryMessage, workerCount*10)

	go func() {
		if err := d.queue.Consume(msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume messages")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("worker-%d shutting down", id)
					return
				case msg, ok := <-msgChan:
					if !ok {
						zlog.Logger.Printf("worker-%d channel closed, shutting down", id)
						return
					}

					status, err := d.service.GetStatusByID(ctx, strategy, msg.NotificationID)
					if err != nil {
						zlog.Logger.Printf("failed to get status for %s: %v", msg.NotificationID, err)
						continue
					}

					if status == "read" {
						zlog.Logger.Printf("notification %s already read, skipping", msg.NotificationID)
						continue
					}

					d.handler.HandleMessage(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("dispatcher stopped")
}
