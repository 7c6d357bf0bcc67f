package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

//go:generate mockgen -source=sweeper.go -destination=../mocks/worker/mock.go -package=mocks

type sweepService interface {
	Process(ctx context.Context, now time.Time, studentID *uuid.UUID) (int, error)
}

// Sweeper periodically runs the due-reminder sweep over all students.
// It is the second trigger source next to the request-driven sweep and
// shares no state with it; both rely on the processed flag and the
// notification dedup key for correctness.
type Sweeper struct {
	service  sweepService
	interval time.Duration
}

// NewSweeper creates a new periodic sweeper.
func NewSweeper(s sweepService, interval time.Duration) *Sweeper {
	return &Sweeper{service: s, interval: interval}
}

// Run sweeps once per interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zlog.Logger.Info().Dur("interval", s.interval).Msg("sweeper started")

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("sweeper stopped")
			return
		case now := <-ticker.C:
			created, err := s.service.Process(ctx, now, nil)
			if err != nil {
				zlog.Logger.Error().Err(err).Msg("sweep failed")
				continue
			}

			if created > 0 {
				zlog.Logger.Info().Int("created", created).Msg("sweep created notifications")
			}
		}
	}
}
