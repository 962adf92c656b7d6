package store

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CooldownSweeper periodically prunes expired goal cooldowns from a
// CooldownStore so the table does not grow without bound. It runs
// independently of any single agent's loop.
type CooldownSweeper struct {
	store    CooldownStore
	logger   zerolog.Logger
	cron     *cron.Cron
	schedule string
}

// NewCooldownSweeper constructs a sweeper that runs on the given cron
// schedule (standard five-field syntax). A typical schedule is "@every
// 5m".
func NewCooldownSweeper(store CooldownStore, logger zerolog.Logger, schedule string) *CooldownSweeper {
	if schedule == "" {
		schedule = "@every 5m"
	}
	return &CooldownSweeper{
		store:    store,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start registers the prune job and starts the cron scheduler in the
// background. Returns an error if the schedule fails to parse.
func (s *CooldownSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, blocking until the in-flight job (if any)
// completes.
func (s *CooldownSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CooldownSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.PruneExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("cooldown sweep failed")
		return
	}
	if n > 0 {
		s.logger.Debug().Int64("pruned", n).Msg("cooldown sweep complete")
	}
}
