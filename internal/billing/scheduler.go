package billing

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the billing sweep unattended on a fixed schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	log     zerolog.Logger
}

func NewScheduler(sweeper *Sweeper, log zerolog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), sweeper: sweeper, log: log}
}

// Start registers the sweep under the given cron spec (e.g. "@daily") and
// starts the scheduler in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Info().Msg("billing sweep started")
		if err := s.sweeper.Run(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("billing sweep failed")
			return
		}
		s.log.Info().Msg("billing sweep finished")
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
