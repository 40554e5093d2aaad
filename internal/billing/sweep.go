package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/notify"
	"github.com/zeadev/zeacontrol/internal/repository"
	"github.com/zeadev/zeacontrol/internal/tasks"
)

const (
	// WarningDays is how many days before payment expiry the renewal
	// warning goes out.
	WarningDays = 3
	// GraceDays is the length of the grace window after payment expiry.
	GraceDays = 7
)

// Suspender is the one orchestration operation the sweep delegates to.
// Satisfied by orchestrator.Orchestrator.
type Suspender interface {
	Suspend(ctx context.Context, projectID entity.ID) (*entity.Deployment, error)
}

// Sweeper advances projects through payment-driven states. Each sweep is
// independent and idempotent per tick; re-running on the same calendar day
// reclassifies the same set and re-sends the same warnings. Suspensions
// are dispatched asynchronously and not awaited.
type Sweeper struct {
	projects   repository.ProjectRepository
	notifier   notify.Notifier
	suspender  Suspender
	dispatcher *tasks.Dispatcher
	log        zerolog.Logger
	now        func() time.Time
}

func NewSweeper(
	projects repository.ProjectRepository,
	notifier notify.Notifier,
	suspender Suspender,
	dispatcher *tasks.Dispatcher,
	log zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		projects:   projects,
		notifier:   notifier,
		suspender:  suspender,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// Run executes the three sweeps for the current calendar day.
func (s *Sweeper) Run(ctx context.Context) error {
	today := entity.DateOf(s.now())

	if err := s.sweepWarnings(ctx, today); err != nil {
		return fmt.Errorf("billing warnings: %w", err)
	}
	if err := s.sweepExpired(ctx, today); err != nil {
		return fmt.Errorf("grace transitions: %w", err)
	}
	if err := s.sweepGraceExpired(ctx, today); err != nil {
		return fmt.Errorf("grace suspensions: %w", err)
	}
	return nil
}

// sweepWarnings notifies active projects whose payment expires in exactly
// WarningDays days.
func (s *Sweeper) sweepWarnings(ctx context.Context, today time.Time) error {
	projects, err := s.projects.ListByStatus(ctx, entity.ProjectStatusActive)
	if err != nil {
		return err
	}
	warningDate := today.AddDate(0, 0, WarningDays)
	for _, p := range projects {
		if p.PaidUntil == nil || !entity.DateOf(*p.PaidUntil).Equal(warningDate) {
			continue
		}
		daysLeft := int(entity.DateOf(*p.PaidUntil).Sub(today).Hours() / 24)
		s.notifier.Notify(ctx, notify.BillingWarning(p, daysLeft))
	}
	return nil
}

// sweepExpired moves active/deploying projects with payment strictly past
// due into grace.
func (s *Sweeper) sweepExpired(ctx context.Context, today time.Time) error {
	projects, err := s.projects.ListByStatus(ctx,
		entity.ProjectStatusActive, entity.ProjectStatusDeploying)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.PaidUntil == nil || !entity.DateOf(*p.PaidUntil).Before(today) {
			continue
		}
		oldStatus := p.Status
		graceUntil := today.AddDate(0, 0, GraceDays)
		p.Status = entity.ProjectStatusGrace
		p.GraceUntil = &graceUntil
		if _, err := s.projects.Update(ctx, p); err != nil {
			s.log.Error().Err(err).Str("slug", p.Slug).Msg("failed to move project to grace")
			continue
		}
		s.notifier.Notify(ctx, notify.StatusChange(p, oldStatus, entity.ProjectStatusGrace))
		s.log.Info().Str("slug", p.Slug).Time("grace_until", graceUntil).Msg("project moved to grace")
	}
	return nil
}

// sweepGraceExpired hands projects whose grace window has ended to the
// suspend operation, one async invocation per project.
func (s *Sweeper) sweepGraceExpired(ctx context.Context, today time.Time) error {
	projects, err := s.projects.ListByStatus(ctx, entity.ProjectStatusGrace)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.GraceUntil == nil || !entity.DateOf(*p.GraceUntil).Before(today) {
			continue
		}
		projectID := p.ID
		slug := p.Slug
		s.dispatcher.Dispatch("suspend:"+slug, func(ctx context.Context) {
			if _, err := s.suspender.Suspend(ctx, projectID); err != nil {
				s.log.Error().Err(err).Str("slug", slug).Msg("grace suspension failed")
			}
		})
		s.log.Info().Str("slug", slug).Msg("grace expired, suspension dispatched")
	}
	return nil
}
