package usecase

import (
	"context"
	"time"

	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/notify"
	"github.com/zeadev/zeacontrol/internal/repository"
)

type MarkPaidUsecase interface {
	Execute(ctx context.Context, slug string, paidUntil time.Time) (*entity.Project, error)
}

type markPaidUsecaseImpl struct {
	projectRepository repository.ProjectRepository
	notifier          notify.Notifier
}

// Execute records a payment renewal. Leaving grace is an explicit operator
// action; the billing sweep never automates it.
func (m *markPaidUsecaseImpl) Execute(ctx context.Context, slug string, paidUntil time.Time) (*entity.Project, error) {
	project, err := m.projectRepository.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	paid := entity.DateOf(paidUntil)
	project.PaidUntil = &paid

	oldStatus := project.Status
	if project.Status == entity.ProjectStatusGrace {
		project.Status = entity.ProjectStatusActive
		project.GraceUntil = nil
	}

	updated, err := m.projectRepository.Update(ctx, project)
	if err != nil {
		return nil, err
	}
	if updated.Status != oldStatus {
		m.notifier.Notify(ctx, notify.StatusChange(updated, oldStatus, updated.Status))
	}
	return updated, nil
}

func NewMarkPaidUsecase(injector *do.Injector) (MarkPaidUsecase, error) {
	return &markPaidUsecaseImpl{
		projectRepository: do.MustInvoke[repository.ProjectRepository](injector),
		notifier:          do.MustInvoke[notify.Notifier](injector),
	}, nil
}
