package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/repository"
)

type ListProjectsUsecase interface {
	Execute(ctx context.Context) ([]*entity.Project, error)
}

type listProjectsUsecaseImpl struct {
	projectRepository repository.ProjectRepository
}

// Execute implements ListProjectsUsecase.
func (l *listProjectsUsecaseImpl) Execute(ctx context.Context) ([]*entity.Project, error) {
	return l.projectRepository.List(ctx)
}

func NewListProjectsUsecase(injector *do.Injector) (ListProjectsUsecase, error) {
	return &listProjectsUsecaseImpl{
		projectRepository: do.MustInvoke[repository.ProjectRepository](injector),
	}, nil
}
