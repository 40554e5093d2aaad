package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/repository"
)

type ListDeploymentsUsecase interface {
	Execute(ctx context.Context, slug string, limit int) ([]*entity.Deployment, error)
}

type listDeploymentsUsecaseImpl struct {
	projectRepository    repository.ProjectRepository
	deploymentRepository repository.DeploymentRepository
}

// Execute returns a project's deployment history, newest first.
func (l *listDeploymentsUsecaseImpl) Execute(ctx context.Context, slug string, limit int) ([]*entity.Deployment, error) {
	project, err := l.projectRepository.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return l.deploymentRepository.ListByProject(ctx, project.ID, limit)
}

func NewListDeploymentsUsecase(injector *do.Injector) (ListDeploymentsUsecase, error) {
	return &listDeploymentsUsecaseImpl{
		projectRepository:    do.MustInvoke[repository.ProjectRepository](injector),
		deploymentRepository: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
