package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/repository"
)

type GetProjectUsecase interface {
	Execute(ctx context.Context, slug string) (*entity.Project, error)
}

type getProjectUsecaseImpl struct {
	projectRepository repository.ProjectRepository
}

// Execute implements GetProjectUsecase.
func (g *getProjectUsecaseImpl) Execute(ctx context.Context, slug string) (*entity.Project, error) {
	return g.projectRepository.GetBySlug(ctx, slug)
}

func NewGetProjectUsecase(injector *do.Injector) (GetProjectUsecase, error) {
	return &getProjectUsecaseImpl{
		projectRepository: do.MustInvoke[repository.ProjectRepository](injector),
	}, nil
}
