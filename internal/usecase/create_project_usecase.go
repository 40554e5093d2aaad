package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/ports"
	"github.com/zeadev/zeacontrol/internal/repository"
	"github.com/zeadev/zeacontrol/internal/utils"
)

type CreateProjectUsecase interface {
	Execute(ctx context.Context, project *entity.Project) (*entity.Project, error)
}

type createProjectUsecaseImpl struct {
	projectRepository repository.ProjectRepository
	serverRepository  repository.ServerRepository
	allocator         *ports.Allocator
}

// Execute implements CreateProjectUsecase. The internal port is assigned
// here, once, and never reassigned afterwards.
func (c *createProjectUsecaseImpl) Execute(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	if project.Name == "" || project.RepoURL == "" || project.ServerID == "" {
		return nil, entity.ErrInvalid
	}
	if project.Slug == "" {
		project.Slug = utils.SanitizeSlug(project.Name)
	} else {
		project.Slug = utils.SanitizeSlug(project.Slug)
	}
	project.FillDefaults()

	if _, err := c.serverRepository.GetByID(ctx, project.ServerID); err != nil {
		return nil, err
	}
	if existing, err := c.projectRepository.GetBySlug(ctx, project.Slug); err == nil && existing != nil {
		return nil, entity.ErrConflict
	}

	port, err := c.allocator.Allocate(ctx)
	if err != nil {
		return nil, err
	}
	project.InternalPort = port

	return c.projectRepository.Create(ctx, project)
}

func NewCreateProjectUsecase(injector *do.Injector) (CreateProjectUsecase, error) {
	return &createProjectUsecaseImpl{
		projectRepository: do.MustInvoke[repository.ProjectRepository](injector),
		serverRepository:  do.MustInvoke[repository.ServerRepository](injector),
		allocator:         do.MustInvoke[*ports.Allocator](injector),
	}, nil
}
