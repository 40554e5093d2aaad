package repository

import (
	"context"

	"github.com/samber/lo"
	"github.com/zeadev/zeacontrol/internal/entity"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) (*entity.Project, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Project, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Project, error)
	List(ctx context.Context) ([]*entity.Project, error)
	ListByStatus(ctx context.Context, statuses ...entity.ProjectStatus) ([]*entity.Project, error)
	UsedPorts(ctx context.Context) ([]int, error)
	Update(ctx context.Context, project *entity.Project) (*entity.Project, error)
	CountByServer(ctx context.Context, serverID entity.ID) (int64, error)
}

type projectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create implements ProjectRepository.
func (r *projectRepositoryImpl) Create(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	var model Project
	model.FromEntity(project)
	if err := gorm.G[Project](r.db).Create(ctx, &model); err != nil {
		return nil, translate(err)
	}
	return model.ToEntity(), nil
}

// GetByID implements ProjectRepository.
func (r *projectRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Project, error) {
	found, err := gorm.G[Project](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// GetBySlug implements ProjectRepository.
func (r *projectRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*entity.Project, error) {
	found, err := gorm.G[Project](r.db).Where("slug = ?", slug).First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// List returns all projects, newest first.
func (r *projectRepositoryImpl) List(ctx context.Context) ([]*entity.Project, error) {
	founds, err := gorm.G[Project](r.db).Order("created_at DESC").Find(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return lo.Map(founds, func(f Project, _ int) *entity.Project { return f.ToEntity() }), nil
}

// ListByStatus returns projects whose status is one of the given values.
func (r *projectRepositoryImpl) ListByStatus(ctx context.Context, statuses ...entity.ProjectStatus) ([]*entity.Project, error) {
	values := lo.Map(statuses, func(s entity.ProjectStatus, _ int) string { return string(s) })
	founds, err := gorm.G[Project](r.db).Where("status IN ?", values).Find(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return lo.Map(founds, func(f Project, _ int) *entity.Project { return f.ToEntity() }), nil
}

// UsedPorts returns every internal port currently assigned to a project.
func (r *projectRepositoryImpl) UsedPorts(ctx context.Context) ([]int, error) {
	founds, err := gorm.G[Project](r.db).Where("internal_port > 0").Select("internal_port").Find(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return lo.Map(founds, func(f Project, _ int) int { return f.InternalPort }), nil
}

// Update implements ProjectRepository.
func (r *projectRepositoryImpl) Update(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	var model Project
	model.FromEntity(project)
	// Select all mutable columns so that nil dates and empty statuses are
	// written back, not skipped as zero values.
	err := r.db.WithContext(ctx).Model(&Project{}).
		Where("id = ?", project.ID.Uint()).
		Select("Name", "Description", "RepoURL", "Branch", "Domain", "RemotePath",
			"ComposeFile", "EnvVars", "PricePerMo", "PaidUntil", "GraceUntil",
			"Status", "LastDeployAt").
		Updates(&model).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, project.ID)
}

// CountByServer counts projects bound to a server.
func (r *projectRepositoryImpl) CountByServer(ctx context.Context, serverID entity.ID) (int64, error) {
	count, err := gorm.G[Project](r.db).Where("server_id = ?", serverID.Uint()).Count(ctx, "id")
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}
