package repository

import (
	"context"

	"github.com/samber/lo"
	"github.com/zeadev/zeacontrol/internal/entity"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	Create(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error)
	ListByProject(ctx context.Context, projectID entity.ID, limit int) ([]*entity.Deployment, error)
	Latest(ctx context.Context, projectID entity.ID) (*entity.Deployment, error)
	Update(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error)
}

type deploymentRepositoryImpl struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepositoryImpl{db: db}
}

// Create a new deployment audit record.
func (r *deploymentRepositoryImpl) Create(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error) {
	var model Deployment
	model.FromEntity(dep)
	if err := gorm.G[Deployment](r.db).Create(ctx, &model); err != nil {
		return nil, translate(err)
	}
	return model.ToEntity(), nil
}

// GetByID finds a deployment by id.
func (r *deploymentRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	found, err := gorm.G[Deployment](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// ListByProject lists a project's deployments, newest first.
func (r *deploymentRepositoryImpl) ListByProject(ctx context.Context, projectID entity.ID, limit int) ([]*entity.Deployment, error) {
	q := gorm.G[Deployment](r.db).Where("project_id = ?", projectID.Uint()).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	founds, err := q.Find(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return lo.Map(founds, func(f Deployment, _ int) *entity.Deployment { return f.ToEntity() }), nil
}

// Latest returns the most recent deployment of a project.
func (r *deploymentRepositoryImpl) Latest(ctx context.Context, projectID entity.ID) (*entity.Deployment, error) {
	found, err := gorm.G[Deployment](r.db).
		Where("project_id = ?", projectID.Uint()).
		Order("started_at DESC").
		First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// Update finalizes a deployment record (status, log, finished_at).
func (r *deploymentRepositoryImpl) Update(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error) {
	var model Deployment
	model.FromEntity(dep)
	err := r.db.WithContext(ctx).Model(&Deployment{}).
		Where("id = ?", dep.ID.Uint()).
		Select("Status", "Log", "FinishedAt").
		Updates(&model).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, dep.ID)
}
