package repository

import (
	"context"

	"github.com/samber/lo"
	"github.com/zeadev/zeacontrol/internal/entity"
	"gorm.io/gorm"
)

type ServerRepository interface {
	Create(ctx context.Context, server *entity.Server) (*entity.Server, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Server, error)
	List(ctx context.Context) ([]*entity.Server, error)
	Delete(ctx context.Context, id entity.ID) error
}

type serverRepositoryImpl struct {
	db       *gorm.DB
	projects ProjectRepository
}

func NewServerRepository(db *gorm.DB, projects ProjectRepository) ServerRepository {
	return &serverRepositoryImpl{db: db, projects: projects}
}

// Create implements ServerRepository.
func (r *serverRepositoryImpl) Create(ctx context.Context, server *entity.Server) (*entity.Server, error) {
	var model Server
	model.FromEntity(server)
	if err := gorm.G[Server](r.db).Create(ctx, &model); err != nil {
		return nil, translate(err)
	}
	return model.ToEntity(), nil
}

// GetByID implements ServerRepository.
func (r *serverRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Server, error) {
	found, err := gorm.G[Server](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// List returns all servers.
func (r *serverRepositoryImpl) List(ctx context.Context) ([]*entity.Server, error) {
	founds, err := gorm.G[Server](r.db).Find(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return lo.Map(founds, func(f Server, _ int) *entity.Server { return f.ToEntity() }), nil
}

// Delete removes a server. Rejected while any project references it.
func (r *serverRepositoryImpl) Delete(ctx context.Context, id entity.ID) error {
	count, err := r.projects.CountByServer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return entity.ErrServerInUse
	}
	_, err = gorm.G[Server](r.db).Where("id = ?", id.Uint()).Delete(ctx)
	return translate(err)
}
