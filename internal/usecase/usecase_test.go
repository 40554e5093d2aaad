package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/ports"
)

type fakeProjectRepo struct {
	projects map[string]*entity.Project
	used     []int
	nextID   int
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	r.nextID++
	p.ID = entity.NewID(uint(r.nextID))
	r.projects[p.Slug] = p
	return p, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id entity.ID) (*entity.Project, error) {
	for _, p := range r.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeProjectRepo) GetBySlug(ctx context.Context, slug string) (*entity.Project, error) {
	p, ok := r.projects[slug]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) List(ctx context.Context) ([]*entity.Project, error) { return nil, nil }
func (r *fakeProjectRepo) ListByStatus(ctx context.Context, statuses ...entity.ProjectStatus) ([]*entity.Project, error) {
	return nil, nil
}
func (r *fakeProjectRepo) UsedPorts(ctx context.Context) ([]int, error) { return r.used, nil }
func (r *fakeProjectRepo) Update(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	r.projects[p.Slug] = p
	return p, nil
}
func (r *fakeProjectRepo) CountByServer(ctx context.Context, serverID entity.ID) (int64, error) {
	return 0, nil
}

type fakeServerRepo struct {
	servers map[entity.ID]*entity.Server
}

func (r *fakeServerRepo) Create(ctx context.Context, s *entity.Server) (*entity.Server, error) {
	r.servers[s.ID] = s
	return s, nil
}
func (r *fakeServerRepo) GetByID(ctx context.Context, id entity.ID) (*entity.Server, error) {
	s, ok := r.servers[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return s, nil
}
func (r *fakeServerRepo) List(ctx context.Context) ([]*entity.Server, error) { return nil, nil }
func (r *fakeServerRepo) Delete(ctx context.Context, id entity.ID) error     { return nil }

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) bool {
	n.messages = append(n.messages, text)
	return true
}

func newCreateUsecase(projects *fakeProjectRepo, servers *fakeServerRepo) CreateProjectUsecase {
	return &createProjectUsecaseImpl{
		projectRepository: projects,
		serverRepository:  servers,
		allocator:         ports.NewAllocator(projects),
	}
}

func TestCreateProjectAssignsFirstFreePort(t *testing.T) {
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{}, used: []int{9001, 9002}}
	servers := &fakeServerRepo{servers: map[entity.ID]*entity.Server{"1": {ID: "1"}}}
	uc := newCreateUsecase(projects, servers)

	created, err := uc.Execute(context.Background(), &entity.Project{
		Name:     "My Shop",
		RepoURL:  "https://github.com/acme/shop.git",
		ServerID: "1",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if created.InternalPort != 9003 {
		t.Errorf("internal_port = %d; want 9003", created.InternalPort)
	}
	if created.Slug != "my-shop" {
		t.Errorf("slug = %q; want my-shop", created.Slug)
	}
	if created.Status != entity.ProjectStatusNew {
		t.Errorf("status = %s; want new", created.Status)
	}
	if created.Branch != "main" || created.ComposeFile != "docker-compose.prod.yml" {
		t.Errorf("defaults not applied: branch=%q compose=%q", created.Branch, created.ComposeFile)
	}
}

func TestCreateProjectRejectsUnknownServer(t *testing.T) {
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{}}
	servers := &fakeServerRepo{servers: map[entity.ID]*entity.Server{}}
	uc := newCreateUsecase(projects, servers)

	_, err := uc.Execute(context.Background(), &entity.Project{
		Name:     "Shop",
		RepoURL:  "https://github.com/acme/shop.git",
		ServerID: "99",
	})
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}

func TestCreateProjectRejectsDuplicateSlug(t *testing.T) {
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{
		"shop": {ID: "1", Slug: "shop"},
	}}
	servers := &fakeServerRepo{servers: map[entity.ID]*entity.Server{"1": {ID: "1"}}}
	uc := newCreateUsecase(projects, servers)

	_, err := uc.Execute(context.Background(), &entity.Project{
		Name:     "Shop",
		RepoURL:  "https://github.com/acme/shop.git",
		ServerID: "1",
	})
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("error = %v; want ErrConflict", err)
	}
}

func TestCreateProjectRejectsMissingFields(t *testing.T) {
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{}}
	servers := &fakeServerRepo{servers: map[entity.ID]*entity.Server{}}
	uc := newCreateUsecase(projects, servers)

	_, err := uc.Execute(context.Background(), &entity.Project{Name: "Shop"})
	if !errors.Is(err, entity.ErrInvalid) {
		t.Fatalf("error = %v; want ErrInvalid", err)
	}
}

func TestMarkPaidReactivatesGraceProject(t *testing.T) {
	grace := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{
		"shop": {ID: "1", Name: "Shop", Slug: "shop", Status: entity.ProjectStatusGrace, GraceUntil: &grace},
	}}
	notifier := &fakeNotifier{}
	uc := &markPaidUsecaseImpl{projectRepository: projects, notifier: notifier}

	paidUntil := time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)
	updated, err := uc.Execute(context.Background(), "shop", paidUntil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if updated.Status != entity.ProjectStatusActive {
		t.Errorf("status = %s; want active", updated.Status)
	}
	if updated.GraceUntil != nil {
		t.Errorf("grace_until = %v; want nil", updated.GraceUntil)
	}
	if updated.PaidUntil == nil || !updated.PaidUntil.Equal(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("paid_until = %v; want truncated to the day", updated.PaidUntil)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("notifications = %d; want 1 status change", len(notifier.messages))
	}
}

func TestMarkPaidKeepsSuspendedSuspended(t *testing.T) {
	// Payment alone does not resume a suspended workload; that needs an
	// explicit resume action.
	projects := &fakeProjectRepo{projects: map[string]*entity.Project{
		"shop": {ID: "1", Name: "Shop", Slug: "shop", Status: entity.ProjectStatusSuspended},
	}}
	notifier := &fakeNotifier{}
	uc := &markPaidUsecaseImpl{projectRepository: projects, notifier: notifier}

	updated, err := uc.Execute(context.Background(), "shop", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if updated.Status != entity.ProjectStatusSuspended {
		t.Errorf("status = %s; want suspended", updated.Status)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("unexpected notifications: %v", notifier.messages)
	}
}
