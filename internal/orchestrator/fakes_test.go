package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/remote"
)

type fakeProjectRepo struct {
	projects    map[entity.ID]*entity.Project
	updateCalls int
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	r.projects[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id entity.ID) (*entity.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProjectRepo) GetBySlug(ctx context.Context, slug string) (*entity.Project, error) {
	for _, p := range r.projects {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.projects {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProjectRepo) ListByStatus(ctx context.Context, statuses ...entity.ProjectStatus) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.projects {
		for _, s := range statuses {
			if p.Status == s {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) UsedPorts(ctx context.Context) ([]int, error) {
	var out []int
	for _, p := range r.projects {
		if p.InternalPort > 0 {
			out = append(out, p.InternalPort)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	r.updateCalls++
	clone := *p
	r.projects[p.ID] = &clone
	return p, nil
}

func (r *fakeProjectRepo) CountByServer(ctx context.Context, serverID entity.ID) (int64, error) {
	var n int64
	for _, p := range r.projects {
		if p.ServerID == serverID {
			n++
		}
	}
	return n, nil
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

func (r *fakeServerRepo) List(ctx context.Context) ([]*entity.Server, error) {
	var out []*entity.Server
	for _, s := range r.servers {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeServerRepo) Delete(ctx context.Context, id entity.ID) error {
	delete(r.servers, id)
	return nil
}

type fakeDeploymentRepo struct {
	created     []*entity.Deployment
	updateCalls int
	nextID      int
}

func (r *fakeDeploymentRepo) Create(ctx context.Context, d *entity.Deployment) (*entity.Deployment, error) {
	r.nextID++
	d.ID = entity.NewID(uint(r.nextID))
	clone := *d
	r.created = append(r.created, &clone)
	return d, nil
}

func (r *fakeDeploymentRepo) GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	for _, d := range r.created {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeDeploymentRepo) ListByProject(ctx context.Context, projectID entity.ID, limit int) ([]*entity.Deployment, error) {
	var out []*entity.Deployment
	for _, d := range r.created {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDeploymentRepo) Latest(ctx context.Context, projectID entity.ID) (*entity.Deployment, error) {
	deps, _ := r.ListByProject(ctx, projectID, 1)
	if len(deps) == 0 {
		return nil, entity.ErrNotFound
	}
	return deps[len(deps)-1], nil
}

func (r *fakeDeploymentRepo) Update(ctx context.Context, d *entity.Deployment) (*entity.Deployment, error) {
	r.updateCalls++
	for i, existing := range r.created {
		if existing.ID == d.ID {
			clone := *d
			r.created[i] = &clone
			return d, nil
		}
	}
	return nil, entity.ErrNotFound
}

type fakeExecutor struct {
	output   string
	err      error
	commands []string
	targets  []remote.Target
}

func (e *fakeExecutor) Execute(ctx context.Context, target remote.Target, command string) (string, error) {
	e.commands = append(e.commands, command)
	e.targets = append(e.targets, target)
	return e.output, e.err
}

type fakeProxy struct {
	installCalls int
	removeCalls  int
	installErr   error
	removeErr    error
}

func (p *fakeProxy) Install(ctx context.Context, project *entity.Project, server *entity.Server) (string, error) {
	p.installCalls++
	if p.installErr != nil {
		return "", p.installErr
	}
	if project.Domain == "" {
		return "", nil
	}
	return "nginx route installed", nil
}

func (p *fakeProxy) Remove(ctx context.Context, project *entity.Project, server *entity.Server) (string, error) {
	p.removeCalls++
	if p.removeErr != nil {
		return "", p.removeErr
	}
	if project.Domain == "" {
		return "", nil
	}
	return "nginx route removed", nil
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) bool {
	n.messages = append(n.messages, text)
	return true
}

type testEnv struct {
	orch        *Orchestrator
	projects    *fakeProjectRepo
	servers     *fakeServerRepo
	deployments *fakeDeploymentRepo
	executor    *fakeExecutor
	proxy       *fakeProxy
	notifier    *fakeNotifier
	now         time.Time
}

func newTestEnv(project *entity.Project) *testEnv {
	server := &entity.Server{
		ID:        "1",
		Name:      "vps-1",
		IPAddress: "203.0.113.10",
		SSHUser:   "root",
		SSHPort:   22,
		BasePath:  "/srv/projects",
	}
	env := &testEnv{
		projects:    &fakeProjectRepo{projects: map[entity.ID]*entity.Project{}},
		servers:     &fakeServerRepo{servers: map[entity.ID]*entity.Server{server.ID: server}},
		deployments: &fakeDeploymentRepo{},
		executor:    &fakeExecutor{output: "remote output"},
		proxy:       &fakeProxy{},
		notifier:    &fakeNotifier{},
		now:         time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	if project != nil {
		env.projects.projects[project.ID] = project
	}
	env.orch = New(env.projects, env.servers, env.deployments, env.executor, env.proxy, env.notifier, zerolog.Nop())
	env.orch.now = func() time.Time { return env.now }
	return env
}

func testProject(status entity.ProjectStatus) *entity.Project {
	return &entity.Project{
		ID:           "10",
		Name:         "Shop",
		Slug:         "shop",
		RepoURL:      "https://github.com/acme/shop.git",
		Branch:       "main",
		ServerID:     "1",
		Domain:       "shop.example.com",
		ComposeFile:  "docker-compose.prod.yml",
		InternalPort: 9001,
		Status:       status,
	}
}

var errRemote = errors.New("remote boom")
