package entity

import "time"

type ProjectStatus string

const (
	ProjectStatusNew       ProjectStatus = "new"
	ProjectStatusDeploying ProjectStatus = "deploying"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusGrace     ProjectStatus = "grace"
	ProjectStatusSuspended ProjectStatus = "suspended"
	ProjectStatusFailed    ProjectStatus = "failed"
)

// Port pool for project workloads. A port is assigned once at project
// creation and never reassigned.
const (
	PortRangeStart = 9001
	PortRangeEnd   = 9999
)

// Project is the unit of orchestration: one workload bound to one server,
// one source repository, one internal port and a lifecycle status.
type Project struct {
	ID           ID
	Name         string
	Slug         string
	Description  string
	RepoURL      string
	Branch       string
	ServerID     ID
	Domain       string
	RemotePath   string
	ComposeFile  string
	EnvVars      string
	InternalPort int
	PricePerMo   float64
	PaidUntil    *time.Time
	GraceUntil   *time.Time
	Status       ProjectStatus
	LastDeployAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Project) FillDefaults() {
	if p.Branch == "" {
		p.Branch = "main"
	}
	if p.ComposeFile == "" {
		p.ComposeFile = "docker-compose.prod.yml"
	}
	if p.Status == "" {
		p.Status = ProjectStatusNew
	}
}

// GetRemotePath returns the project directory on its server. When no
// custom path is set it is derived from the server's base path and slug.
func (p *Project) GetRemotePath(server *Server) string {
	if p.RemotePath != "" {
		return p.RemotePath
	}
	return server.BasePath + "/" + p.Slug
}

func (p *Project) IsPaid(today time.Time) bool {
	return p.PaidUntil != nil && !p.PaidUntil.Before(DateOf(today))
}

// DateOf truncates a timestamp to its calendar day in UTC. Billing fields
// compare by day, never by clock time.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
