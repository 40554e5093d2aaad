package repository

import (
	"time"

	"github.com/zeadev/zeacontrol/internal/entity"
	"gorm.io/gorm"
)

type Server struct {
	gorm.Model
	Name      string
	IPAddress string
	SSHUser   string
	SSHPort   int
	BasePath  string
}

func (s *Server) ToEntity() *entity.Server {
	return &entity.Server{
		ID:        entity.NewID(s.ID),
		Name:      s.Name,
		IPAddress: s.IPAddress,
		SSHUser:   s.SSHUser,
		SSHPort:   s.SSHPort,
		BasePath:  s.BasePath,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (s *Server) FromEntity(e *entity.Server) {
	if e.ID != "" {
		s.ID = e.ID.Uint()
	}
	s.Name = e.Name
	s.IPAddress = e.IPAddress
	s.SSHUser = e.SSHUser
	s.SSHPort = e.SSHPort
	s.BasePath = e.BasePath
}

type Project struct {
	gorm.Model
	Name         string
	Slug         string `gorm:"uniqueIndex"`
	Description  string
	RepoURL      string
	Branch       string
	ServerID     uint
	Server       Server
	Domain       string
	RemotePath   string
	ComposeFile  string
	EnvVars      string
	InternalPort int `gorm:"uniqueIndex"`
	PricePerMo   float64
	PaidUntil    *time.Time
	GraceUntil   *time.Time
	Status       string
	LastDeployAt *time.Time
}

func (p *Project) ToEntity() *entity.Project {
	return &entity.Project{
		ID:           entity.NewID(p.ID),
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		RepoURL:      p.RepoURL,
		Branch:       p.Branch,
		ServerID:     entity.NewID(p.ServerID),
		Domain:       p.Domain,
		RemotePath:   p.RemotePath,
		ComposeFile:  p.ComposeFile,
		EnvVars:      p.EnvVars,
		InternalPort: p.InternalPort,
		PricePerMo:   p.PricePerMo,
		PaidUntil:    p.PaidUntil,
		GraceUntil:   p.GraceUntil,
		Status:       entity.ProjectStatus(p.Status),
		LastDeployAt: p.LastDeployAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (p *Project) FromEntity(e *entity.Project) {
	if e.ID != "" {
		p.ID = e.ID.Uint()
	}
	p.Name = e.Name
	p.Slug = e.Slug
	p.Description = e.Description
	p.RepoURL = e.RepoURL
	p.Branch = e.Branch
	if e.ServerID != "" {
		p.ServerID = e.ServerID.Uint()
	}
	p.Domain = e.Domain
	p.RemotePath = e.RemotePath
	p.ComposeFile = e.ComposeFile
	p.EnvVars = e.EnvVars
	p.InternalPort = e.InternalPort
	p.PricePerMo = e.PricePerMo
	p.PaidUntil = e.PaidUntil
	p.GraceUntil = e.GraceUntil
	p.Status = string(e.Status)
	p.LastDeployAt = e.LastDeployAt
}

type Deployment struct {
	gorm.Model
	ProjectID  uint
	Project    Project
	Action     string
	Status     string
	Log        string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (d *Deployment) ToEntity() *entity.Deployment {
	return &entity.Deployment{
		ID:         entity.NewID(d.ID),
		ProjectID:  entity.NewID(d.ProjectID),
		Action:     entity.DeploymentAction(d.Action),
		Status:     entity.DeploymentStatus(d.Status),
		Log:        d.Log,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}

func (d *Deployment) FromEntity(e *entity.Deployment) {
	if e.ID != "" {
		d.ID = e.ID.Uint()
	}
	if e.ProjectID != "" {
		d.ProjectID = e.ProjectID.Uint()
	}
	d.Action = string(e.Action)
	d.Status = string(e.Status)
	d.Log = e.Log
	d.StartedAt = e.StartedAt
	d.FinishedAt = e.FinishedAt
}
