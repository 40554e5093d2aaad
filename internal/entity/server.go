package entity

import "time"

// Server is a deploy target reachable over SSH. It is never deleted while
// projects reference it.
type Server struct {
	ID        ID
	Name      string
	IPAddress string
	SSHUser   string
	SSHPort   int
	BasePath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Server) FillDefaults() {
	if s.SSHUser == "" {
		s.SSHUser = "root"
	}
	if s.SSHPort == 0 {
		s.SSHPort = 22
	}
	if s.BasePath == "" {
		s.BasePath = "/srv/projects"
	}
}
