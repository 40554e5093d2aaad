package proxy

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/remote"
)

const (
	availableDir = "/etc/nginx/sites-available"
	enabledDir   = "/etc/nginx/sites-enabled"
)

var routeTemplate = lo.Must(template.New("route").Parse(`server {
    listen 80;
    server_name {{.Domain}};

    client_max_body_size 50M;

    location / {
        proxy_pass http://127.0.0.1:{{.Port}};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
        proxy_read_timeout 300s;
        proxy_connect_timeout 75s;
    }

    location /static/ {
        alias {{.RemotePath}}/app/static/;
    }

    location /media/ {
        alias {{.RemotePath}}/app/media/;
    }
}`))

// Configurator installs and removes per-project nginx routes on the
// project's own server, over the same remote channel deployments use.
type Configurator struct {
	executor remote.Executor
	log      zerolog.Logger
}

func NewConfigurator(executor remote.Executor, log zerolog.Logger) *Configurator {
	return &Configurator{executor: executor, log: log}
}

// Render produces the nginx server block for a project. Empty when the
// project has no domain.
func Render(project *entity.Project, server *entity.Server) (string, error) {
	if project.Domain == "" {
		return "", nil
	}
	var b strings.Builder
	err := routeTemplate.Execute(&b, map[string]any{
		"Domain":     project.Domain,
		"Port":       project.InternalPort,
		"RemotePath": project.GetRemotePath(server),
	})
	if err != nil {
		return "", fmt.Errorf("render nginx route: %w", err)
	}
	return b.String(), nil
}

// Install writes the route file, links it into the enabled set, validates
// the configuration and reloads nginx. Each step is fail-fast. A project
// without a domain is a no-op with an empty result.
func (c *Configurator) Install(ctx context.Context, project *entity.Project, server *entity.Server) (string, error) {
	if project.Domain == "" {
		c.log.Info().Str("slug", project.Slug).Msg("no domain, skipping nginx route")
		return "", nil
	}

	config, err := Render(project, server)
	if err != nil {
		return "", err
	}
	filename := project.Slug + ".conf"

	var b strings.Builder
	b.WriteString("set -e\n")
	fmt.Fprintf(&b, "echo %s > %s/%s\n", shellQuote(config), availableDir, filename)
	fmt.Fprintf(&b, "ln -sf %s/%s %s/%s\n", availableDir, filename, enabledDir, filename)
	b.WriteString("nginx -t\n")
	b.WriteString("systemctl reload nginx\n")
	fmt.Fprintf(&b, "echo %s\n", shellQuote(fmt.Sprintf("nginx route %s -> port %d installed", project.Domain, project.InternalPort)))

	c.log.Info().Str("domain", project.Domain).Str("slug", project.Slug).Msg("installing nginx route")
	return c.executor.Execute(ctx, targetOf(server), b.String())
}

// Remove unlinks the route file, validates and reloads. Idempotent: a
// missing file is not an error. No-op without a domain.
func (c *Configurator) Remove(ctx context.Context, project *entity.Project, server *entity.Server) (string, error) {
	if project.Domain == "" {
		return "", nil
	}
	filename := project.Slug + ".conf"

	var b strings.Builder
	b.WriteString("set -e\n")
	fmt.Fprintf(&b, "rm -f %s/%s\n", enabledDir, filename)
	b.WriteString("nginx -t && systemctl reload nginx\n")
	fmt.Fprintf(&b, "echo %s\n", shellQuote(fmt.Sprintf("nginx route %s removed", project.Domain)))

	c.log.Info().Str("domain", project.Domain).Str("slug", project.Slug).Msg("removing nginx route")
	return c.executor.Execute(ctx, targetOf(server), b.String())
}

func targetOf(server *entity.Server) remote.Target {
	return remote.Target{Host: server.IPAddress, User: server.SSHUser, Port: server.SSHPort}
}

// shellQuote single-quotes a string for the remote shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
