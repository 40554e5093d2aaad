package orchestrator

import (
	"fmt"
	"strings"

	"github.com/zeadev/zeacontrol/internal/entity"
)

// Remote scripts are assembled from individually quoted steps so that
// project fields (branch, repo URL, env blob) cannot break out of the
// shell command.

func buildDeployScript(project *entity.Project, server *entity.Server) string {
	path := project.GetRemotePath(server)

	var b strings.Builder
	b.WriteString("set -e\n")
	fmt.Fprintf(&b, "mkdir -p %s\n", shellQuote(path))
	fmt.Fprintf(&b, "cd %s\n", shellQuote(path))
	b.WriteString("\n")
	b.WriteString("if [ ! -d .git ]; then\n")
	fmt.Fprintf(&b, "  git clone %s .\n", shellQuote(project.RepoURL))
	b.WriteString("fi\n")
	b.WriteString("\n")
	b.WriteString("git fetch --all\n")
	fmt.Fprintf(&b, "git checkout %s\n", shellQuote(project.Branch))
	fmt.Fprintf(&b, "git reset --hard %s\n", shellQuote("origin/"+project.Branch))

	if project.EnvVars != "" {
		fmt.Fprintf(&b, "echo %s > .env\n", shellQuote(project.EnvVars))
	}

	fmt.Fprintf(&b, "docker compose -f %s up -d --build\n", shellQuote(project.ComposeFile))
	return b.String()
}

func buildSuspendScript(project *entity.Project, server *entity.Server) string {
	var b strings.Builder
	b.WriteString("set -e\n")
	fmt.Fprintf(&b, "cd %s\n", shellQuote(project.GetRemotePath(server)))
	fmt.Fprintf(&b, "docker compose -f %s stop\n", shellQuote(project.ComposeFile))
	return b.String()
}

func buildResumeScript(project *entity.Project, server *entity.Server) string {
	var b strings.Builder
	b.WriteString("set -e\n")
	fmt.Fprintf(&b, "cd %s\n", shellQuote(project.GetRemotePath(server)))
	fmt.Fprintf(&b, "docker compose -f %s up -d\n", shellQuote(project.ComposeFile))
	return b.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
