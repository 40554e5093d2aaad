package orchestrator

import (
	"strings"
	"testing"

	"github.com/zeadev/zeacontrol/internal/entity"
)

func scriptFixtures() (*entity.Project, *entity.Server) {
	project := &entity.Project{
		Slug:        "shop",
		RepoURL:     "https://github.com/acme/shop.git",
		Branch:      "main",
		ComposeFile: "docker-compose.prod.yml",
	}
	server := &entity.Server{BasePath: "/srv/projects"}
	return project, server
}

func TestBuildDeployScript(t *testing.T) {
	project, server := scriptFixtures()
	script := buildDeployScript(project, server)

	for _, want := range []string{
		"set -e",
		"mkdir -p '/srv/projects/shop'",
		"cd '/srv/projects/shop'",
		"if [ ! -d .git ]; then",
		"git clone 'https://github.com/acme/shop.git' .",
		"git fetch --all",
		"git checkout 'main'",
		"git reset --hard 'origin/main'",
		"docker compose -f 'docker-compose.prod.yml' up -d --build",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("deploy script missing %q:\n%s", want, script)
		}
	}
	if strings.Contains(script, ".env") {
		t.Errorf("deploy script writes .env without env vars:\n%s", script)
	}
}

func TestBuildDeployScriptWritesEnvFile(t *testing.T) {
	project, server := scriptFixtures()
	project.EnvVars = "SECRET_KEY=abc\nDEBUG=0"
	script := buildDeployScript(project, server)

	if !strings.Contains(script, "echo 'SECRET_KEY=abc\nDEBUG=0' > .env") {
		t.Errorf("deploy script missing env file step:\n%s", script)
	}
}

func TestBuildDeployScriptQuotesApostrophes(t *testing.T) {
	project, server := scriptFixtures()
	project.EnvVars = "MOTD=it's fine"
	script := buildDeployScript(project, server)

	if !strings.Contains(script, `it'\''s fine`) {
		t.Errorf("env blob not shell-quoted:\n%s", script)
	}
}

func TestBuildDeployScriptUsesCustomRemotePath(t *testing.T) {
	project, server := scriptFixtures()
	project.RemotePath = "/opt/custom"
	script := buildDeployScript(project, server)

	if !strings.Contains(script, "cd '/opt/custom'") {
		t.Errorf("custom remote path ignored:\n%s", script)
	}
}

func TestBuildSuspendScript(t *testing.T) {
	project, server := scriptFixtures()
	script := buildSuspendScript(project, server)

	if !strings.Contains(script, "docker compose -f 'docker-compose.prod.yml' stop") {
		t.Errorf("suspend script missing stop step:\n%s", script)
	}
	if strings.Contains(script, "git") {
		t.Errorf("suspend script touches git:\n%s", script)
	}
	if strings.Contains(script, "--volumes") || strings.Contains(script, "down") {
		t.Errorf("suspend script removes state:\n%s", script)
	}
}

func TestBuildResumeScript(t *testing.T) {
	project, server := scriptFixtures()
	script := buildResumeScript(project, server)

	if !strings.Contains(script, "docker compose -f 'docker-compose.prod.yml' up -d") {
		t.Errorf("resume script missing up step:\n%s", script)
	}
	if strings.Contains(script, "--build") {
		t.Errorf("resume script rebuilds images:\n%s", script)
	}
	if strings.Contains(script, "git") {
		t.Errorf("resume script touches git:\n%s", script)
	}
}
