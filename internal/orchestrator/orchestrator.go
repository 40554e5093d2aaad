package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeadev/zeacontrol/internal/entity"
	"github.com/zeadev/zeacontrol/internal/notify"
	"github.com/zeadev/zeacontrol/internal/remote"
	"github.com/zeadev/zeacontrol/internal/repository"
)

// ProxyConfigurator installs and removes the reverse-proxy route of a
// project. Satisfied by proxy.Configurator.
type ProxyConfigurator interface {
	Install(ctx context.Context, project *entity.Project, server *entity.Server) (string, error)
	Remove(ctx context.Context, project *entity.Project, server *entity.Server) (string, error)
}

// Orchestrator drives the project lifecycle: deploy, suspend, resume.
// Every attempt produces exactly one Deployment record, finalized exactly
// once. Remote execution failures are the only errors that change a
// project's status; proxy and notification failures are absorbed.
type Orchestrator struct {
	projects    repository.ProjectRepository
	servers     repository.ServerRepository
	deployments repository.DeploymentRepository
	executor    remote.Executor
	proxy       ProxyConfigurator
	notifier    notify.Notifier
	log         zerolog.Logger
	now         func() time.Time
}

func New(
	projects repository.ProjectRepository,
	servers repository.ServerRepository,
	deployments repository.DeploymentRepository,
	executor remote.Executor,
	proxy ProxyConfigurator,
	notifier notify.Notifier,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		projects:    projects,
		servers:     servers,
		deployments: deployments,
		executor:    executor,
		proxy:       proxy,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

// Deploy clones/updates the project sources on its server and (re)builds
// the compose workload. The deploying-status guard is advisory only: it
// reads then branches, so near-simultaneous invocations can still race.
func (o *Orchestrator) Deploy(ctx context.Context, projectID entity.ID) (*entity.Deployment, error) {
	project, server, err := o.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.Status == entity.ProjectStatusDeploying {
		o.log.Warn().Str("slug", project.Slug).Msg("already deploying, skipping")
		return nil, entity.ErrAlreadyInProgress
	}

	oldStatus := project.Status
	project.Status = entity.ProjectStatusDeploying
	// Persist the in-flight status before remote work starts so concurrent
	// observers see it.
	if project, err = o.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	dep, err := o.deployments.Create(ctx, &entity.Deployment{
		ProjectID: project.ID,
		Action:    entity.ActionDeploy,
		Status:    entity.DeploymentStatusRunning,
		StartedAt: o.now(),
	})
	if err != nil {
		return nil, err
	}

	log, execErr := o.executor.Execute(ctx, targetOf(server), buildDeployScript(project, server))

	if execErr == nil {
		// Routing is best-effort: the workload is already up, so a proxy
		// failure is captured in the log but does not fail the deployment.
		if proxyLog, perr := o.proxy.Install(ctx, project, server); perr != nil {
			log += "\n--- NGINX ERROR ---\n" + perr.Error()
			o.log.Warn().Err(perr).Str("slug", project.Slug).Msg("nginx route not installed")
		} else if proxyLog != "" {
			log += "\n--- NGINX ---\n" + proxyLog
		}

		dep.Status = entity.DeploymentStatusSuccess
		project.Status = entity.ProjectStatusActive
		o.stampLastDeploy(project)
		o.notifier.Notify(ctx, notify.DeploySuccess(project, server))
	} else {
		log += "\nDEPLOY ERROR: " + execErr.Error()
		dep.Status = entity.DeploymentStatusFailed
		project.Status = entity.ProjectStatusFailed
		o.stampLastDeploy(project)
		o.notifier.Notify(ctx, notify.DeployFailed(project, server, execErr.Error()))
	}

	dep = o.finalize(ctx, dep, log)
	o.persistStatus(ctx, project, oldStatus)
	return dep, execErr
}

// Suspend stops the project's compose workload and removes its proxy
// route. There is no re-entrancy guard: stopping a stopped workload is a
// harmless repeat of the stop command. On remote failure the project
// status is left unchanged.
func (o *Orchestrator) Suspend(ctx context.Context, projectID entity.ID) (*entity.Deployment, error) {
	project, server, err := o.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	oldStatus := project.Status

	dep, err := o.deployments.Create(ctx, &entity.Deployment{
		ProjectID: project.ID,
		Action:    entity.ActionSuspend,
		Status:    entity.DeploymentStatusRunning,
		StartedAt: o.now(),
	})
	if err != nil {
		return nil, err
	}

	log, execErr := o.executor.Execute(ctx, targetOf(server), buildSuspendScript(project, server))

	if execErr == nil {
		if proxyLog, perr := o.proxy.Remove(ctx, project, server); perr != nil {
			log += "\n--- NGINX REMOVE ERROR ---\n" + perr.Error()
			o.log.Warn().Err(perr).Str("slug", project.Slug).Msg("nginx route not removed")
		} else if proxyLog != "" {
			log += "\n--- NGINX ---\n" + proxyLog
		}

		dep.Status = entity.DeploymentStatusSuccess
		project.Status = entity.ProjectStatusSuspended
	} else {
		log += "\nSUSPEND ERROR: " + execErr.Error()
		dep.Status = entity.DeploymentStatusFailed
		o.log.Error().Err(execErr).Str("slug", project.Slug).Msg("suspend failed")
	}

	dep = o.finalize(ctx, dep, log)
	o.persistStatus(ctx, project, oldStatus)
	return dep, execErr
}

// Resume restarts the existing compose workload without touching sources
// and reinstalls the proxy route. On remote failure the project status is
// left unchanged.
func (o *Orchestrator) Resume(ctx context.Context, projectID entity.ID) (*entity.Deployment, error) {
	project, server, err := o.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	oldStatus := project.Status

	dep, err := o.deployments.Create(ctx, &entity.Deployment{
		ProjectID: project.ID,
		Action:    entity.ActionResume,
		Status:    entity.DeploymentStatusRunning,
		StartedAt: o.now(),
	})
	if err != nil {
		return nil, err
	}

	log, execErr := o.executor.Execute(ctx, targetOf(server), buildResumeScript(project, server))

	if execErr == nil {
		if proxyLog, perr := o.proxy.Install(ctx, project, server); perr != nil {
			log += "\n--- NGINX ERROR ---\n" + perr.Error()
			o.log.Warn().Err(perr).Str("slug", project.Slug).Msg("nginx route not installed")
		} else if proxyLog != "" {
			log += "\n--- NGINX ---\n" + proxyLog
		}

		dep.Status = entity.DeploymentStatusSuccess
		project.Status = entity.ProjectStatusActive
		o.stampLastDeploy(project)
	} else {
		log += "\nRESUME ERROR: " + execErr.Error()
		dep.Status = entity.DeploymentStatusFailed
		o.log.Error().Err(execErr).Str("slug", project.Slug).Msg("resume failed")
	}

	dep = o.finalize(ctx, dep, log)
	o.persistStatus(ctx, project, oldStatus)
	return dep, execErr
}

// load fetches the project and its server. An unknown project id
// propagates entity.ErrNotFound without creating any audit record.
func (o *Orchestrator) load(ctx context.Context, projectID entity.ID) (*entity.Project, *entity.Server, error) {
	project, err := o.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	server, err := o.servers.GetByID(ctx, project.ServerID)
	if err != nil {
		return nil, nil, err
	}
	return project, server, nil
}

func (o *Orchestrator) stampLastDeploy(project *entity.Project) {
	t := o.now()
	project.LastDeployAt = &t
}

// finalize writes the captured log and finish timestamp exactly once.
func (o *Orchestrator) finalize(ctx context.Context, dep *entity.Deployment, log string) *entity.Deployment {
	t := o.now()
	dep.Log = log
	dep.FinishedAt = &t
	updated, err := o.deployments.Update(ctx, dep)
	if err != nil {
		o.log.Error().Err(err).Str("deployment", dep.ID.String()).Msg("failed to finalize deployment record")
		return dep
	}
	return updated
}

func (o *Orchestrator) persistStatus(ctx context.Context, project *entity.Project, oldStatus entity.ProjectStatus) {
	if _, err := o.projects.Update(ctx, project); err != nil {
		o.log.Error().Err(err).Str("slug", project.Slug).Msg("failed to persist project status")
		return
	}
	if project.Status != oldStatus {
		o.notifier.Notify(ctx, notify.StatusChange(project, oldStatus, project.Status))
	}
}

func targetOf(server *entity.Server) remote.Target {
	return remote.Target{Host: server.IPAddress, User: server.SSHUser, Port: server.SSHPort}
}
