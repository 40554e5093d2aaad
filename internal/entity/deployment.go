package entity

import "time"

type DeploymentStatus string

const (
	DeploymentStatusPending DeploymentStatus = "pending"
	DeploymentStatusRunning DeploymentStatus = "running"
	DeploymentStatusSuccess DeploymentStatus = "success"
	DeploymentStatusFailed  DeploymentStatus = "failed"
)

type DeploymentAction string

const (
	ActionDeploy  DeploymentAction = "deploy"
	ActionSuspend DeploymentAction = "suspend"
	ActionResume  DeploymentAction = "resume"
)

// Deployment is the audit record of one orchestration attempt. It is
// created when the attempt starts and finalized exactly once; after
// FinishedAt is set it is never mutated.
type Deployment struct {
	ID         ID               `json:"id"`
	ProjectID  ID               `json:"project_id"`
	Action     DeploymentAction `json:"action"`
	Status     DeploymentStatus `json:"status"`
	Log        string           `json:"log"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at"`
}
